package card

import (
	"fmt"
	"strings"
)

// Field names a Query attribute usable in a search phrasing.
type Field string

const (
	FieldName      Field = "name"
	FieldSet       Field = "set"
	FieldNumber    Field = "number"
	FieldCondition Field = "condition"
)

// Pass is one keyword phrasing: the ordered fields joined into a search string.
type Pass []Field

// DefaultPasses go from most to least specific.
var DefaultPasses = []Pass{
	{FieldName, FieldSet, FieldNumber, FieldCondition},
	{FieldName, FieldSet, FieldNumber},
	{FieldName, FieldNumber},
}

// ParsePasses parses phrasings written as space separated field names,
// e.g. "name set number".
func ParsePasses(specs []string) ([]Pass, error) {
	out := make([]Pass, 0, len(specs))
	for _, s := range specs {
		fields := strings.Fields(strings.ToLower(s))
		if len(fields) == 0 {
			continue
		}
		p := make(Pass, 0, len(fields))
		for _, f := range fields {
			switch Field(f) {
			case FieldName, FieldSet, FieldNumber, FieldCondition:
				p = append(p, Field(f))
			default:
				return nil, fmt.Errorf("keyword pass %q: unknown field %q", s, f)
			}
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no keyword passes")
	}
	return out, nil
}

func (p Pass) String() string {
	parts := make([]string, len(p))
	for i, f := range p {
		parts[i] = string(f)
	}
	return strings.Join(parts, " ")
}

func (q Query) field(f Field) string {
	switch f {
	case FieldName:
		return strings.TrimSpace(q.Name)
	case FieldSet:
		return strings.TrimSpace(q.Set)
	case FieldNumber:
		return strings.TrimSpace(q.Number)
	case FieldCondition:
		// The default condition says nothing about the listing, so it is
		// never worth narrowing a search for.
		c := strings.TrimSpace(q.Condition)
		if strings.EqualFold(c, DefaultCondition) {
			return ""
		}
		return c
	}
	return ""
}

// Keywords renders the query through each pass, skipping empty fields.
// Phrasings without a name, empty phrasings and repeats of an earlier
// phrasing are dropped, so the result may be shorter than passes.
func (q Query) Keywords(passes []Pass) []string {
	if !q.HasName() {
		return nil
	}
	out := make([]string, 0, len(passes))
	seen := make(map[string]struct{}, len(passes))
	for _, p := range passes {
		words := make([]string, 0, len(p))
		hasName := false
		for _, f := range p {
			v := q.field(f)
			if v == "" {
				continue
			}
			if f == FieldName {
				hasName = true
			}
			words = append(words, v)
		}
		if !hasName {
			continue
		}
		kw := strings.Join(words, " ")
		key := strings.ToLower(kw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, kw)
	}
	return out
}
