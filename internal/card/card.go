package card

import (
	"strings"
)

// DefaultCondition is assumed when a query carries no condition.
const DefaultCondition = "Raw"

// sep joins signature parts; it does not occur in card names or set codes.
const sep = "|"

// Query describes a single card to be priced. ID is an optional caller
// supplied identifier that is echoed back and never affects pricing.
type Query struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Set       string `json:"set,omitempty"`
	Number    string `json:"number,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// Signature is the normalized cache and dedupe key of a Query.
func (q Query) Signature() string {
	cond := q.Condition
	if strings.TrimSpace(cond) == "" {
		cond = DefaultCondition
	}
	parts := [...]string{q.Name, q.Set, q.Number, cond}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts[:], sep)
}

// Signature is a convenience for Query{...}.Signature().
func Signature(name, set, number, condition string) string {
	return Query{Name: name, Set: set, Number: number, Condition: condition}.Signature()
}

// HasName reports whether the required name field is present.
func (q Query) HasName() bool { return strings.TrimSpace(q.Name) != "" }
