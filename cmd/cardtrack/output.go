package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"cardtrack/internal/card"
	"cardtrack/internal/pricing"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	externalColor = color.New(color.FgGreen, color.Bold)
	mockColor     = color.New(color.FgHiBlack)
	limitedColor  = color.New(color.FgYellow)
)

// sourceLabel colors the source column so mock prices stand out.
func sourceLabel(s pricing.Source) string {
	if s == pricing.SourceExternal {
		return externalColor.Sprint(string(s))
	}
	return mockColor.Sprint(string(s))
}

// writeQuotes renders quotes as a table, one row per input item.
func writeQuotes(w io.Writer, items []card.Query, quotes []pricing.Quote, limited bool) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Name", "Set", "Number", "Condition", "Price", "Source", "Samples", "Observed"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for i, q := range quotes {
		var it card.Query
		if i < len(items) {
			it = items[i]
		}
		cond := it.Condition
		if cond == "" {
			cond = card.DefaultCondition
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			it.Name,
			it.Set,
			it.Number,
			cond,
			strconv.FormatFloat(q.Price, 'f', 2, 64),
			sourceLabel(q.Source),
			strconv.Itoa(q.SampleCount),
			q.ObservedAt.Format("2006-01-02 15:04:05Z07:00"),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if limited {
		if _, err := fmt.Fprintln(w, limitedColor.Sprint("eBay rate limit reached: remaining cards were priced without a live lookup")); err != nil {
			return err
		}
	}
	return nil
}

// writeMeta prints the debug payload as indented JSON.
func writeMeta(w io.Writer, m *pricing.Meta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
