package main

import (
	"cardtrack/internal/card"
	"cardtrack/internal/pricing"

	"github.com/spf13/cobra"
)

var (
	quoteQuery card.Query
	quoteDebug bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Quote a single card.",
	Example: `  cardtrack quote --name Charizard --set "Base Set" --number 4 --condition "PSA 10"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		if err := pricing.Validate([]card.Query{quoteQuery}); err != nil {
			return err
		}
		res := a.Resolver.Resolve(cmd.Context(), quoteQuery, pricing.Options{Debug: quoteDebug})
		if err := writeQuotes(cmd.OutOrStdout(), []card.Query{quoteQuery}, []pricing.Quote{res.Quote}, res.Limited); err != nil {
			return err
		}
		if quoteDebug && res.Meta != nil {
			return writeMeta(cmd.OutOrStdout(), res.Meta)
		}
		return nil
	},
}

func init() {
	f := quoteCmd.Flags()
	f.StringVar(&quoteQuery.Name, "name", "", "card name (required)")
	f.StringVar(&quoteQuery.Set, "set", "", "set name or code")
	f.StringVar(&quoteQuery.Number, "number", "", "collector number")
	f.StringVar(&quoteQuery.Condition, "condition", "", "condition or grade, e.g. \"PSA 10\" (default raw)")
	f.BoolVar(&quoteDebug, "debug", false, "print resolution diagnostics")
	_ = quoteCmd.MarkFlagRequired("name")
}
