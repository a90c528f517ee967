package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"cardtrack/internal/card"
	"cardtrack/internal/pricing"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file.json|->",
	Short: "Quote a list of cards read from a JSON file.",
	Long: `Quote a list of cards. The input is either a JSON array of cards or an
object of the form {"items": [...]}, the same body POST /prices accepts.
Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := readItems(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		if err := pricing.Validate(items); err != nil {
			return err
		}

		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		out, err := a.Batcher.Resolve(cmd.Context(), items, pricing.Options{})
		if err != nil {
			return err
		}
		return writeQuotes(cmd.OutOrStdout(), items, out.Quotes, out.Limited)
	},
}

// readItems decodes the batch input from path, or stdin when path is "-".
func readItems(stdin io.Reader, path string) ([]card.Query, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open batch file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read batch input: %w", err)
	}

	var items []card.Query
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var body struct {
		Items []card.Query `json:"items"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode batch input: %w", err)
	}
	return body.Items, nil
}
