package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ace/internal/diagfmt"
	"ace/internal/driver"
	"ace/internal/dump"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file.ace>",
	Short: "Tokenize an Ace source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to read format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to read max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenize: %w", err)
	}

	if result.Bag.Len() > 0 {
		color, colorErr := useColor(cmd, os.Stderr)
		if colorErr != nil {
			return colorErr
		}
		diagfmt.Pretty(os.Stderr, result.Bag, diagfmt.Options{Color: color, Context: 1})
	}

	switch format {
	case "pretty":
		for _, t := range result.Tokens {
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %q\n", t.Kind.String(), t.Text) //nolint:errcheck
		}
		return nil
	case "json":
		type jsonToken struct {
			Kind  string `json:"kind"`
			Text  string `json:"text"`
			Begin int    `json:"begin"`
			End   int    `json:"end"`
		}
		out := make([]jsonToken, len(result.Tokens))
		for i, t := range result.Tokens {
			out[i] = jsonToken{Kind: t.Kind.String(), Text: t.Text, Begin: t.Loc.Begin, End: t.Loc.End}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "msgpack":
		return dump.EncodeTokens(cmd.OutOrStdout(), result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
