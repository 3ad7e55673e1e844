package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ace/internal/diagfmt"
	"ace/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.ace>",
	Short: "Parse an Ace source file and report syntax diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to read max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if result.Bag.Len() > 0 {
		color, colorErr := useColor(cmd, os.Stderr)
		if colorErr != nil {
			return colorErr
		}
		diagfmt.Pretty(os.Stderr, result.Bag, diagfmt.Options{Color: color, Context: 1})
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d top-level items\n", args[0], len(result.AST.Items)) //nolint:errcheck
	}

	if result.Bag.HasErrors() {
		os.Exit(1)
	}
	return nil
}
