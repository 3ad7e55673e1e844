package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ace/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.ace...>",
	Short: "Lex, parse, bind, type-check, lower, and analyze one or more Ace files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|msgpack)")
	checkCmd.Flags().Bool("interactive", false, "browse diagnostics in an interactive TUI")
	checkCmd.Flags().Int("jobs", 0, "max parallel file loads (0=no limit)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	unit, err := driver.Compile(cmd.Context(), args, driver.Options{Jobs: jobs, MaxDiagnosticsPerFile: maxDiagnostics})
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	hasErrors, err := reportDiagnostics(cmd, unit.Bag)
	if err != nil {
		return err
	}
	if hasErrors {
		os.Exit(1)
	}
	return nil
}
