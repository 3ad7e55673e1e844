package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"ace/internal/diag"
	"ace/internal/diagfmt"
	"ace/internal/dump"
	"ace/internal/ui"
)

// reportDiagnostics renders bag according to the --format/--interactive
// flags shared by `check` and `build`, returning whether bag contains any
// Error-severity diagnostic.
func reportDiagnostics(cmd *cobra.Command, bag *diag.Bag) (bool, error) {
	interactive, err := cmd.Flags().GetBool("interactive")
	if err != nil {
		return false, err
	}
	if interactive {
		if _, err := tea.NewProgram(ui.NewBrowserModel(bag)).Run(); err != nil {
			return false, fmt.Errorf("interactive browser: %w", err)
		}
		return bag.HasErrors(), nil
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return false, err
	}
	switch format {
	case "msgpack":
		if err := dump.EncodeDiagnostics(cmd.OutOrStdout(), bag); err != nil {
			return false, err
		}
	default:
		color, colorErr := useColor(cmd, os.Stdout)
		if colorErr != nil {
			return false, colorErr
		}
		diagfmt.Pretty(cmd.OutOrStdout(), bag, diagfmt.Options{Color: color, Context: 2, ShowNotes: true})
	}
	return bag.HasErrors(), nil
}
