package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ace/internal/config"
	"ace/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [package-dir]",
	Short: "Check every source file a package manifest declares",
	Long: `build locates the package's ace.toml manifest (walking upward from
package-dir, or the current directory if omitted), discovers its source
files, and runs the full check pipeline over all of them. It reports
diagnostics the same way check does; it does not emit machine code —
codegen and linking are out of scope for this tool.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|msgpack)")
	buildCmd.Flags().Bool("interactive", false, "browse diagnostics in an interactive TUI")
	buildCmd.Flags().Int("jobs", 0, "max parallel file loads (0=no limit)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	manifestPath, ok, err := config.FindManifest(startDir)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if !ok {
		return fmt.Errorf("build: no ace.toml found above %s", startDir)
	}
	manifest, err := config.Load(manifestPath)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	sources, err := config.CollectSources(manifest.SourceRoots(manifestPath))
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("build: package %q declares no .ace source files", manifest.Package.Name)
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	unit, err := driver.Compile(cmd.Context(), sources, driver.Options{Jobs: jobs, MaxDiagnosticsPerFile: maxDiagnostics})
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	hasErrors, err := reportDiagnostics(cmd, unit.Bag)
	if err != nil {
		return err
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	if !hasErrors && !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d files checked clean\n", manifest.Package.Name, len(unit.Files)) //nolint:errcheck
	}
	if hasErrors {
		os.Exit(1)
	}
	return nil
}
