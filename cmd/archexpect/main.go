package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/unbound-force/archexpect/internal/check"
	"github.com/unbound-force/archexpect/internal/config"
	"github.com/unbound-force/archexpect/internal/loader"
	"github.com/unbound-force/archexpect/internal/report"
	"github.com/unbound-force/archexpect/internal/scaffold"
	"github.com/unbound-force/archexpect/internal/scan"
	"github.com/unbound-force/archexpect/internal/taxonomy"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "archexpect",
		Short: "archexpect: expected access messages for architecture tests",
		Long: `archexpect describes expected member accesses (method calls,
constructor calls, field reads and writes) and renders them into the
exact diagnostics an access analysis reports, so tests can assert on
reported violations.`,
		Version: version,
	}

	root.AddCommand(newRenderCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newInitCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configOverrides holds flag values that take precedence over the
// config file. Empty format and nil tests leave the file's value.
type configOverrides struct {
	format string
	tests  *bool
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig(path string, o configOverrides) (*config.ExpectConfig, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.format != "" {
		cfg.Format = o.format
	}
	if o.tests != nil {
		cfg.Tests = *o.tests
	}
	if err := validateFormat(cfg.Format); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateFormat(format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", format)
	}
	return nil
}

// renderParams holds the parsed flags for the render command.
type renderParams struct {
	configPath string
	stdout     io.Writer
}

// runRender is the extracted, testable body of the render command.
func runRender(p renderParams) error {
	cfg, err := loadConfig(p.configPath, configOverrides{})
	if err != nil {
		return err
	}
	exps, err := cfg.Expectations()
	if err != nil {
		return err
	}
	if len(exps) == 0 {
		logger.Warn("no expectations configured")
		return nil
	}

	msgs := make([]string, 0, len(exps))
	for i, e := range exps {
		msg, err := e.Message()
		if err != nil {
			return fmt.Errorf("expectation %d: %w", i, err)
		}
		msgs = append(msgs, msg)
	}
	return report.WriteMessages(p.stdout, msgs)
}

func newRenderCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the message each configured expectation renders to",
		Long: `Render every expectation of the config file into the diagnostic
message it expects, one per line. Every expectation needs a line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(renderParams{
				configPath: configPath,
				stdout:     cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to the expectations file (default: "+config.DefaultFile+")")

	return cmd
}

// scanParams holds the parsed flags for the scan command.
type scanParams struct {
	patterns   []string
	configPath string
	overrides  configOverrides
	stdout     io.Writer
}

// runScan is the extracted, testable body of the scan command.
func runScan(ctx context.Context, p scanParams) error {
	cfg, err := loadConfig(p.configPath, p.overrides)
	if err != nil {
		return err
	}

	accesses, err := scanPatterns(ctx, p.patterns, cfg.Tests)
	if err != nil {
		return err
	}

	records := make([]taxonomy.AccessRecord, 0, len(accesses))
	for _, a := range accesses {
		rec, err := a.Record()
		if err != nil {
			return fmt.Errorf("rendering access at %s: %w", a.Position, err)
		}
		records = append(records, rec)
	}

	switch cfg.Format {
	case "json":
		return report.WriteScanJSON(p.stdout, records, version)
	default:
		return report.WriteScanText(p.stdout, records)
	}
}

func scanPatterns(ctx context.Context, patterns []string, tests bool) ([]scan.Access, error) {
	logger.Info("loading packages", "patterns", patterns, "tests", tests)
	pkgs, err := loader.LoadAll(patterns, loader.Options{Tests: tests})
	if err != nil {
		return nil, err
	}

	accesses, err := scan.ScanAll(ctx, pkgs)
	if err != nil {
		return nil, err
	}
	logger.Info("scan complete", "packages", len(pkgs), "accesses", len(accesses))
	return accesses, nil
}

func newScanCmd() *cobra.Command {
	var (
		configPath string
		format     string
		tests      bool
	)

	cmd := &cobra.Command{
		Use:   "scan [packages...]",
		Short: "Print every access found in Go packages",
		Long: `Scan Go packages for method calls, constructor calls and field
accesses and print the diagnostic reported for each one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), scanParams{
				patterns:   args,
				configPath: configPath,
				overrides:  overridesFromFlags(cmd, format, tests),
				stdout:     cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to the config file (default: "+config.DefaultFile+")")
	cmd.Flags().StringVar(&format, "format", "",
		"output format: text or json (default: from config, else text)")
	cmd.Flags().BoolVar(&tests, "tests", false,
		"include test files")

	return cmd
}

// checkParams holds the parsed flags for the check command.
type checkParams struct {
	patterns    []string
	configPath  string
	overrides   configOverrides
	interactive bool
	stdout      io.Writer
}

// runCheck is the extracted, testable body of the check command.
func runCheck(ctx context.Context, p checkParams) error {
	start := time.Now()

	cfg, err := loadConfig(p.configPath, p.overrides)
	if err != nil {
		return err
	}
	exps, err := cfg.Expectations()
	if err != nil {
		return err
	}
	if len(exps) == 0 {
		return fmt.Errorf("no expectations configured")
	}

	accesses, err := scanPatterns(ctx, p.patterns, cfg.Tests)
	if err != nil {
		return err
	}

	results, err := check.Run(exps, accesses)
	if err != nil {
		return err
	}
	sum := taxonomy.Summarize(results)
	logger.Info("check complete", "expectations", sum.Total, "found", sum.Satisfied, "missing", sum.Missing)

	if p.interactive {
		if err := runInteractiveCheck(results); err != nil {
			return err
		}
	} else if err := writeCheckReport(p.stdout, cfg.Format, results, &taxonomy.Metadata{
		Version:   version,
		GoVersion: runtime.Version(),
		Patterns:  p.patterns,
		Timestamp: start,
		Duration:  time.Since(start),
	}); err != nil {
		return err
	}

	if sum.Missing > 0 {
		return fmt.Errorf("%d of %d expectation(s) missing", sum.Missing, sum.Total)
	}
	return nil
}

// writeCheckReport outputs the check results in the requested format.
func writeCheckReport(w io.Writer, format string, results []taxonomy.ExpectationResult, md *taxonomy.Metadata) error {
	switch format {
	case "json":
		return report.WriteJSONWithMetadata(w, results, version, md)
	default:
		return report.WriteText(w, results)
	}
}

func newCheckCmd() *cobra.Command {
	var (
		configPath  string
		format      string
		tests       bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "check [packages...]",
		Short: "Verify configured expectations against Go packages",
		Long: `Scan Go packages and verify that every configured expectation
is reported with exactly the message it renders to. Exits non-zero
when any expectation is missing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), checkParams{
				patterns:    args,
				configPath:  configPath,
				overrides:   overridesFromFlags(cmd, format, tests),
				interactive: interactive,
				stdout:      cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to the expectations file (default: "+config.DefaultFile+")")
	cmd.Flags().StringVar(&format, "format", "",
		"output format: text or json (default: from config, else text)")
	cmd.Flags().BoolVar(&tests, "tests", false,
		"include test files")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing results")

	return cmd
}

// overridesFromFlags only overrides tests when the flag was given.
func overridesFromFlags(cmd *cobra.Command, format string, tests bool) configOverrides {
	o := configOverrides{format: format}
	if cmd.Flags().Changed("tests") {
		o.tests = &tests
	}
	return o
}

func newSchemaCmd() *cobra.Command {
	var scanOutput bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for archexpect output",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of archexpect check --format=json output, or of scan output
with --scan. Useful for validating output or generating client types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := report.Schema
			if scanOutput {
				schema = report.ScanSchema
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), schema)
			return err
		},
	}

	cmd.Flags().BoolVar(&scanOutput, "scan", false,
		"print the schema of scan output instead")

	return cmd
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + config.DefaultFile,
		Long: `Write a starter expectations file to the current directory.
Existing files are kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := scaffold.Run(scaffold.Options{
				Force:   force,
				Version: version,
				Stdout:  cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"overwrite existing files")

	return cmd
}
