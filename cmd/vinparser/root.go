package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	vinvalidator "github.com/vinkit/validator"
	"github.com/vinkit/validator/internal/config"
	"github.com/vinkit/validator/pkg/logger"
	"github.com/vinkit/validator/pkg/tables"
)

var (
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags. Flags that were set on the
// command line override the loaded config.
type rootFlags struct {
	verbose   bool
	cfgFile   string
	output    string
	dataset   string
	workers   int
	normalize bool
	strict    bool
	unknown   string
}

// app is the state shared by all subcommands of one invocation.
type app struct {
	flags   rootFlags
	cfg     *config.Config
	cfgPath string
	log     *logger.Logger
	metrics *vinvalidator.Metrics

	tables    *tables.Tables
	validator *vinvalidator.Validator
}

func newRootCommand() *cobra.Command {
	a := &app{metrics: vinvalidator.NewMetrics()}

	rootCmd := &cobra.Command{
		Use:   "vinparser",
		Short: "Validate and decode Vehicle Identification Numbers",
		Long: TitleStyle.Render("vinparser") + SubtitleStyle.Render(" - Validate and decode Vehicle Identification Numbers") + `

vinparser checks the structure and check digit of 17-character VINs
and decodes the country, manufacturer and region they were assigned to.

` + SubtitleStyle.Render("Examples:") + `
  vinparser check 1HGCM82633A004352       Check length and characters
  vinparser checksum 1HGCM82633A004352    Verify the check digit
  vinparser decode 1HGCM82633A004352      Decode country, manufacturer, region
  vinparser batch vins.txt                Inspect one VIN per line
  vinparser tables lookup WBA             Look up a prefix in the tables
  vinparser config show                   Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&a.flags.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/vinparser/config.cue)")
	pf.StringVarP(&a.flags.output, "output", "o", "", "output format: text, json")
	pf.StringVar(&a.flags.dataset, "dataset", "", "embedded dataset name or path to a TOML dataset")
	pf.IntVar(&a.flags.workers, "workers", 0, "parallel workers for batch (0 = one per CPU)")
	pf.BoolVar(&a.flags.normalize, "normalize", false, "trim and upper-case input before validation")
	pf.BoolVar(&a.flags.strict, "strict", false, "treat check digit mismatches as invalid")
	pf.StringVar(&a.flags.unknown, "unknown", "", "placeholder for fields missing from the tables")

	rootCmd.AddCommand(
		newCheckCommand(a),
		newChecksumCommand(a),
		newDecodeCommand(a),
		newBatchCommand(a),
		newTablesCommand(a),
		newConfigCommand(a),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if vinvalidator.Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", vinvalidator.Version, Commit, BuildDate)
}

// Execute runs the root command and exits with the mapped status.
func Execute() {
	err := fang.Execute(
		context.Background(),
		newRootCommand(),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	os.Exit(exitCode(err))
}

// setup loads the configuration and applies flag overrides.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, path, err := config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: a.flags.cfgFile})
	if err != nil {
		return usageError(err)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = config.OutputFormat(strings.ToLower(a.flags.output))
	}
	if flags.Changed("dataset") {
		cfg.Dataset = a.flags.dataset
	}
	if flags.Changed("workers") {
		cfg.Workers = a.flags.workers
	}
	if flags.Changed("normalize") {
		cfg.Normalize = a.flags.normalize
	}
	if flags.Changed("strict") {
		cfg.Strict = a.flags.strict
	}
	if flags.Changed("unknown") && a.flags.unknown != "" {
		cfg.Unknown = a.flags.unknown
	}
	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}

	level := cfg.Level()
	if a.flags.verbose {
		level = logger.LevelDebug
	}
	a.log = logger.New(cmd.ErrOrStderr(), level)
	logger.SetDefault(a.log)
	a.cfg = cfg
	a.cfgPath = path

	if path != "" {
		a.log.Debug("config loaded", "path", path)
	}
	return nil
}

func (a *app) loadTables() (*tables.Tables, error) {
	if a.tables != nil {
		return a.tables, nil
	}
	t, err := vinvalidator.LoadTables(a.cfg.Dataset)
	if err != nil {
		return nil, usageError(err)
	}
	a.log.Debug("dataset loaded", "version", t.Version())
	a.tables = t
	return t, nil
}

func (a *app) newValidator() (*vinvalidator.Validator, error) {
	if a.validator != nil {
		return a.validator, nil
	}
	t, err := a.loadTables()
	if err != nil {
		return nil, err
	}
	opts := []vinvalidator.Option{
		vinvalidator.WithTables(t),
		vinvalidator.WithUnknown(a.cfg.Unknown),
		vinvalidator.WithStrictChecksum(a.cfg.Strict),
		vinvalidator.WithReportUnknown(a.flags.verbose),
		vinvalidator.WithWorkerCount(a.cfg.Workers),
		vinvalidator.WithLogger(a.log),
		vinvalidator.WithMetrics(a.metrics),
	}
	v, err := vinvalidator.New(append(opts, vinvalidator.BatchOptions()...)...)
	if err != nil {
		return nil, usageError(err)
	}
	a.validator = v
	return v, nil
}

// prepare applies --normalize to one input.
func (a *app) prepare(s string) string {
	if a.cfg.Normalize {
		return strings.ToUpper(strings.TrimSpace(s))
	}
	return s
}

func (a *app) jsonOutput() bool {
	return a.cfg.Output == config.OutputJSON
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
