// Package cli implements the evadb command tree.
//
// Every command that touches the configuration directory bootstraps it
// first, so a fresh machine needs no separate setup step.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/evadb/internal/bootstrap"
	"github.com/turtacn/evadb/internal/config"
	"github.com/turtacn/evadb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/evadb/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/evadb/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigDir       string
	InstallationDir string
	LocalAssets     bool
	LogFormat       string
	MetricsFile     string
	OutputFormat    string
	ProcessMetrics  bool
	Verbose         bool
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Options *RootOptions
	Logger  logging.Logger
	// Levels is shared with the bootstrapper, which sets it from core.mode.
	Levels  *logging.LevelController
	Metrics *prometheus.BootstrapMetrics
}

// ConfigFile returns <config-dir>/eva.yml.
func (c *CLIContext) ConfigFile() string {
	return filepath.Join(c.Options.ConfigDir, config.ConfigFileName)
}

// Bootstrapper returns a bootstrapper wired to the CLI's logger, level
// controller and metrics.
func (c *CLIContext) Bootstrapper() *bootstrap.Bootstrapper {
	opts := []bootstrap.Option{
		bootstrap.WithLevels(c.Levels),
		bootstrap.WithLogger(c.Logger),
		bootstrap.WithRecorder(c.Metrics),
	}
	if c.Options.LocalAssets {
		opts = append(opts, bootstrap.WithAssets(bootstrap.LocalResolver{InstallationDir: c.Options.InstallationDir}))
	}
	return bootstrap.New(opts...)
}

// Bootstrap runs the bootstrapper against the configured directories.
func (c *CLIContext) Bootstrap() (*bootstrap.Result, error) {
	res, err := c.Bootstrapper().Bootstrap(c.Options.ConfigDir, c.Options.InstallationDir)
	if err == nil && c.Options.Verbose {
		// --verbose wins over core.mode for the rest of the command
		c.Levels.SetLevel(logging.LevelDebug)
	}
	return res, err
}

// NewRootCommand creates the root cobra command with all global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "evadb",
		Short:   "EVA video database command line",
		Long:    "evadb prepares and inspects the EVA configuration directory (~/.eva):\nthe eva.yml configuration, the bundled user-defined functions and the\ndata directories the database server reads and writes.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPostRun(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default: ~/.eva)")
	pf.StringVar(&opts.InstallationDir, "installation-dir", "", "directory holding the default eva.yml and udfs/ (default: $"+config.EnvInstallationDir+" or the executable's directory)")
	pf.BoolVar(&opts.LocalAssets, "local-assets", false, "copy eva.yml from the installation directory instead of the packaged copy")
	pf.StringVar(&opts.LogFormat, "log-format", "console", "log encoding (console, json)")
	pf.StringVar(&opts.MetricsFile, "metrics-file", "", "write bootstrap metrics to this node-exporter textfile on exit")
	pf.BoolVar(&opts.ProcessMetrics, "process-metrics", false, "include eva_process_* metrics in --metrics-file")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level regardless of core.mode")

	cmd.AddCommand(
		NewBootstrapCmd(),
		NewConfigCmd(),
		NewDoctorCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// persistentPreRun resolves directories, builds the logger and metrics, then
// stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	if opts.ConfigDir == "" {
		home, err := config.DefaultHomeDir()
		if err != nil {
			return fmt.Errorf("resolve config directory: %w", err)
		}
		opts.ConfigDir = home
	}
	if opts.InstallationDir == "" {
		opts.InstallationDir = config.DefaultInstallationDir()
	}

	levels := logging.NewLevelController(logging.LevelInfo)
	if opts.Verbose {
		levels.SetLevel(logging.LevelDebug)
	}
	logger, err := logging.NewLogger(logging.LogConfig{
		Format: opts.LogFormat,
		Levels: levels,
	})
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logger = logger.Named("evadb")
	logging.SetDefault(logger)

	metrics, err := prometheus.NewDefaultBootstrapMetrics(opts.ProcessMetrics)
	if err != nil {
		return fmt.Errorf("metrics initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Options: opts,
		Logger:  logger,
		Levels:  levels,
		Metrics: metrics,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

func persistentPostRun(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = cliCtx.Logger.Sync() }()
	return writeMetrics(cliCtx)
}

func writeMetrics(cliCtx *CLIContext) error {
	if cliCtx.Options.MetricsFile == "" {
		return nil
	}
	if err := cliCtx.Metrics.WriteTextfile(cliCtx.Options.MetricsFile); err != nil {
		return err
	}
	cliCtx.Logger.Debug("metrics written", logging.String(logging.FieldPath, cliCtx.Options.MetricsFile))
	return nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.CodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.CodeInternal, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute runs the command tree under ctx and prints any error to stderr.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	executed, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		PrintError(rootCmd, err)
		// PersistentPostRun is skipped on failure; a failed bootstrap is
		// still exported
		if executed != nil {
			if cliCtx, ctxErr := GetCLIContext(executed); ctxErr == nil {
				_ = writeMetrics(cliCtx)
			}
		}
		return err
	}
	return nil
}

// PrintResult outputs data in the format specified by --output.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return printJSON(cmd, data)
	}

	switch strings.ToLower(cliCtx.Options.OutputFormat) {
	case "json":
		return printJSON(cmd, data)
	case "table":
		return printTable(cmd, data)
	default:
		return printText(cmd, data)
	}
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(cmd *cobra.Command, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	case fmt.Stringer:
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", v)
	}
	return nil
}

// tableProvider is implemented by results that render as rows.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

func printTable(cmd *cobra.Command, data interface{}) error {
	if tp, ok := data.(tableProvider); ok {
		fmt.Fprint(cmd.OutOrStdout(), FormatTable(tp.TableHeaders(), tp.TableRows()))
		return nil
	}
	return printText(cmd, data)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			if i == len(headers)-1 {
				sb.WriteString(val)
			} else {
				sb.WriteString(padRight(val, colWidths[i]))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(colWidths))
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
