package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/evadb/internal/bootstrap"
	"github.com/turtacn/evadb/internal/config"
)

// BootstrapSummary is the printable outcome of a bootstrap run.
type BootstrapSummary struct {
	RunID       string   `json:"run_id"`
	ConfigFile  string   `json:"config_file"`
	Mode        string   `json:"mode"`
	LogLevel    string   `json:"log_level"`
	DatasetsDir string   `json:"datasets_dir"`
	CatalogURI  string   `json:"catalog_database_uri"`
	UploadDir   string   `json:"upload_dir"`
	Provisioned []string `json:"provisioned"`
	Filled      []string `json:"filled"`
	Rewritten   bool     `json:"rewritten"`
}

func newBootstrapSummary(res *bootstrap.Result) BootstrapSummary {
	return BootstrapSummary{
		RunID:       res.RunID,
		ConfigFile:  res.ConfigFile,
		Mode:        res.Mode,
		LogLevel:    res.Level.String(),
		DatasetsDir: config.ReadString(res.Document, "core", "datasets_dir"),
		CatalogURI:  config.ReadString(res.Document, "core", "catalog_database_uri"),
		UploadDir:   config.ReadString(res.Document, "storage", "upload_dir"),
		Provisioned: nonNil(res.Provisioned),
		Filled:      nonNil(res.Filled),
		Rewritten:   res.Rewritten,
	}
}

func (s BootstrapSummary) TableHeaders() []string {
	return []string{"SETTING", "VALUE"}
}

func (s BootstrapSummary) TableRows() [][]string {
	return [][]string{
		{"config_file", s.ConfigFile},
		{"core.mode", s.Mode},
		{"log_level", s.LogLevel},
		{"core.datasets_dir", s.DatasetsDir},
		{"core.catalog_database_uri", s.CatalogURI},
		{"storage.upload_dir", s.UploadDir},
		{"provisioned", joinOrDash(s.Provisioned)},
		{"filled", joinOrDash(s.Filled)},
		{"rewritten", fmt.Sprintf("%t", s.Rewritten)},
	}
}

func (s BootstrapSummary) String() string {
	if len(s.Provisioned) == 0 && !s.Rewritten {
		return fmt.Sprintf("%s is up to date (mode %s)", s.ConfigFile, s.Mode)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "bootstrapped %s (mode %s)\n", s.ConfigFile, s.Mode)
	if len(s.Provisioned) > 0 {
		fmt.Fprintf(&sb, "  provisioned: %s\n", strings.Join(s.Provisioned, ", "))
	}
	if len(s.Filled) > 0 {
		fmt.Fprintf(&sb, "  filled:      %s", strings.Join(s.Filled, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// NewBootstrapCmd creates the bootstrap command.
func NewBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Prepare the configuration directory",
		Long: `Create the configuration directory if needed, copy the default eva.yml and
user-defined functions into it, apply core.mode to the log level and fill
core.datasets_dir, core.catalog_database_uri and storage.upload_dir when
they are unset.  Running it again on a prepared directory changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			res, err := cliCtx.Bootstrap()
			if err != nil {
				return err
			}
			return PrintResult(cmd, newBootstrapSummary(res))
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func joinOrDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ",")
}
