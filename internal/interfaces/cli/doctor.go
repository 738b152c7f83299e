package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/evadb/internal/bootstrap"
	"github.com/turtacn/evadb/internal/config"
	"github.com/turtacn/evadb/internal/infrastructure/database/catalog"
	"github.com/turtacn/evadb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/evadb/pkg/errors"
)

// Check statuses.
const (
	StatusOK   = "ok"
	StatusWarn = "warn"
	StatusFail = "fail"
)

// Check is one doctor finding.
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// DoctorReport is the result of the doctor command.
type DoctorReport struct {
	Checks []Check `json:"checks"`
}

// Failed reports whether any check failed.
func (r DoctorReport) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}

func (r DoctorReport) TableHeaders() []string {
	return []string{"CHECK", "STATUS", "DETAIL"}
}

func (r DoctorReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Checks))
	for _, c := range r.Checks {
		rows = append(rows, []string{c.Name, c.Status, c.Detail})
	}
	return rows
}

func (r DoctorReport) String() string {
	return strings.TrimRight(FormatTable(r.TableHeaders(), r.TableRows()), "\n")
}

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Bootstrap, then check directories and the catalog database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			res, err := cliCtx.Bootstrap()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			report := runDoctor(ctx, res, cliCtx.Logger)
			if err := PrintResult(cmd, report); err != nil {
				return err
			}
			if report.Failed() {
				return errors.New(errors.CodeInternal, "doctor found problems")
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", catalog.DefaultPingTimeout, "catalog connection timeout")
	return cmd
}

func runDoctor(ctx context.Context, res *bootstrap.Result, log logging.Logger) DoctorReport {
	var report DoctorReport
	add := func(name, status, detail string) {
		report.Checks = append(report.Checks, Check{Name: name, Status: status, Detail: detail})
	}

	add("config_file", StatusOK, res.ConfigFile)
	add("core.mode", StatusOK, fmt.Sprintf("%s (log level %s)", res.Mode, res.Level))

	for _, dir := range []struct {
		name     string
		path     string
		required bool
	}{
		{"udfs", filepath.Join(res.ConfigDir, config.UDFDirName), true},
		{"storage.upload_dir", config.ReadString(res.Document, "storage", "upload_dir"), true},
		{"core.datasets_dir", config.ReadString(res.Document, "core", "datasets_dir"), false},
	} {
		name, status, detail := checkDir(dir.name, dir.path, dir.required)
		add(name, status, detail)
	}

	add(checkCatalog(ctx, config.ReadString(res.Document, "core", "catalog_database_uri"), log))
	return report
}

func checkDir(name, path string, required bool) (string, string, string) {
	if path == "" {
		return name, StatusFail, "not set"
	}
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return name, StatusOK, path
	case err == nil:
		return name, StatusFail, path + " is not a directory"
	case os.IsNotExist(err) && !required:
		return name, StatusWarn, path + " does not exist yet"
	default:
		return name, StatusFail, err.Error()
	}
}

// checkCatalog pings the catalog.  A sqlite file that does not exist yet is
// reported rather than created.
func checkCatalog(ctx context.Context, uri string, log logging.Logger) (string, string, string) {
	const name = "catalog"
	target, err := catalog.ParseURI(uri)
	if err != nil {
		return name, StatusFail, err.Error()
	}
	if target.Driver == catalog.DriverSQLite && !target.InMemory() {
		if _, err := os.Stat(target.DSN); os.IsNotExist(err) {
			return name, StatusWarn, target.Display + " does not exist yet"
		}
	}
	if err := catalog.Ping(ctx, uri, log); err != nil {
		return name, StatusFail, err.Error()
	}
	return name, StatusOK, target.Display
}
