package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/turtacn/evadb/internal/bootstrap"
	"github.com/turtacn/evadb/internal/config"
	"github.com/turtacn/evadb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/evadb/pkg/errors"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Read and edit eva.yml",
		Long: `Read and edit the eva.yml in the configuration directory.  Keys are
addressed as section.key, for example core.mode or storage.upload_dir.`,
	}
	configCmd.AddCommand(
		newConfigGetCmd(),
		newConfigSetCmd(),
		newConfigShowCmd(),
		newConfigWatchCmd(),
	)
	return configCmd
}

// ConfigValue is a single key as printed by config get and config set.
type ConfigValue struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func (v ConfigValue) String() string {
	switch val := v.Value.(type) {
	case string:
		return val
	case map[string]any, []any:
		out, err := yaml.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return strings.TrimRight(string(out), "\n")
	default:
		return fmt.Sprintf("%v", val)
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <section.key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			section, key, err := config.SplitKey(args[0])
			if err != nil {
				return err
			}
			res, err := cliCtx.Bootstrap()
			if err != nil {
				return err
			}
			value, ok := config.ReadValue(res.Document, section, key)
			if !ok {
				return errors.New(errors.CodeNotFound, "key not set").WithDetail(args[0])
			}
			return PrintResult(cmd, ConfigValue{Key: args[0], Value: value})
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <section.key> <value>",
		Short: "Change one configuration value and save eva.yml",
		Long: `Change one configuration value and save eva.yml.  The value is read as a
YAML scalar, so "8803" is stored as a number and "true" as a boolean.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runConfigSet(cmd, cliCtx, args[0], args[1])
		},
	}
}

func runConfigSet(cmd *cobra.Command, cliCtx *CLIContext, path, raw string) error {
	section, key, err := config.SplitKey(path)
	if err != nil {
		return err
	}
	value := config.ParseScalar(raw)
	if section == "core" && key == "mode" {
		if _, err := bootstrap.LevelForMode(value); err != nil {
			return err
		}
	}

	res, err := cliCtx.Bootstrap()
	if err != nil {
		return err
	}
	config.UpdateValue(res.Document, section, key, value)
	if err := res.Document.Save(afero.NewOsFs(), res.ConfigFile); err != nil {
		return err
	}
	cliCtx.Logger.Info("configuration value set",
		logging.String("key", path), logging.String(logging.FieldPath, res.ConfigFile))
	return PrintResult(cmd, ConfigValue{Key: path, Value: value})
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration as the server sees it: eva.yml with EVA_*
environment overrides applied (EVA_CORE_MODE overrides core.mode).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if _, err := cliCtx.Bootstrap(); err != nil {
				return err
			}
			cfg, err := config.Load(cliCtx.ConfigFile())
			if err != nil {
				return err
			}
			if strings.EqualFold(cliCtx.Options.OutputFormat, "json") {
				return printJSON(cmd, cfg)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newConfigWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow eva.yml and apply core.mode changes to the log level",
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
			return runConfigWatch(cmd, cliCtx, res.ConfigFile)
		},
	}
}

func runConfigWatch(cmd *cobra.Command, cliCtx *CLIContext, path string) error {
	log := cliCtx.Logger.Named("watch").With(logging.String(logging.FieldPath, path))

	err := config.Watch(path, func(cfg *config.Config) {
		level, err := bootstrap.LevelForMode(cfg.Core.Mode)
		if err != nil {
			log.Error("ignoring change", logging.Err(err))
			return
		}
		if level == cliCtx.Levels.Level() {
			return
		}
		cliCtx.Levels.SetLevel(level)
		log.Warn("log level changed", logging.String("mode", cfg.Core.Mode), logging.Any("level", level))
		fmt.Fprintf(cmd.OutOrStdout(), "core.mode=%s level=%s\n", cfg.Core.Mode, level)
	}, func(err error) {
		log.Error("configuration change rejected", logging.Err(err))
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", path)
	<-cmd.Context().Done()
	return nil
}
