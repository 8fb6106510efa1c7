// Package cli implements the agrikit command-line interface.
//
// Commands operate on JSON input files and print results as JSON (data) or
// styled status lines (everything else). Shared state such as caches and
// the undo log lives in a [toolkit.Toolkit] built from the TOML config.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context via withLogger/loggerFromContext.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/agrikit/pkg/buildinfo"
	"github.com/matzehuels/agrikit/pkg/config"
	"github.com/matzehuels/agrikit/pkg/observability"
	"github.com/matzehuels/agrikit/pkg/toolkit"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "agrikit"

	// configFile is the config file name looked up in the config directory.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	showMetrics bool
	metrics     *observability.Prometheus
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "agrikit sorts, searches, caches and routes agricultural platform data",
		Long:         `agrikit bundles the data structures behind an agricultural advisory platform: ordering and search over listings, bounded caches, the field network topology, and an admin undo log.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.showMetrics && c.metrics != nil {
				return printMetrics(cmd.OutOrStdout(), c.metrics)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/agrikit/config.toml)")
	root.PersistentFlags().BoolVar(&c.showMetrics, "metrics", false, "print collected metrics after the command")

	root.AddCommand(c.sortCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.topCommand())
	root.AddCommand(c.topologyCommand())
	root.AddCommand(c.undoCommand())
	root.AddCommand(c.predictCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Toolkit Factory
// =============================================================================

// loadConfig reads --config, or the default path when it exists, or falls
// back to built-in defaults.
func (c *CLI) loadConfig() (config.Config, string, error) {
	path := c.configPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return config.Default(), "", nil
		}
		candidate := filepath.Join(dir, configFile)
		if _, err := os.Stat(candidate); err != nil {
			return config.Default(), "", nil
		}
		path = candidate
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, path, err
	}
	return cfg, path, nil
}

// newToolkit builds a toolkit from the loaded config. Metrics hooks are
// registered when the config enables them or --metrics is set.
func (c *CLI) newToolkit(ctx context.Context, opts ...toolkit.Option) (*toolkit.Toolkit, error) {
	cfg, path, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil && c.Logger.GetLevel() > lvl {
		c.Logger.SetLevel(lvl)
	}
	if (cfg.Metrics.Enabled || c.showMetrics) && c.metrics == nil {
		c.metrics = observability.NewPrometheus(nil)
		observability.SetCacheHooks(c.metrics)
		observability.SetUndoHooks(c.metrics)
		observability.SetSearchHooks(c.metrics)
	}
	opts = append([]toolkit.Option{toolkit.WithLogger(c.Logger)}, opts...)
	return toolkit.New(ctx, cfg, opts...)
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/agrikit/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
