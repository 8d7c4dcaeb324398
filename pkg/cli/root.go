// Package cli provides the command-line interface for Foreman
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/foreman/foreman/pkg/config"
	"github.com/foreman/foreman/pkg/logger"
	"github.com/foreman/foreman/pkg/types"
)

// CLI wires the cobra command tree to injected writers and its own viper
// instance so it can be driven from tests.
type CLI struct {
	config   *Config
	rootCmd  *cobra.Command
	viper    *viper.Viper
	logger   logger.Logger
	console  *logger.ConsoleLogger
	input    io.Reader
	output   io.Writer
	errorOut io.Writer
}

// NewCLI creates a new CLI instance with the given configuration
func NewCLI(cfg *Config) *CLI {
	if cfg == nil {
		cfg = NewConfig()
	}

	c := &CLI{
		config:   cfg,
		viper:    viper.New(),
		input:    os.Stdin,
		output:   os.Stdout,
		errorOut: os.Stderr,
	}
	c.console = logger.NewConsoleLogger(c.output, c.errorOut)

	c.setupCommands()
	return c
}

// NewCLIWithIO creates a CLI with custom streams (for testing)
func NewCLIWithIO(cfg *Config, input io.Reader, output, errorOut io.Writer) *CLI {
	c := NewCLI(cfg)
	c.input = input
	c.output = output
	c.errorOut = errorOut
	c.console = logger.NewConsoleLogger(output, errorOut)
	c.rootCmd.SetOut(output)
	c.rootCmd.SetErr(errorOut)
	return c
}

// Execute runs the CLI with the given arguments
func (c *CLI) Execute(args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.Execute()
}

// ExecuteContext runs the CLI with context support
func (c *CLI) ExecuteContext(ctx context.Context, args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.ExecuteContext(ctx)
}

func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:   "foreman",
		Short: "Construction-site resource allocator",
		Long: `🏗 Foreman - keeps a construction site moving

Foreman queues tasks by priority, hands out bricks, cement and tools from a
shared stock, and rotates the crew until everyone needs a break.`,

		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.initializeConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	c.setupFlags()

	c.rootCmd.Version = c.config.Version
	c.rootCmd.SetVersionTemplate("🏗 Foreman v{{.Version}}\n")

	c.rootCmd.AddCommand(c.newInitCmd())
	c.rootCmd.AddCommand(c.newValidateCmd())
	c.rootCmd.AddCommand(c.newSimulateCmd())
	c.rootCmd.AddCommand(c.newShellCmd())
	c.rootCmd.AddCommand(c.newVersionCmd())
}

func (c *CLI) setupFlags() {
	flags := c.rootCmd.PersistentFlags()

	flags.StringVar(&c.config.ConfigFile, "config", "", "config file (default: foreman.yaml or foreman.json in --root)")
	flags.StringVar(&c.config.ProjectRoot, "root", c.config.ProjectRoot, "directory searched for the config file")
	flags.StringVarP(&c.config.Verbosity, "verbosity", "v", c.config.Verbosity, "log level (debug, info, warn, error)")
	flags.StringVar(&c.config.LogFile, "log-file", "", "also append logs to this file")

	_ = c.viper.BindPFlag("config", flags.Lookup("config"))
	_ = c.viper.BindPFlag("verbosity", flags.Lookup("verbosity"))
}

func (c *CLI) initializeConfig(cmd *cobra.Command, args []string) error {
	c.viper.SetEnvPrefix("FOREMAN")
	c.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	c.viper.AutomaticEnv()

	c.config.ConfigFile = c.viper.GetString("config")
	c.config.Verbosity = c.viper.GetString("verbosity")

	if c.output == os.Stdout {
		c.logger = logger.CreateLogger(c.config.LogFile, c.config.Verbosity)
	} else {
		c.logger = logger.CreateLoggerWithOutput(c.config.LogFile, c.config.Verbosity, c.output)
	}

	if c.config.ConfigFile != "" {
		c.viper.SetConfigFile(c.config.ConfigFile)
	} else {
		c.viper.AddConfigPath(c.config.ProjectRoot)
		c.viper.SetConfigName("foreman")
	}

	if err := c.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.config.ConfigFile != "" || !errors.As(err, &notFound) {
			c.logger.Debug("Config file not read by viper", logger.WithField("error", err))
		}
		return nil
	}

	c.logger.Debug("Using config file", logger.WithField("file", c.viper.ConfigFileUsed()))
	return nil
}

// configPath returns the config file in use, or "" when none was found
func (c *CLI) configPath() string {
	if c.config.ConfigFile != "" {
		return c.config.ConfigFile
	}
	return c.viper.ConfigFileUsed()
}

// loadSiteConfig loads the config file in use, falling back to the stock
// site, then applies FOREMAN_* environment overrides
func (c *CLI) loadSiteConfig() (*types.SiteConfig, error) {
	manager := config.NewManager()

	var cfg *types.SiteConfig
	if path := c.configPath(); path != "" {
		loaded, err := manager.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = manager.GetDefaultConfig()
		c.logger.Debug("No config file found, using the default site")
	}

	if mode := c.viper.GetString("weather.mode"); mode != "" {
		cfg.Weather.Mode = types.WeatherMode(mode)
	}
	if level := c.viper.GetString("loglevel"); level != "" {
		cfg.LogLevel = types.LogLevel(level)
	}
	if err := manager.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	if !c.rootCmd.PersistentFlags().Changed("verbosity") && c.viper.GetString("verbosity") == "info" {
		c.logger.SetLevel(string(cfg.LogLevel))
	}
	return cfg, nil
}

func (c *CLI) defaultConfigPath(format string) string {
	if c.config.ConfigFile != "" {
		return c.config.ConfigFile
	}
	name := config.DefaultFileName
	if format == "json" {
		name = "foreman.json"
	}
	return filepath.Join(c.config.ProjectRoot, name)
}

// ExecuteWithVersion runs the CLI against os.Args
func ExecuteWithVersion(version string) error {
	cfg := NewConfig()
	cfg.Version = version
	return NewCLI(cfg).Execute(os.Args[1:])
}
