package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/foreman/foreman/internal/simulate"
	"github.com/foreman/foreman/pkg/config"
	"github.com/foreman/foreman/pkg/logger"
	"github.com/foreman/foreman/pkg/notifier"
	"github.com/foreman/foreman/pkg/site"
	"github.com/foreman/foreman/pkg/tracing"
	"github.com/foreman/foreman/pkg/types"
	"github.com/foreman/foreman/pkg/validation"
	"github.com/foreman/foreman/pkg/weather"
)

func (c *CLI) newInitCmd() *cobra.Command {
	var (
		force  bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default site configuration",
		Long: `Create foreman.yaml with the stock site: 100 bricks, 50 cement, 10 tools
and a crew of eight, one of them on break.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(format, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&format, "format", "yaml", "config format (yaml or json)")
	return cmd
}

func (c *CLI) runInit(format string, force bool) error {
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unsupported format: %s", format)
	}

	path := c.defaultConfigPath(format)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	manager := config.NewManager()
	if err := manager.WriteConfig(path, manager.GetDefaultConfig()); err != nil {
		return err
	}

	c.console.Success(fmt.Sprintf("Created %s", path))
	return nil
}

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long:  `Check that the site configuration parses and that its crew, tasks and stock are consistent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate()
		},
	}
}

func (c *CLI) runValidate() error {
	path := c.configPath()
	if path == "" {
		return fmt.Errorf("no config file found in %s (run foreman init)", c.config.ProjectRoot)
	}

	cfg, err := config.NewManager().LoadConfig(path)
	if err != nil {
		c.console.Error(fmt.Sprintf("Invalid configuration: %v", err))
		return err
	}

	result := validation.NewSiteValidator().Validate(cfg)
	for _, finding := range result.Errors {
		switch finding.Level {
		case validation.ValidationLevelError:
			c.console.Error(finding.Error())
		case validation.ValidationLevelWarning:
			c.console.Warn(finding.Error())
		default:
			c.console.Info(finding.Error())
		}
	}
	if !result.Valid {
		return fmt.Errorf("configuration has %d error(s)", result.Count(validation.ValidationLevelError))
	}

	c.console.Success(fmt.Sprintf("Configuration is valid: %s", path))
	c.console.Info(fmt.Sprintf("Resources: %s", cfg.Resources))
	c.console.Info(fmt.Sprintf("Workers: %d, tasks: %d, weather: %s", len(cfg.Workers), len(cfg.Tasks), cfg.Weather.Mode))
	return nil
}

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.output, "🏗 Foreman v%s\n", c.config.Version)
		},
	}
}

func (c *CLI) newSimulateCmd() *cobra.Command {
	var (
		cycles     int
		interval   time.Duration
		cpuProfile string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run allocation cycles unattended",
		Long: `Load the site and run allocation cycles, recalling rested workers
periodically, until the queue drains, the cycle limit is reached or the run is
interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cpuProfile != "" {
				stopProfile, err := startCPUProfile(cpuProfile)
				if err != nil {
					return err
				}
				defer stopProfile()
			}
			return c.runSimulate(cmd.Context(), cycles, interval)
		},
	}

	cmd.Flags().IntVar(&cycles, "cycles", 0, "maximum number of cycles, -1 for no limit (overrides simulation.maxCycles)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "time between cycles (overrides simulation.cycleInterval)")
	cmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this file (read it with pprof)")
	return cmd
}

func (c *CLI) runSimulate(ctx context.Context, cycles int, interval time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := c.loadSiteConfig()
	if err != nil {
		return err
	}

	shutdown, err := c.startTracing(cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	s, err := c.openSite(cfg)
	if err != nil {
		return err
	}

	if path := c.configPath(); path != "" {
		rm := config.NewReloadManager(path, c.logger)
		rm.AddCallback(c.applyReload(s))
		if err := rm.Start(ctx); err != nil {
			c.logger.Warn("Config hot reload disabled", logger.WithField("error", err))
		} else {
			defer rm.Stop()
		}
	}

	opts := simulate.Options{
		CycleEvery:  cfg.Simulation.CycleEvery(),
		RecallEvery: cfg.Simulation.RecallEvery(),
		MaxCycles:   cfg.Simulation.MaxCycles,
		OnReport:    func(r *types.CycleReport) { printReport(c.output, r) },
	}
	if cycles != 0 {
		opts.MaxCycles = cycles
	}
	if interval > 0 {
		opts.CycleEvery = interval
	}

	rc := NewRuntimeConfig(c.config, ctx)
	c.console.Info(fmt.Sprintf("Simulating %s (run %s)", s.Name(), rc.CorrelationID()))
	printStatus(c.output, s)

	summary, err := simulate.New(s, opts, c.logger).Run(rc.Context)
	if err != nil {
		return err
	}

	printStatus(c.output, s)
	c.console.Info(fmt.Sprintf("%d cycle(s): %d completed, %d deferred, %d aborted, %d skipped, %d recalled in %s",
		summary.Cycles, summary.Completed, summary.Deferred, summary.Aborted, summary.Skipped, summary.Recalled,
		time.Since(rc.StartTime).Round(time.Millisecond)))
	if summary.Drained {
		c.console.Success("All tasks completed")
	} else {
		c.console.Warn(fmt.Sprintf("%d task(s) still queued", s.Pending()))
	}
	return nil
}

func startCPUProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to start profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

// openSite builds the site described by cfg with the CLI's logger and notifier
func (c *CLI) openSite(cfg *types.SiteConfig) (*site.Site, error) {
	opts := []site.Option{site.WithLogger(c.logger)}
	if cfg.Notifications.IsEnabled() {
		opts = append(opts, site.WithNotifier(notifier.New(notifier.Config{Enabled: true, Beep: true}, c.logger)))
	}
	return site.FromConfig(cfg, opts...)
}

func (c *CLI) startTracing(cfg *types.SiteConfig) (func(), error) {
	if cfg.Tracing == nil || !cfg.Tracing.Enabled {
		return func() {}, nil
	}
	if err := tracing.Init("foreman", c.config.Version, cfg.Tracing.Output); err != nil {
		return nil, fmt.Errorf("failed to start tracing: %w", err)
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx); err != nil {
			c.logger.Warn("Failed to flush traces", logger.WithField("error", err))
		}
	}, nil
}

// applyReload switches weather and log level when the config file changes.
// Stock, crew and tasks are only read at startup.
func (c *CLI) applyReload(s *site.Site) func(*types.SiteConfig, error) {
	return func(cfg *types.SiteConfig, err error) {
		if err != nil {
			c.logger.Warn("Ignoring config change", logger.WithField("error", err))
			return
		}

		gate, err := weather.FromConfig(cfg.Weather)
		if err != nil {
			c.logger.Warn("Ignoring weather change", logger.WithField("error", err))
			return
		}
		s.SetGate(gate)
		c.logger.SetLevel(string(cfg.LogLevel))
		c.logger.Info("Applied config change",
			logger.WithField("weather", cfg.Weather.Mode),
			logger.WithField("logLevel", cfg.LogLevel))
	}
}
