package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nirarg/esxi-console/internal/backend"
	"github.com/nirarg/esxi-console/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cli holds what every subcommand needs once the root flags are parsed
type cli struct {
	configFile string
	backendURL string
	verbose    bool
	jsonOutput bool

	cfg    *config.Config
	log    *logrus.Logger
	client *backend.Client
	out    io.Writer
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:           "esxictl",
		Short:         "Command line console for the ESXi virtualization backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.out = cmd.OutOrStdout()
			return c.init()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "Path to configuration file")
	flags.StringVar(&c.backendURL, "backend", "", "Backend API base URL (overrides backend.base_url)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Log backend requests")
	flags.BoolVar(&c.jsonOutput, "json", false, "Print JSON instead of tables")

	cmd.AddCommand(newHostsCommand(c))
	cmd.AddCommand(newVMsCommand(c))
	cmd.AddCommand(newTasksCommand(c))
	cmd.AddCommand(newCredentialsCommand(c))
	cmd.AddCommand(newDashboardCommand(c))
	return cmd
}

func (c *cli) init() error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if c.backendURL != "" {
		cfg.Backend.BaseURL = c.backendURL
	}

	log := setupLogger(cfg.Logging, c.verbose)

	client, err := backend.NewClient(cfg.Backend, log)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.log = log
	c.client = client
	return nil
}

// setupLogger follows the logging section of the configuration, except
// that stdout is kept for command output. verbose forces debug level.
func setupLogger(cfg config.LoggingConfig, verbose bool) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	log.SetOutput(os.Stderr)
	if cfg.Output == "file" && cfg.FilePath != "" {
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.FilePath, err)
		} else {
			log.SetOutput(file)
		}
	}
	return log
}

// groupCommand returns a parent command that prints its help when run
func groupCommand(use, short string, children ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(children...)
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}
