// Command tgv browses a TestGen data catalog: a selection tree over table
// groups, tables and columns, a cron schedule editor and score badges.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/testgen/tgv/pkg/config"
	"github.com/testgen/tgv/pkg/events"
	"github.com/testgen/tgv/pkg/logging"
)

var version = "dev"

// cli holds global flags and the state built from them before a subcommand
// runs.
type cli struct {
	configPath string
	verbose    bool
	eventsPath string
	logFile    string

	cfg    *config.Config
	logger *zap.Logger

	eventsFile io.Closer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:     "tgv",
		Short:   "tgv - TestGen catalog viewer",
		Version: version,
		Long: `tgv browses a TestGen data catalog.

Table groups, tables and columns are shown as a tree that supports search,
type filters and single or multi selection. Selections can be exported as
JSON or Markdown, monitoring schedules edited as cron expressions, and
quality scores classified into colour tiers.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.teardown()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Config file (default: discover .testgen/config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&c.eventsPath, "events", "", "Write host events as JSON lines to FILE (- for stdout)")
	root.PersistentFlags().StringVar(&c.logFile, "log-file", "", "Write logs to FILE")

	root.AddCommand(
		newTreeCmd(c),
		newExportCmd(c),
		newCronCmd(c),
		newScoreCmd(c),
		newInitCmd(c),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	var cfg *config.Config
	var err error
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, _, err = config.Discover("")
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.logFile != "" {
		cfg.Log.File = c.logFile
	}
	if c.eventsPath != "" {
		cfg.Events.Output = c.eventsPath
	}
	c.cfg = cfg

	logger, _, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Verbose: c.verbose,
		File:    cfg.Log.File,
	})
	if err != nil {
		return err
	}
	c.logger = logger
	c.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.Bool("multi_select", cfg.Tree.MultiSelect),
		zap.String("timezone", cfg.Cron.Timezone))
	return nil
}

func (c *cli) teardown() {
	if c.eventsFile != nil {
		_ = c.eventsFile.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

// interactiveLogger returns the logger for full-screen runs, which must not
// write to the terminal.
func (c *cli) interactiveLogger() *zap.Logger {
	if c.cfg.Log.File == "" {
		return zap.NewNop()
	}
	return c.logger
}

// emitter opens the configured event sink: nothing when unset, out for
// "-", otherwise a file opened for append.
func (c *cli) emitter(out io.Writer, interactive bool) (events.Emitter, error) {
	switch path := c.cfg.Events.Output; path {
	case "":
		return events.Nop{}, nil
	case "-":
		if interactive {
			return nil, fmt.Errorf("--events - cannot be used with the interactive tree")
		}
		return events.NewJSONEmitter(out), nil
	default:
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening events file: %w", err)
		}
		c.eventsFile = f
		return events.NewJSONEmitter(f), nil
	}
}
