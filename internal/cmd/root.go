package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/domonda/go-tableview/internal/config"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c string) {
	version = v
	commit = c
}

// rootOptions are the global flags and state shared by all commands
type rootOptions struct {
	debug      bool
	configFile string

	logger *zap.Logger
	config *config.Config
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd(nil).ExecuteContext(ctx)
}

// newRootCmd returns the root command.
// If logger is nil a zap production logger is built
// before every command.
func newRootCmd(logger *zap.Logger) *cobra.Command {
	opts := &rootOptions{logger: logger}

	rootCmd := &cobra.Command{
		Use:   "tableview",
		Short: "Render CSV, Excel and SQL data as HTML tables",
		Long: `tableview renders tabular data as HTML table markup.

Records are loaded from CSV files, Excel workbooks, SQLite queries
or inline records of the config file. With --watch the input file
is observed and the output is rewritten whenever it changes.`,
		Version:      fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logger == nil {
				logger, err := newLogger(opts.debug)
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				opts.logger = logger
			}

			cfg := &config.Config{}
			if opts.configFile != "" {
				var err error
				cfg, err = config.Load(opts.configFile)
				if err != nil {
					return err
				}
			}
			opts.config = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Table config file (YAML)")

	rootCmd.AddCommand(newRenderCmd(opts))
	return rootCmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zapConfig.Build()
}
