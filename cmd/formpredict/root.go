package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	formpredict "github.com/goliatone/go-formpredict"
	"github.com/goliatone/go-formpredict/internal/config"
	"github.com/goliatone/go-formpredict/internal/logging"
)

// cli holds state shared by every subcommand.
type cli struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "formpredict",
		Short: "Multiple Disease Prediction System",
		Long: `formpredict renders schema-driven prediction forms, validates the
submitted values and reports the verdict of the task's model.

Serve the web pages and JSON API with "serve", or answer the form in the
terminal with "prompt".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			level := cfg.Log.Level
			if c.verbose {
				level = "debug"
			}
			logger, err := logging.New(cfg.Log.Mode, level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.cfg = cfg
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "configuration file (default "+config.DefaultFile+" when present)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(c),
		newPromptCmd(c),
		newPredictCmd(c),
		newTasksCmd(c),
		newOpenAPICmd(c),
	)
	return root
}

func (c *cli) app(ctx context.Context) (*formpredict.App, error) {
	return formpredict.New(ctx, c.cfg, c.logger)
}
