package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/observability"
)

type options struct {
	width        int
	previewWidth int
	verbose      bool

	logger *zap.Logger
}

func (o *options) machine() *engine.Machine {
	return engine.NewMachine(
		engine.WithDisplayWidth(o.width),
		engine.WithPreviewWidth(o.previewWidth),
	)
}

func newRootCmd() *cobra.Command {
	opts := &options{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "calc",
		Short:         "A keypad calculator on the command line",
		Long:          `calc evaluates arithmetic expressions and replays calculator key presses.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.verbose {
				return nil
			}
			logger, err := observability.NewLogger(true)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}

	// Persistent flags (available to all commands)
	root.PersistentFlags().IntVar(&opts.width, "width", engine.DefaultDisplayWidth, "Display width in characters")
	root.PersistentFlags().IntVar(&opts.previewWidth, "preview-width", engine.DefaultPreviewWidth, "Expression preview width in characters")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every action to stderr")

	root.AddCommand(newEvalCmd(opts), newKeysCmd(opts), newReplCmd(opts))

	return root
}
