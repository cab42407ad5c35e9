// Package main is the command-line entry point for the engineering tutor.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	internal "github.com/ZanzyTHEbar/enge-ai/enge"
	"github.com/ZanzyTHEbar/enge-ai/enge/config"
	"github.com/ZanzyTHEbar/enge-ai/enge/generation/gateway"
	"github.com/ZanzyTHEbar/enge-ai/enge/generation/harness"
	"github.com/ZanzyTHEbar/enge-ai/enge/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version information (set at build time)
var version = "dev"

type app struct {
	configPath string
	cfg        *config.Config
	logger     zerolog.Logger
	closer     io.Closer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:           internal.DefaultAppName,
		Short:         "Engineering tutor and scenario generator backed by a local model",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default searches ./config.yaml and "+internal.DefaultConfigPath+")")

	rootCmd.AddCommand(
		newAskCmd(a),
		newGuideCmd(a),
		newStageCmd(),
		newScaffoldCmd(),
		newModelsCmd(a),
		newScenarioCmd(a),
		newTemplatesCmd(a),
		newAssessmentCmd(),
	)
	return rootCmd
}

func (a *app) init() error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	cfg.Validate(logger)

	a.cfg, a.logger, a.closer = cfg, logger, closer
	return nil
}

// connect connects to the model runtime with the configured harness.
func (a *app) connect(ctx context.Context) *gateway.Gateway {
	factory := harness.NewFactory(a.cfg.Harness, a.logger)
	client := gateway.NewOllamaClient(a.cfg.Model.APIEndpoint,
		gateway.WithRequestTimeout(a.cfg.Model.RequestTimeout))

	return gateway.New(ctx, client, a.cfg.Model,
		gateway.WithLogger(a.logger.With().Str("component", "gateway").Logger()),
		gateway.WithRateLimiter(factory.RateLimiter()),
		gateway.WithTracer(factory.Tracer()),
	)
}
