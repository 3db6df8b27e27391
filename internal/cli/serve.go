package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/truevail/internal/pipeline"
	"github.com/ppiankov/truevail/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis service",
	Long: `Serve exposes the analysis pipeline over HTTP:

  POST /analyze   {"text": "...", "type": "news", "image_data": "...", "mime_type": "..."}
  GET  /          service banner
  GET  /health    liveness
  GET  /ready     readiness and model client state
  GET  /metrics   request and verdict counters

The service stops gracefully on SIGINT or SIGTERM.

Example:
  truevail serve --addr :5000
  TRUEVAIL_LLM_PROVIDER=openai truevail serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default: server.addr)")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "CORS allowed origins (default: server.allowed_origins)")
	addModelFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd.Flags(), map[string]string{
		"addr":            "server.addr",
		"allowed-origins": "server.allowed_origins",
	}); err != nil {
		return err
	}

	cfg, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.NewPipeline(cfg, pipeline.WithLogger(logger))
	srv := server.New(p, cfg.Server, logger.Named("http"), Version)

	logger.Info("starting truevail",
		zap.String("version", Version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Bool("cache", cfg.Cache.Enabled))

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
