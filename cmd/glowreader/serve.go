package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/glowreader/internal/config"
	"github.com/vbonduro/glowreader/internal/interpret"
	"github.com/vbonduro/glowreader/internal/service"
	"github.com/vbonduro/glowreader/internal/vision"
	claudevision "github.com/vbonduro/glowreader/internal/vision/claude"
	geminivision "github.com/vbonduro/glowreader/internal/vision/gemini"
	ollamavision "github.com/vbonduro/glowreader/internal/vision/ollama"
	openaivision "github.com/vbonduro/glowreader/internal/vision/openai"
	"github.com/vbonduro/glowreader/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the vision relay and the web page",
	Long: `Starts the HTTP relay on PORT. The selected VISION_BACKEND must have its
credential configured; the process exits before listening otherwise.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer, closeAnalyzer, err := newVisionAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAnalyzer()

	static, err := web.StaticFS(cfg.StaticDir)
	if err != nil {
		return err
	}

	relay := service.NewRelayService(analyzer, safetySettings(cfg.Safety), logger)
	interp := interpret.New(shopFromConfig(cfg), logger)
	srv := web.NewServer(relay, interp, static, logger).HTTPServer(cfg.ListenAddr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", "addr", cfg.ListenAddr, "backend", cfg.VisionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newVisionAnalyzer builds the configured backend. The returned func releases
// any client resources and is always safe to call.
func newVisionAnalyzer(ctx context.Context, c *config.Config) (vision.VisionAnalyzer, func(), error) {
	noop := func() {}
	switch c.VisionBackend {
	case "gemini":
		logger.Info("using Gemini vision backend", "model", c.GeminiModel)
		a, err := geminivision.NewGeminiAnalyzer(ctx, c.GoogleAPIKey, c.GeminiModel)
		if err != nil {
			return nil, noop, err
		}
		return a, func() {
			if err := a.Close(); err != nil {
				logger.Error("failed to close gemini client", "error", err)
			}
		}, nil
	case "claude":
		logger.Info("using Claude vision backend", "model", c.ClaudeModel)
		return claudevision.NewClaudeAnalyzer(c.ClaudeAPIKey, c.ClaudeModel), noop, nil
	case "openai":
		logger.Info("using OpenAI vision backend", "model", c.OpenAIModel)
		return openaivision.NewOpenAIAnalyzer(c.OpenAIAPIKey, c.OpenAIModel, c.OpenAIBaseURL), noop, nil
	case "ollama":
		logger.Info("using Ollama vision backend", "model", c.OllamaModel)
		return ollamavision.NewOllamaAnalyzer(c.OllamaHost, c.OllamaModel), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown vision backend %q", c.VisionBackend)
	}
}

func safetySettings(in []config.SafetySetting) []vision.SafetySetting {
	out := make([]vision.SafetySetting, 0, len(in))
	for _, s := range in {
		out = append(out, vision.SafetySetting{Category: s.Category, Threshold: s.Threshold})
	}
	return out
}
