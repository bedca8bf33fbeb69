package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbonduro/glowreader/internal/config"
	"github.com/vbonduro/glowreader/internal/db"
	"github.com/vbonduro/glowreader/internal/history"
	"github.com/vbonduro/glowreader/internal/interpret"
	"github.com/vbonduro/glowreader/internal/logging"
	"github.com/vbonduro/glowreader/internal/store"
	"github.com/vbonduro/glowreader/internal/terminal"
)

var (
	cfg         *config.Config
	logger      *slog.Logger
	logCleanup  = func() {}
	renderStyle string
	renderWidth int
)

var rootCmd = &cobra.Command{
	Use:   "glowreader",
	Short: "GlowReader - AI skin analysis and makeup looks from a selfie",
	Long: `GlowReader relays a selfie and a few details about you to a hosted vision
model and renders the answer: skin concern charts, a step-by-step makeup
routine and the full write-up with shopping links.

Run "glowreader serve" to start the relay and web page, then use
"glowreader analyze" or a browser to submit photos.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		// The terminal client writes its answer to stdout, so it always
		// logs human-readable lines to stderr.
		format := cfg.LogFormat
		if cmd.Name() != "serve" {
			format = "text"
		}
		logger, logCleanup, err = logging.New(cfg.LogLevel, cfg.LogFile, format)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logCleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&renderStyle, "theme", "", "markdown theme for terminal output (dark, light, notty, ...)")
	rootCmd.PersistentFlags().IntVar(&renderWidth, "width", 80, "terminal wrap width")

	rootCmd.AddCommand(serveCmd, analyzeCmd, historyCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, terminal.DefaultStyles().Error.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func shopFromConfig(c *config.Config) interpret.Shop {
	return interpret.Shop{BaseURL: c.ShopBaseURL, AffiliateTag: c.AffiliateTag}
}

// localState is the on-device store shared by the terminal commands.
type localState struct {
	db         interface{ Close() error }
	history    *history.Store
	onboarding *history.Onboarding
}

func openLocalState() (*localState, error) {
	database, err := db.Open(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local state: %w", err)
	}
	kv := store.NewKVStore(database)
	return &localState{
		db:         database,
		history:    history.NewStore(kv, history.SystemClock{}, logger),
		onboarding: history.NewOnboarding(kv),
	}, nil
}

func (s *localState) Close() {
	if err := s.db.Close(); err != nil {
		logger.Error("failed to close local state", "error", err)
	}
}

const welcomeNote = `Welcome to GlowReader! ✨
Use a clear, well-lit photo of your face without filters. Your past readings
are kept on this device only; "glowreader history clear" removes them.`

// welcome prints the one-time first-run note.
func (s *localState) welcome(cmd *cobra.Command) {
	ctx := cmd.Context()
	seen, err := s.onboarding.Seen(ctx)
	if err != nil {
		logger.Warn("failed to read first-visit flag", "error", err)
		return
	}
	if seen {
		return
	}
	styles := terminal.DefaultStyles()
	fmt.Fprintln(cmd.ErrOrStderr(), styles.Card.Render(welcomeNote))
	if err := s.onboarding.MarkSeen(ctx); err != nil {
		logger.Warn("failed to store first-visit flag", "error", err)
	}
}

func newTerminalView() (*terminal.View, error) {
	return terminal.NewView(shopFromConfig(cfg), terminal.Options{Width: renderWidth, Style: renderStyle})
}
