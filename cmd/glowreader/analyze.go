package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vbonduro/glowreader/internal/client"
	"github.com/vbonduro/glowreader/internal/domain"
	"github.com/vbonduro/glowreader/internal/interpret"
	"github.com/vbonduro/glowreader/internal/terminal"
)

var (
	analyzeMode        string
	analyzePhoto       string
	analyzeFields      map[string]string
	analyzeTyping      time.Duration
	analyzeInteractive bool
)

// fieldFlags maps the friendly flag names onto form field names.
var fieldFlags = []struct {
	flag, field, usage string
}{
	{"skin-type", "skinType", "skin type, e.g. Combination"},
	{"skin-problem", "skinProblem", "main skin concern, e.g. Acne"},
	{"age-group", "ageGroup", "age group, e.g. 25-34"},
	{"lifestyle", "lifestyleFactor", "lifestyle factor, e.g. Little sleep"},
	{"event", "eventType", "event or occasion, e.g. Wedding"},
	{"dress-type", "dressType", "outfit type, e.g. Slip dress"},
	{"dress-color", "dressColor", "outfit color, e.g. Emerald"},
	{"style", "userStylePreference", "style preference, e.g. Soft glam"},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Submit a photo to the relay and render the answer",
	Long: `Sends a photo and your details to the relay at SERVER_URL and renders the
answer in the terminal. Successful answers are saved to local history.

Examples:
  glowreader analyze --mode skin-analyzer --photo selfie.jpg --skin-problem Acne
  glowreader analyze --mode makeup-artist --photo me.png --event Prom --interactive`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeMode, "mode", string(domain.ModeSkinAnalyzer), "skin-analyzer or makeup-artist")
	f.StringVar(&analyzePhoto, "photo", "", "path to the photo to analyze")
	f.StringToStringVar(&analyzeFields, "field", nil, "extra form field as name=value (repeatable)")
	f.DurationVar(&analyzeTyping, "typing", 0, "delay between revealed lines, e.g. 15ms")
	f.BoolVar(&analyzeInteractive, "interactive", false, "step through the routine interactively")
	for _, ff := range fieldFlags {
		f.String(ff.flag, "", ff.usage)
	}
	_ = analyzeCmd.MarkFlagRequired("photo")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	state, err := openLocalState()
	if err != nil {
		return err
	}
	defer state.Close()
	state.welcome(cmd)

	image, err := os.ReadFile(analyzePhoto)
	if err != nil {
		return fmt.Errorf("failed to read photo: %w", err)
	}

	req := &domain.AnalysisRequest{
		Mode:   domain.Mode(strings.TrimSpace(analyzeMode)),
		Image:  image,
		Fields: collectFields(cmd),
	}

	session := client.NewSession(client.New(cfg.ServerURL, nil), state.history, logger)
	styles := terminal.DefaultStyles()
	fmt.Fprintln(cmd.ErrOrStderr(), styles.Muted.Render("Aura is taking a look..."))

	resp, err := session.Submit(ctx, req)
	if err != nil {
		return err
	}

	view, err := newTerminalView()
	if err != nil {
		return err
	}
	interpret.New(shopFromConfig(cfg), logger).Render(resp.Markdown, view)
	if err := terminal.Reveal(ctx, cmd.OutOrStdout(), view.Lines(), analyzeTyping); err != nil {
		return err
	}

	if analyzeInteractive && len(view.Routine()) > 0 {
		stepper := terminal.NewStepper(view.Routine(), shopFromConfig(cfg))
		if _, err := tea.NewProgram(stepper, tea.WithContext(ctx)).Run(); err != nil {
			return fmt.Errorf("routine stepper: %w", err)
		}
	}
	return nil
}

// collectFields merges --field pairs with the named field flags; named flags
// win when both are given.
func collectFields(cmd *cobra.Command) map[string]string {
	fields := make(map[string]string, len(analyzeFields)+len(fieldFlags))
	for k, v := range analyzeFields {
		fields[k] = v
	}
	for _, ff := range fieldFlags {
		if !cmd.Flags().Changed(ff.flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(ff.flag)
		fields[ff.field] = v
	}
	return fields
}
