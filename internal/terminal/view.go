// Package terminal renders interpreted answers for a text terminal: concern
// bars, the routine steps and the prose with marketplace links.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/glamour"

	"github.com/vbonduro/glowreader/internal/domain"
	"github.com/vbonduro/glowreader/internal/interpret"
)

const (
	labelWidth   = 18
	defaultWidth = 80
)

type Options struct {
	// Width is the wrap width; 0 means 80 columns.
	Width int
	// Style is a glamour standard style name such as "dark" or "notty". Empty
	// selects the style from the terminal background.
	Style string
}

// View collects the widgets for one answer. It implements interpret.View and
// keeps all widget state to itself, so separate answers never share bars or
// routine state.
type View struct {
	shop     interpret.Shop
	styles   Styles
	bar      progress.Model
	renderer *glamour.TermRenderer

	concerns []domain.Concern
	routine  []domain.RoutineStep
	sections []string
}

var _ interpret.View = (*View)(nil)

func NewView(shop interpret.Shop, opts Options) (*View, error) {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	styleOpt := glamour.WithAutoStyle()
	if opts.Style != "" {
		styleOpt = glamour.WithStandardStyle(opts.Style)
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = max(width-labelWidth-6, 10)

	return &View{
		shop:     shop,
		styles:   DefaultStyles(),
		bar:      bar,
		renderer: renderer,
	}, nil
}

// ClampPercent bounds p to 0..100 for drawing.
func ClampPercent(p int) int {
	return min(max(p, 0), 100)
}

func (v *View) ShowConcerns(concerns []domain.Concern) {
	v.concerns = concerns

	var sb strings.Builder
	sb.WriteString(v.styles.Title.Render("Skin concerns"))
	sb.WriteString("\n")
	for _, c := range concerns {
		pct := ClampPercent(c.Percentage)
		fmt.Fprintf(&sb, "%s %s %s\n",
			v.styles.Label.Render(c.Name),
			v.bar.ViewAs(float64(pct)/100),
			v.styles.Value.Render(fmt.Sprintf("%d%%", pct)),
		)
	}
	v.sections = append(v.sections, sb.String())
}

func (v *View) ShowRoutine(steps []domain.RoutineStep) {
	v.routine = steps

	var sb strings.Builder
	sb.WriteString(v.styles.Title.Render("Your routine"))
	sb.WriteString("\n")
	for i, s := range steps {
		sb.WriteString(renderStep(v.styles, v.shop, s, i, len(steps)))
		sb.WriteString("\n")
	}
	v.sections = append(v.sections, sb.String())
}

// ShowProse renders the markdown prose. The HTML form is for browsers and is
// ignored here; product markers become markdown links instead.
func (v *View) ShowProse(markdown, _ string) {
	md := v.shop.MarkdownLinks(markdown)
	out, err := v.renderer.Render(md)
	if err != nil {
		out = md
	}
	v.sections = append(v.sections, out)
}

// Routine returns the steps handed to ShowRoutine, if any.
func (v *View) Routine() []domain.RoutineStep {
	return v.routine
}

func (v *View) Concerns() []domain.Concern {
	return v.concerns
}

// Output is everything shown so far, in call order.
func (v *View) Output() string {
	return strings.Join(v.sections, "\n")
}

// Lines splits Output for progressive display.
func (v *View) Lines() []string {
	return strings.Split(v.Output(), "\n")
}

func renderStep(styles Styles, shop interpret.Shop, s domain.RoutineStep, i, n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n",
		styles.Value.Render(fmt.Sprintf("Step %d/%d: %s", i+1, n, s.StepName)),
		styles.Muted.Render(s.Time),
	)
	sb.WriteString(s.Advice)
	if s.ProductRecommendation != "" {
		fmt.Fprintf(&sb, "\nTry: %s\n%s",
			s.ProductRecommendation,
			styles.Muted.Render(shop.SearchURL(s.ProductRecommendation)),
		)
	}
	return styles.Card.Render(sb.String())
}
