package terminal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vbonduro/glowreader/internal/domain"
	"github.com/vbonduro/glowreader/internal/interpret"
)

// Stepper is an interactive carousel over routine steps. Navigation wraps at
// both ends.
type Stepper struct {
	steps  []domain.RoutineStep
	index  int
	shop   interpret.Shop
	styles Styles
}

func NewStepper(steps []domain.RoutineStep, shop interpret.Shop) Stepper {
	return Stepper{steps: steps, shop: shop, styles: DefaultStyles()}
}

func (m Stepper) Init() tea.Cmd {
	return nil
}

func (m Stepper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c", "enter":
		return m, tea.Quit
	}
	if len(m.steps) == 0 {
		return m, nil
	}

	switch key.String() {
	case "right", "l", "n", " ":
		m.index = (m.index + 1) % len(m.steps)
	case "left", "h", "p":
		m.index = (m.index - 1 + len(m.steps)) % len(m.steps)
	}
	return m, nil
}

func (m Stepper) View() string {
	if len(m.steps) == 0 {
		return m.styles.Muted.Render("No routine steps.") + "\n"
	}
	var sb strings.Builder
	sb.WriteString(renderStep(m.styles, m.shop, m.steps[m.index], m.index, len(m.steps)))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("←/→ to move · q to finish"))
	sb.WriteString("\n")
	return sb.String()
}

// Index is the zero-based position of the visible step.
func (m Stepper) Index() int {
	return m.index
}
