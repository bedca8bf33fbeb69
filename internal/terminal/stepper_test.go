package terminal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vbonduro/glowreader/internal/domain"
)

func press(m tea.Model, msg tea.KeyMsg) (Stepper, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Stepper), cmd
}

func TestStepperNavigationWraps(t *testing.T) {
	m := NewStepper([]domain.RoutineStep{
		{StepName: "Prep"},
		{StepName: "Base"},
		{StepName: "Eyes"},
	}, testShop)

	assert.Contains(t, m.View(), "Step 1/3: Prep")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.Index())
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	assert.Equal(t, 2, m.Index())
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 0, m.Index())
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 2, m.Index())
	assert.Contains(t, m.View(), "Step 3/3: Eyes")
}

func TestStepperQuit(t *testing.T) {
	m := NewStepper([]domain.RoutineStep{{StepName: "Prep"}}, testShop)

	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if assert.NotNil(t, cmd) {
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestStepperEmpty(t *testing.T) {
	m := NewStepper(nil, testShop)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.Index())
	assert.Contains(t, m.View(), "No routine steps.")
}
