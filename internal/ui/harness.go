package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

// maxCommandDepth bounds how many chained commands a single Send follows.
const maxCommandDepth = 32

// Harness drives the UI model programmatically for integration tests.
// Cursors are made static so no blink commands are scheduled.
type Harness struct {
	model    *Model
	quitting bool
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	if model != nil {
		model.setCursorMode(cursor.CursorStatic)
	}
	return &Harness{model: model}
}

// Send routes a message through the model and executes any returned
// commands, including the members of batches.
func (h *Harness) Send(msg tea.Msg) {
	h.deliver(msg, 0)
}

func (h *Harness) deliver(msg tea.Msg, depth int) {
	if h.model == nil || msg == nil || depth > maxCommandDepth {
		return
	}
	switch msg := msg.(type) {
	case tea.QuitMsg:
		h.quitting = true
		return
	case tea.BatchMsg:
		for _, cmd := range msg {
			h.run(cmd, depth+1)
		}
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.run(cmd, depth+1)
}

func (h *Harness) run(cmd tea.Cmd, depth int) {
	if cmd == nil {
		return
	}
	h.deliver(cmd(), depth)
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}

// Quitting reports whether a command asked the program to exit.
func (h *Harness) Quitting() bool {
	return h.quitting
}
