package ui

import (
	"fmt"

	"github.com/atomicstack/controlbox/internal/contacts"
	"github.com/atomicstack/controlbox/internal/logging/events"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleLoginForm(msg tea.Msg) (bool, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		m.ctrl.Close()
		return true, nil
	}
	cmd, submitted := m.loginForm.Update(msg)
	if submitted {
		m.errMsg = ""
		m.setInfo(fmt.Sprintf("Connecting as %s", m.loginForm.Address()))
	}
	return true, cmd
}

func (m *Model) startContactForm() tea.Cmd {
	if !m.contactH.Expanded() {
		m.contactH.ToggleForm()
	}
	form := contacts.NewForm(m.contactH)
	form.SetCursorMode(m.cursorMode)
	m.contactForm = form
	events.UI.Focus("contacts", "add-contact")
	return nil
}

func (m *Model) closeContactForm() {
	if m.contactH.Expanded() {
		m.contactH.ToggleForm()
	}
	m.contactForm = nil
}

func (m *Model) handleContactForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.contactForm == nil {
		return false, nil
	}
	cmd, done, cancel := m.contactForm.Update(msg)
	if cancel {
		m.closeContactForm()
		return true, cmd
	}
	if done {
		m.contactForm = nil
		m.setInfo("Contact request sent")
		events.Action.Success("contact request sent")
	}
	return true, cmd
}

func (m *Model) handleSearchResultsMsg(msg tea.Msg) tea.Cmd {
	results, ok := msg.(contacts.ResultsMsg)
	if !ok {
		return nil
	}
	if !m.contactH.Accept(results) {
		return nil
	}
	if m.contactForm != nil {
		m.contactForm.ResultsChanged()
	}
	return nil
}
