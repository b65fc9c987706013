package ui

import (
	"fmt"
	"unicode"

	"github.com/atomicstack/controlbox/internal/controlbox"
	"github.com/atomicstack/controlbox/internal/logging/events"
	uistate "github.com/atomicstack/controlbox/internal/ui/state"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) isGlobalKey(msg tea.KeyMsg) bool {
	return key.Matches(msg, m.keys.Quit) || key.Matches(msg, m.keys.Toggle)
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Toggle):
		m.toggle.Click()
		return nil
	}
	switch m.mode {
	case ModeToggle:
		if key.Matches(keyMsg, m.keys.Open) {
			m.toggle.Click()
		}
		return nil
	case ModeContacts:
		return m.handleContactsKey(keyMsg)
	}
	return nil
}

func (m *Model) handleContactsKey(msg tea.KeyMsg) tea.Cmd {
	l := m.list
	switch {
	case key.Matches(msg, m.keys.Up):
		l.MoveCursorUp()
	case key.Matches(msg, m.keys.Down):
		l.MoveCursorDown()
	case key.Matches(msg, m.keys.PageUp):
		l.MoveCursorPageUp(m.maxVisibleItems())
	case key.Matches(msg, m.keys.PageDown):
		l.MoveCursorPageDown(m.maxVisibleItems())
	case key.Matches(msg, m.keys.Home):
		l.MoveCursorHome()
	case key.Matches(msg, m.keys.End):
		l.MoveCursorEnd()
	case key.Matches(msg, m.keys.Select):
		item, ok := l.Current()
		if !ok {
			return nil
		}
		events.UI.Select(controlbox.PaneContacts.String(), item.ID)
		m.setInfo(fmt.Sprintf("Chat with %s", item.Label))
		return nil
	case key.Matches(msg, m.keys.SwitchTab):
		m.ctrl.SwitchTab(controlbox.TabContacts)
		return nil
	case key.Matches(msg, m.keys.AddContact):
		return m.startContactForm()
	case key.Matches(msg, m.keys.Offline):
		m.roster.SetIncludeOffline(!m.roster.IncludeOffline())
		m.refreshRoster()
		return nil
	case key.Matches(msg, m.keys.Logout):
		return m.logoutCmd()
	case key.Matches(msg, m.keys.Back):
		if l.Filter != "" {
			m.clearFilter()
			return nil
		}
		m.ctrl.Close()
		return nil
	default:
		_, cmd := m.handleTextInput(msg)
		return cmd
	}
	m.syncViewport()
	return nil
}

// refreshRoster rebuilds the roster rows from the store.
func (m *Model) refreshRoster() {
	entries := m.roster.Entries()
	items := make([]uistate.Item, 0, len(entries))
	for _, c := range entries {
		items = append(items, uistate.Item{
			ID:       c.JID,
			Label:    c.DisplayName(),
			Detail:   c.JID,
			Presence: c.Presence,
			Online:   c.Online(),
		})
	}
	m.list.UpdateItems(items)
	m.syncViewport()
}

func (m *Model) syncViewport() {
	m.list.EnsureCursorVisible(m.maxVisibleItems())
}

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(before int) {
	if before != m.list.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

func (m *Model) handleTextInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	l := m.list
	switch msg.String() {
	case "ctrl+u":
		if l.Filter == "" {
			return false, nil
		}
		m.clearFilter()
		return true, nil
	case "ctrl+w":
		before := l.FilterCursorPos()
		if !l.DeleteFilterWordBackward() {
			return false, nil
		}
		m.noteFilterCursorChange(before)
		m.errMsg = ""
		events.Filter.Backspace(l.ID, l.Filter)
		m.syncViewport()
		return true, nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return m.removeFilterRune(), nil
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false, nil
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false, nil
			}
		}
		return m.appendToFilter(string(msg.Runes)), nil
	case tea.KeySpace:
		return m.appendToFilter(" "), nil
	}
	return false, nil
}

func (m *Model) clearFilter() {
	before := m.list.FilterCursorPos()
	if !m.list.ClearFilter() {
		return
	}
	m.noteFilterCursorChange(before)
	m.forceClearInfo()
	m.errMsg = ""
	events.Filter.Cleared(m.list.ID)
	m.syncViewport()
}

func (m *Model) appendToFilter(text string) bool {
	if text == "" {
		return false
	}
	before := m.list.FilterCursorPos()
	if !m.list.InsertFilterText(text) {
		return false
	}
	m.noteFilterCursorChange(before)
	m.forceClearInfo()
	m.errMsg = ""
	events.Filter.Append(m.list.ID, m.list.Filter)
	m.syncViewport()
	return true
}

func (m *Model) removeFilterRune() bool {
	before := m.list.FilterCursorPos()
	if !m.list.DeleteFilterRuneBackward() {
		return false
	}
	m.noteFilterCursorChange(before)
	m.forceClearInfo()
	m.errMsg = ""
	events.Filter.Backspace(m.list.ID, m.list.Filter)
	m.syncViewport()
	return true
}

func (m *Model) filterPrompt() string {
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	text := m.list.Filter
	if text == "" {
		runes := []rune("(type to filter contacts)")
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		caret := m.renderFilterCursor(string(runes[0]))
		return prompt + caret + render(styles.FilterPlaceholder, string(runes[1:]))
	}
	runes := []rune(text)
	pos := m.list.FilterCursorPos()
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + m.renderFilterCursor(caretRune) + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy().Inline(true)
	if m.filterCursor.Blink {
		return base.Render(char)
	}
	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		return base.Inherit(cursorStyle).Render(char)
	}
	return base.Reverse(true).Render(char)
}
