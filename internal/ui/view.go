package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/controlbox/internal/controlbox"
	"github.com/atomicstack/controlbox/internal/format/table"
	uistate "github.com/atomicstack/controlbox/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	// boxChrome is the width taken by the box border and padding.
	boxChrome = 4
	infoTTL   = 5 * time.Second
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.ctrl.Visible():
		return m.viewBox()
	case !m.ctrl.Added() && !m.ctrl.ToggleVisible():
		return m.viewWaiting()
	default:
		return m.viewToggle()
	}
}

func (m *Model) viewWaiting() string {
	lines := []styledLine{{text: "Waiting for the chat client…", style: styles.Label}}
	lines = append(lines, m.statusLines()...)
	if m.showFooter {
		lines = append(lines, styledLine{text: helpLine(m.keys.Toggle, m.keys.Quit), style: styles.Footer})
	}
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) viewToggle() string {
	lines := []styledLine{{text: m.toggleText(), style: styles.Toggle}}
	lines = append(lines, m.statusLines()...)
	if m.showFooter {
		lines = append(lines, styledLine{text: helpLine(m.keys.Open, m.keys.Toggle, m.keys.Quit), style: styles.Footer})
	}
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) toggleText() string {
	label := m.toggle.Label()
	if !m.ctrl.State().Connected {
		return label
	}
	return fmt.Sprintf("%s (%d online)", label, m.toggle.Count())
}

func (m *Model) viewBox() string {
	width := m.innerWidth()
	lines := make([]styledLine, 0, 16)
	if header := m.tabHeader(); header != "" {
		lines = append(lines, styledLine{text: header, raw: true})
	}
	switch m.ctrl.Pane() {
	case controlbox.PaneLogin:
		lines = append(lines, m.loginLines()...)
	case controlbox.PaneContacts:
		lines = append(lines, m.contactsLines(width)...)
	}
	lines = append(lines, m.statusLines()...)
	if m.showFooter {
		lines = append(lines, styledLine{text: m.footerText(), style: styles.Footer})
	}
	if m.height > 0 {
		lines = limitHeight(lines, m.height-2, width)
	}
	lines = applyWidth(lines, width)

	box := *styles.Box
	if m.width > 2 {
		box = box.Width(m.width - 2)
	}
	return box.Render(renderLines(lines))
}

func (m *Model) innerWidth() int {
	if m.width <= 0 {
		return 0
	}
	if w := m.width - boxChrome; w > 0 {
		return w
	}
	return 1
}

// tabHeader renders the tab strip with the unread counter. It is empty while
// the tabs are hidden.
func (m *Model) tabHeader() string {
	if !m.ctrl.TabsVisible() {
		return ""
	}
	tabStyle := styles.Tab
	if m.ctrl.State().ActivePanel == controlbox.TabContacts {
		tabStyle = styles.TabActive
	}
	header := tabStyle.Render("Contacts")
	if m.unread > 0 {
		header += " " + styles.Unread.Render(fmt.Sprintf("(%d)", m.unread))
	}
	return header
}

func (m *Model) loginLines() []styledLine {
	f := m.loginForm
	lines := []styledLine{{text: f.Title(), style: styles.Header}, {}}
	if !m.loginH.Anonymous() {
		lines = append(lines, styledLine{text: styles.Label.Render("Address  ") + f.JIDView(), raw: true})
		lines = append(lines, styledLine{text: styles.Label.Render("Password ") + f.PasswordView(), raw: true})
	}
	if err := f.Error(); err != "" {
		lines = append(lines, styledLine{text: err, style: styles.Error})
	}
	fb := m.loginH.Feedback()
	if subject := fb.Subject(); subject != "" {
		text := subject
		if fb.Message != "" {
			text += ": " + fb.Message
		}
		lines = append(lines, styledLine{text: text, style: styles.Severity(fb.Severity())})
	}
	lines = append(lines, styledLine{}, styledLine{text: f.Help(), style: styles.Footer})
	return lines
}

func (m *Model) contactsLines(width int) []styledLine {
	lines := []styledLine{{text: m.filterPrompt(), raw: true}}
	maxItems := m.maxVisibleItems()
	m.list.EnsureCursorVisible(maxItems)
	if !m.ctrl.RosterInserted() {
		lines = append(lines, styledLine{text: "Loading contacts…", style: styles.Info})
	} else if m.list.Len() == 0 {
		msg := "(no contacts)"
		if m.list.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", m.list.Filter)
		}
		lines = append(lines, styledLine{text: msg, style: styles.Info})
	} else {
		visible := m.list.Visible(maxItems)
		rows := make([][]string, len(visible))
		for i, item := range visible {
			detail := item.Detail
			if detail == item.Label {
				detail = ""
			}
			rows[i] = []string{presenceGlyph(item), item.Label, detail}
		}
		for i, text := range table.Format(rows, nil) {
			lines = append(lines, m.buildItemLine(text, visible[i], m.list.ViewportOffset+i, width))
		}
	}
	lines = append(lines, styledLine{text: m.summaryText(), style: styles.Label})
	lines = append(lines, m.contactFormLines()...)
	return lines
}

func (m *Model) summaryText() string {
	sum := m.roster.Summary()
	text := fmt.Sprintf("%d online · %d away · %d busy · %d offline", sum.Online, sum.Away, sum.Busy, sum.Offline)
	if m.ctx.Options.AllowLogout {
		text += "  " + helpLine(m.keys.Logout)
	}
	return text
}

func (m *Model) contactFormLines() []styledLine {
	f := m.contactForm
	if f == nil {
		return nil
	}
	lines := []styledLine{
		{},
		{text: f.Title(), style: styles.Header},
		{text: f.InputView(), raw: true},
	}
	if err := f.Error(); err != "" {
		lines = append(lines, styledLine{text: err, style: styles.Error})
	}
	for i, row := range m.contactH.Rows() {
		style := styles.Item
		if i == f.Selected() {
			style = styles.SelectedItem
		}
		lines = append(lines, styledLine{text: "  " + row, style: style})
	}
	lines = append(lines, styledLine{text: f.Help(), style: styles.Footer})
	return lines
}

func (m *Model) buildItemLine(text string, item uistate.Item, idx int, width int) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	if !item.Online {
		lineStyle = styles.Offline
	}
	indicatorStyle := styles.ItemIndicator
	if idx == m.list.Cursor {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := indicator + " " + text
	if width > 0 {
		if pad := width - lipgloss.Width(fullText); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
	}
}

func presenceGlyph(item uistate.Item) string {
	if !item.Online {
		return "○"
	}
	switch item.Presence {
	case "away", "xa":
		return "◐"
	case "dnd":
		return "⊘"
	default:
		return "●"
	}
}

func (m *Model) statusLines() []styledLine {
	var lines []styledLine
	if m.errMsg != "" {
		lines = append(lines, styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error})
	} else if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.backendLastErr != "" && !m.bridgeUp {
		lines = append(lines, styledLine{text: "Bridge: " + m.backendLastErr, style: styles.Warn})
	}
	return lines
}

func (m *Model) footerText() string {
	switch m.mode {
	case ModeContacts:
		return helpLine(m.keys.Select, m.keys.SwitchTab, m.keys.AddContact, m.keys.Offline, m.keys.Back, m.keys.Quit)
	case ModeContactForm:
		return helpLine(m.keys.Toggle, m.keys.Quit)
	default:
		return helpLine(m.keys.Back, m.keys.Toggle, m.keys.Quit)
	}
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.syncViewport()
	return nil
}

// maxVisibleItems returns how many roster rows fit, or -1 when the height is
// unknown.
func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := 2 // box border
	if m.ctrl.TabsVisible() {
		used++
	}
	used += 2 // filter prompt + presence summary
	used += len(m.contactFormLines())
	used += len(m.statusLines())
	if m.showFooter {
		used++
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(infoTTL)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.forceClearInfo()
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		line.text = text
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
