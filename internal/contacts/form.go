package contacts

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Form is the add-contact (or user search) form shown below the roster.
type Form struct {
	handler *Handler
	input   textinput.Model
	// selected is the highlighted search result; -1 keeps focus on the input.
	selected int
	err      string
}

// NewForm builds the form for h.
func NewForm(h *Handler) *Form {
	ti := textinput.New()
	ti.CharLimit = 256
	if h.SearchEnabled() {
		ti.Placeholder = NamePlaceholder
	} else {
		ti.Placeholder = AddressPlaceholder
	}
	ti.Focus()
	return &Form{handler: h, input: ti, selected: -1}
}

func (f *Form) Title() string {
	if f.handler.SearchEnabled() {
		return "Search"
	}
	return "Add a contact"
}

func (f *Form) Help() string {
	if f.handler.SearchEnabled() {
		return "Enter to search. ↓ to pick a result. Esc to close."
	}
	return "Enter to add. Esc to close."
}

func (f *Form) InputView() string { return f.input.View() }
func (f *Form) Value() string     { return strings.TrimSpace(f.input.Value()) }
func (f *Form) Selected() int     { return f.selected }

// SetCursorMode applies mode to the input cursor.
func (f *Form) SetCursorMode(mode cursor.Mode) {
	f.input.Cursor.SetMode(mode)
}

// Error returns the field-level message of the last submission.
func (f *Form) Error() string { return f.err }

// Update handles a message. done reports a completed addition and cancel
// reports that the form was dismissed.
func (f *Form) Update(msg tea.Msg) (cmd tea.Cmd, done bool, cancel bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			return nil, false, true
		case tea.KeyDown:
			if f.handler.SearchEnabled() && f.selected+1 < len(f.handler.Results()) {
				f.selected++
				f.input.Blur()
			}
			return nil, false, false
		case tea.KeyUp:
			if f.selected >= 0 {
				f.selected--
				if f.selected < 0 {
					f.input.Focus()
				}
			}
			return nil, false, false
		case tea.KeyEnter:
			return f.submit()
		}
	}
	if f.selected >= 0 {
		return nil, false, false
	}
	f.input, cmd = f.input.Update(msg)
	return cmd, false, false
}

func (f *Form) submit() (tea.Cmd, bool, bool) {
	if f.handler.SearchEnabled() {
		if f.selected >= 0 {
			if err := f.handler.AddFromResult(f.selected); err != nil {
				f.err = err.Error()
				return nil, false, false
			}
			f.err = ""
			return nil, true, false
		}
		f.err = ""
		return f.handler.Search(f.Value()), false, false
	}
	draft := f.handler.AddContact(f.Value(), "")
	f.err = draft.ErrorMessage
	if draft.ErrorMessage != "" {
		return nil, false, false
	}
	f.input.SetValue("")
	return nil, true, false
}

// ResultsChanged clamps the selection after a search result arrives.
func (f *Form) ResultsChanged() {
	if f.selected >= len(f.handler.Results()) {
		f.selected = -1
		f.input.Focus()
	}
}
