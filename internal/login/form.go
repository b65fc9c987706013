package login

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldJID = iota
	fieldPassword
)

// Form is the login pane's input state.
type Form struct {
	handler  *Handler
	jid      textinput.Model
	password textinput.Model
	focus    int
	err      string
	address  string
}

// NewForm builds the form for h. The password field is omitted in
// anonymous mode.
func NewForm(h *Handler) *Form {
	jidInput := textinput.New()
	jidInput.Placeholder = h.Placeholder()
	jidInput.CharLimit = 256
	jidInput.Focus()

	pw := textinput.New()
	pw.Placeholder = "password"
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.CharLimit = 256

	return &Form{handler: h, jid: jidInput, password: pw}
}

func (f *Form) Title() string {
	if f.handler.Anonymous() {
		return "Click to log in anonymously"
	}
	return "Log in"
}

func (f *Form) Help() string {
	if f.handler.Anonymous() {
		return "Enter to connect."
	}
	return "Tab to switch field. Enter to log in."
}

func (f *Form) JIDView() string      { return f.jid.View() }
func (f *Form) PasswordView() string { return f.password.View() }
func (f *Form) Error() string        { return f.err }
func (f *Form) JID() string          { return strings.TrimSpace(f.jid.Value()) }
func (f *Form) ShowPassword() bool   { return !f.handler.Anonymous() }

// Address returns the normalised address of the last successful submit.
func (f *Form) Address() string { return f.address }

// PasswordFocused reports whether the password field has focus.
func (f *Form) PasswordFocused() bool { return f.focus == fieldPassword }

// Reset clears the password and any error, keeping the address.
func (f *Form) Reset() {
	f.password.SetValue("")
	f.err = ""
	f.setFocus(fieldJID)
}

// SetCursorMode applies mode to both inputs.
func (f *Form) SetCursorMode(mode cursor.Mode) {
	f.jid.Cursor.SetMode(mode)
	f.password.Cursor.SetMode(mode)
}

func (f *Form) setFocus(field int) {
	f.focus = field
	if field == fieldPassword {
		f.jid.Blur()
		f.password.Focus()
		return
	}
	f.password.Blur()
	f.jid.Focus()
}

// Update handles a message and reports whether the credentials were
// submitted to the transport.
func (f *Form) Update(msg tea.Msg) (tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			if f.ShowPassword() {
				f.setFocus(1 - f.focus)
			}
			return nil, false
		case tea.KeyEnter:
			return nil, f.submit()
		case tea.KeyCtrlU:
			if f.focus == fieldPassword {
				f.password.SetValue("")
			} else {
				f.jid.SetValue("")
				f.err = ""
			}
			return nil, false
		}
	}

	var cmd tea.Cmd
	if f.focus == fieldPassword {
		f.password, cmd = f.password.Update(msg)
		return cmd, false
	}
	f.jid, cmd = f.jid.Update(msg)
	if ok, message := f.handler.Validate(f.JID()); ok {
		f.err = ""
	} else {
		f.err = message
	}
	return cmd, false
}

func (f *Form) submit() bool {
	address, err := f.handler.Submit(f.JID(), f.password.Value())
	if err != nil {
		if errors.Is(err, ErrInvalidAddress) {
			f.err = InvalidAddressMessage
		} else {
			f.err = err.Error()
		}
		return false
	}
	f.err = ""
	f.address = address
	f.password.SetValue("")
	return true
}
