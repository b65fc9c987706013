// Package status describes the connection states reported by the host
// transport and how the login form presents them.
package status

import "fmt"

// Code is a transport connection status.
type Code int

const (
	Error Code = iota
	Connecting
	ConnFail
	Authenticating
	AuthFail
	Connected
	Disconnected
	Disconnecting
	Attached
	Redirect
	Reconnecting
)

// Severity selects the styling of the login feedback line.
type Severity string

const (
	SeverityNone  Severity = ""
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

var labels = map[Code]string{
	Error:          "Error",
	Connecting:     "Connecting",
	ConnFail:       "Connection failure",
	Authenticating: "Authenticating",
	AuthFail:       "Authentication failure",
	Connected:      "Connected",
	Disconnected:   "Disconnected",
	Disconnecting:  "Disconnecting",
	Attached:       "Attached",
	Redirect:       "Redirect",
	Reconnecting:   "Reconnecting",
}

var severities = map[Code]Severity{
	Error:          SeverityError,
	Connecting:     SeverityInfo,
	ConnFail:       SeverityError,
	Authenticating: SeverityInfo,
	AuthFail:       SeverityError,
	Connected:      SeverityInfo,
	Disconnected:   SeverityError,
	Disconnecting:  SeverityWarn,
	Attached:       SeverityInfo,
	Redirect:       SeverityInfo,
	Reconnecting:   SeverityWarn,
}

// String returns the human label for c.
func (c Code) String() string {
	if label, ok := labels[c]; ok {
		return label
	}
	return fmt.Sprintf("Status(%d)", int(c))
}

// Valid reports whether c is one of the eleven known codes.
func (c Code) Valid() bool {
	return c >= Error && c <= Reconnecting
}

// Severity returns the feedback class for c.
func (c Code) Severity() Severity {
	return severities[c]
}

// Reportable reports whether the login form shows c to the user. Connected,
// Disconnected, Attached and Redirect are handled by the panel itself.
func (c Code) Reportable() bool {
	switch c {
	case Error, Connecting, ConnFail, Authenticating, AuthFail, Disconnecting, Reconnecting:
		return true
	}
	return false
}

// Feedback is the read-only view of the last status the host reported.
type Feedback struct {
	Status  Code
	Message string
	set     bool
}

// NewFeedback records a reported status.
func NewFeedback(code Code, message string) Feedback {
	return Feedback{Status: code, Message: message, set: true}
}

// Reported reports whether any status has been recorded.
func (f Feedback) Reported() bool {
	return f.set
}

// Subject returns the label to show, or "" when the status is not reportable.
func (f Feedback) Subject() string {
	if !f.set || !f.Status.Reportable() {
		return ""
	}
	return f.Status.String()
}

// Severity returns the class to style the feedback with, or SeverityNone.
func (f Feedback) Severity() Severity {
	if !f.set || !f.Status.Reportable() {
		return SeverityNone
	}
	return f.Status.Severity()
}
