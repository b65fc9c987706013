package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabels(t *testing.T) {
	assert.Equal(t, "Connection failure", ConnFail.String())
	assert.Equal(t, "Reconnecting", Reconnecting.String())
	assert.Equal(t, "Status(42)", Code(42).String())
	assert.True(t, Redirect.Valid())
	assert.False(t, Code(11).Valid())
}

func TestReportableSubset(t *testing.T) {
	reportable := []Code{Error, Connecting, ConnFail, Authenticating, AuthFail, Disconnecting, Reconnecting}
	silent := []Code{Connected, Disconnected, Attached, Redirect}
	for _, c := range reportable {
		assert.Truef(t, c.Reportable(), "%s should be reportable", c)
	}
	for _, c := range silent {
		assert.Falsef(t, c.Reportable(), "%s should not be reportable", c)
	}
}

func TestFeedback(t *testing.T) {
	var empty Feedback
	assert.False(t, empty.Reported())
	assert.Equal(t, "", empty.Subject())
	assert.Equal(t, SeverityNone, empty.Severity())

	fail := NewFeedback(AuthFail, "bad password")
	assert.Equal(t, "Authentication failure", fail.Subject())
	assert.Equal(t, SeverityError, fail.Severity())

	connected := NewFeedback(Connected, "")
	assert.True(t, connected.Reported())
	assert.Equal(t, "", connected.Subject())

	assert.Equal(t, SeverityWarn, NewFeedback(Disconnecting, "").Severity())
	assert.Equal(t, SeverityInfo, NewFeedback(Connecting, "").Severity())
}
