// Package login validates and submits credentials from the control box login
// pane and keeps the connection feedback the host reports back.
package login

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/controlbox/internal/host"
	"github.com/atomicstack/controlbox/internal/jid"
	"github.com/atomicstack/controlbox/internal/logging/events"
	"github.com/atomicstack/controlbox/internal/status"
)

// InvalidAddressMessage is the field-level validation message.
const InvalidAddressMessage = "Please enter a valid XMPP address"

const (
	fragmentLogin    = "converse/login"
	fragmentRegister = "converse/register"
)

var (
	// ErrInvalidAddress is returned by Submit when the address fails validation.
	ErrInvalidAddress = errors.New("login: invalid address")
	// ErrNoTransport is returned by Submit without a host transport.
	ErrNoTransport = errors.New("login: no transport")
)

// Handler implements the login pane's behaviour.
type Handler struct {
	ctx      *host.AppContext
	resource func() string
	feedback status.Feedback
}

// NewHandler returns a handler bound to ctx.
func NewHandler(ctx *host.AppContext) *Handler {
	if ctx == nil {
		ctx = &host.AppContext{}
	}
	return &Handler{ctx: ctx, resource: jid.GenerateResource}
}

// SetResourceGenerator replaces the generator used for addresses without a
// resource. The generator returns the suffix including the leading slash.
func (h *Handler) SetResourceGenerator(fn func() string) {
	if fn != nil {
		h.resource = fn
	}
}

// Anonymous reports whether the pane connects without credentials.
func (h *Handler) Anonymous() bool {
	return h.ctx.Options.Authentication == host.AuthAnonymous
}

func (h *Handler) domainConfigured() bool {
	return h.ctx.Options.LockedDomain != "" || h.ctx.Options.DefaultDomain != ""
}

// Placeholder is the hint shown in the address field.
func (h *Handler) Placeholder() string {
	if h.domainConfigured() {
		return "Username"
	}
	return "user@domain"
}

// Validate checks the address field. With a locked or default domain any
// input is accepted since the domain is supplied on submit.
func (h *Handler) Validate(input string) (bool, string) {
	if h.Anonymous() {
		return true, ""
	}
	ok := input == "" || h.domainConfigured() || jid.Valid(input)
	events.Login.Validate(input, ok)
	if !ok {
		return false, InvalidAddressMessage
	}
	return true, ""
}

// Normalize applies the configured domain to the typed address.
func (h *Handler) Normalize(input string) string {
	opts := h.ctx.Options
	address := strings.TrimSpace(input)
	switch {
	case opts.LockedDomain != "":
		address = jid.EscapeNode(address) + "@" + opts.LockedDomain
	case opts.DefaultDomain != "" && !strings.Contains(address, "@"):
		address = address + "@" + opts.DefaultDomain
	}
	return address
}

// withResource lowercases the bare part of address and appends a generated
// resource when it has none.
func (h *Handler) withResource(address string) string {
	if address == "" {
		return ""
	}
	bare := strings.ToLower(jid.Bare(address))
	if resource := jid.Resource(address); resource != "" {
		return bare + "/" + resource
	}
	return bare + h.resource()
}

// Submit connects with the given credentials and returns the address used.
// In anonymous mode the configured anonymous address is used instead.
func (h *Handler) Submit(input, password string) (string, error) {
	if h.ctx.Transport == nil {
		return "", ErrNoTransport
	}
	if h.Anonymous() {
		return h.connect(h.ctx.Options.AnonymousJID, ""), nil
	}
	if strings.TrimSpace(input) == "" {
		events.Login.Reject(input, events.LoginReasonEmpty)
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, InvalidAddressMessage)
	}
	if ok, msg := h.Validate(input); !ok {
		events.Login.Reject(input, events.LoginReasonInvalid)
		return "", fmt.Errorf("%w: %s", ErrInvalidAddress, msg)
	}
	return h.connect(h.Normalize(input), password), nil
}

// connect clears a pending login or register route, resets the transport
// and connects as address with a resource attached.
func (h *Handler) connect(address, password string) string {
	h.clearRoute()
	address = h.withResource(address)
	events.Login.Submit(address)
	transport := h.ctx.Transport
	transport.Reset()
	transport.Connect(address, password, h.OnStatus)
	return address
}

func (h *Handler) clearRoute() {
	router := h.ctx.Router
	if router == nil {
		return
	}
	fragment := router.Fragment()
	if fragment == fragmentLogin || fragment == fragmentRegister {
		events.Login.Route(fragment)
		router.Navigate("")
	}
}

// OnStatus records a status reported by the transport.
func (h *Handler) OnStatus(code status.Code, message string) {
	events.Login.Status(int(code), message)
	h.feedback = status.NewFeedback(code, message)
}

// Feedback returns the last reported connection status.
func (h *Handler) Feedback() status.Feedback {
	return h.feedback
}
