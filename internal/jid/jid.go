// Package jid parses and normalises chat addresses of the form
// local@domain[/resource].
package jid

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// ResourcePrefix starts every generated resource.
const ResourcePrefix = "controlbox-"

// ErrInvalid is returned by Parse when the address is not local@domain[/resource].
var ErrInvalid = errors.New("jid: invalid address")

// JID is a parsed chat address.
type JID struct {
	Local    string
	Domain   string
	Resource string
}

// Parse splits s into its parts. The local and domain parts are required;
// the resource is optional but must not be empty when a slash is present.
func Parse(s string) (JID, error) {
	bare, resource, hasResource := strings.Cut(s, "/")
	if hasResource && resource == "" {
		return JID{}, fmt.Errorf("%w: empty resource in %q", ErrInvalid, s)
	}
	local, domain, ok := strings.Cut(bare, "@")
	if !ok || local == "" || domain == "" {
		return JID{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	if strings.Contains(domain, "@") || hasSpace(local) || hasSpace(domain) {
		return JID{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return JID{Local: local, Domain: domain, Resource: resource}, nil
}

// Valid reports whether s parses as local@domain[/resource].
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// HasLocalAndDomain reports whether s carries at least two non-empty parts
// separated by "@". It is the looser check used for roster additions.
func HasLocalAndDomain(s string) bool {
	count := 0
	for _, part := range strings.Split(s, "@") {
		if part != "" {
			count++
		}
	}
	return count >= 2
}

// Bare returns local@domain.
func (j JID) Bare() string {
	return j.Local + "@" + j.Domain
}

func (j JID) String() string {
	if j.Resource == "" {
		return j.Bare()
	}
	return j.Bare() + "/" + j.Resource
}

// Bare strips the resource from s.
func Bare(s string) string {
	bare, _, _ := strings.Cut(s, "/")
	return bare
}

// Resource returns everything after the first slash, or "" when s has none.
func Resource(s string) string {
	_, resource, _ := strings.Cut(s, "/")
	return resource
}

// Node returns the local part of s, or "" when s has no "@".
func Node(s string) string {
	bare := Bare(s)
	local, _, ok := strings.Cut(bare, "@")
	if !ok {
		return ""
	}
	return local
}

// Domain returns the domain part of s. Without an "@" the bare address is the domain.
func Domain(s string) string {
	bare := Bare(s)
	_, domain, ok := strings.Cut(bare, "@")
	if !ok {
		return bare
	}
	return domain
}

var nodeEscaper = strings.NewReplacer(
	`\`, `\5c`,
	" ", `\20`,
	`"`, `\22`,
	"&", `\26`,
	"'", `\27`,
	"/", `\2f`,
	":", `\3a`,
	"<", `\3c`,
	">", `\3e`,
	"@", `\40`,
)

// EscapeNode trims node and escapes the characters that are not allowed in
// the local part of an address.
func EscapeNode(node string) string {
	return nodeEscaper.Replace(strings.TrimSpace(node))
}

// GenerateResource returns a fresh "/controlbox-xxxxxxxx" resource suffix.
func GenerateResource() string {
	id := uuid.NewString()
	return "/" + ResourcePrefix + id[:8]
}

func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
