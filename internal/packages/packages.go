// Package packages maintains the ordered package selection handed to the
// OpenWrt ImageBuilder.
package packages

import "strings"

// RemovalPrefix marks a token as a package exclusion. The ImageBuilder
// interprets a leading dash as "do not install".
const RemovalPrefix = "-"

// defaultTokens seed every build so the resulting image ships a usable web UI.
var defaultTokens = []string{"luci", "luci-ssl"}

// List is an ordered, append-only accumulation of package tokens.
//
// Tokens are never deduplicated or reordered. When the same package is both
// installed and removed, both tokens are passed through and the downstream
// ImageBuilder decides which wins; owpib makes no guarantee about the
// resolution. This is a known limitation, not a bug.
type List struct {
	tokens []string
}

// NewList creates a List seeded with the default package selection.
func NewList() *List {
	l := &List{}
	l.tokens = append(l.tokens, defaultTokens...)
	return l
}

// Install appends a package installation token.
func (l *List) Install(name string) {
	l.tokens = append(l.tokens, name)
}

// Remove appends a package exclusion token.
func (l *List) Remove(name string) {
	l.tokens = append(l.tokens, RemovalPrefix+name)
}

// ExtendFromDiscovery appends package names discovered from the filesystem,
// such as custom-feed directory names. Same append-only semantics as Install.
func (l *List) ExtendFromDiscovery(names []string) {
	l.tokens = append(l.tokens, names...)
}

// Tokens returns a copy of the accumulated tokens in insertion order.
func (l *List) Tokens() []string {
	out := make([]string, len(l.tokens))
	copy(out, l.tokens)
	return out
}

func (l *List) Len() int {
	return len(l.tokens)
}

// String renders the list the way the ImageBuilder expects it, as a single
// space-separated PACKAGES value.
func (l *List) String() string {
	return strings.Join(l.tokens, " ")
}
