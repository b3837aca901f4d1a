package domain

import (
	"fmt"
	"strings"
)

// BrowserKind selects which browser engine a scenario runs on.
// The set is closed; the zero value is Chromium.
type BrowserKind int

const (
	BrowserChromium BrowserKind = iota
	BrowserFirefox
	BrowserWebKit
)

// ParseBrowserKind maps a configured name onto a BrowserKind.
// Empty or unrecognised names fall back to Chromium.
func ParseBrowserKind(name string) BrowserKind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "firefox":
		return BrowserFirefox
	case "webkit":
		return BrowserWebKit
	default:
		return BrowserChromium
	}
}

// LookupBrowserKind maps an explicitly requested name onto a BrowserKind.
// Unlike ParseBrowserKind it rejects names outside the closed set.
func LookupBrowserKind(name string) (BrowserKind, error) {
	kind := ParseBrowserKind(name)
	if kind.String() != strings.ToLower(strings.TrimSpace(name)) {
		return kind, fmt.Errorf("unknown browser %q (valid: chromium, firefox, webkit)", name)
	}
	return kind, nil
}

func (k BrowserKind) String() string {
	switch k {
	case BrowserFirefox:
		return "firefox"
	case BrowserWebKit:
		return "webkit"
	default:
		return "chromium"
	}
}
