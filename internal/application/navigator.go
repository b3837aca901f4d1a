package application

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/openkraft/uiharness/internal/domain"
	"github.com/openkraft/uiharness/internal/domain/session"
)

// Navigator moves the current page to application paths or absolute URLs.
type Navigator struct {
	baseURL string
}

func NewNavigator(baseURL string) *Navigator {
	return &Navigator{baseURL: strings.TrimSpace(baseURL)}
}

// Resolve turns a path into an absolute URL under baseUrl. Absolute http(s)
// URLs are returned unchanged and do not need a baseUrl.
func (n *Navigator) Resolve(target string) (string, error) {
	if u, err := url.Parse(target); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return target, nil
	}
	if n.baseURL == "" {
		return "", &domain.ConfigError{Key: "baseUrl", Err: domain.ErrMissingSetting}
	}
	return strings.TrimRight(n.baseURL, "/") + "/" + strings.TrimLeft(target, "/"), nil
}

// GoToPath navigates the current page to path under baseUrl.
func (n *Navigator) GoToPath(ctx context.Context, path string) error {
	if n.baseURL == "" {
		return &domain.ConfigError{Key: "baseUrl", Err: domain.ErrMissingSetting}
	}
	return n.Open(ctx, path)
}

// Open navigates the current page to target, a path or an absolute URL.
func (n *Navigator) Open(ctx context.Context, target string) error {
	dest, err := n.Resolve(target)
	if err != nil {
		return err
	}
	page, err := session.CurrentPage(ctx)
	if err != nil {
		return err
	}
	if err := page.Goto(dest); err != nil {
		return fmt.Errorf("navigating to %s: %w", dest, err)
	}
	return nil
}
