// Package browser drives a live page for the platform adapters. Selectors are
// XPath expressions or CSS selectors; the driver decides which by syntax.
package browser

import (
	"context"
	"time"
)

// Driver is one browser session. Every call blocks until the page reacts or
// ctx expires.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, selector string) error
	Click(ctx context.Context, selector string) error
	Type(ctx context.Context, selector, text string) error
	Upload(ctx context.Context, selector, path string) error
	SetCookies(ctx context.Context, cookies []Cookie) error
	Close() error
}

// Launcher starts a fresh session; adapters launch one per post attempt.
type Launcher interface {
	Launch(ctx context.Context, headless bool) (Driver, error)
}

// Sleep pauses for d unless ctx ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
