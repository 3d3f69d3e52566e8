package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var ErrNoStrategy = errors.New("all strategies failed")

// Strategy is one way of performing a step.
type Strategy struct {
	Name string
	Do   func(ctx context.Context) error
}

// FirstOf tries each strategy in order, giving every attempt at most timeout,
// and returns the name of the first that succeeds. When all fail the error
// wraps ErrNoStrategy and the last failure.
func FirstOf(ctx context.Context, timeout time.Duration, strategies ...Strategy) (string, error) {
	var lastErr error
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		attemptCtx := ctx
		cancel := func() {}
		if timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		err := s.Do(attemptCtx)
		cancel()

		if err == nil {
			return s.Name, nil
		}
		slog.Debug("strategy failed", "strategy", s.Name, "error", err)
		lastErr = err
	}
	if lastErr == nil {
		return "", ErrNoStrategy
	}
	return "", fmt.Errorf("%w: %w", ErrNoStrategy, lastErr)
}

func selectorStrategies(selectors []string, do func(ctx context.Context, selector string) error) []Strategy {
	strategies := make([]Strategy, 0, len(selectors))
	for _, sel := range selectors {
		sel := sel
		strategies = append(strategies, Strategy{
			Name: sel,
			Do:   func(ctx context.Context) error { return do(ctx, sel) },
		})
	}
	return strategies
}

// ClickFirst clicks the first selector that becomes clickable.
func ClickFirst(ctx context.Context, d Driver, timeout time.Duration, selectors ...string) (string, error) {
	return FirstOf(ctx, timeout, selectorStrategies(selectors, d.Click)...)
}

// TypeFirst types text into the first selector that accepts it.
func TypeFirst(ctx context.Context, d Driver, timeout time.Duration, text string, selectors ...string) (string, error) {
	return FirstOf(ctx, timeout, selectorStrategies(selectors, func(ctx context.Context, sel string) error {
		return d.Type(ctx, sel, text)
	})...)
}

// UploadFirst sets path on the first file input found.
func UploadFirst(ctx context.Context, d Driver, timeout time.Duration, path string, selectors ...string) (string, error) {
	return FirstOf(ctx, timeout, selectorStrategies(selectors, func(ctx context.Context, sel string) error {
		return d.Upload(ctx, sel, path)
	})...)
}

// WaitFirst waits until any of selectors is visible.
func WaitFirst(ctx context.Context, d Driver, timeout time.Duration, selectors ...string) (string, error) {
	return FirstOf(ctx, timeout, selectorStrategies(selectors, d.WaitVisible)...)
}
