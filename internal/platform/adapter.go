// Package platform holds the browser scripts that publish to each network.
package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/autopost/internal/browser"
	"github.com/maheshrc27/autopost/internal/models"
)

// Request is what the engine hands an adapter for one platform.
type Request struct {
	Text      string
	MediaPath string
	Options   models.Options
	Headless  bool
}

// Adapter publishes one post. It never returns an error: every failure is
// reported through the Result.
type Adapter interface {
	Post(ctx context.Context, req Request) models.Result
}

type AdapterFunc func(ctx context.Context, req Request) models.Result

func (f AdapterFunc) Post(ctx context.Context, req Request) models.Result {
	return f(ctx, req)
}

type stepKind int

const (
	stepClick stepKind = iota
	stepType
	stepUpload
	stepWait
)

// step is one UI interaction, attempted against each selector in turn.
type step struct {
	kind      stepKind
	selectors []string
	// pick overrides selectors when they depend on the request.
	pick    func(req Request) []string
	text    func(req Request) string
	timeout time.Duration
	pause   time.Duration
	// withMedia steps run only when a media file is present.
	withMedia bool
	// optional steps log their failure and let the script continue.
	optional bool
	failure  string
}

// script is the full publishing routine for one platform.
type script struct {
	label         string
	cookies       string
	homeURL       string
	feedURL       string
	loggedIn      []string
	requiresMedia string
	steps         []step
	success       func(req Request) string
}

type scriptAdapter struct {
	script    script
	launcher  browser.Launcher
	cookieDir string
	settle    time.Duration
}

const defaultStepTimeout = 10 * time.Second

func (a *scriptAdapter) Post(ctx context.Context, req Request) models.Result {
	s := a.script
	if s.requiresMedia != "" && req.MediaPath == "" {
		return fail(s.requiresMedia)
	}

	cookies, err := browser.LoadCookies(a.cookieDir, s.cookies)
	if err != nil {
		if errors.Is(err, browser.ErrCookiesNotFound) {
			return fail(fmt.Sprintf("%s cookies not found", s.label))
		}
		return fail(fmt.Sprintf("%s error: %v", s.label, err))
	}

	d, err := a.launcher.Launch(ctx, req.Headless)
	if err != nil {
		return fail(fmt.Sprintf("%s error: %v", s.label, err))
	}
	defer func() {
		if err := d.Close(); err != nil {
			slog.Warn("unable to close browser", "platform", s.cookies, "error", err)
		}
	}()

	// Cookies can only be set once the browser is on the platform's domain.
	if err := d.Navigate(ctx, s.homeURL); err != nil {
		return fail(fmt.Sprintf("%s error: %v", s.label, err))
	}
	if err := d.SetCookies(ctx, cookies); err != nil {
		return fail(fmt.Sprintf("%s error: %v", s.label, err))
	}
	if err := d.Navigate(ctx, s.feedURL); err != nil {
		return fail(fmt.Sprintf("%s error: %v", s.label, err))
	}
	if len(s.loggedIn) > 0 {
		if _, err := browser.WaitFirst(ctx, d, defaultStepTimeout, s.loggedIn...); err != nil {
			return fail(fmt.Sprintf("%s authentication failed", s.label))
		}
	}

	for _, st := range s.steps {
		if st.withMedia && req.MediaPath == "" {
			continue
		}
		if err := a.runStep(ctx, d, st, req); err != nil {
			if st.optional {
				slog.Info("optional step skipped", "platform", s.cookies, "step", st.failure, "error", err)
				continue
			}
			return fail(st.failure)
		}
		if err := browser.Sleep(ctx, a.pause(st)); err != nil {
			return fail(fmt.Sprintf("%s error: %v", s.label, err))
		}
	}

	return models.Result{Success: true, Message: s.success(req)}
}

func (a *scriptAdapter) runStep(ctx context.Context, d browser.Driver, st step, req Request) error {
	selectors := st.selectors
	if st.pick != nil {
		selectors = st.pick(req)
	}
	timeout := st.timeout
	if timeout == 0 {
		timeout = defaultStepTimeout
	}

	var err error
	switch st.kind {
	case stepClick:
		_, err = browser.ClickFirst(ctx, d, timeout, selectors...)
	case stepType:
		text := req.Text
		if st.text != nil {
			text = st.text(req)
		}
		if text == "" {
			return nil
		}
		_, err = browser.TypeFirst(ctx, d, timeout, text, selectors...)
	case stepUpload:
		_, err = browser.UploadFirst(ctx, d, timeout, req.MediaPath, selectors...)
	case stepWait:
		_, err = browser.WaitFirst(ctx, d, timeout, selectors...)
	}
	return err
}

// pause lets the page settle after a step. A zero settle disables pauses.
func (a *scriptAdapter) pause(st step) time.Duration {
	if a.settle == 0 {
		return 0
	}
	if st.pause > 0 {
		return st.pause
	}
	return a.settle
}

func fail(message string) models.Result {
	return models.Result{Success: false, Message: message}
}

func successMessage(message string) func(Request) string {
	return func(Request) string { return message }
}

// fileInputs is the shared upload chain: any file input, visible or not.
var fileInputs = []string{
	"//input[@type='file']",
	"input[type='file']",
}

// NewRegistry builds the adapter for every supported platform.
func NewRegistry(launcher browser.Launcher, cookieDir string, settle time.Duration) map[string]Adapter {
	scripts := map[string]script{
		models.PlatformLinkedin:    linkedinScript,
		models.PlatformTwitter:     twitterScript,
		models.PlatformInstagram:   instagramScript,
		models.PlatformFacebook:    facebookScript,
		models.PlatformPinterest:   pinterestScript,
		models.PlatformYoutube:     youtubeScript,
		models.PlatformYoutubePost: youtubePostScript,
	}

	adapters := make(map[string]Adapter, len(scripts))
	for name, s := range scripts {
		adapters[name] = &scriptAdapter{
			script:    s,
			launcher:  launcher,
			cookieDir: cookieDir,
			settle:    settle,
		}
	}
	return adapters
}
