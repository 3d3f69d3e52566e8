package browser

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// ChromeLauncher starts a local Chrome through the DevTools protocol.
type ChromeLauncher struct {
	ExecPath        string
	PageLoadTimeout time.Duration
}

func NewChromeLauncher(execPath string) *ChromeLauncher {
	return &ChromeLauncher{ExecPath: execPath, PageLoadTimeout: 60 * time.Second}
}

func (l *ChromeLauncher) Launch(ctx context.Context, headless bool) (Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("allow-file-access-from-files", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)
	if l.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	d := &chromeDriver{
		ctx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		pageLoadTimeout: l.PageLoadTimeout,
	}

	// The first Run starts the browser process and must use the browser
	// context itself: a derived context would take the process down with it.
	if err := chromedp.Run(browserCtx); err != nil {
		d.cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return d, nil
}

type chromeDriver struct {
	ctx             context.Context
	cancel          context.CancelFunc
	pageLoadTimeout time.Duration
}

// run executes actions on the browser context, bounded by timeout and by the
// caller's ctx.
func (d *chromeDriver) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(d.ctx)
	defer cancel()

	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(runCtx, timeout)
		defer cancelTimeout()
	}
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (d *chromeDriver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx, d.pageLoadTimeout, chromedp.Navigate(url))
}

func (d *chromeDriver) WaitVisible(ctx context.Context, selector string) error {
	return d.run(ctx, 0, chromedp.WaitVisible(selector, chromedp.BySearch))
}

func (d *chromeDriver) Click(ctx context.Context, selector string) error {
	return d.run(ctx, 0,
		chromedp.ScrollIntoView(selector, chromedp.BySearch),
		chromedp.Click(selector, chromedp.BySearch),
	)
}

func (d *chromeDriver) Type(ctx context.Context, selector, text string) error {
	return d.run(ctx, 0,
		chromedp.Click(selector, chromedp.BySearch),
		chromedp.SendKeys(selector, text, chromedp.BySearch),
	)
}

func (d *chromeDriver) Upload(ctx context.Context, selector, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// File inputs are usually hidden, so only wait for the node to exist.
	return d.run(ctx, 0, chromedp.SetUploadFiles(selector, []string{abs}, chromedp.BySearch, chromedp.NodeReady))
}

func (d *chromeDriver) SetCookies(ctx context.Context, cookies []Cookie) error {
	return d.run(ctx, 0, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			params := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithSecure(c.Secure).
				WithHTTPOnly(c.HTTPOnly)
			if c.Expiry > 0 {
				expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expiry), 0))
				params = params.WithExpires(&expires)
			}
			if err := params.Do(ctx); err != nil {
				return fmt.Errorf("error adding cookie %s: %w", c.Name, err)
			}
		}
		return nil
	}))
}

func (d *chromeDriver) Close() error {
	d.cancel()
	return nil
}
