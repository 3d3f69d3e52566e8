package platform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/autopost/internal/browser"
	"github.com/maheshrc27/autopost/internal/models"
)

var errMissing = errors.New("element not found")

// fakeDriver records every interaction. Selectors listed in missing fail.
type fakeDriver struct {
	mu      sync.Mutex
	missing map[string]bool
	visited []string
	clicked []string
	typed   map[string]string
	uploads []string
	cookies []browser.Cookie
	closed  bool
}

func (d *fakeDriver) check(selector string) error {
	if d.missing[selector] {
		return errMissing
	}
	return nil
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visited = append(d.visited, url)
	return nil
}

func (d *fakeDriver) WaitVisible(_ context.Context, selector string) error {
	return d.check(selector)
}

func (d *fakeDriver) Click(_ context.Context, selector string) error {
	if err := d.check(selector); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clicked = append(d.clicked, selector)
	return nil
}

func (d *fakeDriver) Type(_ context.Context, selector, text string) error {
	if err := d.check(selector); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.typed == nil {
		d.typed = map[string]string{}
	}
	d.typed[selector] = text
	return nil
}

func (d *fakeDriver) Upload(_ context.Context, selector, path string) error {
	if err := d.check(selector); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.uploads = append(d.uploads, path)
	return nil
}

func (d *fakeDriver) SetCookies(_ context.Context, cookies []browser.Cookie) error {
	d.cookies = cookies
	return nil
}

func (d *fakeDriver) Close() error {
	d.closed = true
	return nil
}

type fakeLauncher struct {
	driver   *fakeDriver
	err      error
	launches int
}

func (l *fakeLauncher) Launch(context.Context, bool) (browser.Driver, error) {
	l.launches++
	if l.err != nil {
		return nil, l.err
	}
	return l.driver, nil
}

func writeCookies(t *testing.T, dir, platform string) {
	t.Helper()
	body := `[{"name":"session","value":"v","domain":".example.com","path":"/"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, platform+"_cookies.json"), []byte(body), 0o600))
}

func newTestRegistry(t *testing.T, d *fakeDriver, platforms ...string) (map[string]Adapter, *fakeLauncher) {
	t.Helper()
	dir := t.TempDir()
	for _, p := range platforms {
		writeCookies(t, dir, p)
	}
	l := &fakeLauncher{driver: d}
	return NewRegistry(l, dir, 0), l
}

func TestRegistry_CoversEveryPlatform(t *testing.T) {
	reg, _ := newTestRegistry(t, &fakeDriver{})
	for _, p := range models.PlatformOrder {
		assert.Contains(t, reg, p)
	}
}

func TestTwitter_PostsText(t *testing.T) {
	d := &fakeDriver{}
	reg, _ := newTestRegistry(t, d, "twitter")

	res := reg[models.PlatformTwitter].Post(context.Background(), Request{Text: "hello"})
	assert.True(t, res.Success, res.Message)
	assert.Equal(t, "Posted to Twitter successfully", res.Message)
	assert.Equal(t, "hello", d.typed["//div[@data-testid='tweetTextarea_0']"])
	assert.Contains(t, d.clicked, "//button[@data-testid='tweetButtonInline']")
	assert.Empty(t, d.uploads)
	assert.Len(t, d.cookies, 1)
	assert.True(t, d.closed)
}

func TestTwitter_FallsBackToSecondSelector(t *testing.T) {
	d := &fakeDriver{missing: map[string]bool{"//button[@data-testid='tweetButtonInline']": true}}
	reg, _ := newTestRegistry(t, d, "twitter")

	res := reg[models.PlatformTwitter].Post(context.Background(), Request{Text: "hello"})
	assert.True(t, res.Success, res.Message)
	assert.Contains(t, d.clicked, "//button[@data-testid='tweetButton']")
}

func TestTwitter_RequiredStepFails(t *testing.T) {
	d := &fakeDriver{missing: map[string]bool{
		"//button[@data-testid='tweetButtonInline']": true,
		"//button[@data-testid='tweetButton']":       true,
	}}
	reg, _ := newTestRegistry(t, d, "twitter")

	res := reg[models.PlatformTwitter].Post(context.Background(), Request{Text: "hello"})
	assert.False(t, res.Success)
	assert.Equal(t, "Error posting tweet", res.Message)
	assert.True(t, d.closed)
}

func TestAdapter_MissingCookies(t *testing.T) {
	d := &fakeDriver{}
	reg, l := newTestRegistry(t, d)

	res := reg[models.PlatformLinkedin].Post(context.Background(), Request{Text: "hi"})
	assert.False(t, res.Success)
	assert.Equal(t, "LinkedIn cookies not found", res.Message)
	assert.Zero(t, l.launches)
}

func TestAdapter_LaunchError(t *testing.T) {
	reg, l := newTestRegistry(t, &fakeDriver{}, "facebook")
	l.err = errors.New("no chrome")

	res := reg[models.PlatformFacebook].Post(context.Background(), Request{Text: "hi"})
	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Message, "Facebook error"), res.Message)
}

func TestAdapter_AuthenticationFailed(t *testing.T) {
	d := &fakeDriver{missing: map[string]bool{
		"//button[contains(., 'Start a post')]": true,
		".share-box-feed-entry__trigger":        true,
	}}
	reg, _ := newTestRegistry(t, d, "linkedin")

	res := reg[models.PlatformLinkedin].Post(context.Background(), Request{Text: "hi"})
	assert.False(t, res.Success)
	assert.Equal(t, "LinkedIn authentication failed", res.Message)
}

func TestAdapter_RequiresMedia(t *testing.T) {
	d := &fakeDriver{}
	reg, l := newTestRegistry(t, d, "instagram", "pinterest", "youtube")

	cases := map[string]string{
		models.PlatformInstagram: "Instagram requires media",
		models.PlatformPinterest: "Pinterest requires media",
		models.PlatformYoutube:   "YouTube requires media",
	}
	for platform, msg := range cases {
		res := reg[platform].Post(context.Background(), Request{Text: "caption"})
		assert.False(t, res.Success)
		assert.Equal(t, msg, res.Message)
	}
	assert.Zero(t, l.launches)
}

func TestLinkedin_OptionalMediaFailureContinues(t *testing.T) {
	missing := map[string]bool{}
	for _, sel := range fileInputs {
		missing[sel] = true
	}
	d := &fakeDriver{missing: missing}
	reg, _ := newTestRegistry(t, d, "linkedin")

	res := reg[models.PlatformLinkedin].Post(context.Background(), Request{Text: "hi", MediaPath: "/tmp/a.png"})
	assert.True(t, res.Success, res.Message)
	assert.Empty(t, d.uploads)
}

func TestYoutube_Visibility(t *testing.T) {
	d := &fakeDriver{}
	reg, _ := newTestRegistry(t, d, "youtube")

	res := reg[models.PlatformYoutube].Post(context.Background(), Request{
		Text:      "My video",
		MediaPath: "/tmp/v.mp4",
		Options:   models.Options{YoutubeVisibility: "unlisted", YoutubeDescription: "desc"},
	})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Video uploaded to YouTube successfully as unlisted", res.Message)
	assert.Contains(t, d.clicked, "//tp-yt-paper-radio-button[@name='UNLISTED']")
	assert.Contains(t, d.clicked, "//tp-yt-paper-radio-button[@name='VIDEO_MADE_FOR_KIDS_NOT_MFK']")
	assert.Equal(t, []string{"/tmp/v.mp4"}, d.uploads)

	res = reg[models.PlatformYoutube].Post(context.Background(), Request{Text: "v", MediaPath: "/tmp/v.mp4"})
	assert.Equal(t, "Video uploaded to YouTube successfully as public", res.Message)
}

func TestYoutubePost_SharesYoutubeCookies(t *testing.T) {
	d := &fakeDriver{}
	reg, _ := newTestRegistry(t, d, "youtube")

	res := reg[models.PlatformYoutubePost].Post(context.Background(), Request{Text: "community update"})
	assert.True(t, res.Success, res.Message)
	assert.Equal(t, "Posted to YouTube Community successfully", res.Message)
}

func TestPinterest_FillsOptionalFields(t *testing.T) {
	d := &fakeDriver{}
	reg, _ := newTestRegistry(t, d, "pinterest")

	res := reg[models.PlatformPinterest].Post(context.Background(), Request{
		Text:      "Pin title",
		MediaPath: "/tmp/p.jpg",
		Options:   models.Options{PinterestDesc: "about", PinterestLink: "https://example.com"},
	})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Pin title", d.typed["//input[@id='storyboard-selector-title']"])
	assert.Equal(t, "about", d.typed["//textarea[@id='storyboard-selector-description']"])
	assert.Equal(t, "https://example.com", d.typed["//input[@id='WebsiteField']"])
}
