package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/platform"
	"github.com/maheshrc27/autopost/internal/repository"
)

var (
	ErrExecutionInFlight = errors.New("execution already in flight")
	ErrPostNotScheduled  = errors.New("post is not scheduled")
)

// PublisherService runs posts against their platform adapters.
type PublisherService interface {
	// Execute publishes a stored post and records the outcome. At most one
	// execution per id runs at a time; an overlapping call returns
	// ErrExecutionInFlight without touching the record.
	Execute(ctx context.Context, postID string) error
	// Publish fans a post out to its platforms in fixed order and returns one
	// result per platform. It never stops early.
	Publish(ctx context.Context, post *models.Post, mediaPath string) map[string]models.Result
	InFlight(postID string) bool
}

type publisherService struct {
	pr       repository.PostRepository
	adapters map[string]platform.Adapter
	headless bool
	now      func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewPublisherService(pr repository.PostRepository, adapters map[string]platform.Adapter, headless bool) PublisherService {
	return &publisherService{
		pr:       pr,
		adapters: adapters,
		headless: headless,
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
}

func (s *publisherService) acquire(postID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inFlight[postID]; ok {
		return false
	}
	s.inFlight[postID] = struct{}{}
	return true
}

func (s *publisherService) release(postID string) {
	s.mu.Lock()
	delete(s.inFlight, postID)
	s.mu.Unlock()
}

func (s *publisherService) InFlight(postID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[postID]
	return ok
}

func (s *publisherService) Execute(ctx context.Context, postID string) error {
	if !s.acquire(postID) {
		slog.Warn("execution already running, skipping", "post_id", postID)
		return ErrExecutionInFlight
	}
	defer s.release(postID)

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			slog.Info("post no longer exists, nothing to execute", "post_id", postID)
		}
		return err
	}
	if post.Status != models.PostStatusScheduled {
		slog.Info("post already handled", "post_id", postID, "status", post.Status)
		return ErrPostNotScheduled
	}

	slog.Info("executing scheduled post", "post_id", postID, "platforms", post.Platforms)

	mediaPath := resolveMedia(post.MediaPath)
	results := s.Publish(ctx, post, mediaPath)
	executedAt := s.now()

	removeMedia(post.MediaPath)

	_, err = s.pr.Update(ctx, postID, func(p *models.Post) error {
		p.Status = models.PostStatusCompleted
		p.ExecutedAt = &executedAt
		p.Results = results
		return nil
	})
	if err != nil {
		// A cancel that raced this execution removes the record first.
		err = fmt.Errorf("failed to persist results for %s: %w", postID, err)
		slog.Error(err.Error())
		return err
	}

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	slog.Info("post executed", "post_id", postID, "succeeded", succeeded, "total", len(results))
	return nil
}

func (s *publisherService) Publish(ctx context.Context, post *models.Post, mediaPath string) map[string]models.Result {
	results := make(map[string]models.Result, len(post.Platforms))

	for _, name := range publishOrder(post.Platforms) {
		adapter, ok := s.adapters[name]
		if !ok {
			results[name] = models.Result{Success: false, Message: fmt.Sprintf("Unsupported platform: %s", name)}
			continue
		}

		req := buildRequest(post, name, mediaPath)
		req.Headless = s.headless
		results[name] = callAdapter(ctx, name, adapter, req)
		slog.Info("platform attempt finished", "post_id", post.ID, "platform", name, "success", results[name].Success)
	}
	return results
}

// callAdapter turns an adapter panic into a failed result so the remaining
// platforms still run.
func callAdapter(ctx context.Context, name string, adapter platform.Adapter, req platform.Request) (res models.Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("adapter panicked", "platform", name, "panic", r)
			res = models.Result{Success: false, Message: fmt.Sprintf("%s error: %v", name, r)}
		}
	}()
	return adapter.Post(ctx, req)
}

// publishOrder returns the requested platforms in engine order, followed by
// any unknown names in the order they were given.
func publishOrder(requested []string) []string {
	want := make(map[string]bool, len(requested))
	for _, p := range requested {
		want[p] = true
	}

	order := make([]string, 0, len(want))
	for _, p := range models.PlatformOrder {
		if want[p] {
			order = append(order, p)
			delete(want, p)
		}
	}
	for _, p := range requested {
		if want[p] {
			order = append(order, p)
			delete(want, p)
		}
	}
	return order
}

func buildRequest(post *models.Post, name, mediaPath string) platform.Request {
	caption := post.Captions[name]
	req := platform.Request{Text: caption, MediaPath: mediaPath}

	switch name {
	case models.PlatformPinterest:
		req.Text = firstNonEmpty(post.PinterestTitle, caption)
		req.Options.PinterestDesc = caption
		req.Options.PinterestLink = post.PinterestLink
	case models.PlatformYoutube:
		req.Text = firstNonEmpty(post.YoutubeTitle, caption)
		req.Options.YoutubeDescription = post.YoutubeDescription
		req.Options.YoutubeVisibility = firstNonEmpty(post.YoutubeVisibility, "public")
	}
	return req
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveMedia returns the absolute media path, or "" when the file is gone.
func resolveMedia(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		slog.Warn("unable to resolve media path", "path", path, "error", err)
		return ""
	}
	if _, err := os.Stat(abs); err != nil {
		slog.Warn("media file missing, continuing without media", "path", abs)
		return ""
	}
	return abs
}

func removeMedia(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("media cleanup failed", "path", path, "error", err)
	}
}
