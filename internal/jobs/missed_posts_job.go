package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/repository"
	"github.com/maheshrc27/autopost/internal/service"
)

// Runner is the part of a cron runner the sweeper needs.
type Runner interface {
	AddFunc(spec string, cmd func()) (cron.EntryID, error)
}

// MissedPostsJob re-dispatches scheduled posts whose trigger time has passed
// without an execution.
type MissedPostsJob struct {
	ctx       context.Context
	pr        repository.PostRepository
	publisher service.PublisherService
	now       func() time.Time
	wg        sync.WaitGroup
}

func NewMissedPostsJob(ctx context.Context, pr repository.PostRepository, publisher service.PublisherService) *MissedPostsJob {
	return &MissedPostsJob{
		ctx:       ctx,
		pr:        pr,
		publisher: publisher,
		now:       time.Now,
	}
}

// Register runs CheckMissedPosts on r every interval.
func (j *MissedPostsJob) Register(r Runner, interval time.Duration) error {
	if _, err := r.AddFunc(fmt.Sprintf("@every %s", interval), j.CheckMissedPosts); err != nil {
		return fmt.Errorf("failed to register missed posts job: %w", err)
	}
	return nil
}

// CheckMissedPosts dispatches every overdue post without waiting for it.
func (j *MissedPostsJob) CheckMissedPosts() {
	posts, err := j.pr.List(j.ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	now := j.now()
	for _, p := range posts {
		if p.Status != models.PostStatusScheduled || !p.ScheduledTime.Before(now) {
			continue
		}
		if j.publisher.InFlight(p.ID) {
			continue
		}

		slog.Info("found overdue post, executing", "post_id", p.ID, "scheduled_time", p.ScheduledTime)
		j.wg.Add(1)
		go func(id string) {
			defer j.wg.Done()
			runPost(j.ctx, j.publisher, id)
		}(p.ID)
	}
}

// Wait blocks until every dispatched execution has returned.
func (j *MissedPostsJob) Wait() {
	j.wg.Wait()
}

// PostRunner returns the trigger handler that executes a fired post.
func PostRunner(ctx context.Context, publisher service.PublisherService) func(postID string) {
	return func(postID string) {
		runPost(ctx, publisher, postID)
	}
}

func runPost(ctx context.Context, publisher service.PublisherService, postID string) {
	err := publisher.Execute(ctx, postID)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrExecutionInFlight),
		errors.Is(err, service.ErrPostNotScheduled),
		errors.Is(err, repository.ErrPostNotFound):
		slog.Info("post skipped", "post_id", postID, "reason", err.Error())
	default:
		slog.Error("post execution failed", "post_id", postID, "error", err)
	}
}
