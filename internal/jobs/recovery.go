package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/queue"
	"github.com/maheshrc27/autopost/internal/repository"
)

// RestoreScheduledPosts marks posts that came due while the process was down
// as missed and re-registers triggers for the rest. It never executes a post.
func RestoreScheduledPosts(ctx context.Context, pr repository.PostRepository, scheduler queue.Scheduler, now time.Time) (int, error) {
	missed, err := pr.MarkMissed(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to mark missed posts: %w", err)
	}
	for _, id := range missed {
		slog.Info("post missed while offline", "post_id", id)
	}

	posts, err := pr.List(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, p := range posts {
		if p.Status != models.PostStatusScheduled {
			continue
		}
		if err := scheduler.Schedule(p.ID, p.ScheduledTime); err != nil {
			slog.Error("failed to restore trigger", "post_id", p.ID, "error", err)
			continue
		}
		restored++
	}

	slog.Info("scheduled posts restored", "restored", restored, "missed", len(missed))
	return restored, nil
}
