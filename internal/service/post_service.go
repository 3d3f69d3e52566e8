package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/maheshrc27/autopost/internal/models"
	"github.com/maheshrc27/autopost/internal/queue"
	"github.com/maheshrc27/autopost/internal/repository"
	"github.com/maheshrc27/autopost/internal/transfer"
)

var (
	ErrScheduleRequired = errors.New("Schedule date/time is required")
	ErrInvalidSchedule  = errors.New("Invalid datetime format")
	ErrScheduleInPast   = errors.New("Scheduled time must be in the future")
)

// scheduleLayouts are tried in order; the first two are read in local time.
var scheduleLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

type PostService interface {
	// PublishNow posts immediately and returns one result per platform.
	// Nothing is persisted.
	PublishNow(ctx context.Context, sub *transfer.PostSubmission, media *multipart.FileHeader) (map[string]models.Result, error)
	// SchedulePost stores the post and registers its trigger. When only the
	// registration fails, the stored post is returned along with the error.
	SchedulePost(ctx context.Context, sub *transfer.PostSubmission, media *multipart.FileHeader) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Cancel(ctx context.Context, postID string) error
	Delete(ctx context.Context, postID string) error
	Status(ctx context.Context) (*transfer.SchedulerStatus, error)
}

type PostServiceConfig struct {
	UploadFolder    string
	ScheduledFolder string
	Retention       time.Duration
}

type postService struct {
	pr        repository.PostRepository
	scheduler queue.Scheduler
	publisher PublisherService
	media     MediaService
	cfg       PostServiceConfig
	now       func() time.Time
}

func NewPostService(
	pr repository.PostRepository,
	scheduler queue.Scheduler,
	publisher PublisherService,
	media MediaService,
	cfg PostServiceConfig) PostService {
	return &postService{
		pr:        pr,
		scheduler: scheduler,
		publisher: publisher,
		media:     media,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ParseScheduleTime accepts the datetime-local form value as well as RFC 3339.
func ParseScheduleTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrScheduleRequired
	}
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidSchedule
}

func postFromSubmission(sub *transfer.PostSubmission) *models.Post {
	captions := make(map[string]string, len(sub.Platforms))
	for _, p := range sub.Platforms {
		captions[p] = sub.Captions[p]
	}
	return &models.Post{
		Captions:           captions,
		Platforms:          sub.Platforms,
		PinterestTitle:     sub.PinterestTitle,
		PinterestLink:      sub.PinterestLink,
		YoutubeTitle:       sub.YoutubeTitle,
		YoutubeDescription: sub.YoutubeDescription,
		YoutubeVisibility:  firstNonEmpty(sub.YoutubeVisibility, "public"),
	}
}

func (s *postService) PublishNow(ctx context.Context, sub *transfer.PostSubmission, media *multipart.FileHeader) (map[string]models.Result, error) {
	if err := sub.Validate(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	post := postFromSubmission(sub)
	if media != nil {
		path, err := s.media.Stage(media, s.cfg.UploadFolder)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		post.MediaPath = path
		defer s.media.Remove(path)
	}

	return s.publisher.Publish(ctx, post, post.MediaPath), nil
}

func (s *postService) SchedulePost(ctx context.Context, sub *transfer.PostSubmission, media *multipart.FileHeader) (*models.Post, error) {
	if err := sub.Validate(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	scheduledTime, err := ParseScheduleTime(sub.ScheduleDatetime)
	if err != nil {
		slog.Info(err.Error(), "value", sub.ScheduleDatetime)
		return nil, err
	}
	now := s.now()
	if !scheduledTime.After(now) {
		return nil, ErrScheduleInPast
	}

	post := postFromSubmission(sub)
	if media != nil {
		path, err := s.media.Stage(media, s.cfg.ScheduledFolder)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		post.MediaPath = path
	}

	id, err := gonanoid.New()
	if err != nil {
		s.media.Remove(post.MediaPath)
		return nil, err
	}
	post.ID = "post_" + id
	post.ScheduledTime = scheduledTime
	post.Status = models.PostStatusScheduled
	post.CreatedAt = now

	if err := s.pr.Create(ctx, post); err != nil {
		s.media.Remove(post.MediaPath)
		err = fmt.Errorf("failed to store post: %w", err)
		slog.Error(err.Error())
		return nil, err
	}

	// The record stays even if registration fails; the sweeper picks it up once due.
	if err := s.scheduler.Schedule(post.ID, scheduledTime); err != nil {
		err = fmt.Errorf("Error scheduling job: %w", err)
		slog.Error(err.Error(), "post_id", post.ID)
		return post, err
	}

	slog.Info("post scheduled", "post_id", post.ID, "at", scheduledTime)
	return post, nil
}

func (s *postService) List(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.pr.List(ctx)
	if err != nil {
		return nil, err
	}
	return repository.ActivePosts(posts, s.now(), s.cfg.Retention), nil
}

// Cancel removes the trigger, the record and its media. An execution that has
// already fired keeps running.
func (s *postService) Cancel(ctx context.Context, postID string) error {
	if _, err := s.pr.GetByID(ctx, postID); err != nil {
		return err
	}
	s.scheduler.Cancel(postID)
	return s.remove(ctx, postID)
}

// Delete removes a post in any state. A trigger still registered for it is
// dropped too.
func (s *postService) Delete(ctx context.Context, postID string) error {
	if err := s.remove(ctx, postID); err != nil {
		return err
	}
	s.scheduler.Cancel(postID)
	return nil
}

func (s *postService) remove(ctx context.Context, postID string) error {
	post, err := s.pr.Remove(ctx, postID)
	if err != nil {
		return err
	}
	s.media.Remove(post.MediaPath)
	slog.Info("post removed", "post_id", postID, "status", post.Status)
	return nil
}

func (s *postService) Status(ctx context.Context) (*transfer.SchedulerStatus, error) {
	posts, err := s.pr.List(ctx)
	if err != nil {
		return nil, err
	}
	return &transfer.SchedulerStatus{
		Running:     s.scheduler.Running(),
		ActiveJobs:  s.scheduler.Jobs(),
		StoredPosts: len(posts),
	}, nil
}
