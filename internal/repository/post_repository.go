package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maheshrc27/autopost/internal/models"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrDuplicatePost = errors.New("post id already exists")
)

// PostRepository persists Post records. Every mutating method is a full
// read-modify-write cycle that is serialized against all other mutations.
type PostRepository interface {
	List(ctx context.Context) ([]*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	// Update loads the post, applies fn and writes it back. Returning an error
	// from fn aborts the write.
	Update(ctx context.Context, id string, fn func(post *models.Post) error) (*models.Post, error)
	// MarkMissed moves every scheduled post due at or before t to missed and
	// returns their ids.
	MarkMissed(ctx context.Context, t time.Time) ([]string, error)
	Remove(ctx context.Context, id string) (*models.Post, error)
	Close() error
}

const (
	DriverJSON     = "json"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver      string
	Path        string
	PostgresURI string
}

// NewPostRepository creates a repository for the configured driver.
func NewPostRepository(ctx context.Context, opts Options) (PostRepository, error) {
	switch opts.Driver {
	case "", DriverJSON:
		return NewJSONPostRepository(opts.Path), nil
	case DriverPostgres:
		return NewPostgresPostRepository(ctx, opts.PostgresURI)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", opts.Driver)
	}
}

// ActivePosts returns every post that is not completed, plus completed posts
// executed after now minus retention.
func ActivePosts(posts []*models.Post, now time.Time, retention time.Duration) []*models.Post {
	cutoff := now.Add(-retention)
	active := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Status != models.PostStatusCompleted {
			active = append(active, p)
			continue
		}
		if p.ExecutedAt != nil && p.ExecutedAt.After(cutoff) {
			active = append(active, p)
		}
	}
	return active
}
