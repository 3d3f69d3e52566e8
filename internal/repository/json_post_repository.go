package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maheshrc27/autopost/internal/models"
)

// JSONPostRepository keeps all posts in one indented JSON array that is
// rewritten wholesale on every mutation.
type JSONPostRepository struct {
	path string
	mu   sync.Mutex
}

func NewJSONPostRepository(path string) *JSONPostRepository {
	return &JSONPostRepository{path: path}
}

// Load reads the whole collection. A missing or unreadable file yields an
// empty collection.
func (r *JSONPostRepository) Load() []*models.Post {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("unable to read post store, treating as empty", "path", r.path, "error", err)
		}
		return []*models.Post{}
	}

	var posts []*models.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		slog.Warn("post store is corrupt, treating as empty", "path", r.path, "error", err)
		return []*models.Post{}
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts
}

// Save atomically replaces the persisted collection.
func (r *JSONPostRepository) Save(posts []*models.Post) error {
	if posts == nil {
		posts = []*models.Post{}
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal posts: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp store file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// mutate runs fn over the loaded collection and saves the result, holding
// the lock for the whole cycle.
func (r *JSONPostRepository) mutate(fn func(posts []*models.Post) ([]*models.Post, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := fn(r.Load())
	if err != nil {
		return err
	}
	return r.Save(posts)
}

func (r *JSONPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Load(), nil
}

func (r *JSONPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.Load() {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrPostNotFound
}

func (r *JSONPostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.mutate(func(posts []*models.Post) ([]*models.Post, error) {
		for _, p := range posts {
			if p.ID == post.ID {
				return nil, ErrDuplicatePost
			}
		}
		return append(posts, post), nil
	})
}

func (r *JSONPostRepository) Update(ctx context.Context, id string, fn func(post *models.Post) error) (*models.Post, error) {
	var updated *models.Post
	err := r.mutate(func(posts []*models.Post) ([]*models.Post, error) {
		for _, p := range posts {
			if p.ID != id {
				continue
			}
			if err := fn(p); err != nil {
				return nil, err
			}
			updated = p
			return posts, nil
		}
		return nil, ErrPostNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *JSONPostRepository) MarkMissed(ctx context.Context, t time.Time) ([]string, error) {
	var ids []string
	err := r.mutate(func(posts []*models.Post) ([]*models.Post, error) {
		for _, p := range posts {
			if p.Status == models.PostStatusScheduled && !p.ScheduledTime.After(t) {
				p.Status = models.PostStatusMissed
				ids = append(ids, p.ID)
			}
		}
		return posts, nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *JSONPostRepository) Remove(ctx context.Context, id string) (*models.Post, error) {
	var removed *models.Post
	err := r.mutate(func(posts []*models.Post) ([]*models.Post, error) {
		kept := posts[:0]
		for _, p := range posts {
			if p.ID == id {
				removed = p
				continue
			}
			kept = append(kept, p)
		}
		if removed == nil {
			return nil, ErrPostNotFound
		}
		return kept, nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *JSONPostRepository) Close() error {
	return nil
}
