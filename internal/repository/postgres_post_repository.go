package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/autopost/internal/models"
)

const createPostsTable = `
	CREATE TABLE IF NOT EXISTS scheduled_posts (
		seq                 BIGSERIAL,
		id                  TEXT PRIMARY KEY,
		captions            JSONB NOT NULL DEFAULT '{}',
		platforms           TEXT[] NOT NULL,
		scheduled_time      TIMESTAMPTZ NOT NULL,
		media_path          TEXT NOT NULL DEFAULT '',
		pinterest_title     TEXT NOT NULL DEFAULT '',
		pinterest_link      TEXT NOT NULL DEFAULT '',
		youtube_title       TEXT NOT NULL DEFAULT '',
		youtube_description TEXT NOT NULL DEFAULT '',
		youtube_visibility  TEXT NOT NULL DEFAULT 'public',
		status              TEXT NOT NULL DEFAULT 'scheduled',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
		executed_at         TIMESTAMPTZ,
		results             JSONB
	)
`

const selectPostColumns = `
	SELECT id, captions, platforms, scheduled_time, media_path, pinterest_title, pinterest_link,
		youtube_title, youtube_description, youtube_visibility, status, created_at, executed_at, results
	FROM scheduled_posts
`

type postgresPostRepository struct {
	db *sql.DB
}

// NewPostgresPostRepository opens the database and makes sure the posts
// table exists.
func NewPostgresPostRepository(ctx context.Context, uri string) (PostRepository, error) {
	db, err := sql.Open("postgres", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database is unreachable: %w", err)
	}
	if _, err := db.ExecContext(ctx, createPostsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create posts table: %w", err)
	}
	return newPostgresPostRepository(db), nil
}

func newPostgresPostRepository(db *sql.DB) *postgresPostRepository {
	return &postgresPostRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post       models.Post
		captions   []byte
		results    []byte
		executedAt sql.NullTime
	)
	err := row.Scan(&post.ID, &captions, pq.Array(&post.Platforms), &post.ScheduledTime, &post.MediaPath,
		&post.PinterestTitle, &post.PinterestLink, &post.YoutubeTitle, &post.YoutubeDescription,
		&post.YoutubeVisibility, &post.Status, &post.CreatedAt, &executedAt, &results)
	if err != nil {
		return nil, err
	}
	if len(captions) > 0 {
		if err := json.Unmarshal(captions, &post.Captions); err != nil {
			return nil, fmt.Errorf("invalid captions for post %s: %w", post.ID, err)
		}
	}
	if len(results) > 0 {
		if err := json.Unmarshal(results, &post.Results); err != nil {
			return nil, fmt.Errorf("invalid results for post %s: %w", post.ID, err)
		}
	}
	if executedAt.Valid {
		t := executedAt.Time
		post.ExecutedAt = &t
	}
	return &post, nil
}

func (r *postgresPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, selectPostColumns+" ORDER BY seq")
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postgresPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, selectPostColumns+" WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO scheduled_posts (id, captions, platforms, scheduled_time, media_path, pinterest_title,
			pinterest_link, youtube_title, youtube_description, youtube_visibility, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	captions, err := json.Marshal(post.Captions)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query, post.ID, string(captions), pq.Array(post.Platforms), post.ScheduledTime,
		post.MediaPath, post.PinterestTitle, post.PinterestLink, post.YoutubeTitle, post.YoutubeDescription,
		post.YoutubeVisibility, post.Status, post.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicatePost
		}
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postgresPostRepository) Update(ctx context.Context, id string, fn func(post *models.Post) error) (*models.Post, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	post, err := scanPost(tx.QueryRowContext(ctx, selectPostColumns+" WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if err := fn(post); err != nil {
		return nil, err
	}

	captions, err := json.Marshal(post.Captions)
	if err != nil {
		return nil, err
	}
	var results sql.NullString
	if post.Results != nil {
		data, err := json.Marshal(post.Results)
		if err != nil {
			return nil, err
		}
		results = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		UPDATE scheduled_posts
		SET captions = $1, platforms = $2, scheduled_time = $3, media_path = $4, status = $5,
			executed_at = $6, results = $7
		WHERE id = $8
	`
	_, err = tx.ExecContext(ctx, query, string(captions), pq.Array(post.Platforms), post.ScheduledTime, post.MediaPath,
		post.Status, post.ExecutedAt, results, post.ID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return post, nil
}

func (r *postgresPostRepository) MarkMissed(ctx context.Context, t time.Time) ([]string, error) {
	query := `UPDATE scheduled_posts SET status = $1 WHERE status = $2 AND scheduled_time <= $3 RETURNING id`
	rows, err := r.db.QueryContext(ctx, query, models.PostStatusMissed, models.PostStatusScheduled, t)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresPostRepository) Remove(ctx context.Context, id string) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, `
		DELETE FROM scheduled_posts WHERE id = $1
		RETURNING id, captions, platforms, scheduled_time, media_path, pinterest_title, pinterest_link,
			youtube_title, youtube_description, youtube_visibility, status, created_at, executed_at, results
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postgresPostRepository) Close() error {
	return r.db.Close()
}
