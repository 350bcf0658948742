package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/prasadk19/postdeck/internal/models"
)

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	Update(ctx context.Context, tx *sql.Tx, post *models.Post) error
	ListByUserID(ctx context.Context, userID int64, status string) ([]*models.Post, error)
	ListScheduledBetween(ctx context.Context, userID int64, start, end time.Time) ([]*models.Post, error)
	ListPublishedSince(ctx context.Context, userID int64, since time.Time) ([]*models.Post, error)
	UpdateStatus(ctx context.Context, status string, publishedAt *time.Time, postID int64) error
	Reschedule(ctx context.Context, postID int64, at time.Time, timezone string) error
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, title, content, first_comment, post_type, hashtags, status, scheduled_for, timezone, published_at, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var post models.Post
	err := row.Scan(&post.ID, &post.UserID, &post.Title, &post.Content, &post.FirstComment,
		&post.PostType, &post.Hashtags, &post.Status, &post.ScheduledFor, &post.Timezone,
		&post.PublishedAt, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (user_id, title, content, first_comment, post_type, hashtags, status, scheduled_for, timezone, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var id int64
	var err error

	args := []any{post.UserID, post.Title, post.Content, post.FirstComment, post.PostType,
		post.Hashtags, post.Status, post.ScheduledFor, post.Timezone, post.PublishedAt}

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) Update(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $1,
			content = $2,
			first_comment = $3,
			post_type = $4,
			hashtags = $5,
			status = $6,
			scheduled_for = $7,
			timezone = $8,
			published_at = $9,
			updated_at = $10
		WHERE id = $11 AND user_id = $12
	`

	args := []any{post.Title, post.Content, post.FirstComment, post.PostType, post.Hashtags,
		post.Status, post.ScheduledFor, post.Timezone, post.PublishedAt, time.Now(), post.ID, post.UserID}

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) ListByUserID(ctx context.Context, userID int64, status string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	if status != "" {
		query = `SELECT ` + postColumns + ` FROM posts WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC`
		args = append(args, status)
	}

	return r.queryPosts(ctx, query, args...)
}

func (r *postRepository) ListScheduledBetween(ctx context.Context, userID int64, start, end time.Time) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1 AND status = $2 AND scheduled_for >= $3 AND scheduled_for <= $4
		ORDER BY scheduled_for ASC
	`
	return r.queryPosts(ctx, query, userID, models.PostStatusScheduled, start, end)
}

func (r *postRepository) ListPublishedSince(ctx context.Context, userID int64, since time.Time) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1 AND status = $2 AND published_at >= $3
		ORDER BY published_at DESC
	`
	return r.queryPosts(ctx, query, userID, models.PostStatusPublished, since)
}

func (r *postRepository) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, status string, publishedAt *time.Time, postID int64) error {
	query := `
		UPDATE posts
		SET status = $1,
			published_at = COALESCE($2, published_at),
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, status, publishedAt, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Reschedule(ctx context.Context, postID int64, at time.Time, timezone string) error {
	query := `
		UPDATE posts
		SET scheduled_for = $1,
			timezone = $2,
			status = $3,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, at, timezone, models.PostStatusScheduled, time.Now(), postID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
