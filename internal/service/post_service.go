package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prasadk19/postdeck/internal/draft"
	"github.com/prasadk19/postdeck/internal/models"
	"github.com/prasadk19/postdeck/internal/repository"
)

type PostService interface {
	// SavePost is the composer's persistence port: inserts when post.ID is
	// zero, updates otherwise, and replaces the attached media in one
	// transaction.
	SavePost(ctx context.Context, post *models.Post, media []draft.MediaRef) (int64, error)
	List(ctx context.Context, userID int64, status string) ([]*models.Post, error)
	PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error)
	Calendar(ctx context.Context, userID int64, start, end time.Time) ([]*models.Post, error)
	Reschedule(ctx context.Context, userID, postID int64, at time.Time, timezone string) (time.Duration, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	db *sql.DB
	pr repository.PostRepository
	pm repository.PostMediaRepository
	ma repository.MediaAssetRepository
}

func NewPostService(
	db *sql.DB,
	pr repository.PostRepository,
	pm repository.PostMediaRepository,
	ma repository.MediaAssetRepository) PostService {
	return &postService{
		db: db,
		pr: pr,
		pm: pm,
		ma: ma,
	}
}

func (s *postService) SavePost(ctx context.Context, post *models.Post, media []draft.MediaRef) (int64, error) {
	if post == nil {
		err := errors.New("post is nil")
		slog.Error(err.Error())
		return 0, err
	}
	if post.UserID == 0 {
		err := errors.New("user is not valid")
		slog.Info(err.Error())
		return 0, err
	}

	// Only attach assets the user actually owns.
	for _, m := range media {
		exists, err := s.ma.CheckByUserID(ctx, m.AssetID, post.UserID)
		if err != nil {
			return 0, fmt.Errorf("error checking media asset %d: %w", m.AssetID, err)
		}
		if !exists {
			return 0, fmt.Errorf("media asset %d does not exist", m.AssetID)
		}
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	postID := post.ID
	if postID == 0 {
		postID, err = s.pr.Create(ctx, tx, post)
		if err != nil {
			return 0, fmt.Errorf("error creating post: %w", err)
		}
	} else {
		if err = s.pr.Update(ctx, tx, post); err != nil {
			return 0, fmt.Errorf("error updating post: %w", err)
		}
		if err = s.pm.RemoveByPostID(ctx, tx, postID); err != nil {
			return 0, fmt.Errorf("error replacing post media: %w", err)
		}
	}

	for i, m := range media {
		postMedia := models.PostMedia{
			PostID:       postID,
			AssetID:      m.AssetID,
			DisplayOrder: i,
		}
		if err = s.pm.Create(ctx, tx, &postMedia); err != nil {
			return 0, fmt.Errorf("error saving media reference: %w", err)
		}
		if err = s.ma.IncrementUsage(ctx, tx, m.AssetID); err != nil {
			return 0, fmt.Errorf("error updating asset usage: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return postID, nil
}

func (s *postService) List(ctx context.Context, userID int64, status string) ([]*models.Post, error) {
	posts, err := s.pr.ListByUserID(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("error listing posts")
	}
	return posts, nil
}

func (s *postService) PostInfo(ctx context.Context, postID, userID int64) (*models.Post, error) {
	var err error

	if userID == 0 {
		err = errors.New("user is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	if postID == 0 {
		err = errors.New("post id is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !isValid {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return nil, err
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info")
	}

	return post, nil
}

func (s *postService) Calendar(ctx context.Context, userID int64, start, end time.Time) ([]*models.Post, error) {
	if end.Before(start) {
		err := errors.New("calendar range end is before start")
		slog.Info(err.Error())
		return nil, err
	}

	posts, err := s.pr.ListScheduledBetween(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error listing scheduled posts")
	}
	return posts, nil
}

func (s *postService) Reschedule(ctx context.Context, userID, postID int64, at time.Time, timezone string) (time.Duration, error) {
	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return 0, err
	}
	if !isValid {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return 0, err
	}

	if at.Before(time.Now()) {
		err = errors.New("new scheduled time is in the past")
		slog.Info(err.Error())
		return 0, err
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			slog.Info(err.Error())
			return 0, errors.New("unknown timezone")
		}
	}

	if err = s.pr.Reschedule(ctx, postID, at, timezone); err != nil {
		return 0, fmt.Errorf("error rescheduling post")
	}

	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}
	return delay, nil
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("user is not valid")
		slog.Info(err.Error())
		return err
	}
	if postID == 0 {
		err = errors.New("post_id is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.pr.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !isValid {
		err = errors.New("post doesn't exist")
		slog.Info(err.Error())
		return err
	}

	if err = s.pm.RemoveByPostID(ctx, nil, postID); err != nil {
		return fmt.Errorf("error removing post media")
	}
	if err = s.pr.Remove(ctx, postID); err != nil {
		return fmt.Errorf("error removing post")
	}

	return nil
}
