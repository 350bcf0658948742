package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/prasadk19/postdeck/internal/models"
)

type ConnectionRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.LinkedInConnection, bool, error)
	Upsert(ctx context.Context, c *models.LinkedInConnection) error
	ListActive(ctx context.Context) ([]*models.LinkedInConnection, error)
	Deactivate(ctx context.Context, userID int64) error
}

type connectionRepository struct {
	db *sql.DB
}

func NewConnectionRepository(db *sql.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

const connectionColumns = `id, user_id, linkedin_member_id, access_token, expires_at, is_active, created_at, updated_at`

func (r *connectionRepository) GetByUserID(ctx context.Context, userID int64) (*models.LinkedInConnection, bool, error) {
	query := `SELECT ` + connectionColumns + ` FROM linkedin_connections WHERE user_id = $1`

	var c models.LinkedInConnection
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&c.ID, &c.UserID, &c.LinkedInMemberID,
		&c.AccessToken, &c.ExpiresAt, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return &c, true, nil
}

func (r *connectionRepository) Upsert(ctx context.Context, c *models.LinkedInConnection) error {
	query := `
		INSERT INTO linkedin_connections (user_id, linkedin_member_id, access_token, expires_at, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (user_id) DO UPDATE
		SET linkedin_member_id = EXCLUDED.linkedin_member_id,
			access_token = EXCLUDED.access_token,
			expires_at = EXCLUDED.expires_at,
			is_active = TRUE,
			updated_at = $5
	`
	_, err := r.db.ExecContext(ctx, query, c.UserID, c.LinkedInMemberID, c.AccessToken, c.ExpiresAt, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *connectionRepository) ListActive(ctx context.Context) ([]*models.LinkedInConnection, error) {
	query := `SELECT ` + connectionColumns + ` FROM linkedin_connections WHERE is_active = TRUE`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var connections []*models.LinkedInConnection
	for rows.Next() {
		var c models.LinkedInConnection
		if err := rows.Scan(&c.ID, &c.UserID, &c.LinkedInMemberID, &c.AccessToken,
			&c.ExpiresAt, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		connections = append(connections, &c)
	}
	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return connections, nil
}

func (r *connectionRepository) Deactivate(ctx context.Context, userID int64) error {
	query := `UPDATE linkedin_connections SET is_active = FALSE, updated_at = $1 WHERE user_id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
