package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/prasadk19/postdeck/internal/models"
)

type MediaAssetRepository interface {
	Create(ctx context.Context, tx *sql.Tx, ma *models.MediaAsset) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.MediaAsset, error)
	ListByUserID(ctx context.Context, userID int64, mediaType string) ([]*models.MediaAsset, error)
	Search(ctx context.Context, userID int64, term string) ([]*models.MediaAsset, error)
	UpdateFilename(ctx context.Context, id, userID int64, filename string) error
	UpdateTags(ctx context.Context, id, userID int64, tags []string) error
	IncrementUsage(ctx context.Context, tx *sql.Tx, id int64) error
	CheckByUserID(ctx context.Context, assetID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
}

type mediaAssetRepository struct {
	db *sql.DB
}

func NewMediaAssetRepository(db *sql.DB) MediaAssetRepository {
	return &mediaAssetRepository{db: db}
}

const assetColumns = `id, user_id, file_name, original_filename, file_size, media_type, file_url, width, height, duration_secs, tags, usage_count, uploaded_at`

func scanAsset(row interface{ Scan(...any) error }) (*models.MediaAsset, error) {
	var ma models.MediaAsset
	err := row.Scan(&ma.ID, &ma.UserID, &ma.FileName, &ma.OriginalFilename, &ma.FileSize,
		&ma.MediaType, &ma.FileURL, &ma.Width, &ma.Height, &ma.DurationSecs,
		&ma.Tags, &ma.UsageCount, &ma.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &ma, nil
}

func (r *mediaAssetRepository) Create(ctx context.Context, tx *sql.Tx, ma *models.MediaAsset) (int64, error) {
	var id int64
	var err error

	query := `
		INSERT INTO media_assets (user_id, file_name, original_filename, file_size, media_type, file_url, width, height, duration_secs, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	args := []any{ma.UserID, ma.FileName, ma.OriginalFilename, ma.FileSize, ma.MediaType,
		ma.FileURL, ma.Width, ma.Height, ma.DurationSecs, ma.Tags}

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

func (r *mediaAssetRepository) GetByID(ctx context.Context, id int64) (*models.MediaAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM media_assets WHERE id = $1`
	ma, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return ma, nil
}

func (r *mediaAssetRepository) ListByUserID(ctx context.Context, userID int64, mediaType string) ([]*models.MediaAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM media_assets WHERE user_id = $1 ORDER BY uploaded_at DESC`
	args := []any{userID}
	if mediaType != "" {
		query = `SELECT ` + assetColumns + ` FROM media_assets WHERE user_id = $1 AND media_type = $2 ORDER BY uploaded_at DESC`
		args = append(args, mediaType)
	}

	return r.queryAssets(ctx, query, args...)
}

func (r *mediaAssetRepository) Search(ctx context.Context, userID int64, term string) ([]*models.MediaAsset, error) {
	query := `
		SELECT ` + assetColumns + `
		FROM media_assets
		WHERE user_id = $1 AND (original_filename ILIKE $2 OR $3 = ANY(tags))
		ORDER BY uploaded_at DESC
	`
	return r.queryAssets(ctx, query, userID, "%"+term+"%", term)
}

func (r *mediaAssetRepository) queryAssets(ctx context.Context, query string, args ...any) ([]*models.MediaAsset, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var assets []*models.MediaAsset
	for rows.Next() {
		ma, err := scanAsset(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		assets = append(assets, ma)
	}
	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return assets, nil
}

func (r *mediaAssetRepository) UpdateFilename(ctx context.Context, id, userID int64, filename string) error {
	query := `UPDATE media_assets SET original_filename = $1 WHERE id = $2 AND user_id = $3`
	_, err := r.db.ExecContext(ctx, query, filename, id, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *mediaAssetRepository) UpdateTags(ctx context.Context, id, userID int64, tags []string) error {
	query := `UPDATE media_assets SET tags = $1 WHERE id = $2 AND user_id = $3`
	_, err := r.db.ExecContext(ctx, query, pq.StringArray(tags), id, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *mediaAssetRepository) IncrementUsage(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `UPDATE media_assets SET usage_count = usage_count + 1 WHERE id = $1`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, id)
	} else {
		_, err = r.db.ExecContext(ctx, query, id)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *mediaAssetRepository) CheckByUserID(ctx context.Context, assetID, userID int64) (bool, error) {
	query := "SELECT 1 FROM media_assets WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, assetID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *mediaAssetRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM media_assets WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
