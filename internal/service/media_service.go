package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/prasadk19/postdeck/internal/draft"
	"github.com/prasadk19/postdeck/internal/models"
	"github.com/prasadk19/postdeck/internal/repository"
)

type MediaService interface {
	Upload(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.MediaAsset, error)
	List(ctx context.Context, userID int64, mediaType string) ([]*models.MediaAsset, error)
	Search(ctx context.Context, userID int64, term string) ([]*models.MediaAsset, error)
	Rename(ctx context.Context, userID, assetID int64, filename string) error
	UpdateTags(ctx context.Context, userID, assetID int64, tags []string) error
	Remove(ctx context.Context, userID, assetID int64) error
	SignedURL(ctx context.Context, userID, assetID int64, ttl time.Duration) (string, error)
	Refs(ctx context.Context, userID int64, assetIDs []int64) ([]draft.MediaRef, error)
}

type mediaService struct {
	ma      repository.MediaAssetRepository
	pm      repository.PostMediaRepository
	storage *StorageService
}

func NewMediaService(ma repository.MediaAssetRepository, pm repository.PostMediaRepository, storage *StorageService) MediaService {
	return &mediaService{
		ma:      ma,
		pm:      pm,
		storage: storage,
	}
}

var allowedExtensions = map[string]struct{}{
	"jpg": {}, "png": {}, "gif": {}, "webp": {},
	"mp4": {}, "mov": {},
	"pdf": {}, "doc": {}, "docx": {},
}

// MediaTypeForMIME maps a MIME type onto the library's four categories.
func MediaTypeForMIME(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.MediaTypeImage
	case strings.HasPrefix(mime, "video/"):
		return models.MediaTypeVideo
	case mime == "application/pdf":
		return models.MediaTypePDF
	default:
		return models.MediaTypeDocument
	}
}

func (s *mediaService) Upload(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.MediaAsset, error) {
	if file == nil {
		err := errors.New("no file provided")
		slog.Info(err.Error())
		return nil, err
	}

	fileContent, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer fileContent.Close()

	fileBytes, err := io.ReadAll(fileContent)
	if err != nil {
		return nil, fmt.Errorf("error reading file content: %w", err)
	}

	fileType, err := filetype.Match(fileBytes)
	if err != nil || fileType == types.Unknown {
		return nil, fmt.Errorf("unsupported file type: %w", err)
	}
	if _, ok := allowedExtensions[fileType.Extension]; !ok {
		return nil, fmt.Errorf("file type %s is not allowed", fileType.Extension)
	}

	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if err := s.storage.Upload(ctx, key, fileBytes, fileType.MIME.Value); err != nil {
		return nil, fmt.Errorf("error uploading file: %w", err)
	}

	asset := &models.MediaAsset{
		UserID:           userID,
		FileName:         key,
		OriginalFilename: file.Filename,
		FileSize:         int64(len(fileBytes)),
		MediaType:        MediaTypeForMIME(fileType.MIME.Value),
		FileURL:          s.storage.PublicURL(key),
	}

	assetID, err := s.ma.Create(ctx, nil, asset)
	if err != nil {
		return nil, fmt.Errorf("error saving media asset: %w", err)
	}
	asset.ID = assetID

	return asset, nil
}

func (s *mediaService) List(ctx context.Context, userID int64, mediaType string) ([]*models.MediaAsset, error) {
	assets, err := s.ma.ListByUserID(ctx, userID, mediaType)
	if err != nil {
		return nil, fmt.Errorf("error listing media")
	}
	return assets, nil
}

func (s *mediaService) Search(ctx context.Context, userID int64, term string) ([]*models.MediaAsset, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx, userID, "")
	}

	assets, err := s.ma.Search(ctx, userID, term)
	if err != nil {
		return nil, fmt.Errorf("error searching media")
	}
	return assets, nil
}

func (s *mediaService) Rename(ctx context.Context, userID, assetID int64, filename string) error {
	if strings.TrimSpace(filename) == "" {
		err := errors.New("filename cannot be empty")
		slog.Info(err.Error())
		return err
	}

	if err := s.checkOwnership(ctx, userID, assetID); err != nil {
		return err
	}
	return s.ma.UpdateFilename(ctx, assetID, userID, filename)
}

// Refs resolves a client's ordered asset id list into media references,
// verifying each asset belongs to the user.
func (s *mediaService) Refs(ctx context.Context, userID int64, assetIDs []int64) ([]draft.MediaRef, error) {
	refs := make([]draft.MediaRef, 0, len(assetIDs))
	for _, id := range assetIDs {
		if err := s.checkOwnership(ctx, userID, id); err != nil {
			return nil, err
		}
		asset, err := s.ma.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		refs = append(refs, draft.MediaRef{AssetID: id, MediaType: asset.MediaType})
	}
	return refs, nil
}

func (s *mediaService) UpdateTags(ctx context.Context, userID, assetID int64, tags []string) error {
	if err := s.checkOwnership(ctx, userID, assetID); err != nil {
		return err
	}
	return s.ma.UpdateTags(ctx, assetID, userID, tags)
}

// Remove deletes the stored object and the asset record. Only ever called
// on explicit user action; referenced posts keep their media list but the
// file itself is gone.
func (s *mediaService) Remove(ctx context.Context, userID, assetID int64) error {
	if err := s.checkOwnership(ctx, userID, assetID); err != nil {
		return err
	}

	asset, err := s.ma.GetByID(ctx, assetID)
	if err != nil {
		return err
	}
	if asset == nil {
		err = errors.New("media asset doesn't exist")
		slog.Info(err.Error())
		return err
	}

	if err := s.storage.Remove(ctx, asset.FileName); err != nil {
		return fmt.Errorf("error removing stored object: %w", err)
	}
	if err := s.ma.Remove(ctx, assetID); err != nil {
		return fmt.Errorf("error removing media record")
	}

	return nil
}

func (s *mediaService) SignedURL(ctx context.Context, userID, assetID int64, ttl time.Duration) (string, error) {
	if err := s.checkOwnership(ctx, userID, assetID); err != nil {
		return "", err
	}

	asset, err := s.ma.GetByID(ctx, assetID)
	if err != nil {
		return "", err
	}
	if asset == nil {
		err = errors.New("media asset doesn't exist")
		slog.Info(err.Error())
		return "", err
	}

	if ttl <= 0 {
		ttl = time.Hour
	}
	return s.storage.SignedURL(ctx, asset.FileName, ttl)
}

func (s *mediaService) checkOwnership(ctx context.Context, userID, assetID int64) error {
	exists, err := s.ma.CheckByUserID(ctx, assetID, userID)
	if err != nil {
		return err
	}
	if !exists {
		err = errors.New("media asset doesn't exist")
		slog.Info(err.Error())
		return err
	}
	return nil
}
