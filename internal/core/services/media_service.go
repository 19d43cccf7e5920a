package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"agriconnect/internal/adapters/persistence/models"
	"agriconnect/internal/adapters/persistence/repositories"
	"agriconnect/internal/config"
	"agriconnect/internal/core/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Media errors
var (
	ErrNoFile          = domain.Invalid("No file uploaded")
	ErrFileTypeInvalid = domain.Invalid("Invalid file type. Only images, videos and PDFs are allowed")
	ErrFileTooLarge    = domain.Invalid("File too large")
)

// allowedMedia maps accepted MIME types to their stored file type
var allowedMedia = map[string]domain.FileType{
	"image/jpeg":      domain.FileImage,
	"image/png":       domain.FileImage,
	"image/gif":       domain.FileImage,
	"video/mp4":       domain.FileVideo,
	"video/x-msvideo": domain.FileVideo,
	"video/avi":       domain.FileVideo,
	"video/msvideo":   domain.FileVideo,
	"application/pdf": domain.FilePDF,
}

// UploadURLPrefix is where the static mount serves stored files
const UploadURLPrefix = "/uploads/"

// MediaService validates and stores farmer uploads
type MediaService struct {
	media    *repositories.MediaRepository
	crops    *repositories.CropRepository
	dir      string
	maxBytes int64
	log      *zap.Logger
}

// NewMediaService creates a new media service writing into cfg.Dir
func NewMediaService(db *gorm.DB, cfg config.UploadConfig, log *zap.Logger) *MediaService {
	return &MediaService{
		media:    repositories.NewMediaRepository(db),
		crops:    repositories.NewCropRepository(db),
		dir:      cfg.Dir,
		maxBytes: cfg.MaxBytes,
		log:      log,
	}
}

// ClassifyMIME returns the stored file type of an accepted content type
func ClassifyMIME(contentType string) (domain.FileType, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	ft, ok := allowedMedia[strings.ToLower(mediaType)]
	return ft, ok
}

// Upload checks the file, writes it under the upload directory and records it.
// The agent is taken from the farmer's newest crop that has one.
func (s *MediaService) Upload(ctx context.Context, farmerID uint, file *multipart.FileHeader, description string) (*models.Media, error) {
	if file == nil {
		return nil, ErrNoFile
	}

	fileType, ok := ClassifyMIME(file.Header.Get("Content-Type"))
	if !ok {
		return nil, ErrFileTypeInvalid
	}
	if file.Size > s.maxBytes {
		return nil, domain.Invalid(fmt.Sprintf("File too large. Maximum size is %d MB", s.maxBytes>>20))
	}

	var agentID *uint
	crop, err := s.crops.LatestWithAgentForFarmer(ctx, farmerID)
	switch {
	case err == nil:
		agentID = crop.AgentID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	path := filepath.Join(s.dir, name)

	written, err := s.store(file, path)
	if err != nil {
		return nil, err
	}

	record := &models.Media{
		FarmerID:    farmerID,
		AgentID:     agentID,
		Description: strings.TrimSpace(description),
		FileURL:     UploadURLPrefix + name,
		FileType:    string(fileType),
		FileName:    filepath.Base(file.Filename),
		FileSize:    written,
	}
	if err := s.media.Create(ctx, record); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			s.log.Warn("orphaned upload", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}

	s.log.Info("media uploaded",
		zap.Uint("media_id", record.ID),
		zap.Uint("farmer_id", farmerID),
		zap.String("file_type", record.FileType),
		zap.Int64("size", written),
	)
	return record, nil
}

// store copies the upload to path, refusing to write more than the size cap
func (s *MediaService) store(file *multipart.FileHeader, path string) (int64, error) {
	src, err := file.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, err
	}

	dst, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(path)
		return 0, err
	}
	return written, nil
}

// ListByAgent lists uploads linked to the agent
func (s *MediaService) ListByAgent(ctx context.Context, agentID uint) ([]*models.Media, error) {
	items, err := s.media.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Media{}
	}
	return items, nil
}

// ListByFarmer lists the farmer's own uploads
func (s *MediaService) ListByFarmer(ctx context.Context, farmerID uint) ([]*models.Media, error) {
	items, err := s.media.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Media{}
	}
	return items, nil
}
