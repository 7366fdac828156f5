package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"pathfinder/guide-api/internal/model"
	"pathfinder/guide-api/pkg/util"
	"pathfinder/guide-api/pkg/validators"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UploadService struct {
	db      *gorm.DB
	store   FileStore
	maxSize int64
}

func NewUploadService(db *gorm.DB, s FileStore, maxSize int64) *UploadService {
	return &UploadService{
		db:      db,
		store:   s,
		maxSize: maxSize,
	}
}

// Save stores the bytes of fh and records them. If the row can't be
// written the stored bytes are removed again, so no row ever points at a
// missing file and no file is left without a row.
func (s *UploadService) Save(ctx context.Context, userID *uint, fh *multipart.FileHeader) (*model.Upload, error) {
	if fh == nil {
		return nil, validationError("no file provided")
	}

	name, err := validators.FileValidator(fh, s.maxSize)
	if err != nil {
		if errors.Is(err, validators.ErrFileNameEmpty) {
			return nil, validationError("no file provided")
		}
		return nil, validationError("%s", err.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open multipart file, %w", err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type, %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind multipart file, %w", err)
	}

	token, err := util.GenerateToken(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate file name, %w", err)
	}

	location, err := s.store.Save(ctx, token+"_"+name, f, fh.Size, mt.String())
	if err != nil {
		return nil, err
	}

	upload := &model.Upload{
		UserID:      userID,
		Filename:    name,
		Filepath:    location,
		ContentType: mt.String(),
		Size:        fh.Size,
	}

	if err := s.db.WithContext(ctx).Create(upload).Error; err != nil {
		// The request context may already be gone, cleanup must still run
		if rmErr := s.store.Remove(context.WithoutCancel(ctx), location); rmErr != nil {
			zap.L().Error("Failed to remove orphaned upload", zap.String("location", location), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("failed to save upload, %w", err)
	}

	return upload, nil
}

// Open returns the upload row and a reader over its bytes. The caller
// closes the reader.
func (s *UploadService) Open(ctx context.Context, id uint) (*model.Upload, io.ReadCloser, error) {
	var upload model.Upload
	if err := s.db.WithContext(ctx).First(&upload, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, newError(ErrNotFound, "upload not found")
		}
		return nil, nil, fmt.Errorf("failed to look up upload, %w", err)
	}

	r, err := s.store.Open(ctx, upload.Filepath)
	if err != nil {
		if errors.Is(err, ErrFileMissing) {
			return nil, nil, newError(ErrNotFound, "upload not found")
		}
		return nil, nil, err
	}

	return &upload, r, nil
}
