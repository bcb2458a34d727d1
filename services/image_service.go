package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/kendall-kelly/pizzeria-api/utils"
)

// ImageService handles dish photos: upload, link generation and deletion
type ImageService interface {
	// UploadDishImage validates and stores a photo for a dish, returning its storage key
	UploadDishImage(ctx context.Context, dishID uint, fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL generates a time-limited URL for a stored photo
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes a photo from storage
	DeleteImage(ctx context.Context, imageKey string) error
}

// S3ImageService implements ImageService on top of S3
type S3ImageService struct {
	storage S3Interface
	now     func() time.Time
}

func NewS3ImageService(storage S3Interface) *S3ImageService {
	return &S3ImageService{storage: storage, now: time.Now}
}

// DishImageKey returns the storage key for a dish photo uploaded at ts
func DishImageKey(dishID uint, filename string, ts time.Time) string {
	return fmt.Sprintf("dishes/%d/%d_%s", dishID, ts.Unix(), filepath.Base(filename))
}

func (s *S3ImageService) UploadDishImage(ctx context.Context, dishID uint, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	key := DishImageKey(dishID, fileHeader.Filename, s.now())
	if err := s.storage.UploadFile(ctx, key, fileHeader); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, nil
}

func (s *S3ImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.storage.GetPresignedURL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}
	return url, nil
}

func (s *S3ImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.storage.DeleteFile(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
