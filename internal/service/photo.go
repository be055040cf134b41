package service

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/tingleshq/tingles/internal/storage"
)

// ErrUnsupportedPhotoType rejects uploads that are not a supported image
// format.
var ErrUnsupportedPhotoType = errors.New("unsupported photo content type")

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// PhotoService stores profile photos in S3-compatible storage and hands out
// presigned URLs for reading them.
type PhotoService struct {
	storage storage.Storage
}

func NewPhotoService(st storage.Storage) *PhotoService {
	return &PhotoService{storage: st}
}

// Save uploads a member's photo and returns the storage path to persist on
// the profile. One photo per member; re-uploads overwrite.
func (s *PhotoService) Save(userID, contentType string, file io.Reader) (string, error) {
	ext, ok := photoExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnsupportedPhotoType, contentType)
	}

	path := fmt.Sprintf("photos/%s/%s%s", userID, uuid.New().String(), ext)
	err := s.storage.Save(path, file)
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	return path, nil
}

func (s *PhotoService) Delete(path string) error {
	if path == "" {
		return nil
	}
	return s.storage.Delete(path)
}

// URL returns a time-limited presigned URL for the stored photo.
func (s *PhotoService) URL(path string) string {
	return s.storage.URL(path)
}
