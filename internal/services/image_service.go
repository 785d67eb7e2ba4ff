package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"

	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/utils"

	"github.com/disintegration/imaging"
)

const maxImageBytes = 1 << 20

const (
	avatarImageSize  = 250
	productImageSize = 50
)

var (
	ErrImageTooLarge    = errors.New("image exceeds 1MB limit")
	ErrUnsupportedImage = errors.New("only jpg, jpeg and png images are accepted")
)

// ImageService normalizes uploads before they reach the bucket: every image
// is resized to fit its slot and re-encoded as PNG under a random key.
type ImageService struct {
	store domain.ObjectStore
}

func NewImageService(store domain.ObjectStore) *ImageService {
	return &ImageService{store: store}
}

func (s *ImageService) UploadProductImage(ctx context.Context, filename string, data []byte) (string, error) {
	return s.upload(ctx, filename, data, productImageSize)
}

func (s *ImageService) UploadCategoryImage(ctx context.Context, filename string, data []byte) (string, error) {
	return s.upload(ctx, filename, data, avatarImageSize)
}

func (s *ImageService) UploadAvatar(ctx context.Context, filename string, data []byte) (string, error) {
	return s.upload(ctx, filename, data, avatarImageSize)
}

func (s *ImageService) Remove(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}

func (s *ImageService) URL(ctx context.Context, key string) (string, error) {
	return s.store.PresignGet(ctx, key)
}

func (s *ImageService) upload(ctx context.Context, filename string, data []byte, size int) (string, error) {
	if len(data) > maxImageBytes {
		return "", ErrImageTooLarge
	}
	if !allowedExtension(filename) {
		return "", ErrUnsupportedImage
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	resized := imaging.Fit(img, size, size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	key := utils.GenerateImageName() + ".png"
	if err := s.store.Put(ctx, key, buf.Bytes(), "image/png"); err != nil {
		return "", err
	}
	return key, nil
}

func allowedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
