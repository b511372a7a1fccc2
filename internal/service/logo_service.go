package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/facturel/facturel-backend/internal/repository/storage"
	"github.com/google/uuid"
)

const (
	MaxLogoSize    = 5 * 1024 * 1024 // 5MB
	MinLogoWidth   = 50
	MinLogoHeight  = 50
	ThumbnailWidth = 200
	DisplayWidth   = 800
	JPEGQuality    = 85

	// PresignedURLExpiry bounds how long a returned logo URL stays valid
	PresignedURLExpiry = 1 * time.Hour
)

var (
	ErrLogoTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidLogoFormat        = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrLogoTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidLogoData          = errors.New("invalid image data")
	ErrLogoStorageNotConfigured = errors.New("logo storage not configured")
)

// allowedLogoExtensions maps extensions to content types
var allowedLogoExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// LogoMetadata contains the stored object paths for each logo variant
type LogoMetadata struct {
	ID            string `json:"id"`
	ThumbnailPath string `json:"thumbnailPath"`
	DisplayPath   string `json:"displayPath"`
	OriginalPath  string `json:"originalPath"`
}

// LogoService handles bill logo processing and storage
type LogoService struct {
	storage storage.LogoRepository
}

// NewLogoService creates a new LogoService
func NewLogoService(storage storage.LogoRepository) *LogoService {
	return &LogoService{storage: storage}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *LogoService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the logo and returns the decoded image
func (s *LogoService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxLogoSize {
		return nil, ErrLogoTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedLogoExtensions[ext]; !ok {
		return nil, ErrInvalidLogoFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidLogoData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinLogoWidth || bounds.Dy() < MinLogoHeight {
		return nil, ErrLogoTooSmall
	}

	return img, nil
}

// ProcessAndUpload validates a logo, renders resized variants and uploads them.
// The returned DisplayPath is what the bill stores as its logo path.
func (s *LogoService) ProcessAndUpload(ctx context.Context, billID uuid.UUID, data []byte, filename string) (*LogoMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrLogoStorageNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	logoID := uuid.New().String()

	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ThumbnailWidth},
		{"display", DisplayWidth},
		{"original", 0}, // 0 means keep original size
	}

	paths := make(map[string]string)

	for _, variant := range variants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			// Resize maintaining aspect ratio
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode logo: %w", err)
		}

		objectPath := fmt.Sprintf("bills/%s/%s_%s.jpg", billID, logoID, variant.name)

		path, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
		if err != nil {
			s.cleanupVariants(ctx, paths)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}

		paths[variant.name] = path
	}

	return &LogoMetadata{
		ID:            logoID,
		ThumbnailPath: paths["thumb"],
		DisplayPath:   paths["display"],
		OriginalPath:  paths["original"],
	}, nil
}

// cleanupVariants removes variants uploaded during a failed operation
func (s *LogoService) cleanupVariants(ctx context.Context, paths map[string]string) {
	for _, path := range paths {
		_ = s.storage.Delete(ctx, path)
	}
}

// ResolveURL generates a temporary presigned URL for a stored logo path
func (s *LogoService) ResolveURL(ctx context.Context, objectPath string) (string, error) {
	if objectPath == "" {
		return "", nil
	}
	if !s.IsEnabled() {
		return "", ErrLogoStorageNotConfigured
	}
	return s.storage.GeneratePresignedURL(ctx, objectPath, PresignedURLExpiry)
}

// DeleteAllVariants deletes every variant belonging to the stored logo path
func (s *LogoService) DeleteAllVariants(ctx context.Context, objectPath string) error {
	if objectPath == "" {
		return nil
	}
	if !s.IsEnabled() {
		return ErrLogoStorageNotConfigured
	}

	basePath := extractLogoBasePath(objectPath)
	if basePath == "" {
		return nil
	}

	for _, variant := range []string{"thumb", "display", "original"} {
		// Best effort cleanup; a missing variant is not an error
		_ = s.storage.Delete(ctx, basePath+"_"+variant+".jpg")
	}

	return nil
}

// extractLogoBasePath strips the variant suffix from a stored logo path
func extractLogoBasePath(objectPath string) string {
	for _, suffix := range []string{"_thumb.jpg", "_display.jpg", "_original.jpg"} {
		if strings.HasSuffix(objectPath, suffix) {
			return strings.TrimSuffix(objectPath, suffix)
		}
	}
	return ""
}
