package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const (
	MaxImageSize  = 5 * 1024 * 1024 // 5MB per file
	MaxImageCount = 10
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/avif": true,
}

var (
	ErrTooManyImages   = fmt.Errorf("at most %d images per request", MaxImageCount)
	ErrNotConfigured   = errors.New("image storage is not configured")
	ErrImageTooLarge   = fmt.Errorf("image exceeds the %dMB size limit", MaxImageSize/(1024*1024))
	ErrUnsupportedType = errors.New("only JPEG, PNG, WEBP and AVIF images are accepted")
)

// UploadService pushes listing images to Cloudinary. Uploads happen before
// the owning document is written; a write failure after a successful upload
// orphans the file, which is accepted rather than compensated.
type UploadService struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewUploadService builds a service from a cloudinary:// URL. An empty URL
// yields a nil service; handlers then reject requests carrying files.
func NewUploadService(cloudinaryURL, folder string) (*UploadService, error) {
	if cloudinaryURL == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &UploadService{cld: cld, folder: folder}, nil
}

// ValidateImages checks count, size and content type before any byte is
// uploaded, so a bad batch is rejected as a whole.
func ValidateImages(files []*multipart.FileHeader) error {
	if len(files) > MaxImageCount {
		return ErrTooManyImages
	}
	for _, f := range files {
		if f.Size > MaxImageSize {
			return fmt.Errorf("%s: %w", f.Filename, ErrImageTooLarge)
		}
		if !allowedImageTypes[strings.ToLower(f.Header.Get("Content-Type"))] {
			return fmt.Errorf("%s: %w", f.Filename, ErrUnsupportedType)
		}
	}
	return nil
}

// UploadImages stores each file and returns its delivery URLs in order.
func (s *UploadService) UploadImages(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if s == nil {
		return nil, ErrNotConfigured
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}

		publicID := "prop_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
		resp, err := s.cld.Upload.Upload(ctx, f, uploader.UploadParams{
			Folder:   s.folder,
			PublicID: publicID,
		})
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", fh.Filename, err)
		}
		urls = append(urls, resp.SecureURL)
	}
	return urls, nil
}
