// Package storage saves uploaded product images to local disk or S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxImageSize is the upload limit for a single image.
	MaxImageSize = 5 << 20

	productsPrefix = "products"
	nameAlphabet   = "abcdefghijklmnopqrstuvwxyz0123456789"
	nameSuffixLen  = 7
)

var (
	ErrTooLarge        = errors.New("image exceeds 5MB limit")
	ErrUnsupportedType = errors.New("only images (jpeg, jpg, png, webp, gif) allowed")
)

var allowedExtensions = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ImageStore persists an image under name and returns the path clients use
// to fetch it.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
}

// ValidateImage checks size and extension and returns the lowercased
// extension and its content type.
func ValidateImage(filename string, size int64) (ext, contentType string, err error) {
	if size > MaxImageSize {
		return "", "", ErrTooLarge
	}
	ext = strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return "", "", ErrUnsupportedType
	}
	return ext, contentType, nil
}

// NewImageName returns "<unix millis>-<7 random chars><ext>".
func NewImageName(now time.Time, ext string) string {
	suffix := make([]byte, nameSuffixLen)
	for i := range suffix {
		suffix[i] = nameAlphabet[rand.IntN(len(nameAlphabet))]
	}
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), suffix, ext)
}
