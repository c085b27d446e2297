// Package objectstore stores uploaded cover images, either on local disk or
// in Cloudinary.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxImageBytes caps a single cover upload.
const MaxImageBytes = 5 << 20

var (
	ErrTooLarge = errors.New("image exceeds 5 MiB")
	ErrNotImage = errors.New("file is not a supported image")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store persists objects under a key and returns their public URL.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Backend() string
}

// Image is a validated upload ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Key returns a fresh object key for the image under prefix.
func (img *Image) Key(prefix string) string {
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), img.Extension)
}

// ReadImage reads at most maxBytes from r and checks the content is one of the
// accepted image formats. The declared content type of the upload is ignored.
func ReadImage(r io.Reader, maxBytes int64) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrNotImage
	}

	mt := mimetype.Detect(data)
	if !allowedImageTypes[mt.String()] {
		return nil, ErrNotImage
	}
	return &Image{Data: data, ContentType: mt.String(), Extension: mt.Extension()}, nil
}

// PutImage stores img under a generated key below prefix.
func PutImage(ctx context.Context, s Store, prefix string, img *Image) (key, url string, err error) {
	key = img.Key(prefix)
	url, err = s.Put(ctx, key, bytes.NewReader(img.Data), img.ContentType)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}
