// Package media stores guest photos.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"
)

const (
	// Folder groups wedding photos under the media root.
	Folder = "wedding-memories"

	MaxDimension = 1280
	jpegQuality  = 85
)

// ErrInvalidImage is returned when uploaded bytes are not a decodable image.
var ErrInvalidImage = errors.New("invalid image")

// Upload is the result of storing a photo.
type Upload struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Store persists photos and returns a stable URL for each.
type Store interface {
	Put(ctx context.Context, data []byte) (Upload, error)
	Delete(ctx context.Context, name string) error
}

// LocalStore writes downsized JPEGs to a directory served over HTTP.
type LocalStore struct {
	dir     string
	baseURL string
	log     zerolog.Logger
}

// NewLocalStore creates the photo folder under dir. Photo URLs are built
// from baseURL, e.g. "/media" or "https://cdn.example.com/media".
func NewLocalStore(dir, baseURL string, log zerolog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, Folder), 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With().Str("component", "media").Logger(),
	}, nil
}

// Dir is the root directory photos are written under.
func (s *LocalStore) Dir() string { return s.dir }

// Put decodes the image, fits it within MaxDimension on both sides and
// stores it as JPEG.
func (s *LocalStore) Put(ctx context.Context, data []byte) (Upload, error) {
	if len(data) == 0 {
		return Upload{}, ErrInvalidImage
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if err := ctx.Err(); err != nil {
		return Upload{}, err
	}

	img = resize.Thumbnail(MaxDimension, MaxDimension, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Upload{}, fmt.Errorf("failed to encode photo: %w", err)
	}

	id := uuid.NewString()
	name := id + ".jpg"
	if err := os.WriteFile(filepath.Join(s.dir, Folder, name), buf.Bytes(), 0644); err != nil {
		return Upload{}, fmt.Errorf("failed to write photo: %w", err)
	}

	b := img.Bounds()
	s.log.Debug().
		Str("name", name).
		Str("source_format", format).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Msg("Stored photo")

	return Upload{
		URL:      s.baseURL + "/" + Folder + "/" + name,
		PublicID: Folder + "/" + id,
	}, nil
}

// Delete removes a stored photo by file name or public id.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	base := path.Base(name)
	if base == "." || base == "/" || base == "" {
		return fmt.Errorf("invalid photo name %q", name)
	}
	if path.Ext(base) == "" {
		base += ".jpg"
	}
	if err := os.Remove(filepath.Join(s.dir, Folder, base)); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// FileName returns the trailing path segment of a photo URL.
func FileName(photoURL string) string {
	p := photoURL
	if u, err := url.Parse(photoURL); err == nil {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
