// Package pipeline turns one uploaded photograph into its durable
// derivative artifacts: a size-capped base image, an optional watermark
// composite, and a fixed-aspect thumbnail.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

var (
	// ErrDecode marks a source that cannot be interpreted as an image.
	ErrDecode = errors.New("decode source image")
	// ErrStorage marks a failed artifact write or stat.
	ErrStorage = errors.New("artifact storage")
	// ErrWatermarkUnavailable marks a selector whose watermark could not
	// be located or decoded. Never fatal to the job.
	ErrWatermarkUnavailable = errors.New("watermark unavailable")
)

// TempStore is where the upload intake staged the raw bytes. Paths are
// relative to the store root; the pipeline removes the source exactly
// once per job.
type TempStore interface {
	Exists(ctx context.Context, relPath string) (bool, error)
	Read(ctx context.Context, relPath string) ([]byte, error)
	Remove(ctx context.Context, relPath string) error
}

// BlobStore is the durable artifact store. Writes are plain
// overwrite-or-create; catalog consistency comes from the store-then-
// record ordering, not from the store itself.
type BlobStore interface {
	Write(ctx context.Context, key string, data []byte, contentType string) error
	Read(ctx context.Context, key string) ([]byte, error)
	Size(ctx context.Context, key string) (int64, error)
}

// WatermarkSource resolves a caller-supplied selector to a decoded
// watermark bitmap. Read-only from the pipeline's perspective.
type WatermarkSource interface {
	Load(ctx context.Context, selector string) (image.Image, error)
}

// Options are the derivative tunables. Zero values are invalid; use
// DefaultOptions or fill from config.
type Options struct {
	MaxWidth          int
	MaxHeight         int
	ThumbWidth        int
	ThumbHeight       int
	JPEGQuality       int
	WatermarkFraction float64
	WatermarkMaxWidth int
	WatermarkPadding  int
}

func DefaultOptions() Options {
	return Options{
		MaxWidth:          1920,
		MaxHeight:         1080,
		ThumbWidth:        300,
		ThumbHeight:       200,
		JPEGQuality:       80,
		WatermarkFraction: 0.20,
		WatermarkMaxWidth: 200,
		WatermarkPadding:  10,
	}
}

func (o Options) validate() error {
	if o.MaxWidth <= 0 || o.MaxHeight <= 0 {
		return errors.New("bounding box dimensions must be positive")
	}
	if o.ThumbWidth <= 0 || o.ThumbHeight <= 0 {
		return errors.New("thumbnail dimensions must be positive")
	}
	if o.WatermarkFraction <= 0 || o.WatermarkFraction > 1 {
		return errors.New("watermark fraction must be in (0, 1]")
	}
	return nil
}

// artifactKeys holds the storage keys for one job's derivative set. The
// layout is stable for downstream URL construction.
type artifactKeys struct {
	Base        string
	Watermarked string
	Thumb       string
}

func buildArtifactKeys(collectionID int64, uid, nameSlug, ext string) artifactKeys {
	return artifactKeys{
		Base:        fmt.Sprintf("%d/%s_%s.%s", collectionID, uid, nameSlug, ext),
		Watermarked: fmt.Sprintf("%d/watermarked/%s_%s_wm.%s", collectionID, uid, nameSlug, ext),
		Thumb:       fmt.Sprintf("%d/thumbs/%s_%s_thumb.%s", collectionID, uid, nameSlug, ext),
	}
}

// artifactExt normalizes the upload's extension to the encoding the
// pipeline actually produces: PNG sources stay PNG so transparency
// survives, everything else is re-encoded as JPEG.
func artifactExt(originalFileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalFileName), "."))
	if ext == "png" {
		return "png"
	}
	return "jpg"
}

func baseName(originalFileName string) string {
	name := filepath.Base(originalFileName)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
