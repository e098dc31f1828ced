package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"
	"strings"

	"github.com/disintegration/imaging"
)

// blobReader is the read side of a blob store; both MinioStore and
// LocalBlobStore satisfy it.
type blobReader interface {
	Read(ctx context.Context, key string) ([]byte, error)
}

// WatermarkSource resolves watermark selectors against a shared,
// read-only prefix of a blob store. A selector is a bare file name;
// anything resembling a path is rejected before it reaches the store.
type WatermarkSource struct {
	blobs  blobReader
	prefix string
}

func NewWatermarkSource(blobs blobReader, prefix string) *WatermarkSource {
	if strings.TrimSpace(prefix) == "" {
		prefix = "watermarks"
	}
	return &WatermarkSource{blobs: blobs, prefix: prefix}
}

func (s *WatermarkSource) Load(ctx context.Context, selector string) (image.Image, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" || strings.ContainsAny(selector, "/\\") || selector != path.Base(selector) {
		return nil, fmt.Errorf("invalid watermark selector %q", selector)
	}

	data, err := s.blobs.Read(ctx, path.Join(s.prefix, selector))
	if err != nil {
		return nil, err
	}

	mark, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode watermark %s: %w", selector, err)
	}
	return mark, nil
}
