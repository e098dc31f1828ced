package pipeline

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// encodeArtifact serializes a bitmap in the pipeline's output encoding
// for the given artifact extension and returns the bytes plus the MIME
// type recorded in the catalog.
func encodeArtifact(img image.Image, ext string, jpegQuality int) ([]byte, string, error) {
	var buf bytes.Buffer
	switch ext {
	case "png":
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	default:
		if jpegQuality <= 0 || jpegQuality > 100 {
			jpegQuality = 80
		}
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			return nil, "", fmt.Errorf("encode jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}
