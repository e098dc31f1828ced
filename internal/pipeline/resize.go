package pipeline

import (
	"image"

	"github.com/disintegration/imaging"
)

// boundedSize fits (w, h) inside (maxW, maxH) without ever upscaling.
// Both output dimensions are floored, matching the original derivative
// dimensions downstream URLs were built against.
func boundedSize(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	ratio := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return int(float64(w) * ratio), int(float64(h) * ratio)
}

// resizeBase produces the resized base bitmap every later stage derives
// from. The result is always a fresh NRGBA canvas (alpha preserved,
// initialized transparent), so downstream stages can treat it as an
// immutable value.
func resizeBase(src image.Image, newW, newH int) *image.NRGBA {
	b := src.Bounds()
	if b.Dx() == newW && b.Dy() == newH {
		return imaging.Clone(src)
	}
	return imaging.Resize(src, newW, newH, imaging.Lanczos)
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
