package pipeline

import (
	"image"

	"github.com/disintegration/imaging"
)

// watermarkWidth computes the scaled watermark width for a base image of
// the given width: a fixed fraction of the base, capped at maxWidth.
func watermarkWidth(baseW int, fraction float64, maxWidth int) int {
	target := float64(baseW) * fraction
	if capped := float64(maxWidth); target > capped {
		target = capped
	}
	return int(target)
}

// overlayWatermark scales the watermark proportionally (alpha channel
// intact, no premultiplied blending during the scale) and composites it
// onto a copy of the base, anchored to the bottom-right corner with the
// configured padding. The base itself is never written to.
func overlayWatermark(base *image.NRGBA, mark image.Image, opts Options) *image.NRGBA {
	baseW := base.Bounds().Dx()
	baseH := base.Bounds().Dy()

	scaledW := watermarkWidth(baseW, opts.WatermarkFraction, opts.WatermarkMaxWidth)
	scaled := imaging.Resize(mark, scaledW, 0, imaging.Lanczos)
	scaledH := scaled.Bounds().Dy()

	pos := image.Pt(
		baseW-scaledW-opts.WatermarkPadding,
		baseH-scaledH-opts.WatermarkPadding,
	)
	return imaging.Overlay(base, scaled, pos, 1.0)
}
