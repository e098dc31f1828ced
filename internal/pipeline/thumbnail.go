package pipeline

import (
	"image"

	"github.com/disintegration/imaging"
)

// thumbCropRect selects the centered region of a (w, h) image whose
// aspect ratio matches targetW:targetH. Relatively wider sources lose
// width, relatively taller sources lose height.
func thumbCropRect(w, h, targetW, targetH int) image.Rectangle {
	srcRatio := float64(w) / float64(h)
	targetRatio := float64(targetW) / float64(targetH)

	srcX, srcY := 0, 0
	srcW, srcH := w, h
	if srcRatio > targetRatio {
		srcW = int(float64(h) * targetRatio)
		srcX = (w - srcW) / 2
	} else {
		srcH = int(float64(w) / targetRatio)
		srcY = (h - srcH) / 2
	}
	return image.Rect(srcX, srcY, srcX+srcW, srcY+srcH)
}

// centerCropThumb produces the fixed-size thumbnail from the resized
// base: a lossless crop of the aspect-matched center region followed by
// a single Lanczos resample to exactly targetW x targetH. The crop
// copies pixels, so the base is left untouched.
func centerCropThumb(base *image.NRGBA, targetW, targetH int) *image.NRGBA {
	rect := thumbCropRect(base.Bounds().Dx(), base.Bounds().Dy(), targetW, targetH)
	region := imaging.Crop(base, rect)
	return imaging.Resize(region, targetW, targetH, imaging.Lanczos)
}
