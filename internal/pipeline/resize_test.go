package pipeline

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestBoundedSize(t *testing.T) {
	cases := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"fits exactly", 1920, 1080, 1920, 1080},
		{"smaller untouched", 800, 600, 800, 600},
		{"tiny untouched", 1, 1, 1, 1},
		{"landscape 4:3 downscale", 4000, 3000, 1440, 1080},
		{"wide panorama", 8000, 1000, 1920, 240},
		{"portrait", 3000, 4000, 810, 1080},
		{"only width over", 2400, 900, 1920, 720},
		{"only height over", 1000, 2000, 540, 1080},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotW, gotH := boundedSize(tc.w, tc.h, 1920, 1080)
			if gotW != tc.wantW || gotH != tc.wantH {
				t.Fatalf("boundedSize(%d, %d) = %dx%d, want %dx%d", tc.w, tc.h, gotW, gotH, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestResizeBaseKeepsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2400, 1200))
	// Leave the canvas fully transparent.
	base := resizeBase(src, 1920, 960)

	if got := base.Bounds().Dx(); got != 1920 {
		t.Fatalf("unexpected width %d", got)
	}
	if a := base.NRGBAAt(960, 480).A; a != 0 {
		t.Fatalf("expected transparent pixel after resize, got alpha %d", a)
	}
}

func TestResizeBaseNoResampleWhenFitting(t *testing.T) {
	src := imaging.New(640, 480, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	base := resizeBase(src, 640, 480)
	if base.Bounds().Dx() != 640 || base.Bounds().Dy() != 480 {
		t.Fatalf("unexpected dimensions %v", base.Bounds())
	}
}
