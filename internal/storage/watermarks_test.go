package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func seedWatermark(t *testing.T, bs *LocalBlobStore, key string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 200})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode watermark fixture: %v", err)
	}
	if err := bs.Write(context.Background(), key, buf.Bytes(), "image/png"); err != nil {
		t.Fatalf("seed watermark: %v", err)
	}
}

func TestWatermarkSourceLoad(t *testing.T) {
	ctx := context.Background()
	bs, err := NewLocalBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("new blob store: %v", err)
	}
	seedWatermark(t, bs, "watermarks/logo.png")

	ws := NewWatermarkSource(bs, "watermarks")
	mark, err := ws.Load(ctx, "logo.png")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if mark.Bounds().Dx() != 64 {
		t.Fatalf("unexpected watermark bounds %v", mark.Bounds())
	}
}

func TestWatermarkSourceMissingSelector(t *testing.T) {
	bs, err := NewLocalBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("new blob store: %v", err)
	}
	ws := NewWatermarkSource(bs, "watermarks")

	if _, err := ws.Load(context.Background(), "absent.png"); err == nil {
		t.Fatal("expected error for missing watermark")
	}
}

func TestWatermarkSourceRejectsPathSelectors(t *testing.T) {
	bs, err := NewLocalBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("new blob store: %v", err)
	}
	ws := NewWatermarkSource(bs, "watermarks")

	for _, sel := range []string{"", "../secret.png", "a/b.png", `a\b.png`} {
		if _, err := ws.Load(context.Background(), sel); err == nil {
			t.Errorf("Load(%q) should reject the selector", sel)
		}
	}
}

func TestWatermarkSourceUndecodable(t *testing.T) {
	ctx := context.Background()
	bs, err := NewLocalBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("new blob store: %v", err)
	}
	if err := bs.Write(ctx, "watermarks/broken.png", []byte("not an image"), "image/png"); err != nil {
		t.Fatalf("seed broken watermark: %v", err)
	}

	ws := NewWatermarkSource(bs, "watermarks")
	if _, err := ws.Load(ctx, "broken.png"); err == nil {
		t.Fatal("expected decode error")
	}
}
