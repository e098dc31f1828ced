package pipeline

import (
	"strings"
	"testing"
)

func TestBuildArtifactKeys(t *testing.T) {
	keys := buildArtifactKeys(42, "abc-123", "sunset-beach", "jpg")

	if keys.Base != "42/abc-123_sunset-beach.jpg" {
		t.Fatalf("unexpected base key %q", keys.Base)
	}
	if keys.Watermarked != "42/watermarked/abc-123_sunset-beach_wm.jpg" {
		t.Fatalf("unexpected watermarked key %q", keys.Watermarked)
	}
	if keys.Thumb != "42/thumbs/abc-123_sunset-beach_thumb.jpg" {
		t.Fatalf("unexpected thumb key %q", keys.Thumb)
	}
}

func TestArtifactExt(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "jpg"},
		{"photo.JPEG", "jpg"},
		{"logo.PNG", "png"},
		{"scan.webp", "jpg"},
		{"noext", "jpg"},
	}
	for _, tc := range cases {
		if got := artifactExt(tc.in); got != tc.want {
			t.Errorf("artifactExt(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBaseName(t *testing.T) {
	if got := baseName("dir/Sunset Beach.jpg"); got != "Sunset Beach" {
		t.Fatalf("baseName = %q", got)
	}
	if got := baseName("noext"); got != "noext" {
		t.Fatalf("baseName = %q", got)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().validate(); err != nil {
		t.Fatalf("default options invalid: %v", err)
	}

	bad := DefaultOptions()
	bad.ThumbWidth = 0
	err := bad.validate()
	if err == nil || !strings.Contains(err.Error(), "thumbnail") {
		t.Fatalf("expected thumbnail validation error, got %v", err)
	}
}
