package storage

import (
	"context"
	"testing"
)

func TestTempStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	ts, err := NewTempStore(t.TempDir())
	if err != nil {
		t.Fatalf("new temp store: %v", err)
	}

	if err := ts.Stage(ctx, "uploads/a.jpg", []byte("payload")); err != nil {
		t.Fatalf("stage: %v", err)
	}

	ok, err := ts.Exists(ctx, "uploads/a.jpg")
	if err != nil || !ok {
		t.Fatalf("exists = %t, %v", ok, err)
	}

	data, err := ts.Read(ctx, "uploads/a.jpg")
	if err != nil || string(data) != "payload" {
		t.Fatalf("read = %q, %v", data, err)
	}

	if err := ts.Remove(ctx, "uploads/a.jpg"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	ok, err = ts.Exists(ctx, "uploads/a.jpg")
	if err != nil || ok {
		t.Fatalf("exists after remove = %t, %v", ok, err)
	}

	// Removing an already-removed file is a no-op, matching the
	// cleanup-runs-once guarantee under racing attempts.
	if err := ts.Remove(ctx, "uploads/a.jpg"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestTempStoreRejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	ts, err := NewTempStore(t.TempDir())
	if err != nil {
		t.Fatalf("new temp store: %v", err)
	}

	for _, p := range []string{"../outside", "a/../../b", "/etc/passwd", "."} {
		if _, err := ts.Exists(ctx, p); err == nil {
			t.Errorf("Exists(%q) should reject the path", p)
		}
	}
}

func TestLocalBlobStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	bs, err := NewLocalBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("new blob store: %v", err)
	}

	key := "7/abc_photo.jpg"
	if err := bs.Write(ctx, key, []byte("jpeg bytes"), "image/jpeg"); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := bs.Read(ctx, key)
	if err != nil || string(data) != "jpeg bytes" {
		t.Fatalf("read = %q, %v", data, err)
	}

	size, err := bs.Size(ctx, key)
	if err != nil || size != int64(len("jpeg bytes")) {
		t.Fatalf("size = %d, %v", size, err)
	}

	if err := bs.Write(ctx, "../escape", []byte("x"), ""); err == nil {
		t.Fatal("expected invalid key error")
	}
}
