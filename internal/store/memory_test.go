package store

import (
	"context"
	"testing"

	"github.com/dunamismax/galleryforge/internal/domain"
)

func TestMemoryCatalogStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCatalogStore()
	s.AddCollection(domain.Collection{ID: 3, Name: "weddings"})

	ok, err := s.CollectionExists(ctx, 3)
	if err != nil || !ok {
		t.Fatalf("CollectionExists(3) = %t, %v", ok, err)
	}
	ok, err = s.CollectionExists(ctx, 4)
	if err != nil || ok {
		t.Fatalf("CollectionExists(4) = %t, %v", ok, err)
	}

	wm := "3/watermarked/x_wm.jpg"
	id, err := s.CreateDerivativeSet(ctx, domain.DerivativeSet{
		CollectionID:     3,
		OriginalFileName: "x.jpg",
		PathOriginal:     "3/x.jpg",
		PathThumb:        "3/thumbs/x_thumb.jpg",
		WatermarkApplied: true,
		Metadata: domain.Metadata{
			OriginalWidth:   4000,
			OriginalHeight:  3000,
			FinalWidth:      1440,
			FinalHeight:     1080,
			FileSize:        123456,
			MimeType:        "image/jpeg",
			WatermarkedPath: &wm,
		},
	})
	if err != nil {
		t.Fatalf("CreateDerivativeSet: %v", err)
	}

	got, ok, err := s.GetDerivativeSet(ctx, id)
	if err != nil || !ok {
		t.Fatalf("GetDerivativeSet = %t, %v", ok, err)
	}
	if got.PathOriginal != "3/x.jpg" || !got.WatermarkApplied {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be filled")
	}

	sets, err := s.ListByCollection(ctx, 3)
	if err != nil || len(sets) != 1 {
		t.Fatalf("ListByCollection = %d records, %v", len(sets), err)
	}
	if sets, _ := s.ListByCollection(ctx, 99); len(sets) != 0 {
		t.Fatalf("expected empty list for unknown collection, got %d", len(sets))
	}
}
