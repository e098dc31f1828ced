package store

import (
	"context"

	"github.com/dunamismax/galleryforge/internal/domain"
)

// CatalogStore is the gallery catalog as seen by this service. The
// pipeline only checks collection existence and inserts derivative
// records; collection management belongs to the gallery application.
type CatalogStore interface {
	CollectionExists(ctx context.Context, id int64) (bool, error)
	CreateDerivativeSet(ctx context.Context, set domain.DerivativeSet) (int64, error)
	GetDerivativeSet(ctx context.Context, id int64) (domain.DerivativeSet, bool, error)
	ListByCollection(ctx context.Context, collectionID int64) ([]domain.DerivativeSet, error)
}
