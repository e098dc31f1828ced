package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dunamismax/galleryforge/internal/domain"
	_ "github.com/lib/pq"
)

const catalogSchemaSQL = `
CREATE TABLE IF NOT EXISTS collections (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS images (
	id BIGSERIAL PRIMARY KEY,
	collection_id BIGINT NOT NULL REFERENCES collections (id),
	original_file_name TEXT NOT NULL,
	path_original TEXT NOT NULL,
	path_thumb TEXT,
	watermark_applied BOOLEAN NOT NULL DEFAULT FALSE,
	metadata JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS images_collection_id_idx ON images (collection_id);
`

type PostgresCatalogStore struct {
	db *sql.DB
}

func NewPostgresCatalogStore(ctx context.Context, dsn string) (*PostgresCatalogStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &PostgresCatalogStore{db: db}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresCatalogStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, catalogSchemaSQL); err != nil {
		return fmt.Errorf("ensure catalog schema: %w", err)
	}
	return nil
}

func (s *PostgresCatalogStore) Close() error {
	return s.db.Close()
}

func (s *PostgresCatalogStore) CollectionExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM collections WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check collection %d: %w", id, err)
	}
	return exists, nil
}

func (s *PostgresCatalogStore) CreateDerivativeSet(ctx context.Context, set domain.DerivativeSet) (int64, error) {
	metadataJSON, err := json.Marshal(set.Metadata)
	if err != nil {
		return 0, fmt.Errorf("marshal derivative metadata: %w", err)
	}

	createdAt := set.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	err = s.db.QueryRowContext(
		ctx,
		`INSERT INTO images (collection_id, original_file_name, path_original, path_thumb, watermark_applied, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		set.CollectionID,
		set.OriginalFileName,
		set.PathOriginal,
		set.PathThumb,
		set.WatermarkApplied,
		metadataJSON,
		createdAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert derivative record: %w", err)
	}

	return id, nil
}

func (s *PostgresCatalogStore) GetDerivativeSet(ctx context.Context, id int64) (domain.DerivativeSet, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, collection_id, original_file_name, path_original, path_thumb, watermark_applied, metadata, created_at
		 FROM images
		 WHERE id = $1`,
		id,
	)

	set, err := scanDerivativeSet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.DerivativeSet{}, false, nil
		}
		return domain.DerivativeSet{}, false, err
	}
	return set, true, nil
}

func (s *PostgresCatalogStore) ListByCollection(ctx context.Context, collectionID int64) ([]domain.DerivativeSet, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, collection_id, original_file_name, path_original, path_thumb, watermark_applied, metadata, created_at
		 FROM images
		 WHERE collection_id = $1
		 ORDER BY created_at, id`,
		collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list derivative records: %w", err)
	}
	defer rows.Close()

	var sets []domain.DerivativeSet
	for rows.Next() {
		set, err := scanDerivativeSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate derivative records: %w", err)
	}

	return sets, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDerivativeSet(row rowScanner) (domain.DerivativeSet, error) {
	var (
		set          domain.DerivativeSet
		pathThumb    sql.NullString
		metadataJSON []byte
	)
	if err := row.Scan(
		&set.ID,
		&set.CollectionID,
		&set.OriginalFileName,
		&set.PathOriginal,
		&pathThumb,
		&set.WatermarkApplied,
		&metadataJSON,
		&set.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.DerivativeSet{}, err
		}
		return domain.DerivativeSet{}, fmt.Errorf("scan derivative record: %w", err)
	}

	set.PathThumb = pathThumb.String
	if err := json.Unmarshal(metadataJSON, &set.Metadata); err != nil {
		return domain.DerivativeSet{}, fmt.Errorf("unmarshal derivative metadata: %w", err)
	}
	return set, nil
}
