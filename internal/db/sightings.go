package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/patrick/wildsight/internal/types"
)

const sightingColumns = `id, species, sighting_date, source_type, source_url, raw_text,
	location_name, description, lat, lon, gmu_unit, confidence_score,
	radius_miles, COALESCE(content_hash, ''), created_at, updated_at`

// SaveSighting inserts a sighting, assigning an ID and content hash if
// missing. Returns false when a sighting with the same content hash already
// exists; the insert is then a no-op, which makes re-running the pipeline
// over the same posts safe.
func (db *DB) SaveSighting(ctx context.Context, s *types.Sighting) (bool, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.ContentHash == "" {
		s.ContentHash = s.ComputeContentHash()
	}

	tag, err := db.pool.Exec(ctx,
		`INSERT INTO sightings (id, species, sighting_date, source_type, source_url, raw_text,
			location_name, description, lat, lon, geom, gmu_unit, confidence_score,
			radius_miles, content_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			CASE WHEN $9::float8 IS NULL OR $10::float8 IS NULL THEN NULL
			     ELSE ST_SetSRID(ST_MakePoint($10, $9), 4326) END,
			$11, $12, $13, NULLIF($14, ''))
		 ON CONFLICT (content_hash) WHERE content_hash IS NOT NULL DO NOTHING`,
		s.ID, s.Species, s.SightingDate, s.SourceType, s.SourceURL, s.RawText,
		s.LocationName, s.Description, s.Lat, s.Lon, s.UnitID, s.ConfidenceScore,
		s.RadiusMiles, s.ContentHash,
	)
	if err != nil {
		return false, fmt.Errorf("failed to save sighting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListSightings returns all sightings ordered for duplicate grouping.
func (db *DB) ListSightings(ctx context.Context) ([]types.Sighting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+sightingColumns+`
		 FROM sightings
		 ORDER BY species, sighting_date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sightings: %w", err)
	}
	defer rows.Close()

	return scanSightings(rows)
}

// ListSightingsWithoutHash returns legacy rows the backfill sweep still
// needs to hash.
func (db *DB) ListSightingsWithoutHash(ctx context.Context) ([]types.Sighting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+sightingColumns+`
		 FROM sightings
		 WHERE content_hash IS NULL
		 ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unhashed sightings: %w", err)
	}
	defer rows.Close()

	return scanSightings(rows)
}

// SetContentHash writes a computed hash onto a legacy row. ErrDuplicateHash
// signals that another row already owns the hash, i.e. the row is a
// duplicate.
func (db *DB) SetContentHash(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE sightings SET content_hash = $1, updated_at = NOW() WHERE id = $2`,
		hash, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateHash
		}
		return fmt.Errorf("failed to set content hash: %w", err)
	}
	return nil
}

// ErrDuplicateHash indicates a content hash collision with an existing row.
var ErrDuplicateHash = errors.New("content hash already exists")

// DeleteSighting removes one sighting.
func (db *DB) DeleteSighting(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM sightings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete sighting: %w", err)
	}
	return nil
}

// MergeSightings applies one duplicate-group merge atomically: the kept row
// is updated with the merged fields and the absorbed rows are deleted.
func (db *DB) MergeSightings(ctx context.Context, keep *types.Sighting, removeIDs []uuid.UUID) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin merge transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Absorbed rows go first so the kept row's new hash cannot collide
	// with one of them.
	if len(removeIDs) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM sightings WHERE id = ANY($1)`, removeIDs); err != nil {
			return fmt.Errorf("failed to delete merged sightings: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE sightings
		 SET species = $2, sighting_date = $3, source_type = $4, source_url = $5,
		     raw_text = $6, location_name = $7, description = $8, lat = $9, lon = $10,
		     geom = CASE WHEN $9::float8 IS NULL OR $10::float8 IS NULL THEN NULL
			         ELSE ST_SetSRID(ST_MakePoint($10, $9), 4326) END,
		     gmu_unit = $11, confidence_score = $12, radius_miles = $13,
		     content_hash = NULLIF($14, ''), updated_at = NOW()
		 WHERE id = $1`,
		keep.ID, keep.Species, keep.SightingDate, keep.SourceType, keep.SourceURL,
		keep.RawText, keep.LocationName, keep.Description, keep.Lat, keep.Lon,
		keep.UnitID, keep.ConfidenceScore, keep.RadiusMiles, keep.ContentHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update merged sighting: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit merge transaction: %w", err)
	}
	return nil
}

// CountSightings returns the total number of stored sightings.
func (db *DB) CountSightings(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sightings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sightings: %w", err)
	}
	return n, nil
}

func scanSightings(rows pgx.Rows) ([]types.Sighting, error) {
	var sightings []types.Sighting
	for rows.Next() {
		var s types.Sighting
		if err := rows.Scan(
			&s.ID, &s.Species, &s.SightingDate, &s.SourceType, &s.SourceURL, &s.RawText,
			&s.LocationName, &s.Description, &s.Lat, &s.Lon, &s.UnitID, &s.ConfidenceScore,
			&s.RadiusMiles, &s.ContentHash, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sighting: %w", err)
		}
		sightings = append(sightings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sightings: %w", err)
	}
	return sightings, nil
}
