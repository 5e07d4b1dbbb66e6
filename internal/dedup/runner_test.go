package dedup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick/wildsight/internal/db"
	"github.com/patrick/wildsight/internal/types"
)

// fakeStore is an in-memory Store with programmable failures.
type fakeStore struct {
	sightings  []types.Sighting
	mergeErr   map[uuid.UUID]error // keyed by keep ID
	hashErr    map[uuid.UUID]error
	merges     int
	deletes    []uuid.UUID
	hashWrites []uuid.UUID
}

func (f *fakeStore) ListSightings(ctx context.Context) ([]types.Sighting, error) {
	return f.sightings, nil
}

func (f *fakeStore) MergeSightings(ctx context.Context, keep *types.Sighting, removeIDs []uuid.UUID) error {
	if err := f.mergeErr[keep.ID]; err != nil {
		return err
	}
	f.merges++
	remove := make(map[uuid.UUID]bool)
	for _, id := range removeIDs {
		remove[id] = true
	}
	var remaining []types.Sighting
	for _, s := range f.sightings {
		if !remove[s.ID] {
			remaining = append(remaining, s)
		}
	}
	f.sightings = remaining
	return nil
}

func (f *fakeStore) ListSightingsWithoutHash(ctx context.Context) ([]types.Sighting, error) {
	var out []types.Sighting
	for _, s := range f.sightings {
		if s.ContentHash == "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) SetContentHash(ctx context.Context, id uuid.UUID, hash string) error {
	if err := f.hashErr[id]; err != nil {
		return err
	}
	f.hashWrites = append(f.hashWrites, id)
	return nil
}

func (f *fakeStore) DeleteSighting(ctx context.Context, id uuid.UUID) error {
	f.deletes = append(f.deletes, id)
	return nil
}

func TestRun_MergesAndReports(t *testing.T) {
	t0 := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)

	a := baseSighting(t0)
	b := baseSighting(t0.Add(time.Hour))
	b.SourceURL = "https://example.com/post/2"

	flagA := baseSighting(t0)
	flagA.Species = "bear"
	flagB := baseSighting(t0.Add(time.Hour))
	flagB.Species = "bear"
	flagB.RawText = "different account of the same day"

	store := &fakeStore{sightings: []types.Sighting{a, b, flagA, flagB}}
	runner := NewRunner(store, false)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.GroupsExamined)
	assert.Equal(t, 1, report.GroupsMerged)
	assert.Equal(t, 1, report.GroupsFlagged)
	assert.Equal(t, 1, report.SightingsRemoved)
	assert.Equal(t, 1, store.merges)
	assert.Len(t, report.FlaggedKeys, 1)
}

func TestRun_GroupFailureContinues(t *testing.T) {
	t0 := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)

	// Two mergeable groups; the first one's merge fails.
	a1 := baseSighting(t0)
	a2 := baseSighting(t0.Add(time.Hour))

	b1 := baseSighting(t0)
	b1.Species = "deer"
	b2 := baseSighting(t0.Add(time.Hour))
	b2.Species = "deer"

	store := &fakeStore{
		sightings: []types.Sighting{a1, a2, b1, b2},
		mergeErr:  map[uuid.UUID]error{b1.ID: errors.New("db down")},
	}
	runner := NewRunner(store, false)

	report, err := runner.Run(context.Background())
	require.NoError(t, err, "one bad group must not abort the run")

	assert.Equal(t, 1, report.GroupsMerged)
	assert.Equal(t, 1, report.GroupsSkipped)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	t0 := time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)

	a := baseSighting(t0)
	b := baseSighting(t0.Add(time.Hour))

	store := &fakeStore{sightings: []types.Sighting{a, b}}
	runner := NewRunner(store, true)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.GroupsMerged)
	assert.Equal(t, 0, store.merges)
	assert.Len(t, store.sightings, 2)
}

func TestBackfillHashes(t *testing.T) {
	t0 := time.Now().UTC()

	plain := baseSighting(t0)
	collides := baseSighting(t0)
	collides.LocationName = "somewhere else"
	hashed := baseSighting(t0)
	hashed.ContentHash = hashed.ComputeContentHash()

	store := &fakeStore{
		sightings: []types.Sighting{plain, collides, hashed},
		hashErr:   map[uuid.UUID]error{collides.ID: db.ErrDuplicateHash},
	}
	runner := NewRunner(store, false)

	written, removed, err := runner.BackfillHashes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, written)
	assert.Equal(t, 1, removed)
	assert.Equal(t, []uuid.UUID{plain.ID}, store.hashWrites)
	assert.Equal(t, []uuid.UUID{collides.ID}, store.deletes)
}
