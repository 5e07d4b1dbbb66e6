package dedup

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/patrick/wildsight/internal/db"
	"github.com/patrick/wildsight/internal/types"
)

// Store is the persistence surface the runner needs.
type Store interface {
	ListSightings(ctx context.Context) ([]types.Sighting, error)
	MergeSightings(ctx context.Context, keep *types.Sighting, removeIDs []uuid.UUID) error
	ListSightingsWithoutHash(ctx context.Context) ([]types.Sighting, error)
	SetContentHash(ctx context.Context, id uuid.UUID, hash string) error
	DeleteSighting(ctx context.Context, id uuid.UUID) error
}

// Report summarizes one deduplication run.
type Report struct {
	GroupsExamined   int
	GroupsMerged     int
	GroupsFlagged    int
	GroupsSkipped    int
	SightingsRemoved int
	FlaggedKeys      []string
}

// Runner executes deduplication against a store.
type Runner struct {
	store  Store
	dryRun bool
}

// NewRunner builds a runner. With dryRun set, decisions are reported but
// nothing is written.
func NewRunner(store Store, dryRun bool) *Runner {
	return &Runner{store: store, dryRun: dryRun}
}

// Run groups all sightings and applies the merge policy group by group.
// A failed group is logged and skipped; one bad group must not abort the
// rest of the sweep.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	sightings, err := r.store.ListSightings(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load sightings for dedup: %w", err)
	}

	var report Report
	for _, group := range GroupSightings(sightings) {
		report.GroupsExamined++
		decision := Decide(group)

		switch decision.Action {
		case ActionSkip:
			report.GroupsSkipped++
		case ActionFlag:
			report.GroupsFlagged++
			report.FlaggedKeys = append(report.FlaggedKeys, group.Key)
		case ActionMerge:
			if r.dryRun {
				report.GroupsMerged++
				report.SightingsRemoved += len(decision.RemoveIDs)
				continue
			}
			if err := r.store.MergeSightings(ctx, decision.Keep, decision.RemoveIDs); err != nil {
				log.Printf("Warning: failed to merge group %s: %v (skipping)", group.Key, err)
				report.GroupsSkipped++
				continue
			}
			report.GroupsMerged++
			report.SightingsRemoved += len(decision.RemoveIDs)
		}
	}

	return report, nil
}

// BackfillHashes computes content hashes for legacy rows that predate
// hashing. A row whose hash collides with an existing one is itself a
// duplicate and is deleted.
func (r *Runner) BackfillHashes(ctx context.Context) (hashed, removed int, err error) {
	sightings, err := r.store.ListSightingsWithoutHash(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load unhashed sightings: %w", err)
	}

	for _, s := range sightings {
		hash := s.ComputeContentHash()
		if r.dryRun {
			hashed++
			continue
		}

		err := r.store.SetContentHash(ctx, s.ID, hash)
		switch {
		case err == nil:
			hashed++
		case errors.Is(err, db.ErrDuplicateHash):
			if err := r.store.DeleteSighting(ctx, s.ID); err != nil {
				log.Printf("Warning: failed to delete duplicate sighting %s: %v", s.ID, err)
				continue
			}
			removed++
		default:
			log.Printf("Warning: failed to backfill hash for %s: %v (skipping)", s.ID, err)
		}
	}

	return hashed, removed, nil
}
