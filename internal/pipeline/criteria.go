package pipeline

import (
	"context"
	"fmt"
	"log"

	mapset "github.com/deckarep/golang-set/v2"
)

// DefaultQuantity is how many missing-description jobs a run selects
// when no criterion is given.
const DefaultQuantity = 100

// Criteria selects which job ids a detail run processes. Exactly one of
// the three forms is used, checked in order: explicit ids, internal-id
// range, then missing-description quantity. An empty value falls back to
// the default missing-description query.
type Criteria struct {
	IDs      []string
	StartID  int64
	EndID    int64
	Quantity int
}

// Store is the slice of the repository the pipeline needs. Kept narrow
// so tests run against an in-memory fake.
type Store interface {
	JobIDsByInternalIDRange(ctx context.Context, startID, endID int64) ([]string, error)
	JobIDsMissingDescription(ctx context.Context, limit int) ([]string, error)
	UpdateJobDescription(ctx context.Context, jobID, description string) (bool, error)
	UpdateJobTitle(ctx context.Context, jobID, title string) (bool, error)
	UpdateJobCompany(ctx context.Context, jobID, company string) (bool, error)
	UpdateJobClass(ctx context.Context, jobID, jobClass string) (bool, error)
}

// resolve turns the criteria into the ordered, deduplicated work list.
// An empty result is a no-op for the caller, never an error.
func (c Criteria) resolve(ctx context.Context, store Store) ([]string, error) {
	switch {
	case len(c.IDs) > 0:
		return dedupOrdered(c.IDs), nil

	case c.StartID > 0 && c.EndID > 0:
		ids, err := store.JobIDsByInternalIDRange(ctx, c.StartID, c.EndID)
		if err != nil {
			return nil, fmt.Errorf("failed to select ids in range %d-%d: %w", c.StartID, c.EndID, err)
		}
		log.Printf("Found %d job IDs in range %d-%d to scrape.", len(ids), c.StartID, c.EndID)
		return dedupOrdered(ids), nil

	case c.Quantity > 0:
		ids, err := store.JobIDsMissingDescription(ctx, c.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to select jobs missing descriptions: %w", err)
		}
		log.Printf("Found %d jobs with missing descriptions to scrape.", len(ids))
		return dedupOrdered(ids), nil

	default:
		ids, err := store.JobIDsMissingDescription(ctx, DefaultQuantity)
		if err != nil {
			return nil, fmt.Errorf("failed to select jobs missing descriptions: %w", err)
		}
		log.Printf("Found %d jobs with missing descriptions (default limit: %d).", len(ids), DefaultQuantity)
		return dedupOrdered(ids), nil
	}
}

// dedupOrdered drops duplicate ids while preserving first-occurrence
// order, so batch assignment stays stable.
func dedupOrdered(ids []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen.Add(id) {
			out = append(out, id)
		}
	}
	return out
}
