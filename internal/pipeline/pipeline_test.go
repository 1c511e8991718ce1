package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobscraper/internal/models"
)

// fakeStore is an in-memory Store shared safely across workers.
type fakeStore struct {
	mu           sync.Mutex
	missing      []string
	rangeIDs     []string
	descriptions map[string]string
	updateFails  bool
	missingRows  map[string]bool //ids UpdateJobDescription reports as not found
}

func newFakeStore() *fakeStore {
	return &fakeStore{descriptions: make(map[string]string)}
}

func (f *fakeStore) JobIDsByInternalIDRange(ctx context.Context, startID, endID int64) ([]string, error) {
	return f.rangeIDs, nil
}

func (f *fakeStore) JobIDsMissingDescription(ctx context.Context, limit int) ([]string, error) {
	if limit < len(f.missing) {
		return f.missing[:limit], nil
	}
	return f.missing, nil
}

func (f *fakeStore) UpdateJobDescription(ctx context.Context, jobID, description string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateFails {
		return false, errors.New("connection reset")
	}
	if f.missingRows[jobID] {
		return false, nil
	}
	f.descriptions[jobID] = description
	return true, nil
}

func (f *fakeStore) UpdateJobTitle(ctx context.Context, jobID, title string) (bool, error) {
	return true, nil
}

func (f *fakeStore) UpdateJobCompany(ctx context.Context, jobID, company string) (bool, error) {
	return true, nil
}

func (f *fakeStore) UpdateJobClass(ctx context.Context, jobID, jobClass string) (bool, error) {
	return true, nil
}

func (f *fakeStore) description(jobID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.descriptions[jobID]
}

func (f *fakeStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.descriptions)
}

// fakeScraper resolves each job id through a per-id handler; ids with no
// handler succeed with a canned description.
type fakeScraper struct {
	mu       sync.Mutex
	handlers map[string]func() (*models.JobDetail, error)
	scraped  []string
}

func newFakeScraper() *fakeScraper {
	return &fakeScraper{handlers: make(map[string]func() (*models.JobDetail, error))}
}

func (f *fakeScraper) GetJobDetails(ctx context.Context, jobID string) (*models.JobDetail, error) {
	f.mu.Lock()
	f.scraped = append(f.scraped, jobID)
	handler := f.handlers[jobID]
	f.mu.Unlock()

	if handler != nil {
		return handler()
	}
	return &models.JobDetail{ID: jobID, Description: "We are hiring a " + jobID}, nil
}

func (f *fakeScraper) scrapedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.scraped)
}

func testOptions(store *fakeStore, sc *fakeScraper) Options {
	return Options{
		Save:       true,
		Workers:    3,
		DelayMin:   time.Millisecond,
		DelayMax:   2 * time.Millisecond,
		JobTimeout: time.Second,
		NewStore: func(ctx context.Context) (Store, error) {
			return store, nil
		},
		NewScraper: func(ctx context.Context) (DetailScraper, error) {
			return sc, nil
		},
	}
}

func jobIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("job-%d", i+1)
	}
	return ids
}

func TestRunAllSuccess(t *testing.T) {
	store := newFakeStore()
	sc := newFakeScraper()

	stats, err := Run(context.Background(), Criteria{IDs: jobIDs(10)}, testOptions(store, sc))

	require.NoError(t, err)
	assert.Equal(t, Stats{Success: 10, Failure: 0}, stats)
	assert.Equal(t, 10, store.writeCount())
	assert.Equal(t, 10, sc.scrapedCount())
}

func TestRunMixedOutcomes(t *testing.T) {
	store := newFakeStore()
	sc := newFakeScraper()

	//3 of the 10 jobs come back without a description
	for _, id := range []string{"job-2", "job-5", "job-9"} {
		id := id
		sc.handlers[id] = func() (*models.JobDetail, error) {
			return &models.JobDetail{ID: id}, nil
		}
	}

	stats, err := Run(context.Background(), Criteria{IDs: jobIDs(10)}, testOptions(store, sc))

	require.NoError(t, err)
	assert.Equal(t, Stats{Success: 7, Failure: 3}, stats)
	assert.Equal(t, models.SentinelNoDescription, store.description("job-2"))
	assert.Equal(t, models.SentinelNoDescription, store.description("job-5"))
	assert.True(t, strings.HasPrefix(store.description("job-1"), "We are hiring"))
}

func TestRunScrapeErrorWritesSentinelAndContinues(t *testing.T) {
	store := newFakeStore()
	sc := newFakeScraper()

	sc.handlers["job-3"] = func() (*models.JobDetail, error) {
		return nil, errors.New("selector not found")
	}

	stats, err := Run(context.Background(), Criteria{IDs: jobIDs(6)}, testOptions(store, sc))

	require.NoError(t, err)
	assert.Equal(t, Stats{Success: 5, Failure: 1}, stats)
	//the failed job is marked, not skipped
	assert.Equal(t, "Error: Scrape", store.description("job-3"))
	//every job in the batch was still attempted
	assert.Equal(t, 6, sc.scrapedCount())
}

func TestRunTimeoutSentinel(t *testing.T) {
	store := newFakeStore()
	sc := newFakeScraper()

	sc.handlers["job-1"] = func() (*models.JobDetail, error) {
		return nil, fmt.Errorf("detail page: %w", context.DeadlineExceeded)
	}

	stats, err := Run(context.Background(), Criteria{IDs: jobIDs(2)}, testOptions(store, sc))

	require.NoError(t, err)
	assert.Equal(t, Stats{Success: 1, Failure: 1}, stats)
	assert.Equal(t, "Error: Timeout", store.description("job-1"))
}

func TestRunPreviewModeWritesNothing(t *testing.T) {
	store := newFakeStore()
	sc := newFakeScraper()

	opts := testOptions(store, sc)
	opts.Save = false

	stats, err := Run(context.Background(), Criteria{IDs: jobIDs(5)}, opts)

	require.NoError(t, err)
	assert.Equal(t, Stats{Success: 5, Failure: 0}, stats)
	assert.Zero(t, store.writeCount())
}

func TestRunMissingRowCountsAsFailure(t *testing.T) {
	store := newFakeStore()
	store.missingRows = map[string]bool{"job-4": true}
	sc := newFakeScraper()

	stats, err := Run(context.Background(), Criteria{IDs: jobIDs(5)}, testOptions(store, sc))

	require.NoError(t, err)
	assert.Equal(t, Stats{Success: 4, Failure: 1}, stats)
}

func TestRunEmptySelectionIsNoOp(t *testing.T) {
	store := newFakeStore() //no missing jobs
	scraperCalls := 0

	opts := Options{
		Save:     true,
		Workers:  3,
		DelayMin: time.Millisecond,
		DelayMax: time.Millisecond,
		NewStore: func(ctx context.Context) (Store, error) {
			return store, nil
		},
		NewScraper: func(ctx context.Context) (DetailScraper, error) {
			scraperCalls++
			return newFakeScraper(), nil
		},
	}

	stats, err := Run(context.Background(), Criteria{}, opts)

	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	//no workers spin up when there is nothing to do
	assert.Zero(t, scraperCalls)
}

func TestRunSelectionErrorAborts(t *testing.T) {
	opts := Options{
		Workers:  2,
		DelayMin: time.Millisecond,
		DelayMax: time.Millisecond,
		NewStore: func(ctx context.Context) (Store, error) {
			return nil, errors.New("connection refused")
		},
		NewScraper: func(ctx context.Context) (DetailScraper, error) {
			return newFakeScraper(), nil
		},
	}

	_, err := Run(context.Background(), Criteria{IDs: jobIDs(3)}, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selection")
}

func TestRunScraperFactoryFailureCountsBatch(t *testing.T) {
	store := newFakeStore()
	opts := testOptions(store, newFakeScraper())
	opts.Workers = 2
	opts.NewScraper = func(ctx context.Context) (DetailScraper, error) {
		return nil, errors.New("playwright not installed")
	}

	stats, err := Run(context.Background(), Criteria{IDs: jobIDs(10)}, opts)

	require.NoError(t, err)
	assert.Equal(t, Stats{Success: 0, Failure: 10}, stats)
}

func TestRunPanicCountsBatchAsFailed(t *testing.T) {
	store := newFakeStore()
	sc := newFakeScraper()

	ids := jobIDs(6)
	//one worker's batch blows up on its first job, the other finishes
	sc.handlers["job-1"] = func() (*models.JobDetail, error) {
		panic("nil page handle")
	}

	opts := testOptions(store, sc)
	opts.Workers = 2

	stats, err := Run(context.Background(), Criteria{IDs: ids}, opts)

	require.NoError(t, err)
	assert.Equal(t, Stats{Success: 3, Failure: 3}, stats)
}

func TestRunCriteriaRange(t *testing.T) {
	store := newFakeStore()
	store.rangeIDs = []string{"job-7", "job-8", "job-9"}
	sc := newFakeScraper()

	stats, err := Run(context.Background(), Criteria{StartID: 7, EndID: 9}, testOptions(store, sc))

	require.NoError(t, err)
	assert.Equal(t, Stats{Success: 3, Failure: 0}, stats)
}

func TestRunCriteriaQuantity(t *testing.T) {
	store := newFakeStore()
	store.missing = jobIDs(20)
	sc := newFakeScraper()

	stats, err := Run(context.Background(), Criteria{Quantity: 4}, testOptions(store, sc))

	require.NoError(t, err)
	assert.Equal(t, Stats{Success: 4, Failure: 0}, stats)
}

func TestRunContextCancellation(t *testing.T) {
	store := newFakeStore()
	sc := newFakeScraper()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := Run(ctx, Criteria{IDs: jobIDs(8)}, testOptions(store, sc))

	//cancellation is not a run error; the unattempted jobs count as failures
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Success+stats.Failure)
	assert.Zero(t, stats.Success)
}

func TestCriteriaDedupPreservesOrder(t *testing.T) {
	out := dedupOrdered([]string{"b", "a", "b", "c", "a"})
	assert.Equal(t, []string{"b", "a", "c"}, out)
}

func TestCriteriaExplicitIDsSkipStore(t *testing.T) {
	ids, err := Criteria{IDs: []string{"x", "y"}}.resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids)
}
