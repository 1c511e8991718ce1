// Package pipeline distributes detail scraping of job ids across a
// bounded pool of workers. Each worker owns its own scraper and store
// connection, processes one contiguous batch sequentially, and reports a
// success/failure tally; the orchestrator joins all workers and sums the
// totals. Individual job failures never abort a batch or the run —
// failed jobs are marked with a sentinel description and picked up again
// by the next missing-description run.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Stats is the aggregate outcome of one detail-scrape run.
type Stats struct {
	Success int
	Failure int
}

// Options configures a detail-scrape run. NewStore and NewScraper are
// called once per worker (plus once for selection), so every worker gets
// independent instances and nothing needs locking.
type Options struct {
	Save       bool
	Workers    int
	DelayMin   time.Duration
	DelayMax   time.Duration
	JobTimeout time.Duration

	NewStore   func(ctx context.Context) (Store, error)
	NewScraper func(ctx context.Context) (DetailScraper, error)
}

const (
	defaultWorkers    = 5
	defaultDelayMin   = 1 * time.Second
	defaultDelayMax   = 3 * time.Second
	defaultJobTimeout = 30 * time.Second
)

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = defaultWorkers
	}
	if o.DelayMin <= 0 && o.DelayMax <= 0 {
		o.DelayMin = defaultDelayMin
		o.DelayMax = defaultDelayMax
	}
	if o.DelayMax < o.DelayMin {
		o.DelayMax = o.DelayMin
	}
	if o.JobTimeout <= 0 {
		o.JobTimeout = defaultJobTimeout
	}
	return o
}

// closer lets workers release stores and scrapers that hold real
// connections; test fakes simply don't implement it.
type closer interface {
	Close()
}

func closeIfCloser(v any) {
	if c, ok := v.(closer); ok {
		c.Close()
	}
}

// Run selects the job ids matching the criteria, splits them into
// contiguous batches, processes each batch on its own worker, and
// returns the summed tallies once every worker has finished. A
// selection failure aborts the run; anything after selection is
// absorbed into the failure count.
func Run(ctx context.Context, criteria Criteria, opts Options) (Stats, error) {
	opts = opts.withDefaults()

	if opts.NewStore == nil || opts.NewScraper == nil {
		return Stats{}, fmt.Errorf("pipeline: NewStore and NewScraper are required")
	}

	selStore, err := opts.NewStore(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open store for selection: %w", err)
	}
	defer closeIfCloser(selStore)

	ids, err := criteria.resolve(ctx, selStore)
	if err != nil {
		return Stats{}, err
	}

	if len(ids) == 0 {
		log.Println("No job IDs found matching the criteria to scrape details for.")
		return Stats{}, nil
	}

	workers := EffectiveWorkers(opts.Workers, len(ids))
	batches := SplitBatches(ids, workers)

	log.Printf("Starting detail scraping with %d workers. Each worker will process ~%d jobs.",
		workers, len(batches[0]))
	log.Printf("Total jobs: %d, Save mode: %v", len(ids), opts.Save)

	results := make(chan Stats, len(batches))
	var wg sync.WaitGroup

	for i, batch := range batches {
		workerID := i + 1

		store, err := opts.NewStore(ctx)
		if err != nil {
			log.Printf("[Worker-%d/%d] Failed to open store, batch of %d counted as failed: %v",
				workerID, len(batches), len(batch), err)
			results <- Stats{Failure: len(batch)}
			continue
		}

		sc, err := opts.NewScraper(ctx)
		if err != nil {
			closeIfCloser(store)
			log.Printf("[Worker-%d/%d] Failed to create scraper, batch of %d counted as failed: %v",
				workerID, len(batches), len(batch), err)
			results <- Stats{Failure: len(batch)}
			continue
		}

		w := &worker{
			id:    workerID,
			total: len(batches),
			store: store,
			sc:    sc,
			opts:  opts,
		}

		wg.Add(1)
		go func(batch []string) {
			defer wg.Done()
			defer closeIfCloser(w.store)
			defer closeIfCloser(w.sc)

			//the worker contract already catches everything, but a
			//panicking scraper must not take the orchestrator down
			defer func() {
				if r := recover(); r != nil {
					log.Printf("%s Batch panicked, counting %d jobs as failed: %v", w.logPrefix(), len(batch), r)
					results <- Stats{Failure: len(batch)}
				}
			}()

			success, failure := w.processBatch(ctx, batch)
			results <- Stats{Success: success, Failure: failure}
		}(batch)
	}

	wg.Wait()
	close(results)

	var total Stats
	for r := range results {
		total.Success += r.Success
		total.Failure += r.Failure
	}

	log.Printf("All workers completed. Total processed: %d.", total.Success+total.Failure)
	log.Printf("Final Stats -> Success: %d, Failure: %d", total.Success, total.Failure)

	return total, nil
}
