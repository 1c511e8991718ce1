package pipeline

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go-jobscraper/internal/models"
)

// outcome is the explicit per-job result. Scrape failures are values,
// not errors: nothing escapes the batch loop.
type outcome int

const (
	outcomeSuccess outcome = iota
	//detail page loaded but carried no usable description
	outcomeEmpty
	//fetch or persistence failed
	outcomeError
)

// DetailScraper fetches the full posting for one job id.
type DetailScraper interface {
	GetJobDetails(ctx context.Context, jobID string) (*models.JobDetail, error)
}

type worker struct {
	id    int
	total int
	store Store
	sc    DetailScraper
	opts  Options
}

func (w *worker) logPrefix() string {
	return fmt.Sprintf("[Worker-%d/%d]", w.id, w.total)
}

// processBatch runs the batch sequentially and returns the tally. It
// never returns an error: every per-job problem becomes a failure count.
func (w *worker) processBatch(ctx context.Context, batch []string) (successCount, failureCount int) {
	log.Printf("%s Starting batch processing of %d jobs", w.logPrefix(), len(batch))

	for idx, jobID := range batch {
		//rate-limiting jitter before every request
		if err := sleepJitter(ctx, w.opts.DelayMin, w.opts.DelayMax); err != nil {
			//run canceled: remaining jobs were never attempted, count
			//them as failures so the totals still cover the whole batch
			remaining := len(batch) - idx
			failureCount += remaining
			log.Printf("%s Canceled with %d jobs remaining: %v", w.logPrefix(), remaining, err)
			return successCount, failureCount
		}

		if (idx+1)%50 == 0 || idx == 0 || idx == len(batch)-1 {
			log.Printf("%s Processing job %d/%d: %s (Success: %d, Failure: %d)",
				w.logPrefix(), idx+1, len(batch), jobID, successCount, failureCount)
		}

		switch w.scrapeOne(ctx, idx, len(batch), jobID) {
		case outcomeSuccess:
			successCount++
		default:
			failureCount++
		}
	}

	log.Printf("%s Completed batch. Success: %d, Failure: %d", w.logPrefix(), successCount, failureCount)
	return successCount, failureCount
}

// scrapeOne fetches and records a single job. Persistence problems are
// logged and tallied, never propagated.
func (w *worker) scrapeOne(ctx context.Context, idx, batchLen int, jobID string) outcome {
	jobCtx, cancel := context.WithTimeout(ctx, w.opts.JobTimeout)
	defer cancel()

	detail, err := w.sc.GetJobDetails(jobCtx, jobID)
	if err != nil {
		log.Printf("%s (%d/%d) Job %s failed: %v", w.logPrefix(), idx+1, batchLen, jobID, err)
		if w.opts.Save {
			//mark the row as attempted; a write failure here is already
			//the fallback path, so it is only logged
			if _, werr := w.store.UpdateJobDescription(ctx, jobID, models.ErrorSentinel(err)); werr != nil {
				log.Printf("%s Job %s failed to record error sentinel: %v", w.logPrefix(), jobID, werr)
			}
		}
		return outcomeError
	}

	if !detail.HasValidDescription() {
		log.Printf("%s (%d/%d) Job %s no valid description found", w.logPrefix(), idx+1, batchLen, jobID)
		if w.opts.Save {
			if _, werr := w.store.UpdateJobDescription(ctx, jobID, models.SentinelNoDescription); werr != nil {
				log.Printf("%s Job %s failed to record sentinel: %v", w.logPrefix(), jobID, werr)
			}
		}
		return outcomeEmpty
	}

	if !w.opts.Save {
		//preview mode: count only
		log.Printf("%s (%d/%d) Job %s description found (preview mode)", w.logPrefix(), idx+1, batchLen, jobID)
		return outcomeSuccess
	}

	updated, err := w.store.UpdateJobDescription(ctx, jobID, detail.Description)
	if err != nil {
		log.Printf("%s (%d/%d) Job %s failed to persist description: %v", w.logPrefix(), idx+1, batchLen, jobID, err)
		return outcomeError
	}
	if !updated {
		log.Printf("%s (%d/%d) Job %s not found in store", w.logPrefix(), idx+1, batchLen, jobID)
		return outcomeError
	}

	//best-effort extras; the description is already safe
	if detail.Title != "" {
		if _, err := w.store.UpdateJobTitle(ctx, jobID, detail.Title); err != nil {
			log.Printf("%s Job %s failed to persist title: %v", w.logPrefix(), jobID, err)
		}
	}
	if detail.Company != "" {
		if _, err := w.store.UpdateJobCompany(ctx, jobID, detail.Company); err != nil {
			log.Printf("%s Job %s failed to persist company: %v", w.logPrefix(), jobID, err)
		}
	}
	if detail.JobClass != "" {
		if _, err := w.store.UpdateJobClass(ctx, jobID, detail.JobClass); err != nil {
			log.Printf("%s Job %s failed to persist job class: %v", w.logPrefix(), jobID, err)
		}
	}

	return outcomeSuccess
}

// sleepJitter blocks for a random duration in [min, max], waking early
// when the context is canceled.
func sleepJitter(ctx context.Context, min, max time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d := min
	if max > min {
		d = min + time.Duration(rand.Int63n(int64(max-min)+1))
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
