package scraper

import (
	"context"
	"time"
)

// TimeoutMs converts the context deadline into a playwright timeout in
// milliseconds, falling back when the context carries none. Playwright
// calls do not observe context cancellation themselves, so the deadline
// has to be pushed down as an explicit timeout.
func TimeoutMs(ctx context.Context, fallback time.Duration) float64 {
	deadline, ok := ctx.Deadline()
	if !ok {
		return float64(fallback.Milliseconds())
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 1
	}
	return float64(remaining.Milliseconds())
}
