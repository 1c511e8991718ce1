package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveWorkers(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		jobs      int
		expected  int
	}{
		{"fewer jobs than workers", 5, 3, 3},
		{"more jobs than workers", 5, 100, 5},
		{"equal", 4, 4, 4},
		{"single job", 10, 1, 1},
		{"no jobs", 5, 0, 0},
		{"zero requested defaults to one", 0, 10, 1},
		{"negative requested defaults to one", -3, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EffectiveWorkers(tt.requested, tt.jobs))
		})
	}
}

func TestSplitBatches(t *testing.T) {
	tests := []struct {
		name     string
		jobs     int
		workers  int
		expected []int //batch sizes
	}{
		{"even split", 10, 5, []int{2, 2, 2, 2, 2}},
		{"uneven split", 10, 3, []int{4, 4, 2}},
		{"one worker", 7, 1, []int{7}},
		{"more workers than jobs", 3, 5, []int{1, 1, 1}},
		{"single job", 1, 5, []int{1}},
		{"seven jobs three workers", 7, 3, []int{3, 3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := make([]string, tt.jobs)
			for i := range ids {
				ids[i] = fmt.Sprintf("job-%d", i)
			}

			batches := SplitBatches(ids, tt.workers)

			require.Len(t, batches, len(tt.expected))
			for i, size := range tt.expected {
				assert.Len(t, batches[i], size, "batch %d", i)
			}

			//concatenating the batches must reproduce the input
			var rejoined []string
			for _, b := range batches {
				rejoined = append(rejoined, b...)
			}
			assert.Equal(t, ids, rejoined)
		})
	}
}

func TestSplitBatchesEmpty(t *testing.T) {
	assert.Nil(t, SplitBatches(nil, 3))
	assert.Nil(t, SplitBatches([]string{}, 3))
}
