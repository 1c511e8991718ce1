package jobsdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFilters(t *testing.T) {
	tests := []struct {
		name         string
		category     string
		jobType      string
		sortMode     string
		wantCategory string
		wantType     string
		wantSort     string
	}{
		{"software defaults", "software", "", "", "information-communication-technology", "", "ListedDate"},
		{"finance full time", "finance", "full_time", "listed_date", "accounting-finance", "full-time", "ListedDate"},
		{"relevance sort", "software", "contract", "relevance", "information-communication-technology", "contract-temp", "KeywordRelevance"},
		{"casual", "software", "casual", "", "information-communication-technology", "casual-vacation", "ListedDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, jobType, sortMode, err := searchFilters(tt.category, tt.jobType, tt.sortMode)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, category)
			assert.Equal(t, tt.wantType, jobType)
			assert.Equal(t, tt.wantSort, sortMode)
		})
	}
}

func TestSearchFiltersUnknownValues(t *testing.T) {
	_, _, _, err := searchFilters("hospitality", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown job category")

	_, _, _, err = searchFilters("software", "internship", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown job type")

	_, _, _, err = searchFilters("software", "", "salary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort mode")
}
