package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJobID(t *testing.T) {
	tests := []struct {
		name     string
		href     string
		expected string
	}{
		{"plain view url", "https://www.linkedin.com/jobs/view/software-engineer-at-acme-4329358250", "4329358250"},
		{"tracking params stripped upstream", "https://www.linkedin.com/jobs/view/backend-developer-at-beta-1234567890?refId=xyz", "1234567890"},
		{"numeric company name", "https://www.linkedin.com/jobs/view/developer-at-37signals-9876543210", "9876543210"},
		{"no id", "https://www.linkedin.com/jobs/view/software-engineer", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJobID(tt.href))
		})
	}
}
