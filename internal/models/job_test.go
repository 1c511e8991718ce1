package models

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorSentinel(t *testing.T) {
	netErr := &net.OpError{Op: "dial", Err: errors.New("connection refused")}

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"timeout", context.DeadlineExceeded, "Error: Timeout"},
		{"wrapped timeout", fmt.Errorf("page load: %w", context.DeadlineExceeded), "Error: Timeout"},
		{"canceled", context.Canceled, "Error: Canceled"},
		{"network", netErr, "Error: Network"},
		{"generic", errors.New("selector not found"), "Error: Scrape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorSentinel(tt.err))
		})
	}
}

func TestIsSentinel(t *testing.T) {
	assert.True(t, IsSentinel("N/A"))
	assert.True(t, IsSentinel("Error: Timeout"))
	assert.True(t, IsSentinel("Error: Scrape"))
	assert.False(t, IsSentinel(""))
	assert.False(t, IsSentinel("We are hiring a Go developer"))
	//real descriptions can contain the word Error mid-text
	assert.False(t, IsSentinel("Handle Error: logs from production"))
}

func TestHasValidDescription(t *testing.T) {
	assert.True(t, (&JobDetail{Description: "Real description"}).HasValidDescription())
	assert.False(t, (&JobDetail{Description: "N/A"}).HasValidDescription())
	assert.False(t, (&JobDetail{Description: "Error: Timeout"}).HasValidDescription())
	assert.False(t, (&JobDetail{Description: "   "}).HasValidDescription())
	assert.False(t, (&JobDetail{}).HasValidDescription())
	assert.False(t, (*JobDetail)(nil).HasValidDescription())
}
