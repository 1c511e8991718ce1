package scraper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	for _, name := range []string{"jobsdb", "linkedin", "glassdoor", "indeed"} {
		platform, err := ParsePlatform(name)
		require.NoError(t, err)
		assert.Equal(t, name, string(platform))
	}
}

func TestParsePlatformUnknown(t *testing.T) {
	_, err := ParsePlatform("monster")
	require.Error(t, err)

	var unknownErr *UnknownPlatformError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "monster", unknownErr.Name)
	assert.Contains(t, err.Error(), "monster")
}

func TestPlatformSource(t *testing.T) {
	assert.Equal(t, "JobsDB", PlatformJobsDB.Source())
	assert.Equal(t, "LinkedIn", PlatformLinkedIn.Source())
	assert.Equal(t, "Glassdoor", PlatformGlassdoor.Source())
	assert.Equal(t, "Indeed", PlatformIndeed.Source())
}

func TestPlatformUsesBrowser(t *testing.T) {
	assert.True(t, PlatformJobsDB.UsesBrowser())
	assert.True(t, PlatformLinkedIn.UsesBrowser())
	assert.True(t, PlatformGlassdoor.UsesBrowser())
	assert.False(t, PlatformIndeed.UsesBrowser())
}
