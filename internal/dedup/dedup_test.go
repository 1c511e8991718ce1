package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobscraper/internal/models"
)

func job(source, id string) models.Job {
	return models.Job{Source: source, ID: id, Title: "Backend Developer"}
}

func TestJobCacheAddAndIsSeen(t *testing.T) {
	cache := NewJobCache(t.TempDir())

	j := job("JobsDB", "12345")
	assert.False(t, cache.IsSeen(j))

	cache.Add([]models.Job{j})
	assert.True(t, cache.IsSeen(j))

	//same id from another platform is a different listing
	assert.False(t, cache.IsSeen(job("LinkedIn", "12345")))
}

func TestJobCacheFilterUnseen(t *testing.T) {
	cache := NewJobCache(t.TempDir())
	cache.Add([]models.Job{job("JobsDB", "1"), job("JobsDB", "2")})

	fresh := cache.FilterUnseen([]models.Job{
		job("JobsDB", "1"),
		job("JobsDB", "3"),
		job("JobsDB", "2"),
		job("JobsDB", "4"),
	})

	require.Len(t, fresh, 2)
	assert.Equal(t, "3", fresh[0].ID)
	assert.Equal(t, "4", fresh[1].ID)
}

func TestJobCachePersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	cache := NewJobCache(dir)
	cache.Add([]models.Job{job("Glassdoor", "abc")})

	reloaded := NewJobCache(dir)
	assert.True(t, reloaded.IsSeen(job("Glassdoor", "abc")))
	assert.False(t, reloaded.IsSeen(job("Glassdoor", "def")))
}

func TestJobCacheAddKeys(t *testing.T) {
	cache := NewJobCache(t.TempDir())

	cache.AddKeys([]string{"Indeed/j1", "Indeed/j2"})

	assert.True(t, cache.IsSeen(job("Indeed", "j1")))
	assert.Empty(t, cache.FilterUnseen([]models.Job{job("Indeed", "j2")}))
}
