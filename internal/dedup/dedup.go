package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go-jobscraper/internal/models"

	mapset "github.com/deckarep/golang-set/v2"
)

type seenEntry struct {
	Key       string `json:"key"`
	Timestamp int64  `json:"timestamp"`
}

// JobCache remembers which source+job-id pairs were already stored, so a
// repeated search run does not re-insert or re-announce the same
// listings. Entries expire after 30 days.
type JobCache struct {
	mu       sync.Mutex
	filePath string
	seen     mapset.Set[string]
	stamps   map[string]int64
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// NewJobCache creates or loads a job cache
func NewJobCache(cacheDir string) *JobCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &JobCache{
		filePath: filepath.Join(cacheDir, "seen_jobs.json"),
		seen:     mapset.NewSet[string](),
		stamps:   make(map[string]int64),
	}
	cache.load()
	return cache
}

func key(job models.Job) string {
	return job.Source + "/" + job.ID
}

// IsSeen checks if a job has already been processed
func (jc *JobCache) IsSeen(job models.Job) bool {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	return jc.seen.Contains(key(job))
}

// FilterUnseen returns only the jobs not yet in the cache, preserving
// input order.
func (jc *JobCache) FilterUnseen(jobs []models.Job) []models.Job {
	jc.mu.Lock()
	defer jc.mu.Unlock()

	var unseen []models.Job
	for _, job := range jobs {
		if !jc.seen.Contains(key(job)) {
			unseen = append(unseen, job)
		}
	}
	return unseen
}

// Add marks jobs as seen and persists the cache when anything changed.
func (jc *JobCache) Add(jobs []models.Job) {
	jc.mu.Lock()
	defer jc.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, job := range jobs {
		if jc.seen.Add(key(job)) {
			jc.stamps[key(job)] = now
			changed = true
		}
	}

	if changed {
		jc.save()
	}
}

// AddKeys seeds the cache from raw source/id keys, for preloading from
// the database without building full job values.
func (jc *JobCache) AddKeys(keys []string) {
	jc.mu.Lock()
	defer jc.mu.Unlock()

	now := time.Now().UnixMilli()
	for _, k := range keys {
		if jc.seen.Add(k) {
			jc.stamps[k] = now
		}
	}
}

// load reads the cache from disk, dropping expired entries
func (jc *JobCache) load() {
	data, err := os.ReadFile(jc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read seen_jobs.json: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse seen_jobs.json: %v", err)
		return
	}

	thirtyDaysAgo := time.Now().UnixMilli() - thirtyDaysMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > thirtyDaysAgo {
			jc.seen.Add(e.Key)
			jc.stamps[e.Key] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen jobs (%d expired and removed)", loaded, len(entries)-loaded)
}

// save writes the current cache to disk
func (jc *JobCache) save() {
	entries := make([]seenEntry, 0, len(jc.stamps))
	for k, ts := range jc.stamps {
		entries = append(entries, seenEntry{Key: k, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen jobs: %v", err)
		return
	}
	if err := os.WriteFile(jc.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write seen_jobs.json: %v", err)
	}
}
