package dedup

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SeenCache remembers which posting URLs were already reported across runs,
// so repeated runs don't re-notify the same jobs. The persister's upsert
// handles storage idempotence; this cache only gates notifications.
// Callers supply the context per call: notification bookkeeping runs after
// an interrupt, so the run context must not be captured at construction.
type SeenCache interface {
	IsSeen(ctx context.Context, url string) bool
	Add(ctx context.Context, urls []string)
}

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

type FileCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// NewFileCache creates or loads a file-backed seen cache. Entries older than
// thirty days are expired on load.
func NewFileCache(cacheDir string) *FileCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &FileCache{
		filePath: filepath.Join(cacheDir, "seen_jobs.json"),
		seen:     make(map[string]int64),
	}
	cache.load()
	return cache
}

func (fc *FileCache) IsSeen(_ context.Context, url string) bool {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	_, exists := fc.seen[url]
	return exists
}

func (fc *FileCache) Add(_ context.Context, urls []string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, url := range urls {
		if _, exists := fc.seen[url]; !exists {
			fc.seen[url] = now
			changed = true
		}
	}

	if changed {
		fc.save()
	}
}

func (fc *FileCache) load() {
	data, err := os.ReadFile(fc.filePath)
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

	cutoff := time.Now().UnixMilli() - thirtyDaysMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			fc.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen jobs (%d expired and removed)", loaded, len(entries)-loaded)
}

func (fc *FileCache) save() {
	entries := make([]seenEntry, 0, len(fc.seen))
	for url, ts := range fc.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen jobs: %v", err)
		return
	}
	if err := os.WriteFile(fc.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write seen_jobs.json: %v", err)
	}
}
