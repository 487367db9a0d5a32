package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/playlens/internal/model"
)

// ReportCache stores analysis reports in a byte cache
type ReportCache struct {
	cache Cache
	ttl   time.Duration
}

// NewReportCache wraps c; entries live for ttl (0 uses the cache default)
func NewReportCache(c Cache, ttl time.Duration) *ReportCache {
	return &ReportCache{cache: c, ttl: ttl}
}

// Get returns the cached report for key. Undecodable entries are dropped
// and reported as a miss.
func (rc *ReportCache) Get(key string) (*model.Report, bool) {
	data, ok := rc.cache.Get(key)
	if !ok {
		return nil, false
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		_ = rc.cache.Delete(key)
		return nil, false
	}
	return &report, true
}

// Put stores report under key
func (rc *ReportCache) Put(key string, report *model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := rc.cache.Set(key, data, rc.ttl); err != nil {
		return fmt.Errorf("cache report: %w", err)
	}
	return nil
}
