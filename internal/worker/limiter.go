package worker

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter rate-limits file opens per directory, so a batch over a slow
// network mount does not hammer it
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new limiter. filesPerSecond <= 0 means unlimited.
func NewLimiter(filesPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Inf
	if filesPerSecond > 0 {
		limit = rate.Limit(filesPerSecond)
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until a file in path's directory may be opened
func (l *Limiter) Wait(ctx context.Context, path string) error {
	return l.getLimiter(dirKey(path)).Wait(ctx)
}

// Allow checks if an open is allowed without waiting
func (l *Limiter) Allow(path string) bool {
	return l.getLimiter(dirKey(path)).Allow()
}

// SetDirRate sets a custom rate for one directory
func (l *Limiter) SetDirRate(dir string, filesPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}
	limit := rate.Inf
	if filesPerSecond > 0 {
		limit = rate.Limit(filesPerSecond)
	}

	l.limiters[filepath.Clean(dir)] = rate.NewLimiter(limit, burst)
}

func (l *Limiter) getLimiter(dir string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[dir]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[dir]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[dir] = limiter

	return limiter
}

func dirKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Dir(path)
}
