package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// FileKey generates a cache key for a playlist file. The key changes when
// the file is modified or the analyzer fingerprint changes.
func FileKey(path string, info os.FileInfo, fingerprint string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	raw := fmt.Sprintf("%s\x00%d\x00%d\x00%s", abs, info.Size(), info.ModTime().UnixNano(), fingerprint)
	hash := sha256.Sum256([]byte(raw))
	return "playlens:v1:" + hex.EncodeToString(hash[:])
}
