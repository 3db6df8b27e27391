package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from its parts
func CacheKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "truevail:v1:" + hex.EncodeToString(hash[:])
}

// New builds the verdict store: memory only, or memory in front of disk
// when dir is set.
func New(ttl, cleanupInterval time.Duration, dir string) Cache {
	if dir == "" {
		return NewMemoryCache(ttl, cleanupInterval)
	}
	return NewLayeredCache(NewMemoryCache(ttl, cleanupInterval), NewDiskCache(dir, ttl))
}
