// Package cache stores reasoner review responses so re-running a
// document does not re-bill unchanged citations.
package cache

import "time"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}
