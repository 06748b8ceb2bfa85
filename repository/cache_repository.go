package repository

import "time"

// CacheRepository is a string cache with per-entry TTL. A zero ttl stores the
// value without expiry.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
}
