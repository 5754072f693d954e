package cache

import "time"

// Cache - кеш с TTL на запись
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
	Delete(key string)
}
