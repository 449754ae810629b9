package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RateLimitKey returns the Redis key for a rate limit window counter.
// scope groups endpoints sharing one budget (e.g. "auth", "register").
func (r *CacheKeyStruct) RateLimitKey(scope, identifier string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, identifier)
}

var CacheKey = NewCacheKeyStruct()
