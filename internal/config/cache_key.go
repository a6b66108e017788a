package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ModeratorSessionKey returns the cache key holding the JTI of the
// moderator's current login session.
func (r *CacheKeyStruct) ModeratorSessionKey(jti string) string {
	return fmt.Sprintf("moderator:session:%s", jti)
}

// ImportLockKey is the busy flag guarding the AI question import.
// At most one import request may be in flight at a time.
func (r *CacheKeyStruct) ImportLockKey() string {
	return "import:lock"
}

var CacheKey = NewCacheKeyStruct()
