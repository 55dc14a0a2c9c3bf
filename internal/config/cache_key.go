package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RevokedTokenKey returns the key marking a token ID as logged out.
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// RateLimitKey returns the fixed-window counter key for a limiter scope and client.
func (r *CacheKeyStruct) RateLimitKey(scope, client string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, client, window)
}

// AttendanceFeedChannel is the Pub/Sub channel carrying newly recorded attendance.
func (r *CacheKeyStruct) AttendanceFeedChannel() string {
	return "attendance:feed"
}

var CacheKey = NewCacheKeyStruct()
