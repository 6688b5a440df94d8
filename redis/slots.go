package redis

import (
	"fmt"
	"time"
)

// slotCacheTTL keeps availability responses hot for a short window only;
// the read path is advisory anyway and the write path re-validates.
const slotCacheTTL = 30 * time.Second

// SlotsVersion returns the location's cache generation. Keys embed it, so
// bumping the version invalidates every cached availability response for
// the location without scanning keys.
func SlotsVersion(locationID uint) int64 {
	if Client == nil {
		return 0
	}
	v, err := Client.Get(Ctx, fmt.Sprintf("slots:ver:%d", locationID)).Int64()
	if err != nil {
		return 0
	}
	return v
}

// BumpSlotsVersion invalidates cached availability for a location. Called
// after booking writes and availability edits.
func BumpSlotsVersion(locationID uint) {
	if Client == nil {
		return
	}
	Client.Incr(Ctx, fmt.Sprintf("slots:ver:%d", locationID))
}

// GetCachedSlots returns a cached availability response body, if present.
func GetCachedSlots(key string) (string, bool) {
	if Client == nil {
		return "", false
	}
	val, err := Client.Get(Ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// SetCachedSlots stores an availability response body.
func SetCachedSlots(key, body string) {
	if Client == nil {
		return
	}
	Client.Set(Ctx, key, body, slotCacheTTL)
}
