package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// Pattern: tourbook:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // tour details
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // tour listings
	TTL_DYNAMIC_MEDIUM     = 10 * time.Minute // analytics
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "tourbook"
)

// ================== TOURS MODULE ==================

const (
	CACHE_KEY_TOURS_LIST  = CACHE_PREFIX + ":tours:list"         // + :page:X:limit:Y:q:Z
	CACHE_KEY_TOUR_DETAIL = CACHE_PREFIX + ":tours:detail:uuid:" // + tour-id
)

const (
	TTL_TOUR_LIST   = TTL_SEMI_STATIC_QUICK
	TTL_TOUR_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_PLATFORM_STATS = CACHE_PREFIX + ":analytics:platform"
)

const (
	TTL_PLATFORM_STATS = TTL_DYNAMIC_MEDIUM
)

// ================== INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_TOURS_LIST = CACHE_KEY_TOURS_LIST + ":*"
	PATTERN_INVALIDATE_ANALYTICS  = CACHE_PREFIX + ":analytics:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildTourListKey -> "tourbook:tours:list:page:1:limit:10:q:lisbon"
func BuildTourListKey(page, limit int, query string) string {
	key := fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_TOURS_LIST, page, limit)
	if query != "" {
		key += ":q:" + query
	}
	return key
}

func BuildTourDetailKey(tourID string) string {
	return CACHE_KEY_TOUR_DETAIL + tourID
}
