package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs.
// Pattern: railres:{module}:{operation}:{identifier}

const (
	CACHE_PREFIX = "railres"
)

// Static data: stations, trains and their classes change rarely.
const (
	TTL_STATION_LIST  = 24 * time.Hour
	TTL_TRAIN_DETAIL  = 12 * time.Hour
	TTL_JOURNEY_FACTS = 6 * time.Hour
)

// Dynamic data: availability moves with every booking and cancellation.
const (
	TTL_AVAILABILITY = 30 * time.Second
)

// Catalog cache keys
const (
	CACHE_KEY_STATIONS      = CACHE_PREFIX + ":catalog:stations:all"
	CACHE_KEY_TRAIN_DETAIL  = CACHE_PREFIX + ":catalog:train:uuid:"    // + train-id
	CACHE_KEY_JOURNEY_FACTS = CACHE_PREFIX + ":catalog:journey_facts:" // + journey-id:class-id
)

// Inventory cache keys
const (
	CACHE_KEY_AVAILABILITY = CACHE_PREFIX + ":inventory:availability:" // + journey-id:class-id
)

// Invalidation patterns (used with DeletePattern)
const (
	PATTERN_INVALIDATE_CATALOG_ALL  = CACHE_PREFIX + ":catalog:*"
	PATTERN_INVALIDATE_AVAILABILITY = CACHE_PREFIX + ":inventory:availability:*"
)

func BuildJourneyFactsKey(journeyID, classID string) string {
	return CACHE_KEY_JOURNEY_FACTS + fmt.Sprintf("%s:%s", journeyID, classID)
}

func BuildTrainDetailKey(trainID string) string {
	return CACHE_KEY_TRAIN_DETAIL + trainID
}

func BuildAvailabilityKey(journeyID, classID string) string {
	return CACHE_KEY_AVAILABILITY + fmt.Sprintf("%s:%s", journeyID, classID)
}
