// Package dedupe provides the shared singleflight group used to deduplicate
// concurrent profile lookups. Battle creation fetches both players' profiles;
// when the same player appears in several creations at once only one lookup
// hits the store while the other callers wait for its result.
package dedupe

import "golang.org/x/sync/singleflight"

// ProfileGroup deduplicates player profile lookups keyed by player id.
var ProfileGroup singleflight.Group
