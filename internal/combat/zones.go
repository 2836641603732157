package combat

import (
	"fmt"
	"strings"
)

// Zone is one of the five body zones an attack can target and a block can
// cover. The zones form a ring; each is adjacent to exactly two neighbors.
type Zone string

const (
	ZoneHead  Zone = "head"
	ZoneChest Zone = "chest"
	ZoneBelly Zone = "belly"
	ZoneWaist Zone = "waist"
	ZoneLegs  Zone = "legs"
)

// Zones lists all zones in ring order.
var Zones = []Zone{ZoneHead, ZoneChest, ZoneBelly, ZoneWaist, ZoneLegs}

// ParseZone converts a wire string into a Zone. Unknown names are a
// structural parse failure.
func ParseZone(s string) (Zone, error) {
	z := Zone(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Zones {
		if z == known {
			return z, nil
		}
	}
	return "", fmt.Errorf("combat: unknown zone %q", s)
}

// ringIndex returns the zone's position in the ring, or -1 for an invalid zone.
func ringIndex(z Zone) int {
	for i, known := range Zones {
		if z == known {
			return i
		}
	}
	return -1
}

// IsValidBlockPattern reports whether {z1, z2} is one of the five adjacent
// zone pairs. Order-independent; a zone is never adjacent to itself.
func IsValidBlockPattern(z1, z2 Zone) bool {
	i, j := ringIndex(z1), ringIndex(z2)
	if i < 0 || j < 0 || i == j {
		return false
	}
	n := len(Zones)
	return (i+1)%n == j || (j+1)%n == i
}

// IsZoneBlocked reports whether an attack on attackZone is covered by the
// declared block pair. Both block zones must be set; validity of the pair is
// the caller's concern (an invalid pair yields no effective block upstream).
func IsZoneBlocked(attackZone Zone, block1, block2 *Zone) bool {
	if block1 == nil || block2 == nil {
		return false
	}
	return attackZone == *block1 || attackZone == *block2
}
