package combat

import (
	"testing"

	"pgregory.net/rapid"
)

func TestParseZone(t *testing.T) {
	z, err := ParseZone("  Head ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if z != ZoneHead {
		t.Fatalf("expected head, got %q", z)
	}
	if _, err := ParseZone("shoulder"); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
	if _, err := ParseZone(""); err == nil {
		t.Fatalf("expected error for empty zone")
	}
}

func TestIsValidBlockPattern_RingAdjacency(t *testing.T) {
	// Exactly the five neighbor pairs of the ring are valid.
	valid := 0
	for i, z1 := range Zones {
		for _, z2 := range Zones[i+1:] {
			if IsValidBlockPattern(z1, z2) {
				valid++
			}
		}
	}
	if valid != 5 {
		t.Fatalf("expected exactly 5 valid unordered block patterns, got %d", valid)
	}

	if !IsValidBlockPattern(ZoneLegs, ZoneHead) {
		t.Fatalf("ring wrap pair legs/head must be valid")
	}
	if IsValidBlockPattern(ZoneHead, ZoneBelly) {
		t.Fatalf("non-adjacent pair head/belly must be invalid")
	}
	if IsValidBlockPattern(ZoneHead, ZoneHead) {
		t.Fatalf("a zone is never adjacent to itself")
	}
}

func TestIsValidBlockPattern_OrderIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		z1 := rapid.SampledFrom(Zones).Draw(t, "z1")
		z2 := rapid.SampledFrom(Zones).Draw(t, "z2")
		if IsValidBlockPattern(z1, z2) != IsValidBlockPattern(z2, z1) {
			t.Fatalf("adjacency not symmetric for %q/%q", z1, z2)
		}
	})
}

func TestIsZoneBlocked(t *testing.T) {
	head, chest := ZoneHead, ZoneChest
	if !IsZoneBlocked(ZoneHead, &head, &chest) {
		t.Fatalf("attack on a covered zone must be blocked")
	}
	if IsZoneBlocked(ZoneLegs, &head, &chest) {
		t.Fatalf("attack on an uncovered zone must not be blocked")
	}
	if IsZoneBlocked(ZoneHead, nil, nil) {
		t.Fatalf("missing block pair must not block")
	}
}
