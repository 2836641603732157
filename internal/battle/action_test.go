package battle

import (
	"testing"

	"github.com/sorokinArtemV/kombats-sub002/internal/combat"
)

func TestParseAction_ValidAttackWithBlock(t *testing.T) {
	a, err := ParseAction(`{"attack_zone":"head","block_zones":["chest","belly"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Kind != ActionAttack || a.AttackZone != combat.ZoneHead {
		t.Fatalf("unexpected action %+v", a)
	}
	if a.Block1 == nil || a.Block2 == nil || *a.Block1 != combat.ZoneChest || *a.Block2 != combat.ZoneBelly {
		t.Fatalf("expected block pair chest/belly, got %+v", a)
	}
	if !a.HasEffectiveBlock() {
		t.Fatalf("adjacent pair must be an effective block")
	}
}

func TestParseAction_StructuralFailures(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"{not json",
		`{"attack_zone":"shoulder"}`,
		`{"block_zones":["head","chest"]}`,
	}
	for _, raw := range cases {
		a, err := ParseAction(raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		if !a.IsNoAction() {
			t.Fatalf("failed parse must yield no-action, got %+v for %q", a, raw)
		}
	}
}

func TestParseAction_BadBlockPairDropped(t *testing.T) {
	// An unparseable or incomplete block pair degrades to no block; the
	// attack itself survives.
	for _, raw := range []string{
		`{"attack_zone":"legs","block_zones":["head","shoulder"]}`,
		`{"attack_zone":"legs","block_zones":["head"]}`,
		`{"attack_zone":"legs"}`,
	} {
		a, err := ParseAction(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if a.Block1 != nil || a.Block2 != nil {
			t.Fatalf("expected dropped block pair for %q, got %+v", raw, a)
		}
		if a.HasEffectiveBlock() {
			t.Fatalf("dropped pair must not be effective for %q", raw)
		}
	}
}

func TestParseAction_NonAdjacentPairKeptButIneffective(t *testing.T) {
	a, err := ParseAction(`{"attack_zone":"head","block_zones":["chest","waist"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Block1 == nil || a.Block2 == nil {
		t.Fatalf("valid zones must be kept as declared, got %+v", a)
	}
	if a.HasEffectiveBlock() {
		t.Fatalf("non-adjacent pair must not be an effective block")
	}
}
