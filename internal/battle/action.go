package battle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sorokinArtemV/kombats-sub002/internal/combat"
)

// ActionKind tags the normalized action variant.
type ActionKind string

const (
	// ActionNone is the no-action sentinel: an absent, invalid or expired
	// submission. It always resolves to zero outgoing damage and no block.
	ActionNone ActionKind = "none"
	// ActionAttack is a structured attack with a target zone and an
	// optional block pair.
	ActionAttack ActionKind = "attack"
)

// Action is the typed variant the resolution algorithm operates on. Raw
// payload text never crosses the normalization boundary.
type Action struct {
	Kind       ActionKind   `json:"kind"`
	AttackZone combat.Zone  `json:"attack_zone,omitempty"`
	Block1     *combat.Zone `json:"block_zone_1,omitempty"`
	Block2     *combat.Zone `json:"block_zone_2,omitempty"`
}

// NoAction returns the no-action sentinel.
func NoAction() Action { return Action{Kind: ActionNone} }

// IsNoAction reports whether the action is the sentinel.
func (a Action) IsNoAction() bool { return a.Kind == ActionNone }

// rawActionPayload is the wire shape of a player submission.
type rawActionPayload struct {
	AttackZone string   `json:"attack_zone"`
	BlockZones []string `json:"block_zones"`
}

// ParseAction decodes a raw submission into the typed variant. The attack
// zone must parse; a malformed or unknown attack zone is a structural
// failure. Block zones degrade: an unparseable or incomplete block pair is
// dropped (no effective block) rather than failing the whole action, and a
// valid-but-non-adjacent pair is kept as declared so the resolution
// algorithm can judge its effectiveness.
func ParseAction(raw string) (Action, error) {
	if strings.TrimSpace(raw) == "" {
		return NoAction(), fmt.Errorf("battle: empty action payload")
	}
	var p rawActionPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return NoAction(), fmt.Errorf("battle: malformed action payload: %w", err)
	}
	attack, err := combat.ParseZone(p.AttackZone)
	if err != nil {
		return NoAction(), fmt.Errorf("battle: invalid attack zone: %w", err)
	}

	a := Action{Kind: ActionAttack, AttackZone: attack}
	if len(p.BlockZones) == 2 {
		b1, err1 := combat.ParseZone(p.BlockZones[0])
		b2, err2 := combat.ParseZone(p.BlockZones[1])
		if err1 == nil && err2 == nil {
			a.Block1, a.Block2 = &b1, &b2
		}
	}
	return a, nil
}

// HasEffectiveBlock reports whether the declared block pair is a valid
// adjacent pattern. Non-adjacent or missing pairs protect nothing.
func (a Action) HasEffectiveBlock() bool {
	if a.Block1 == nil || a.Block2 == nil {
		return false
	}
	return combat.IsValidBlockPattern(*a.Block1, *a.Block2)
}
