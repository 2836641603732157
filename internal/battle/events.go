package battle

import (
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/combat"
)

// Outcome classifies one attack direction's result.
type Outcome string

const (
	OutcomeNoAction Outcome = "no_action"
	OutcomeDodged   Outcome = "dodged"
	OutcomeHit      Outcome = "hit"
	OutcomeBlocked  Outcome = "blocked"
	// OutcomeCriticalHit is a crit against an uncovered zone.
	OutcomeCriticalHit Outcome = "critical_hit"
	// OutcomeCriticalBypassBlock is a crit that ignores a covering block
	// entirely (crit effect mode "bypass").
	OutcomeCriticalBypassBlock Outcome = "critical_bypass_block"
	// OutcomeCriticalHybridBlocked is a crit against a covering block dealing
	// partial damage (crit effect mode "hybrid").
	OutcomeCriticalHybridBlocked Outcome = "critical_hybrid_blocked"
)

// AttackResolution is the append-only audit record for one attack direction
// of one turn. Two are produced per resolved turn.
type AttackResolution struct {
	AttackerID string `json:"attacker_id"`
	DefenderID string `json:"defender_id"`
	TurnIndex  int    `json:"turn_index"`

	AttackZone             *combat.Zone `json:"attack_zone,omitempty"`
	DefenderBlockPrimary   *combat.Zone `json:"defender_block_primary,omitempty"`
	DefenderBlockSecondary *combat.Zone `json:"defender_block_secondary,omitempty"`

	WasBlocked bool    `json:"was_blocked"`
	WasCrit    bool    `json:"was_crit"`
	Outcome    Outcome `json:"outcome"`
	Damage     int     `json:"damage"`
}

// TurnResolutionLog is the complete audit artifact for one resolved turn.
type TurnResolutionLog struct {
	BattleID  string           `json:"battle_id"`
	TurnIndex int              `json:"turn_index"`
	AToB      AttackResolution `json:"a_to_b"`
	BToA      AttackResolution `json:"b_to_a"`
}

// TurnResolved is emitted after both directions of a turn are applied.
type TurnResolved struct {
	BattleID   string            `json:"battle_id"`
	TurnIndex  int               `json:"turn_index"`
	ActionA    Action            `json:"action_a"`
	ActionB    Action            `json:"action_b"`
	Log        TurnResolutionLog `json:"log"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// PlayerDamaged is emitted once per non-zero damage application.
type PlayerDamaged struct {
	BattleID    string    `json:"battle_id"`
	PlayerID    string    `json:"player_id"`
	Damage      int       `json:"damage"`
	RemainingHP int       `json:"remaining_hp"`
	TurnIndex   int       `json:"turn_index"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BattleEnded is the termination event consumed by external services. It is
// published at-least-once through the outbox; downstream consumers are
// expected to deduplicate on BattleID.
type BattleEnded struct {
	BattleID       string    `json:"battle_id"`
	MatchID        string    `json:"match_id"`
	WinnerPlayerID *string   `json:"winner_player_id,omitempty"`
	Reason         EndReason `json:"reason"`
	FinalTurnIndex int       `json:"final_turn_index"`
	OccurredAt     time.Time `json:"occurred_at"`
}
