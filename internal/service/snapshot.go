package service

import (
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
)

// PlayerSnapshot is one participant's externally visible state.
type PlayerSnapshot struct {
	PlayerID  string `json:"player_id"`
	CurrentHP int    `json:"current_hp"`
	MaxHP     int    `json:"max_hp"`
}

// RulesetSummary is the slice of the ruleset clients need.
type RulesetSummary struct {
	Version       int `json:"version"`
	TurnSeconds   int `json:"turn_seconds"`
	NoActionLimit int `json:"no_action_limit"`
}

// Snapshot is the authoritative full-state push sent to clients after every
// persisted mutation. Field set is part of the realtime wire contract.
type Snapshot struct {
	BattleID              string         `json:"battle_id"`
	PlayerAID             string         `json:"player_a_id"`
	PlayerBID             string         `json:"player_b_id"`
	Ruleset               RulesetSummary `json:"ruleset"`
	Phase                 string         `json:"phase"`
	TurnIndex             int            `json:"turn_index"`
	DeadlineUTC           string         `json:"deadline_utc,omitempty"`
	NoActionStreakBoth    int            `json:"no_action_streak_both"`
	LastResolvedTurnIndex int            `json:"last_resolved_turn_index"`
	EndedReason           string         `json:"ended_reason,omitempty"`
	Version               int64          `json:"version"`
	PlayerA               PlayerSnapshot `json:"player_a"`
	PlayerB               PlayerSnapshot `json:"player_b"`
}

// BuildSnapshot maps the domain state onto the wire contract. The single
// mapping point for the phase and deadline representations.
func BuildSnapshot(s *battle.State) Snapshot {
	snap := Snapshot{
		BattleID:              s.BattleID,
		PlayerAID:             s.PlayerAID,
		PlayerBID:             s.PlayerBID,
		Ruleset:               RulesetSummary{Version: s.Ruleset.Version, TurnSeconds: s.Ruleset.TurnSeconds, NoActionLimit: s.Ruleset.NoActionLimit},
		Phase:                 string(s.Phase),
		TurnIndex:             s.TurnIndex,
		NoActionStreakBoth:    s.NoActionStreakBoth,
		LastResolvedTurnIndex: s.LastResolvedTurnIndex,
		EndedReason:           string(s.EndedReason),
		Version:               s.Version,
		PlayerA:               PlayerSnapshot{PlayerID: s.PlayerA.PlayerID, CurrentHP: s.PlayerA.CurrentHP, MaxHP: s.PlayerA.MaxHP},
		PlayerB:               PlayerSnapshot{PlayerID: s.PlayerB.PlayerID, CurrentHP: s.PlayerB.CurrentHP, MaxHP: s.PlayerB.MaxHP},
	}
	if !s.DeadlineUTC.IsZero() {
		snap.DeadlineUTC = s.DeadlineUTC.UTC().Format(time.RFC3339)
	}
	return snap
}
