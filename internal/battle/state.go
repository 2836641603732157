package battle

import (
	"fmt"
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/combat"
)

// Phase is the coarse lifecycle state of a battle.
type Phase string

const (
	PhaseArenaOpen Phase = "arena_open"
	PhaseTurnOpen  Phase = "turn_open"
	PhaseResolving Phase = "resolving"
	PhaseEnded     Phase = "ended"
)

// EndReason explains why a battle reached the Ended phase.
type EndReason string

const (
	EndReasonNone          EndReason = ""
	EndReasonNormal        EndReason = "normal"
	EndReasonDoubleForfeit EndReason = "double_forfeit"
	EndReasonTimeout       EndReason = "timeout"
	EndReasonCancelled     EndReason = "cancelled"
	EndReasonAdminForced   EndReason = "admin_forced"
	EndReasonSystemError   EndReason = "system_error"
)

// Ruleset fixes the parameters of one battle. It is selected and normalized
// exactly once at creation and never re-normalized mid-battle.
type Ruleset struct {
	Version       int                  `json:"version"`
	TurnSeconds   int                  `json:"turn_seconds"`
	NoActionLimit int                  `json:"no_action_limit"`
	Seed          int64                `json:"seed"`
	Balance       combat.CombatBalance `json:"balance"`
}

// PlayerState is one participant's mutable combat state. CurrentHP is only
// ever changed through ApplyDamage and Heal, which clamp to [0, MaxHP].
type PlayerState struct {
	PlayerID  string                    `json:"player_id"`
	MaxHP     int                       `json:"max_hp"`
	CurrentHP int                       `json:"current_hp"`
	Stats     combat.PlayerStats        `json:"stats"`
	Derived   combat.DerivedCombatStats `json:"derived"`
}

// NewPlayerState builds a participant at full HP from base attributes.
func NewPlayerState(playerID string, stats combat.PlayerStats, balance combat.CombatBalance) (PlayerState, error) {
	derived, err := combat.ComputeDerived(stats, balance)
	if err != nil {
		return PlayerState{}, err
	}
	return PlayerState{
		PlayerID:  playerID,
		MaxHP:     derived.HPMax,
		CurrentHP: derived.HPMax,
		Stats:     stats,
		Derived:   derived,
	}, nil
}

// ApplyDamage subtracts damage from CurrentHP, clamping at 0. Negative
// damage is a caller bug and is rejected.
func (p *PlayerState) ApplyDamage(damage int) error {
	if damage < 0 {
		return fmt.Errorf("battle: negative damage %d for player %s", damage, p.PlayerID)
	}
	p.CurrentHP -= damage
	if p.CurrentHP < 0 {
		p.CurrentHP = 0
	}
	return nil
}

// Heal adds hit points, clamping at MaxHP. Negative amounts are rejected.
func (p *PlayerState) Heal(amount int) error {
	if amount < 0 {
		return fmt.Errorf("battle: negative heal %d for player %s", amount, p.PlayerID)
	}
	p.CurrentHP += amount
	if p.CurrentHP > p.MaxHP {
		p.CurrentHP = p.MaxHP
	}
	return nil
}

// IsAlive reports whether the player can still fight.
func (p *PlayerState) IsAlive() bool { return p.CurrentHP > 0 }

// State is the authoritative domain state of one battle. It is owned by the
// lifecycle orchestrator and persisted through the battle store with an
// optimistic version counter; nothing else writes it.
type State struct {
	BattleID  string `json:"battle_id"`
	MatchID   string `json:"match_id"`
	PlayerAID string `json:"player_a_id"`
	PlayerBID string `json:"player_b_id"`

	Ruleset Ruleset `json:"ruleset"`

	Phase                 Phase     `json:"phase"`
	TurnIndex             int       `json:"turn_index"`
	DeadlineUTC           time.Time `json:"deadline_utc"`
	NoActionStreakBoth    int       `json:"no_action_streak_both"`
	LastResolvedTurnIndex int       `json:"last_resolved_turn_index"`

	EndedReason EndReason `json:"ended_reason,omitempty"`
	WinnerID    *string   `json:"winner_id,omitempty"`

	PlayerA PlayerState `json:"player_a"`
	PlayerB PlayerState `json:"player_b"`

	// Accepted submissions for the current turn. Cleared on every resolution.
	PendingA *Action `json:"pending_a,omitempty"`
	PendingB *Action `json:"pending_b,omitempty"`

	// Version is maintained by the store: the value read with the state and
	// the expected value on the next save.
	Version int64 `json:"-"`
}

// IsEnded reports whether the battle reached its terminal phase.
func (s *State) IsEnded() bool { return s.Phase == PhaseEnded }

// HasPlayer reports whether the given player participates in this battle.
func (s *State) HasPlayer(playerID string) bool {
	return playerID == s.PlayerAID || playerID == s.PlayerBID
}

// Player returns the participant state for the given id, or nil.
func (s *State) Player(playerID string) *PlayerState {
	switch playerID {
	case s.PlayerAID:
		return &s.PlayerA
	case s.PlayerBID:
		return &s.PlayerB
	}
	return nil
}

// BothSubmitted reports whether both players have an accepted action for the
// current turn.
func (s *State) BothSubmitted() bool { return s.PendingA != nil && s.PendingB != nil }
