package service

import (
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/clock"
	"github.com/sorokinArtemV/kombats-sub002/internal/combat"
	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
	"github.com/sorokinArtemV/kombats-sub002/internal/dedupe"
	"github.com/sorokinArtemV/kombats-sub002/internal/engine"
	"github.com/sorokinArtemV/kombats-sub002/internal/logging"
	"github.com/sorokinArtemV/kombats-sub002/internal/rng"
)

// occRetries bounds the read-compute-write retry loop on version conflicts.
// The store's version guard is the only serialization mechanism per battle;
// there is deliberately no in-process lock spanning the I/O boundary.
const occRetries = 3

// RulesetTemplate is the configured source every battle's ruleset is
// normalized from at creation. The creation request never supplies ruleset
// values.
type RulesetTemplate struct {
	Version        int
	TurnSeconds    int
	MinTurnSeconds int
	MaxTurnSeconds int
	NoActionLimit  int
	Balance        combat.CombatBalance
}

// Normalized produces the immutable per-battle ruleset: bounds-clamped turn
// length, defaulted limits, the given seed. This is the only place a ruleset
// is chosen; the engine never re-normalizes mid-battle.
func (t RulesetTemplate) Normalized(seed int64) battle.Ruleset {
	turnSeconds := t.TurnSeconds
	if turnSeconds <= 0 {
		turnSeconds = 30
	}
	if t.MinTurnSeconds > 0 && turnSeconds < t.MinTurnSeconds {
		turnSeconds = t.MinTurnSeconds
	}
	if t.MaxTurnSeconds > 0 && turnSeconds > t.MaxTurnSeconds {
		turnSeconds = t.MaxTurnSeconds
	}
	limit := t.NoActionLimit
	if limit <= 0 {
		limit = 3
	}
	return battle.Ruleset{
		Version:       t.Version,
		TurnSeconds:   turnSeconds,
		NoActionLimit: limit,
		Seed:          seed,
		Balance:       t.Balance,
	}
}

// Orchestrator drives battle lifecycle transitions. It is the sole writer of
// battle state; player submissions, deadline firings and external end
// commands all funnel through it.
type Orchestrator struct {
	repo     BattleRepo
	profiles ProfileRepo
	notifier Notifier
	clock    clock.Clock
	template RulesetTemplate
	// resolveSkew is the clock-drift allowance before the deadline policy
	// fires for a turn.
	resolveSkew time.Duration
}

// NewOrchestrator wires the orchestrator with its collaborator ports.
func NewOrchestrator(repo BattleRepo, profiles ProfileRepo, notifier Notifier, clk clock.Clock, template RulesetTemplate, resolveSkew time.Duration) *Orchestrator {
	return &Orchestrator{
		repo:        repo,
		profiles:    profiles,
		notifier:    notifier,
		clock:       clk,
		template:    template,
		resolveSkew: resolveSkew,
	}
}

// lookupStats fetches a player's attribute projection, deduplicating
// concurrent lookups for the same player and falling back to the default
// line when the profile is missing or the store errors.
func (o *Orchestrator) lookupStats(playerID string) combat.PlayerStats {
	v, err, _ := dedupe.ProfileGroup.Do(playerID, func() (interface{}, error) {
		return o.profiles.GetProfile(playerID)
	})
	if err != nil {
		logging.Warn("profile lookup failed; using default stats", logging.Fields{
			constants.LogFieldPlayerID: playerID,
			"error":                    err.Error(),
		})
		return combat.DefaultStats()
	}
	return v.(combat.PlayerStats)
}

// resolveTurn runs the engine over the current turn, substituting no-action
// for any missing submission. The draw stream is derived from the battle
// seed and turn index, keeping every turn replayable.
func (o *Orchestrator) resolveTurn(s *battle.State, now time.Time) (*engine.Result, error) {
	actionA := battle.NoAction()
	if s.PendingA != nil {
		actionA = *s.PendingA
	}
	actionB := battle.NoAction()
	if s.PendingB != nil {
		actionB = *s.PendingB
	}
	src := rng.ForTurn(s.Ruleset.Seed, s.TurnIndex)
	return engine.ResolveTurn(s, actionA, actionB, src, now)
}

// notifyResolution pushes the resolution fan-out: turn result, damage
// tickers, the authoritative snapshot, and either the next turn opening or
// the battle end.
func (o *Orchestrator) notifyResolution(s *battle.State, res *engine.Result) {
	o.notifier.NotifyTurnResolved(res.Resolved)
	for _, d := range res.Damaged {
		o.notifier.NotifyPlayerDamaged(d)
	}
	o.notifier.NotifyStateUpdated(BuildSnapshot(s))
	if res.Ended != nil {
		o.notifier.NotifyBattleEnded(*res.Ended)
		return
	}
	o.notifier.NotifyTurnOpened(s.BattleID, s.TurnIndex, s.DeadlineUTC)
}
