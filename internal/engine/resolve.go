package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/combat"
	"github.com/sorokinArtemV/kombats-sub002/internal/rng"
)

// Result carries everything one turn resolution produced: the audit log,
// the domain events to publish and whether the battle reached its end.
type Result struct {
	Log      battle.TurnResolutionLog
	Resolved battle.TurnResolved
	Damaged  []battle.PlayerDamaged
	Ended    *battle.BattleEnded
}

// ResolveTurn resolves the current turn of s with the two normalized actions
// and mutates s into the next phase.
//
// Both directions are computed against the pre-turn snapshot, so neither
// player's incoming damage affects the other's rolls, then both damages are
// applied. The draw order per direction is fixed: dodge, crit, damage, with
// A→B resolved before B→A. Given identical (state, actions, draw source)
// the outcome is bit-identical, which is what makes turns replayable.
func ResolveTurn(s *battle.State, actionA, actionB battle.Action, src rng.Provider, now time.Time) (*Result, error) {
	if s.Phase != battle.PhaseTurnOpen && s.Phase != battle.PhaseResolving {
		return nil, fmt.Errorf("engine: cannot resolve turn in phase %q", s.Phase)
	}
	s.Phase = battle.PhaseResolving

	// Forfeiture bookkeeping: a turn where neither player acted extends the
	// streak; any accepted action resets it.
	if actionA.IsNoAction() && actionB.IsNoAction() {
		s.NoActionStreakBoth++
	} else {
		s.NoActionStreakBoth = 0
	}

	turn := s.TurnIndex
	balance := s.Ruleset.Balance

	// Pre-turn snapshot: rolls for both directions read from here.
	preA := s.PlayerA
	preB := s.PlayerB

	aToB := resolveDirection(&preA, &preB, actionA, actionB, turn, balance, src)
	bToA := resolveDirection(&preB, &preA, actionB, actionA, turn, balance, src)

	res := &Result{
		Log: battle.TurnResolutionLog{
			BattleID:  s.BattleID,
			TurnIndex: turn,
			AToB:      aToB,
			BToA:      bToA,
		},
	}

	if err := s.PlayerB.ApplyDamage(aToB.Damage); err != nil {
		return nil, err
	}
	if err := s.PlayerA.ApplyDamage(bToA.Damage); err != nil {
		return nil, err
	}
	if aToB.Damage > 0 {
		res.Damaged = append(res.Damaged, battle.PlayerDamaged{
			BattleID:    s.BattleID,
			PlayerID:    s.PlayerBID,
			Damage:      aToB.Damage,
			RemainingHP: s.PlayerB.CurrentHP,
			TurnIndex:   turn,
			OccurredAt:  now,
		})
	}
	if bToA.Damage > 0 {
		res.Damaged = append(res.Damaged, battle.PlayerDamaged{
			BattleID:    s.BattleID,
			PlayerID:    s.PlayerAID,
			Damage:      bToA.Damage,
			RemainingHP: s.PlayerA.CurrentHP,
			TurnIndex:   turn,
			OccurredAt:  now,
		})
	}

	res.Resolved = battle.TurnResolved{
		BattleID:   s.BattleID,
		TurnIndex:  turn,
		ActionA:    actionA,
		ActionB:    actionB,
		Log:        res.Log,
		OccurredAt: now,
	}

	s.LastResolvedTurnIndex = turn
	s.TurnIndex = turn + 1
	s.PendingA, s.PendingB = nil, nil

	if reason, winner, ended := endCondition(s); ended {
		s.Phase = battle.PhaseEnded
		s.EndedReason = reason
		s.WinnerID = winner
		s.DeadlineUTC = time.Time{}
		res.Ended = &battle.BattleEnded{
			BattleID:       s.BattleID,
			MatchID:        s.MatchID,
			WinnerPlayerID: winner,
			Reason:         reason,
			FinalTurnIndex: turn,
			OccurredAt:     now,
		}
		return res, nil
	}

	s.Phase = battle.PhaseTurnOpen
	s.DeadlineUTC = now.Add(time.Duration(s.Ruleset.TurnSeconds) * time.Second)
	return res, nil
}

// endCondition checks the post-resolution state for a terminal outcome.
// Both players at 0 HP in the same turn is an explicit draw: no winner.
func endCondition(s *battle.State) (battle.EndReason, *string, bool) {
	aAlive := s.PlayerA.IsAlive()
	bAlive := s.PlayerB.IsAlive()
	switch {
	case !aAlive && !bAlive:
		return battle.EndReasonNormal, nil, true
	case !aAlive:
		winner := s.PlayerBID
		return battle.EndReasonNormal, &winner, true
	case !bAlive:
		winner := s.PlayerAID
		return battle.EndReasonNormal, &winner, true
	}
	if s.NoActionStreakBoth >= s.Ruleset.NoActionLimit {
		return battle.EndReasonDoubleForfeit, nil, true
	}
	return battle.EndReasonNone, nil, false
}

// resolveDirection computes one attack direction against the pre-turn
// snapshot. Draw order within a direction: dodge, crit, damage. A dodge
// short-circuits before the crit roll so the draw sequence stays aligned
// for replay.
func resolveDirection(attacker, defender *battle.PlayerState, attackerAction, defenderAction battle.Action, turnIndex int, balance combat.CombatBalance, src rng.Provider) battle.AttackResolution {
	rec := battle.AttackResolution{
		AttackerID: attacker.PlayerID,
		DefenderID: defender.PlayerID,
		TurnIndex:  turnIndex,
	}
	if !defenderAction.IsNoAction() {
		rec.DefenderBlockPrimary = defenderAction.Block1
		rec.DefenderBlockSecondary = defenderAction.Block2
	}

	if attackerAction.IsNoAction() {
		rec.Outcome = battle.OutcomeNoAction
		return rec
	}
	zone := attackerAction.AttackZone
	rec.AttackZone = &zone

	dodgeChance := balance.Dodge.Chance(defender.Derived.MfDodge - attacker.Derived.MfAntiDodge)
	if src.NextDecimal(0, 1) < dodgeChance {
		rec.Outcome = battle.OutcomeDodged
		return rec
	}

	critChance := balance.Crit.Chance(attacker.Derived.MfCrit - defender.Derived.MfAntiCrit)
	rec.WasCrit = src.NextDecimal(0, 1) < critChance

	// A block only counts when the declared pair is a valid adjacent pattern
	// covering the attacked zone. Anything else protects nothing.
	rec.WasBlocked = defenderAction.HasEffectiveBlock() &&
		combat.IsZoneBlocked(zone, defenderAction.Block1, defenderAction.Block2)

	multiplier := 0.0
	switch {
	case !rec.WasCrit && rec.WasBlocked:
		rec.Outcome = battle.OutcomeBlocked
		return rec
	case !rec.WasCrit:
		rec.Outcome = battle.OutcomeHit
		multiplier = 1
	case rec.WasCrit && !rec.WasBlocked:
		rec.Outcome = battle.OutcomeCriticalHit
		multiplier = balance.CritEffect.Multiplier
	case balance.CritEffect.Mode == combat.CritBypass:
		rec.Outcome = battle.OutcomeCriticalBypassBlock
		multiplier = balance.CritEffect.Multiplier
	default:
		rec.Outcome = battle.OutcomeCriticalHybridBlocked
		multiplier = balance.CritEffect.Multiplier * balance.CritEffect.HybridMultiplier
	}

	raw := src.NextDecimal(float64(attacker.Derived.DamageMin), float64(attacker.Derived.DamageMax))
	damage := int(math.Round(raw * multiplier))
	if damage < 0 {
		damage = 0
	}
	rec.Damage = damage
	return rec
}
