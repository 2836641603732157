package engine

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/combat"
	"github.com/sorokinArtemV/kombats-sub002/internal/rng"
)

// quietBalance disables dodge and crit rolls and fixes the damage roll so a
// turn's outcome depends only on zones and blocks.
func quietBalance() combat.CombatBalance {
	b := combat.DefaultBalance()
	b.Damage = combat.DamageCurve{Base: 2, PerStrength: 1, SpreadMin: 0, SpreadMax: 0}
	b.Dodge = combat.ChanceCurve{Base: 0, Min: 0, Max: 0, Scale: 0, KBase: 25}
	b.Crit = combat.ChanceCurve{Base: 0, Min: 0, Max: 0, Scale: 0, KBase: 25}
	return b
}

func newTestState(t *testing.T, balance combat.CombatBalance) *battle.State {
	t.Helper()
	playerA, err := battle.NewPlayerState("alice", combat.DefaultStats(), balance)
	if err != nil {
		t.Fatalf("player A: %v", err)
	}
	playerB, err := battle.NewPlayerState("bob", combat.DefaultStats(), balance)
	if err != nil {
		t.Fatalf("player B: %v", err)
	}
	return &battle.State{
		BattleID:              "battle-1",
		MatchID:               "match-1",
		PlayerAID:             "alice",
		PlayerBID:             "bob",
		Ruleset:               battle.Ruleset{Version: 1, TurnSeconds: 30, NoActionLimit: 3, Seed: 42, Balance: balance},
		Phase:                 battle.PhaseTurnOpen,
		TurnIndex:             0,
		LastResolvedTurnIndex: -1,
		PlayerA:               playerA,
		PlayerB:               playerB,
	}
}

func attackAction(zone combat.Zone, blocks ...combat.Zone) battle.Action {
	a := battle.Action{Kind: battle.ActionAttack, AttackZone: zone}
	if len(blocks) == 2 {
		a.Block1, a.Block2 = &blocks[0], &blocks[1]
	}
	return a
}

func TestResolveTurn_HitAndBlock(t *testing.T) {
	s := newTestState(t, quietBalance())
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	// Alice attacks bob's chest; bob blocks belly+waist, which leaves chest
	// open. Bob attacks alice's head; alice blocks legs+head, which covers it.
	actionA := attackAction(combat.ZoneChest, combat.ZoneLegs, combat.ZoneHead)
	actionB := attackAction(combat.ZoneHead, combat.ZoneBelly, combat.ZoneWaist)

	res, err := ResolveTurn(s, actionA, actionB, rng.ForTurn(42, 0), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Log.AToB.Outcome != battle.OutcomeHit || res.Log.AToB.Damage != 12 {
		t.Fatalf("expected hit for 12 on open chest, got %+v", res.Log.AToB)
	}
	if res.Log.BToA.Outcome != battle.OutcomeBlocked || res.Log.BToA.Damage != 0 {
		t.Fatalf("expected blocked head attack, got %+v", res.Log.BToA)
	}
	if s.PlayerB.CurrentHP != 78 || s.PlayerA.CurrentHP != 90 {
		t.Fatalf("unexpected HP after turn: alice=%d bob=%d", s.PlayerA.CurrentHP, s.PlayerB.CurrentHP)
	}
	if len(res.Damaged) != 1 || res.Damaged[0].PlayerID != "bob" {
		t.Fatalf("expected one damage event for bob, got %+v", res.Damaged)
	}
	if s.Phase != battle.PhaseTurnOpen || s.TurnIndex != 1 || s.LastResolvedTurnIndex != 0 {
		t.Fatalf("unexpected post-turn state: phase=%q turn=%d last=%d", s.Phase, s.TurnIndex, s.LastResolvedTurnIndex)
	}
	if !s.DeadlineUTC.Equal(now.Add(30 * time.Second)) {
		t.Fatalf("expected fresh deadline, got %v", s.DeadlineUTC)
	}
}

func TestResolveTurn_NonAdjacentBlockProtectsNothing(t *testing.T) {
	s := newTestState(t, quietBalance())
	now := time.Now().UTC()

	// Bob declares chest+waist: valid zones, not an adjacent pair, so his
	// head stays open.
	actionA := attackAction(combat.ZoneHead)
	actionB := attackAction(combat.ZoneLegs, combat.ZoneChest, combat.ZoneWaist)

	res, err := ResolveTurn(s, actionA, actionB, rng.ForTurn(42, 0), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Log.AToB.Outcome != battle.OutcomeHit {
		t.Fatalf("expected hit through ineffective block, got %+v", res.Log.AToB)
	}
	if res.Log.AToB.WasBlocked {
		t.Fatalf("non-adjacent pair must never count as blocked")
	}
}

func TestResolveTurn_DodgeShortCircuits(t *testing.T) {
	balance := quietBalance()
	balance.Dodge = combat.ChanceCurve{Base: 1, Min: 1, Max: 1, Scale: 0, KBase: 25}
	s := newTestState(t, balance)

	res, err := ResolveTurn(s, attackAction(combat.ZoneHead), attackAction(combat.ZoneLegs), rng.ForTurn(42, 0), time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Log.AToB.Outcome != battle.OutcomeDodged || res.Log.BToA.Outcome != battle.OutcomeDodged {
		t.Fatalf("expected both directions dodged, got %+v / %+v", res.Log.AToB, res.Log.BToA)
	}
	if s.PlayerA.CurrentHP != 90 || s.PlayerB.CurrentHP != 90 {
		t.Fatalf("dodged attacks must deal no damage")
	}
	if res.Log.AToB.WasCrit {
		t.Fatalf("dodge must short-circuit before the crit roll")
	}
}

func TestResolveTurn_CritModes(t *testing.T) {
	balance := quietBalance()
	balance.Crit = combat.ChanceCurve{Base: 1, Min: 1, Max: 1, Scale: 0, KBase: 25}

	// Hybrid: a crit into a covering block deals partial damage.
	balance.CritEffect = combat.CritEffect{Mode: combat.CritHybrid, Multiplier: 2, HybridMultiplier: 0.5}
	s := newTestState(t, balance)
	res, err := ResolveTurn(s,
		attackAction(combat.ZoneHead),
		attackAction(combat.ZoneLegs, combat.ZoneLegs, combat.ZoneHead),
		rng.ForTurn(42, 0), time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Log.AToB.Outcome != battle.OutcomeCriticalHybridBlocked || res.Log.AToB.Damage != 12 {
		t.Fatalf("expected hybrid crit for 12 (24*0.5), got %+v", res.Log.AToB)
	}

	// Bypass: the same crit ignores the block entirely.
	balance.CritEffect.Mode = combat.CritBypass
	s = newTestState(t, balance)
	res, err = ResolveTurn(s,
		attackAction(combat.ZoneHead),
		attackAction(combat.ZoneLegs, combat.ZoneLegs, combat.ZoneHead),
		rng.ForTurn(42, 0), time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Log.AToB.Outcome != battle.OutcomeCriticalBypassBlock || res.Log.AToB.Damage != 24 {
		t.Fatalf("expected bypass crit for 24, got %+v", res.Log.AToB)
	}

	// Against an open zone a crit is just a critical hit.
	if res.Log.BToA.Outcome != battle.OutcomeCriticalHit || res.Log.BToA.Damage != 24 {
		t.Fatalf("expected critical hit for 24 on open zone, got %+v", res.Log.BToA)
	}
}

func TestResolveTurn_DoubleForfeit(t *testing.T) {
	s := newTestState(t, quietBalance())
	now := time.Now().UTC()

	for turn := 0; turn < 3; turn++ {
		res, err := ResolveTurn(s, battle.NoAction(), battle.NoAction(), rng.ForTurn(42, turn), now)
		if err != nil {
			t.Fatalf("turn %d: %v", turn, err)
		}
		if turn < 2 {
			if res.Ended != nil {
				t.Fatalf("turn %d: battle must not end before the limit", turn)
			}
			continue
		}
		if res.Ended == nil {
			t.Fatalf("third mutual no-action turn must end the battle")
		}
		if res.Ended.Reason != battle.EndReasonDoubleForfeit || res.Ended.WinnerPlayerID != nil {
			t.Fatalf("expected double forfeit with no winner, got %+v", res.Ended)
		}
	}
	if s.Phase != battle.PhaseEnded || !s.DeadlineUTC.IsZero() {
		t.Fatalf("ended battle must clear its deadline, got phase=%q deadline=%v", s.Phase, s.DeadlineUTC)
	}
}

func TestResolveTurn_SingleActionResetsStreak(t *testing.T) {
	s := newTestState(t, quietBalance())
	now := time.Now().UTC()

	if _, err := ResolveTurn(s, battle.NoAction(), battle.NoAction(), rng.ForTurn(42, 0), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.NoActionStreakBoth != 1 {
		t.Fatalf("expected streak 1, got %d", s.NoActionStreakBoth)
	}
	if _, err := ResolveTurn(s, attackAction(combat.ZoneHead), battle.NoAction(), rng.ForTurn(42, 1), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.NoActionStreakBoth != 0 {
		t.Fatalf("any accepted action must reset the streak, got %d", s.NoActionStreakBoth)
	}
}

func TestResolveTurn_MutualKOIsDraw(t *testing.T) {
	balance := quietBalance()
	balance.HP = combat.HPCurve{Base: 5, PerStamina: 0}
	s := newTestState(t, balance)

	res, err := ResolveTurn(s, attackAction(combat.ZoneHead), attackAction(combat.ZoneHead), rng.ForTurn(42, 0), time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ended == nil || res.Ended.Reason != battle.EndReasonNormal {
		t.Fatalf("expected normal end, got %+v", res.Ended)
	}
	if res.Ended.WinnerPlayerID != nil {
		t.Fatalf("mutual KO must have no winner, got %v", *res.Ended.WinnerPlayerID)
	}
	if s.PlayerA.CurrentHP != 0 || s.PlayerB.CurrentHP != 0 {
		t.Fatalf("both players must be at 0 HP")
	}
}

func TestResolveTurn_SurvivorWins(t *testing.T) {
	balance := quietBalance()
	balance.HP = combat.HPCurve{Base: 5, PerStamina: 0}
	s := newTestState(t, balance)

	// Only alice attacks; bob's no-action deals nothing.
	res, err := ResolveTurn(s, attackAction(combat.ZoneHead), battle.NoAction(), rng.ForTurn(42, 0), time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ended == nil || res.Ended.Reason != battle.EndReasonNormal {
		t.Fatalf("expected normal end, got %+v", res.Ended)
	}
	if res.Ended.WinnerPlayerID == nil || *res.Ended.WinnerPlayerID != "alice" {
		t.Fatalf("expected alice to win, got %+v", res.Ended.WinnerPlayerID)
	}
	if res.Ended.FinalTurnIndex != 0 {
		t.Fatalf("expected final turn index 0, got %d", res.Ended.FinalTurnIndex)
	}
}

func TestResolveTurn_WrongPhaseRejected(t *testing.T) {
	s := newTestState(t, quietBalance())
	s.Phase = battle.PhaseEnded
	if _, err := ResolveTurn(s, battle.NoAction(), battle.NoAction(), rng.ForTurn(42, 0), time.Now().UTC()); err == nil {
		t.Fatalf("expected error resolving an ended battle")
	}
}

func TestResolveTurn_Deterministic(t *testing.T) {
	// Identical state, actions and draw stream must produce identical
	// results, even with live dodge/crit/damage rolls.
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	balance := combat.DefaultBalance()
	actionA := attackAction(combat.ZoneBelly, combat.ZoneHead, combat.ZoneChest)
	actionB := attackAction(combat.ZoneWaist, combat.ZoneWaist, combat.ZoneLegs)

	s1 := newTestState(t, balance)
	s2 := newTestState(t, balance)
	r1, err := ResolveTurn(s1, actionA, actionB, rng.ForTurn(s1.Ruleset.Seed, s1.TurnIndex), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := ResolveTurn(s2, actionA, actionB, rng.ForTurn(s2.Ruleset.Seed, s2.TurnIndex), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(r1, r2); diff != "" {
		t.Fatalf("replay diverged (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(s1, s2); diff != "" {
		t.Fatalf("state diverged (-first +second):\n%s", diff)
	}
}
