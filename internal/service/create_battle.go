package service

import (
	"errors"
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
	"github.com/sorokinArtemV/kombats-sub002/internal/logging"
	"github.com/sorokinArtemV/kombats-sub002/internal/rng"
	"github.com/sorokinArtemV/kombats-sub002/internal/storage"
)

// CreateBattleCommand is the inbound battle-creation request, typically
// produced by the matchmaking subsystem and delivered at-least-once.
type CreateBattleCommand struct {
	BattleID    string
	MatchID     string
	PlayerAID   string
	PlayerBID   string
	RequestedAt time.Time
}

// CreateBattle initializes a battle: ruleset normalization, profile lookups,
// initial state at full HP, persisted with version 1. The uniqueness
// constraint on the battle id is the idempotency boundary: a redelivered
// create is a success-no-op with no second initialization and no second
// round of notifications.
func (o *Orchestrator) CreateBattle(cmd CreateBattleCommand) (*battle.State, error) {
	if cmd.BattleID == "" || cmd.PlayerAID == "" || cmd.PlayerBID == "" || cmd.PlayerAID == cmd.PlayerBID {
		return nil, ErrInvalidCommand
	}

	seed, err := rng.NewSeed()
	if err != nil {
		return nil, err
	}
	ruleset := o.template.Normalized(seed)

	playerA, err := battle.NewPlayerState(cmd.PlayerAID, o.lookupStats(cmd.PlayerAID), ruleset.Balance)
	if err != nil {
		return nil, err
	}
	playerB, err := battle.NewPlayerState(cmd.PlayerBID, o.lookupStats(cmd.PlayerBID), ruleset.Balance)
	if err != nil {
		return nil, err
	}

	s := &battle.State{
		BattleID:              cmd.BattleID,
		MatchID:               cmd.MatchID,
		PlayerAID:             cmd.PlayerAID,
		PlayerBID:             cmd.PlayerBID,
		Ruleset:               ruleset,
		Phase:                 battle.PhaseArenaOpen,
		TurnIndex:             0,
		LastResolvedTurnIndex: -1,
		PlayerA:               playerA,
		PlayerB:               playerB,
	}

	if err := o.repo.CreateBattle(s); err != nil {
		if errors.Is(err, storage.ErrDuplicateBattle) {
			logging.Info("duplicate create battle command suppressed", logging.Fields{
				constants.LogFieldBattleID: cmd.BattleID,
				constants.LogFieldMatchID:  cmd.MatchID,
			})
			existing, getErr := o.repo.GetBattle(cmd.BattleID)
			if getErr != nil {
				return nil, getErr
			}
			// A crash between the insert and the first-turn save leaves the
			// battle in ArenaOpen; the redelivered create finishes the job.
			if existing.Phase == battle.PhaseArenaOpen {
				if err := o.openFirstTurn(existing); err != nil {
					return nil, err
				}
			}
			return existing, nil
		}
		return nil, err
	}

	o.notifier.NotifyBattleReady(s.BattleID, s.PlayerAID, s.PlayerBID)

	if err := o.openFirstTurn(s); err != nil {
		return nil, err
	}
	logging.Info("battle created", logging.Fields{
		constants.LogFieldBattleID: s.BattleID,
		constants.LogFieldMatchID:  s.MatchID,
		"seed":                     s.Ruleset.Seed,
	})
	return s, nil
}

// openFirstTurn moves ArenaOpen to TurnOpen with a fresh deadline. A version
// conflict here means another node already opened the turn for this battle,
// which is fine: the state read back is authoritative.
func (o *Orchestrator) openFirstTurn(s *battle.State) error {
	now := o.clock.UtcNow()
	s.Phase = battle.PhaseTurnOpen
	s.DeadlineUTC = now.Add(time.Duration(s.Ruleset.TurnSeconds) * time.Second)

	if err := o.repo.SaveBattle(s, s.Version, nil); err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			fresh, getErr := o.repo.GetBattle(s.BattleID)
			if getErr != nil {
				return getErr
			}
			*s = *fresh
			return nil
		}
		return err
	}
	o.notifier.NotifyTurnOpened(s.BattleID, s.TurnIndex, s.DeadlineUTC)
	o.notifier.NotifyStateUpdated(BuildSnapshot(s))
	return nil
}
