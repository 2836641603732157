package service

import (
	"errors"
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
	"github.com/sorokinArtemV/kombats-sub002/internal/logging"
	"github.com/sorokinArtemV/kombats-sub002/internal/storage"
)

// EndBattleCommand is an external termination request: a cancellation from
// matchmaking, an admin intervention or a system failure upstream.
type EndBattleCommand struct {
	BattleID    string
	MatchID     string
	Reason      battle.EndReason
	RequestedAt time.Time
}

// externalEndReason keeps the reason within the set external terminations
// may carry. Anything unrecognized is treated as a cancellation.
func externalEndReason(r battle.EndReason) battle.EndReason {
	switch r {
	case battle.EndReasonCancelled, battle.EndReasonAdminForced, battle.EndReasonSystemError, battle.EndReasonTimeout:
		return r
	}
	return battle.EndReasonCancelled
}

// EndBattle forces the battle into its terminal phase, skipping normal
// resolution. Idempotent: ending an already-Ended battle is a success-no-op
// and publishes nothing, so redelivered end commands cannot double-emit the
// termination event.
func (o *Orchestrator) EndBattle(cmd EndBattleCommand) (*battle.State, error) {
	if cmd.BattleID == "" {
		return nil, ErrInvalidCommand
	}
	reason := externalEndReason(cmd.Reason)

	for attempt := 0; attempt < occRetries; attempt++ {
		s, err := o.repo.GetBattle(cmd.BattleID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, ErrBattleNotFound
			}
			return nil, err
		}
		if s.IsEnded() {
			logging.Info("duplicate end battle command suppressed", logging.Fields{
				constants.LogFieldBattleID: cmd.BattleID,
				constants.LogFieldReason:   string(reason),
			})
			return s, nil
		}

		now := o.clock.UtcNow()
		s.Phase = battle.PhaseEnded
		s.EndedReason = reason
		s.WinnerID = nil
		s.DeadlineUTC = time.Time{}
		s.PendingA, s.PendingB = nil, nil

		ended := &battle.BattleEnded{
			BattleID:       s.BattleID,
			MatchID:        s.MatchID,
			Reason:         reason,
			FinalTurnIndex: s.TurnIndex,
			OccurredAt:     now,
		}
		if err := o.repo.SaveBattle(s, s.Version, ended); err != nil {
			if errors.Is(err, storage.ErrVersionConflict) {
				continue
			}
			return nil, err
		}

		o.notifier.NotifyBattleEnded(*ended)
		o.notifier.NotifyStateUpdated(BuildSnapshot(s))
		logging.Info("battle force-ended", logging.Fields{
			constants.LogFieldBattleID: s.BattleID,
			constants.LogFieldReason:   string(reason),
		})
		return s, nil
	}
	return nil, ErrConcurrentUpdate
}
