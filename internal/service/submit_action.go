package service

import (
	"errors"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/engine"
	"github.com/sorokinArtemV/kombats-sub002/internal/storage"
)

// SubmitActionCommand is a player's raw action submission for one turn.
type SubmitActionCommand struct {
	BattleID   string
	PlayerID   string
	TurnIndex  int
	RawPayload string
}

// SubmitAction normalizes and records a player's action, resolving the turn
// once both actions are present. Returns the updated state and whether the
// turn was resolved.
//
// Invalid submissions (wrong phase, stale turn, expired deadline, bad
// payload) are absorbed by the normalizer: nothing is persisted and the
// client's next snapshot reflects the true state. The whole read-compute-
// write sequence retries on version conflicts.
func (o *Orchestrator) SubmitAction(cmd SubmitActionCommand) (*battle.State, bool, error) {
	for attempt := 0; attempt < occRetries; attempt++ {
		s, err := o.repo.GetBattle(cmd.BattleID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, false, ErrBattleNotFound
			}
			return nil, false, err
		}
		if !s.HasPlayer(cmd.PlayerID) {
			return nil, false, ErrPlayerNotInBattle
		}

		now := o.clock.UtcNow()
		action := engine.Normalize(s, cmd.TurnIndex, cmd.RawPayload, cmd.PlayerID, now)
		if action.IsNoAction() {
			// Downgraded submission: no state transition, no error.
			return s, false, nil
		}

		if cmd.PlayerID == s.PlayerAID {
			s.PendingA = &action
		} else {
			s.PendingB = &action
		}

		var res *engine.Result
		if s.BothSubmitted() {
			res, err = o.resolveTurn(s, now)
			if err != nil {
				return nil, false, err
			}
		}

		var ended *battle.BattleEnded
		if res != nil {
			ended = res.Ended
		}
		if err := o.repo.SaveBattle(s, s.Version, ended); err != nil {
			if errors.Is(err, storage.ErrVersionConflict) {
				continue
			}
			return nil, false, err
		}

		if res != nil {
			o.notifyResolution(s, res)
			return s, true, nil
		}
		o.notifier.NotifyStateUpdated(BuildSnapshot(s))
		return s, false, nil
	}
	return nil, false, ErrConcurrentUpdate
}
