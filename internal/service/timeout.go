package service

import (
	"errors"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/engine"
	"github.com/sorokinArtemV/kombats-sub002/internal/storage"
)

// HandleTimedOutBattle applies deadline resolution for a single battle:
// once the turn deadline (plus skew) has passed, the turn is resolved with
// no-action substituted for any missing submission. A battle that has moved
// on since the scanner claimed it is left alone.
func (o *Orchestrator) HandleTimedOutBattle(battleID string) error {
	for attempt := 0; attempt < occRetries; attempt++ {
		s, err := o.repo.GetBattle(battleID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrBattleNotFound
			}
			return err
		}
		if s.Phase != battle.PhaseTurnOpen {
			return nil
		}
		now := o.clock.UtcNow()
		if !engine.ShouldResolve(now, s.DeadlineUTC, o.resolveSkew) {
			return nil
		}

		res, err := o.resolveTurn(s, now)
		if err != nil {
			return err
		}
		if err := o.repo.SaveBattle(s, s.Version, res.Ended); err != nil {
			if errors.Is(err, storage.ErrVersionConflict) {
				continue
			}
			return err
		}
		o.notifyResolution(s, res)
		return nil
	}
	return ErrConcurrentUpdate
}
