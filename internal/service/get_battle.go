package service

import (
	"errors"

	"github.com/sorokinArtemV/kombats-sub002/internal/storage"
)

// GetSnapshot reads the current authoritative state for a battle.
func (o *Orchestrator) GetSnapshot(battleID string) (Snapshot, error) {
	s, err := o.repo.GetBattle(battleID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Snapshot{}, ErrBattleNotFound
		}
		return Snapshot{}, err
	}
	return BuildSnapshot(s), nil
}
