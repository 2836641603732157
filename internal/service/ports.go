package service

import (
	"errors"
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/combat"
)

var (
	ErrBattleNotFound    = errors.New("battle not found")
	ErrPlayerNotInBattle = errors.New("player not in battle")
	ErrInvalidCommand    = errors.New("invalid command")
	// ErrConcurrentUpdate is returned when the optimistic save lost the race
	// more times than the retry budget allows. Callers relying on message
	// redelivery simply see the command retried.
	ErrConcurrentUpdate = errors.New("concurrent battle update; retry")
)

// BattleRepo is the slice of the storage surface the orchestrator mutates
// battle state through.
type BattleRepo interface {
	CreateBattle(s *battle.State) error
	GetBattle(battleID string) (*battle.State, error)
	SaveBattle(s *battle.State, expectedVersion int64, ended *battle.BattleEnded) error
}

// ProfileRepo looks up the attribute projection for a player.
type ProfileRepo interface {
	GetProfile(playerID string) (combat.PlayerStats, error)
}

// Notifier is the realtime push port. Implementations must not block the
// orchestrator; delivery is best-effort fan-out to subscribed clients.
type Notifier interface {
	NotifyBattleReady(battleID, playerAID, playerBID string)
	NotifyTurnOpened(battleID string, turnIndex int, deadlineUTC time.Time)
	NotifyTurnResolved(evt battle.TurnResolved)
	NotifyPlayerDamaged(evt battle.PlayerDamaged)
	NotifyStateUpdated(snap Snapshot)
	NotifyBattleEnded(evt battle.BattleEnded)
}
