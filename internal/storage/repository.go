package storage

import (
	"errors"
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/combat"
)

var (
	// ErrNotFound is returned when a battle or profile does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrDuplicateBattle is returned when a battle id already exists. It is
	// the idempotency boundary for at-least-once create delivery.
	ErrDuplicateBattle = errors.New("storage: duplicate battle")
	// ErrVersionConflict is returned when a version-guarded save loses the
	// race. The caller must re-read and retry, never blindly overwrite.
	ErrVersionConflict = errors.New("storage: version conflict")
)

// Repository is the persistence surface the orchestrator and its adapters
// depend on.
type Repository interface {
	// CreateBattle persists a new battle record with version 1. A second
	// create for the same battle id fails with ErrDuplicateBattle.
	CreateBattle(s *battle.State) error

	// GetBattle loads the battle state with its current version set.
	GetBattle(battleID string) (*battle.State, error)

	// SaveBattle writes s if the stored version still equals
	// expectedVersion, bumping the version by one. When ended is non-nil the
	// termination event is appended to the outbox in the same transaction,
	// so the event exists iff the terminal state was persisted.
	SaveBattle(s *battle.State, expectedVersion int64, ended *battle.BattleEnded) error

	// ClaimTimedOutBattleIDs atomically claims up to limit battles whose
	// turn deadline passed at least skew ago, so concurrent scanner replicas
	// do not double-process and a claim never lands before the handler is
	// willing to resolve. A claim expires after claimTTL.
	ClaimTimedOutBattleIDs(now time.Time, skew time.Duration, limit int, claimTTL time.Duration, workerID string) ([]string, error)

	// GetProfile returns the stats projection for a player, or ErrNotFound.
	GetProfile(playerID string) (combat.PlayerStats, error)

	// UpsertProfile writes the stats projection for a player.
	UpsertProfile(playerID string, stats combat.PlayerStats) error

	// ClaimOutboxEvents claims up to limit undelivered outbox rows.
	ClaimOutboxEvents(now time.Time, limit int, claimTTL time.Duration, workerID string) ([]OutboxEvent, error)

	// MarkOutboxDelivered marks an outbox row as delivered.
	MarkOutboxDelivered(id uint) error
}
