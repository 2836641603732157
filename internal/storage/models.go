package storage

import (
	"time"

	"gorm.io/gorm"
)

// BattleRecord is the persisted row for one battle. The full domain state is
// stored as a serialized blob; the flat columns exist for indexing and for
// the timeout scanner's claim query. Version implements the optimistic
// concurrency guard: every successful save increments it by exactly one.
type BattleRecord struct {
	gorm.Model
	BattleID  string `gorm:"uniqueIndex"`
	MatchID   string `gorm:"index"`
	PlayerAID string
	PlayerBID string

	Phase       string     `gorm:"index"`
	DeadlineUTC *time.Time `gorm:"index"`
	EndedReason string
	WinnerID    string

	State   []byte `gorm:"type:blob"`
	Version int64

	// Scanner claim bookkeeping. A claim is a soft lease: it expires after
	// the configured TTL so a crashed worker never wedges a battle.
	ClaimedBy string
	ClaimedAt *time.Time
}

func (BattleRecord) TableName() string { return "battles" }

// OutboxEvent is one pending integration event. Rows are written in the same
// transaction as the state change they report and removed from circulation
// only after a sink accepts them, giving at-least-once delivery.
type OutboxEvent struct {
	gorm.Model
	BattleID  string `gorm:"index"`
	EventType string
	Payload   []byte `gorm:"type:blob"`

	Delivered   bool `gorm:"index"`
	DeliveredAt *time.Time

	ClaimedBy string
	ClaimedAt *time.Time
}

func (OutboxEvent) TableName() string { return "battle_outbox" }

// PlayerProfile is the read projection of a player's combat attributes,
// maintained by the profile service upstream and consumed here at battle
// creation.
type PlayerProfile struct {
	gorm.Model
	PlayerID  string `gorm:"uniqueIndex"`
	Strength  int
	Stamina   int
	Agility   int
	Intuition int
}

func (PlayerProfile) TableName() string { return "player_profiles" }
