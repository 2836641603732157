package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/battle"
	"github.com/sorokinArtemV/kombats-sub002/internal/combat"

	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository wraps a migrated gorm handle in the Repository surface.
func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateBattle(s *battle.State) error {
	blob, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal battle state: %w", err)
	}
	rec := BattleRecord{
		BattleID:    s.BattleID,
		MatchID:     s.MatchID,
		PlayerAID:   s.PlayerAID,
		PlayerBID:   s.PlayerBID,
		Phase:       string(s.Phase),
		DeadlineUTC: deadlineColumn(s),
		State:       blob,
		Version:     1,
	}
	if err := r.db.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateBattle
		}
		return err
	}
	s.Version = 1
	return nil
}

func (r *sqliteRepository) GetBattle(battleID string) (*battle.State, error) {
	var rec BattleRecord
	if err := r.db.Where("battle_id = ?", battleID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var s battle.State
	if err := json.Unmarshal(rec.State, &s); err != nil {
		return nil, fmt.Errorf("unmarshal battle state: %w", err)
	}
	s.Version = rec.Version
	return &s, nil
}

func (r *sqliteRepository) SaveBattle(s *battle.State, expectedVersion int64, ended *battle.BattleEnded) error {
	blob, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal battle state: %w", err)
	}
	winner := ""
	if s.WinnerID != nil {
		winner = *s.WinnerID
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&BattleRecord{}).
			Where("battle_id = ? AND version = ?", s.BattleID, expectedVersion).
			Updates(map[string]interface{}{
				"state":        blob,
				"version":      expectedVersion + 1,
				"phase":        string(s.Phase),
				"deadline_utc": deadlineColumn(s),
				"ended_reason": string(s.EndedReason),
				"winner_id":    winner,
				"claimed_by":   "",
				"claimed_at":   nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&BattleRecord{}).Where("battle_id = ?", s.BattleID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrVersionConflict
		}
		if ended != nil {
			payload, err := json.Marshal(ended)
			if err != nil {
				return fmt.Errorf("marshal battle ended event: %w", err)
			}
			if err := tx.Create(&OutboxEvent{
				BattleID:  ended.BattleID,
				EventType: "battle_ended",
				Payload:   payload,
			}).Error; err != nil {
				return err
			}
		}
		s.Version = expectedVersion + 1
		return nil
	})
}

func (r *sqliteRepository) ClaimTimedOutBattleIDs(now time.Time, skew time.Duration, limit int, claimTTL time.Duration, workerID string) ([]string, error) {
	cutoff := now.Add(-claimTTL)
	// Claim only battles the timeout handler would actually resolve; a claim
	// inside the skew window would sit idle until the TTL expired.
	ripe := now.Add(-skew)
	var candidates []BattleRecord
	err := r.db.
		Select("id", "battle_id").
		Where("phase = ? AND deadline_utc IS NOT NULL AND deadline_utc <= ?", string(battle.PhaseTurnOpen), ripe).
		Where("claimed_by = '' OR claimed_by IS NULL OR claimed_at < ?", cutoff).
		Order("deadline_utc asc").
		Limit(limit).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	claimed := make([]string, 0, len(candidates))
	for _, c := range candidates {
		// Conditional claim per row so two scanners racing on the same
		// candidate set split it instead of both taking everything.
		res := r.db.Model(&BattleRecord{}).
			Where("id = ? AND (claimed_by = '' OR claimed_by IS NULL OR claimed_at < ?)", c.ID, cutoff).
			Updates(map[string]interface{}{"claimed_by": workerID, "claimed_at": now})
		if res.Error != nil {
			return claimed, res.Error
		}
		if res.RowsAffected > 0 {
			claimed = append(claimed, c.BattleID)
		}
	}
	return claimed, nil
}

func (r *sqliteRepository) GetProfile(playerID string) (combat.PlayerStats, error) {
	var rec PlayerProfile
	if err := r.db.Where("player_id = ?", playerID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return combat.PlayerStats{}, ErrNotFound
		}
		return combat.PlayerStats{}, err
	}
	return combat.PlayerStats{
		Strength:  rec.Strength,
		Stamina:   rec.Stamina,
		Agility:   rec.Agility,
		Intuition: rec.Intuition,
	}, nil
}

func (r *sqliteRepository) UpsertProfile(playerID string, stats combat.PlayerStats) error {
	var rec PlayerProfile
	err := r.db.Where("player_id = ?", playerID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&PlayerProfile{
			PlayerID:  playerID,
			Strength:  stats.Strength,
			Stamina:   stats.Stamina,
			Agility:   stats.Agility,
			Intuition: stats.Intuition,
		}).Error
	}
	if err != nil {
		return err
	}
	return r.db.Model(&rec).Updates(map[string]interface{}{
		"strength":  stats.Strength,
		"stamina":   stats.Stamina,
		"agility":   stats.Agility,
		"intuition": stats.Intuition,
	}).Error
}

func (r *sqliteRepository) ClaimOutboxEvents(now time.Time, limit int, claimTTL time.Duration, workerID string) ([]OutboxEvent, error) {
	cutoff := now.Add(-claimTTL)
	var candidates []OutboxEvent
	err := r.db.
		Where("delivered = ?", false).
		Where("claimed_by = '' OR claimed_by IS NULL OR claimed_at < ?", cutoff).
		Order("id asc").
		Limit(limit).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	claimed := make([]OutboxEvent, 0, len(candidates))
	for _, c := range candidates {
		res := r.db.Model(&OutboxEvent{}).
			Where("id = ? AND delivered = ? AND (claimed_by = '' OR claimed_by IS NULL OR claimed_at < ?)", c.ID, false, cutoff).
			Updates(map[string]interface{}{"claimed_by": workerID, "claimed_at": now})
		if res.Error != nil {
			return claimed, res.Error
		}
		if res.RowsAffected > 0 {
			claimed = append(claimed, c)
		}
	}
	return claimed, nil
}

func (r *sqliteRepository) MarkOutboxDelivered(id uint) error {
	now := time.Now().UTC()
	return r.db.Model(&OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"delivered": true, "delivered_at": now}).Error
}

// deadlineColumn maps the in-state deadline to its nullable index column.
func deadlineColumn(s *battle.State) *time.Time {
	if s.Phase != battle.PhaseTurnOpen || s.DeadlineUTC.IsZero() {
		return nil
	}
	d := s.DeadlineUTC
	return &d
}
