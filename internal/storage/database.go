package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database and keeps the schema updated via
// AutoMigrate. TranslateError is enabled so uniqueness violations surface as
// gorm.ErrDuplicatedKey regardless of driver wording.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&BattleRecord{}, &OutboxEvent{}, &PlayerProfile{}); err != nil {
		return nil, err
	}
	return db, nil
}
