package main

import (
	"github.com/sorokinArtemV/kombats-sub002/internal/config"
	"github.com/sorokinArtemV/kombats-sub002/internal/logging"
	"github.com/sorokinArtemV/kombats-sub002/internal/storage"
)

func loadConfigOrExit() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, logging.Fields{
			"hint": "set KOMBATS_BALANCE to a balance JSON file to override the built-in tuning",
		})
	}
	return cfg
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"db_path": dbPath})
	}
	return storage.NewSQLiteRepository(db)
}
