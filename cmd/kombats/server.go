package main

import (
	"time"

	"github.com/sorokinArtemV/kombats-sub002/internal/config"
	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
	"github.com/sorokinArtemV/kombats-sub002/internal/logging"
	"github.com/sorokinArtemV/kombats-sub002/internal/service"
	"github.com/sorokinArtemV/kombats-sub002/internal/storage"
)

// startTimeoutScanner claims battles whose turn deadline has passed and
// delegates each to the orchestrator's timeout handler.
func startTimeoutScanner(repo storage.Repository, orc *service.Orchestrator, cfg *config.Config, workerID string, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(cfg.ScanInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
			now := time.Now().UTC()
			ids, err := repo.ClaimTimedOutBattleIDs(now, cfg.ResolveSkew, cfg.ScanBatch, cfg.ScanClaimTTL, workerID)
			if err != nil {
				logging.Error("timeout scanner failed to list ids", err, logging.Fields{constants.LogFieldWorkerID: workerID})
				continue
			}
			// Process sequentially; SQLite serializes writers anyway.
			for _, id := range ids {
				if err := orc.HandleTimedOutBattle(id); err != nil {
					logging.Error("timeout handling failed", err, logging.Fields{
						constants.LogFieldBattleID: id,
						constants.LogFieldWorkerID: workerID,
					})
				}
			}
		}
	}()
}
