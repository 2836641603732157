package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sorokinArtemV/kombats-sub002/internal/api"
	"github.com/sorokinArtemV/kombats-sub002/internal/clock"
	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
	"github.com/sorokinArtemV/kombats-sub002/internal/events"
	"github.com/sorokinArtemV/kombats-sub002/internal/logging"
	"github.com/sorokinArtemV/kombats-sub002/internal/realtime"
	"github.com/sorokinArtemV/kombats-sub002/internal/service"
)

func main() {
	cfg := loadConfigOrExit()
	repo := createRepositoryOrExit(cfg.DBPath)

	hub := realtime.NewHub()
	orc := service.NewOrchestrator(repo, repo, hub, clock.System(), service.RulesetTemplate{
		Version:        cfg.RulesetVersion,
		TurnSeconds:    cfg.TurnSeconds,
		MinTurnSeconds: cfg.MinTurnSeconds,
		MaxTurnSeconds: cfg.MaxTurnSeconds,
		NoActionLimit:  cfg.NoActionLimit,
		Balance:        cfg.Balance,
	}, cfg.ResolveSkew)

	// Each process instance scans and drains under its own worker id so
	// replicas never double-claim work.
	workerID := uuid.NewString()
	stop := make(chan struct{})
	startTimeoutScanner(repo, orc, cfg, workerID, stop)
	go events.NewDispatcher(repo, events.LogSink{}, workerID, cfg.OutboxInterval).Run(stop)

	battles := api.NewBattleHandler(orc)
	profiles := api.NewProfileHandler(repo)
	ws := api.NewWSHandler(hub, orc)

	router := gin.Default()
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteHealth, api.Health)
		apiRoutes.GET(constants.RouteVersion, api.Version)

		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.POST(constants.RouteBattles, battles.CreateBattle)
		protected.GET(constants.RouteBattleByID, battles.GetBattle)
		protected.POST(constants.RouteBattleEnd, battles.EndBattle)
		protected.POST(constants.RouteBattleAction, battles.SubmitAction)
		protected.GET(constants.RouteBattleWS, ws.Subscribe)

		protected.GET(constants.RoutePlayerProfiles, profiles.GetProfile)
		protected.PUT(constants.RoutePlayerProfiles, profiles.PutProfile)
	}

	logging.Info("Server started", logging.Fields{
		constants.LogFieldAddr:     cfg.ServerAddress,
		constants.LogFieldWorkerID: workerID,
	})
	if err := router.Run(cfg.ServerAddress); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
