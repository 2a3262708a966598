package main

import (
	"os"
	"time"

	"github.com/fabio-anzola/MCTG/internal/api"
	"github.com/fabio-anzola/MCTG/internal/config"
	"github.com/fabio-anzola/MCTG/internal/constants"
	"github.com/fabio-anzola/MCTG/internal/logging"
	"github.com/fabio-anzola/MCTG/internal/service"
	"github.com/fabio-anzola/MCTG/internal/storage"

	"github.com/gin-gonic/gin"
)

// staleBattleAge is how long a battle may wait for an opponent before the
// scanner reports it.
const staleBattleAge = 10 * time.Minute

func main() {
	checkEnvVars([]string{constants.EnvSessionSecret})

	// Load configuration file (required). Path may be provided via the
	// MCTG_CONFIG env var or defaults to ./mctg_config.json in the current
	// working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./mctg_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, logging.Fields{"config_path": configPath, "hint": "create a mctg_config.json with a 'starter_packages' array of five-card packages ({name,damage}) and optional keys: server.address, battle.wait_poll_seconds, battle.max_concurrent"})
	}

	// Allow the DB path to be configured via MCTG_DB. Default to a `data/`
	// directory for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/mctg.db"
	}
	db, err := storage.OpenAndMigrate(dbPath, cfg.StarterPackages)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)
	matchmaker := service.NewMatchmaker(repo, cfg.MaxConcurrent, cfg.WaitPollInterval)
	handler := api.NewHandler(repo, matchmaker)

	// Background scanner: periodically report battles that have been waiting
	// for an opponent well past the expected matchmaking window. Pending
	// battles are never cancelled, the scanner only surfaces them.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			battles, err := repo.FindStalePendingBattles(time.Now().Add(-staleBattleAge))
			if err != nil {
				logging.Error("stale battle scanner failed", err, nil)
				continue
			}
			for _, b := range battles {
				logging.Warn("battle still waiting for an opponent", logging.Fields{
					constants.LogFieldBattleID: b.ID,
					constants.LogFieldAge:      int(time.Since(b.CreatedAt).Seconds()),
				})
			}
		}
	}()

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.POST(constants.RouteUsers, handler.RegisterUser)
		apiRoutes.POST(constants.RouteSessions, handler.CreateSession)
		apiRoutes.GET(constants.RouteScoreboard, handler.GetScoreboard)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.GET(constants.RouteUserByName, handler.GetUser)
		protected.PUT(constants.RouteUserByName, handler.UpdateUser)

		protected.POST(constants.RoutePackages, handler.CreatePackage)
		protected.POST(constants.RouteBuyPackage, handler.BuyPackage)

		protected.GET(constants.RouteCards, handler.ListCards)
		protected.GET(constants.RouteDeck, handler.GetDeck)
		protected.PUT(constants.RouteDeck, handler.SetDeck)

		protected.GET(constants.RouteStats, handler.GetStats)

		protected.GET(constants.RouteTradings, handler.ListTrades)
		protected.POST(constants.RouteTradings, handler.CreateTrade)
		protected.DELETE(constants.RouteTradingByID, handler.DeleteTrade)
		protected.POST(constants.RouteTradingByID, handler.AcceptTrade)

		protected.POST(constants.RouteBattles, handler.EnterBattle)
		protected.GET(constants.RouteBattleLog, handler.GetBattleLog)
	}

	router.POST(constants.RouteAuthGoogleCallBack, handler.GoogleOAuthCallback)

	// Start server on configured address
	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}

func checkEnvVars(vars []string) {
	for _, v := range vars {
		if os.Getenv(v) == "" {
			logging.Fatal("Required environment variable not set", nil, logging.Fields{"var": v})
		}
	}
}
