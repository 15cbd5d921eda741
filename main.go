package main

import (
	"path/filepath"

	"github.com/Akila-Wasalathilaka/cognihire/internal/config"
	"github.com/Akila-Wasalathilaka/cognihire/internal/database"
	logger "github.com/Akila-Wasalathilaka/cognihire/internal/logging"
	"github.com/Akila-Wasalathilaka/cognihire/internal/repository"
	"github.com/Akila-Wasalathilaka/cognihire/internal/router"
	"github.com/Akila-Wasalathilaka/cognihire/internal/scoring"
	"github.com/Akila-Wasalathilaka/cognihire/internal/services"

	"go.uber.org/zap"
)

func main() {
	// A bootstrap logger covers config loading; the real one needs the
	// configured log directory.
	bootstrap, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize bootstrap logger: " + err.Error())
	}
	if err := config.Init(".", bootstrap); err != nil {
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	logConf := config.Conf.Logging
	log, err := logger.Init(logConf.Directory, logger.Rotation{
		MaxSize:    logConf.MaxSize,
		MaxBackups: logConf.MaxBackups,
		MaxAge:     logConf.MaxAge,
		Compress:   logConf.Compress,
	})
	if err != nil {
		bootstrap.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	// Initialize database and seed the game catalog.
	database.Init(log)
	if err := database.SeedGames(database.DB, log, filepath.Join("config", "games.yaml")); err != nil {
		log.Fatal("Failed to seed game catalog", zap.Error(err))
	}

	// Repositories
	users := repository.NewUserRepo(database.DB)
	roles := repository.NewJobRoleRepo(database.DB)
	games := repository.NewGameRepo(database.DB)
	assessments := repository.NewAssessmentRepo(database.DB)
	items := repository.NewItemRepo(database.DB)
	audit := repository.NewAuditRepo(database.DB)

	// Services
	locks := services.NewAssessmentLocks()
	scheduler := services.NewScheduler(log, games, config.Conf.Scheduler)
	aggregator := services.NewAggregator(log, assessments, items)
	itemSvc := services.NewItemService(log, items, assessments, scoring.DefaultRegistry(), aggregator, locks)
	sessions := services.NewSessionService(log, assessments, items, users, roles, scheduler, locks)
	telemetry := services.NewTelemetryService(log, audit, assessments, locks, config.Conf.Integrity)

	// Setup router, passing the logger to it
	r := router.Setup(log, users, sessions, itemSvc, telemetry)

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
