package services

import (
	"testing"

	"github.com/Akila-Wasalathilaka/cognihire/internal/config"
	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"github.com/Akila-Wasalathilaka/cognihire/internal/repository"
	"github.com/Akila-Wasalathilaka/cognihire/internal/scoring"
	"github.com/Akila-Wasalathilaka/cognihire/internal/testutil"

	"gorm.io/gorm"
)

// testEnv wires the full service graph over a fresh in-memory database.
type testEnv struct {
	db          *gorm.DB
	assessments *repository.AssessmentRepo
	items       *repository.ItemRepo
	audit       *repository.AuditRepo
	scheduler   *Scheduler
	sessions    *SessionService
	itemSvc     *ItemService
	telemetry   *TelemetryService
	aggregator  *Aggregator
}

func schedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		TraitGames: []config.TraitGameMapping{
			{Trait: "memory", GameCode: "NBACK", TimerSeconds: 300},
			{Trait: "attention", GameCode: "STROOP", TimerSeconds: 240},
			{Trait: "processing_speed", GameCode: "REACTION_TIME", TimerSeconds: 180},
		},
		DefaultGames:        []string{"NBACK", "STROOP", "REACTION_TIME"},
		DefaultTimerSeconds: 300,
	}
}

func integrityConfig() config.IntegrityConfig {
	return config.IntegrityConfig{
		WindowMinutes: 30,
		Thresholds: []config.IntegrityThreshold{
			{EventType: "WINDOW_BLUR", Threshold: 5, Severity: "MEDIUM"},
			{EventType: "MULTIPLE_TABS", Threshold: 1, Severity: "HIGH"},
			{EventType: "COPY_PASTE", Threshold: 3, Severity: "MEDIUM"},
			{EventType: "DEV_TOOLS", Threshold: 1, Severity: "CRITICAL"},
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.DB(t)
	log := testutil.Logger(t)

	assessments := repository.NewAssessmentRepo(db)
	items := repository.NewItemRepo(db)
	users := repository.NewUserRepo(db)
	roles := repository.NewJobRoleRepo(db)
	games := repository.NewGameRepo(db)
	audit := repository.NewAuditRepo(db)

	locks := NewAssessmentLocks()
	scheduler := NewScheduler(log, games, schedulerConfig())
	aggregator := NewAggregator(log, assessments, items)
	itemSvc := NewItemService(log, items, assessments, scoring.DefaultRegistry(), aggregator, locks)
	sessions := NewSessionService(log, assessments, items, users, roles, scheduler, locks)
	telemetry := NewTelemetryService(log, audit, assessments, locks, integrityConfig())

	return &testEnv{
		db:          db,
		assessments: assessments,
		items:       items,
		audit:       audit,
		scheduler:   scheduler,
		sessions:    sessions,
		itemSvc:     itemSvc,
		telemetry:   telemetry,
		aggregator:  aggregator,
	}
}

func candidatePrincipal(u *models.User) Principal {
	return Principal{UserID: u.ID, TenantID: u.TenantID, Role: models.RoleCandidate}
}

func adminPrincipal(u *models.User) Principal {
	return Principal{UserID: u.ID, TenantID: u.TenantID, Role: models.RoleAdmin}
}
