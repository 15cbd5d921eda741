package database

import (
	"fmt"

	"github.com/Akila-Wasalathilaka/cognihire/internal/config"
	logging "github.com/Akila-Wasalathilaka/cognihire/internal/logging"
	"github.com/Akila-Wasalathilaka/cognihire/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	// Create our custom GORM logger
	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = gormlogger.Warn

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle that separately.
	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	telemetryIndex := `CREATE INDEX IF NOT EXISTS idx_audit_telemetry ON audit_logs (target_id, action, created_at DESC);`
	if err := DB.Exec(telemetryIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on audit log table", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}

// Migrate creates the schema for every persisted entity. Shared with the test
// harness, which runs it against SQLite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.CandidateProfile{},
		&models.Game{},
		&models.JobRole{},
		&models.Assessment{},
		&models.AssessmentItem{},
		&models.AuditLog{},
	)
}
