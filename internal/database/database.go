package database

import (
	"fmt"

	"clinscore/internal/config"
	logging "clinscore/internal/logging"
	"clinscore/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and runs migrations.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logging.NewGormZapLogger(log, cfg.SlowThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully.")

	if err := Migrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the results table and the custom index AutoMigrate can't
// express.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(&models.AssessmentResult{}); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	log.Info("Database migrations completed successfully.")

	historyIndex := `CREATE INDEX IF NOT EXISTS idx_results_history ON assessment_results (client_name, instrument_id, created_at DESC);`
	if err := db.Exec(historyIndex).Error; err != nil {
		return fmt.Errorf("failed to create history index: %w", err)
	}
	log.Info("Custom indexes ensured successfully.")
	return nil
}
