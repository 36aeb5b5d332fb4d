package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/membership-api/internal/config"
	"github.com/BruksfildServices01/membership-api/internal/models"
)

const pendingEmailIndex = "uniq_pending_enrollment_email"

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, cfg.GuardPendingEnrollment); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema. With uniquePending set, at most one pending
// enrollment may exist per email.
func Migrate(db *gorm.DB, uniquePending bool) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Enrollment{},
		&models.Event{},
		&models.EventRegistration{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	stmt := `DROP INDEX IF EXISTS ` + pendingEmailIndex
	if uniquePending {
		stmt = `CREATE UNIQUE INDEX IF NOT EXISTS ` + pendingEmailIndex + `
        ON enrollments (email)
        WHERE status = 'pending'`
	}
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("pending enrollment index: %w", err)
	}
	return nil
}
