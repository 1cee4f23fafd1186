package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the full schema and seeds the command status reference rows.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Surface unique violations as gorm.ErrDuplicatedKey so the service
		// layer can map them without parsing driver errors.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates all tables and ensures the status reference
// rows exist. Also used by the integration test suite against a fresh DB.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() needs pgcrypto on Postgres < 13; harmless otherwise.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Company{},
		&model.Employee{},
		&model.Table{},
		&model.Product{},
		&model.CommandStatus{},
		&model.Command{},
		&model.Order{},
		&model.Session{},
		&model.Closing{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	// A transactional check+insert only guarantees atomicity, not mutual
	// exclusion: two READ COMMITTED transactions can both miss the existing
	// open session. The partial unique index is what actually enforces one
	// open session per company.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uix_sessions_one_open
		ON sessions (company_id) WHERE status = 'OPEN' AND deleted_at IS NULL`).Error; err != nil {
		return fmt.Errorf("sessions open index: %w", err)
	}

	return seedStatuses(db)
}

// seedStatuses inserts the command status reference rows if missing. Statuses
// are reference data: the state machine runs on keys, these rows carry the
// display names.
func seedStatuses(db *gorm.DB) error {
	statuses := []model.CommandStatus{
		{Key: model.StatusOpen, Name: "Open"},
		{Key: model.StatusPaying, Name: "Paying"},
		{Key: model.StatusClosed, Name: "Closed"},
		{Key: model.StatusCanceled, Name: "Canceled"},
	}
	for i := range statuses {
		s := statuses[i]
		err := db.Where(model.CommandStatus{Key: s.Key}).FirstOrCreate(&s).Error
		if err != nil {
			return fmt.Errorf("seed status %s: %w", s.Key, err)
		}
	}
	return nil
}
