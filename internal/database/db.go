package database

import (
	"desicargo-backend/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres and migrates the schema.
func Open(dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database connected, migration complete")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Party{},
		&models.Article{},
		&models.Vehicle{},
		&models.Booking{},
		&models.OGPL{},
		&models.LoadingRecord{},
		&models.UnloadingRecord{},
		&models.TrackingEvent{},
		&models.AuditLog{},
	)
	if err != nil {
		return errors.Wrap(err, "auto migrate")
	}

	// At most one head office.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_branches_single_head_office ON branches (is_head_office) WHERE is_head_office`).Error; err != nil {
		return errors.Wrap(err, "head office index")
	}
	return nil
}
