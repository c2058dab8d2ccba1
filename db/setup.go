package db

import (
	"github.com/monocle-dev/hackhub/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func ConnectDatabase(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})

	if err != nil {
		return nil, err
	}

	return conn, nil
}

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.Project{},
		&models.TeamInvite{},
		&models.ProjectMember{},
		&models.Event{},
		&models.EventProject{},
		&models.EventRegistration{},
		&models.MentorApplication{},
		&models.SponsorshipInquiry{},
		&models.AuditLogEntry{},
	}
}

func MigrateDatabase(conn *gorm.DB) error {
	return conn.AutoMigrate(Models()...)
}
