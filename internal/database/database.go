package database

import (
	"accessibility-admin-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DBPath remembers the opened database file so the backup service can
// snapshot it. Empty for in-memory test databases.
var DBPath string

// InitDB opens the SQLite database at path and runs migrations.
// Using glebarez/sqlite which is a pure Go implementation (no CGO required).
func InitDB(path string) error {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.TaskTemplate{},
		&models.Movie{},
		&models.Distributor{},
		&models.Personnel{},
		&models.AllowedIP{},
	); err != nil {
		return err
	}

	DB = db
	DBPath = path
	return nil
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}
