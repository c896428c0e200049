package db

import (
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenPostgres connects to the remote relational backend. The deployment
// hands out "postgres://" URLs; the driver wants "postgresql://".
func OpenPostgres(databaseURL string) (*gorm.DB, error) {
	dsn := strings.Replace(databaseURL, "postgres://", "postgresql://", 1)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// OpenSQLite opens the local fallback database used when no DATABASE_URL is
// configured.
func OpenSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}
