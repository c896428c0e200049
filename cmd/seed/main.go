// Command seed pushes the consolidated snapshot into the remote relational
// backend, recreating the table so repeated runs stay deterministic.
package main

import (
	"log"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/config"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/db"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/records"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required to seed the remote backend")
	}

	rows, err := records.LoadSnapshot(cfg.SnapshotPath)
	if err != nil {
		logger.Fatal("snapshot load failed", "path", cfg.SnapshotPath, "error", err)
	}
	if len(rows) == 0 {
		logger.Fatal("snapshot is empty", "path", cfg.SnapshotPath)
	}

	gdb, err := db.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("postgres connect failed", "error", err)
	}

	migrator := gdb.Migrator()
	if migrator.HasTable(&records.ProjectRecord{}) {
		if err := migrator.DropTable(&records.ProjectRecord{}); err != nil {
			logger.Fatal("drop table failed", "error", err)
		}
	}
	if err := gdb.AutoMigrate(&records.ProjectRecord{}); err != nil {
		logger.Fatal("migrate failed", "error", err)
	}

	if err := gdb.CreateInBatches(rows, 500).Error; err != nil {
		logger.Fatal("insert failed", "error", err)
	}

	logger.Info("seed complete", "rows", len(rows), "table", records.ProjectRecord{}.TableName())
}
