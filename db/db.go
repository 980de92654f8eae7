package db

import (
	"fmt"
	"log/slog"
	"time"

	"Gin_postgres_redis_library/config"
	"Gin_postgres_redis_library/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB opens the Postgres store described by cfg and migrates it.
func ConnectDB(cfg config.Config) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	slog.Info("database connected", "host", cfg.DBHost, "name", cfg.DBName)
	return conn, nil
}

// OpenSQLite opens (or creates) a SQLite file store. Used for local runs and
// tests; row locks are a no-op there and writers serialize on the file lock.
func OpenSQLite(path string) (*gorm.DB, error) {
	conn, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Instance{},
		&models.Borrow{},
		&models.UserBookStage{},
		&models.Notification{},
	); err != nil {
		return err
	}

	// one open (accepted or borrowed) borrow per physical copy
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_instance
	  ON %s (instance_id)
	  WHERE instance_id IS NOT NULL AND status IN ('%s', '%s');
	`, models.BorrowTable, models.BorrowTable, models.BorrowAccepted, models.BorrowTaken)).Error; err != nil {
		return err
	}

	// copy numbers are unique per book; racing donations surface as a conflict
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_book_instance_no
	  ON %s (book_id, instance_no);
	`, models.InstanceTable, models.InstanceTable)).Error; err != nil {
		return err
	}

	// availability counts run on every accept/return
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_book_status
	  ON %s (book_id, status);
	`, models.InstanceTable, models.InstanceTable)).Error; err != nil {
		return err
	}

	return nil
}
