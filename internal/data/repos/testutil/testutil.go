package testutil

import (
	"context"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hearthside/carepath-backend/internal/data/db"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
)

// DB opens the database named by TEST_POSTGRES_DSN and migrates the full
// schema. Tests that need Postgres call this and get skipped when the env
// var is unset, so the suite stays runnable without a database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("TEST_POSTGRES_DSN not set")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		tb.Fatalf("create uuid extension: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		tb.Fatalf("migrate test schema: %v", err)
	}
	if err := db.EnsureProgressIndexes(gdb); err != nil {
		tb.Fatalf("ensure indexes: %v", err)
	}
	return gdb
}

// Tx begins a transaction that is rolled back when the test finishes, so
// tests never leak rows into each other.
func Tx(tb testing.TB, gdb *gorm.DB) dbctx.Context {
	tb.Helper()
	tx := gdb.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin test transaction: %v", tx.Error)
	}
	tb.Cleanup(func() {
		tx.Rollback()
	})
	return dbctx.Context{Ctx: context.Background(), Tx: tx}
}

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("test logger: %v", err)
	}
	tb.Cleanup(log.Sync)
	return log
}
