package testutil

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/jobtrack-backend/internal/data/db"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	pgOnce sync.Once
	pgBase *gorm.DB
	pgDSN  string
	pgErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.Nop()
}

// DB opens a private in-memory SQLite database with the full schema migrated.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	gdb, err := db.OpenSQLite("", nil)
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	tb.Cleanup(func() { closeDB(gdb) })
	return gdb
}

// PostgresDB opens a connection to TEST_POSTGRES_DSN scoped to a fresh schema
// that is dropped on cleanup. It skips when the DSN is unset.
func PostgresDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	pgOnce.Do(func() {
		pgDSN = strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
		if pgDSN == "" {
			pgErr = errMissingDSN
			return
		}
		pgBase, pgErr = db.OpenPostgres(pgDSN, nil)
	})
	if errors.Is(pgErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run postgres integration tests")
	}
	if pgErr != nil {
		tb.Fatalf("failed to init test db: %v", pgErr)
	}

	schema := "jobtrack_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := pgBase.Exec(`CREATE SCHEMA "` + schema + `"`).Error; err != nil {
		tb.Fatalf("create schema: %v", err)
	}
	gdb, err := db.OpenPostgres(withSearchPath(pgDSN, schema), nil)
	if err != nil {
		tb.Fatalf("open schema %s: %v", schema, err)
	}
	tb.Cleanup(func() {
		closeDB(gdb)
		_ = pgBase.Exec(`DROP SCHEMA IF EXISTS "` + schema + `" CASCADE`).Error
	})
	if err := db.AutoMigrateAll(gdb); err != nil {
		tb.Fatalf("migrate schema %s: %v", schema, err)
	}
	return gdb
}

// Dialects runs fn once per supported database. The postgres run skips
// without TEST_POSTGRES_DSN.
func Dialects(t *testing.T, fn func(t *testing.T, gdb *gorm.DB)) {
	t.Helper()
	t.Run(db.DriverSQLite, func(t *testing.T) { fn(t, DB(t)) })
	t.Run(db.DriverPostgres, func(t *testing.T) { fn(t, PostgresDB(t)) })
}

// withSearchPath pins the session schema; pgx forwards unknown keys as
// runtime parameters.
func withSearchPath(dsn, schema string) string {
	if strings.Contains(dsn, "://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&search_path=" + schema
		}
		return dsn + "?search_path=" + schema
	}
	return dsn + " search_path=" + schema
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
