// Package db opens the database and keeps its schema up to date
package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pathfinder/guide-api/internal/model"
	"pathfinder/guide-api/pkg/util"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens the database described by dsn and migrates it. Postgres URLs
// and key=value DSNs go to the postgres driver, anything else is treated
// as a SQLite file (an optional sqlite:// prefix is stripped).
func New(dsn string) (*gorm.DB, error) {
	dialector, err := dialectorFor(dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newLogger(zap.NewStdLog(zap.L().Named("gorm"))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func dialectorFor(dsn string) (gorm.Dialector, error) {
	if dsn == "" {
		return nil, errors.New("no database url provided")
	}

	if isPostgres(dsn) {
		return postgres.Open(dsn), nil
	}

	path := strings.TrimPrefix(dsn, "sqlite://")
	file, _, _ := strings.Cut(path, "?")

	// If running in a docker container don't allow a relative sqlite file to be
	// created inside the container. The host should instead mount it using volumes
	if util.IsRunningInDocker() && !filepath.IsAbs(file) && file != ":memory:" && !strings.HasPrefix(file, "file:") {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to %s", file)
		}
	}

	return sqlite.Open(sqliteDSN(path)), nil
}

// Defaults for SQLite connections. Transactions take the write lock on
// BEGIN, otherwise two transactions that read before writing fail with
// "database is locked" instead of waiting for each other.
var sqliteParams = [][2]string{
	{"_txlock", "immediate"},
	{"_busy_timeout", "5000"},
	{"_journal_mode", "WAL"},
}

// sqliteDSN appends the default parameters the DSN doesn't set itself.
func sqliteDSN(path string) string {
	var b strings.Builder
	b.WriteString(path)

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	for _, p := range sqliteParams {
		if strings.Contains(path, p[0]+"=") {
			continue
		}

		b.WriteString(sep + p[0] + "=" + p[1])
		sep = "&"
	}

	return b.String()
}

// newLogger reports slow queries and real errors. A missing row is an
// expected outcome for lookups and isn't logged.
func newLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// Migrate creates or updates every table and then applies the one-off
// data migrations that haven't run yet.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Upload{},
		&model.GuidanceSession{},
		&model.Event{},
		&model.Migration{},
	)
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	for _, m := range dataMigrations {
		if err := apply(db, m); err != nil {
			return fmt.Errorf("failed to apply migration %s, %w", m.name, err)
		}
	}

	return nil
}
