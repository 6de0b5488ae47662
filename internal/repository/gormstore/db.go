package gormstore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alcyxob/workout-tracker/internal/config"
)

// Dialect identifiers supported by the store.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const sqliteForeignKeysPragma = "_pragma=foreign_keys(1)"

// Open connects to the configured database. SQLite connections always run with
// foreign keys enforced so cascade ordering holds on both dialects.
func Open(cfg config.DatabaseConfig, logLevel logger.LogLevel) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("db: empty dsn")
	}

	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	switch driver {
	case DialectPostgres:
		dialector = postgres.Open(dsn)
	case DialectSQLite, "":
		dialector = sqlite.Open(SQLiteDSN(dsn))
	default:
		return nil, fmt.Errorf("db: unsupported driver: %s", cfg.Driver)
	}

	conn, errOpen := gorm.Open(dialector, gormCfg)
	if errOpen != nil {
		return nil, fmt.Errorf("db: open %s: %w", driver, errOpen)
	}
	sqlDB, errDB := conn.DB()
	if errDB != nil {
		return nil, fmt.Errorf("db: pool: %w", errDB)
	}
	if IsSQLite(conn) {
		// One writer; in-memory databases also live and die with their connection.
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	log.WithField("driver", conn.Dialector.Name()).Info("database connection established")
	return conn, nil
}

// SQLiteDSN appends the foreign key pragma unless the caller already set it.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteForeignKeysPragma
	}
	return dsn + "?" + sqliteForeignKeysPragma
}

// Close releases the underlying connection pool.
func Close(conn *gorm.DB) error {
	if conn == nil {
		return nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DialectName returns the active database dialect name.
func DialectName(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

// IsSQLite reports whether the connection uses SQLite.
func IsSQLite(conn *gorm.DB) bool {
	return DialectName(conn) == DialectSQLite
}
