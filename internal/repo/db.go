// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping for the
// supported drivers (pure-Go SQLite, MySQL, Postgres), tracing
// instrumentation and schema migrations.
package repo

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	sqlite "github.com/glebarez/sqlite"
	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/swadrive/swadrive-backend/internal/config"
	"github.com/swadrive/swadrive-backend/internal/domain"
)

// sqlitePragmas are applied through the DSN so every pooled connection
// gets them, not only the first one.
const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)" +
	"&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Open connects to the database selected by cfg.Driver.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return OpenSQLite(cfg.Path)
	case config.DriverMySQL:
		return openPooled(mysql.Open(MySQLDSN(cfg)))
	case config.DriverPostgres:
		return openPooled(postgres.Open(cfg.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// MySQLDSN returns cfg.DSN when set, otherwise assembles one from the
// discrete host/port/user/password/name settings.
//
// ClientFoundRows makes UPDATE report matched rather than changed rows, so
// re-applying an identical value is not mistaken for a missing record.
func MySQLDSN(cfg config.DBConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	mc := mysqldrv.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.ClientFoundRows = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// OpenSQLite opens (or creates) a SQLite database with WAL, foreign keys
// and a busy timeout enabled on every connection.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}
	return openPooled(sqlite.Open(path + "?" + sqlitePragmas))
}

func openPooled(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// Instrument registers the OpenTelemetry GORM plugin so every query becomes
// a child span of the request span.
func Instrument(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin())
}

// AutoMigrate creates or updates every table of the marketplace schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}
