package storage

import (
	"strings"

	config "github.com/NatyaLunenok/telegram-aggregator/internal/config"
	"github.com/NatyaLunenok/telegram-aggregator/internal/errs"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// createDialector creates the appropriate GORM dialector based on the config.
func createDialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case "sqlite3", "sqlite":
		return sqliteDialector(cfg.Connection), nil
	case "postgres":
		return postgresDialector(cfg.Connection), nil
	case "mysql", "mariadb", "tidb":
		return mysqlDialector(cfg.Connection), nil
	default:
		return nil, errs.ErrUnsupportedDriver
	}
}

func sqliteDialector(connection string) gorm.Dialector {
	if connection == ":memory:" {
		return sqlite.Open("file::memory:?cache=shared")
	}
	return sqlite.Open(connection)
}

func postgresDialector(connection string) gorm.Dialector {
	return postgres.New(
		postgres.Config{
			DSN:                  connection,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		},
	)
}

func mysqlDialector(connection string) gorm.Dialector {
	const defaultStringSize = 256

	return mysql.New(
		mysql.Config{
			// e.g. gorm:gorm@tcp(127.0.0.1:3306)/gorm?charset=utf8&parseTime=True&loc=Local
			DSN:                       connection,
			DefaultStringSize:         defaultStringSize,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		},
	)
}
