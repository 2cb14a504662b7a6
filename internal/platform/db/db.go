package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres" // lib/pq
	DriverPgx      = "pgx"      // jackc/pgx stdlib
	DriverSQLite   = "sqlite3"
)

func dialectName(driver string) (string, error) {
	switch driver {
	case DriverMySQL:
		return "mysql", nil
	case DriverPostgres, DriverPgx:
		return "postgres", nil
	case DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("未対応のドライバ: %q", driver)
	}
}

// Dialect returns the goqu dialect matching a database/sql driver name.
// Unknown drivers fall back to the default dialect.
func Dialect(driver string) goqu.DialectWrapper {
	name, err := dialectName(driver)
	if err != nil {
		return goqu.Dialect("default")
	}
	return goqu.Dialect(name)
}

// SupportsReturning reports whether inserts should use RETURNING instead of LastInsertId.
func SupportsReturning(driver string) bool {
	return driver == DriverPostgres || driver == DriverPgx
}

func DSN(c DatabaseConfig) (string, error) {
	switch c.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=false&timeout=3s&readTimeout=5s&writeTimeout=5s&loc=UTC",
			c.Username, c.Password, c.Host, c.Port, c.DBName), nil
	case DriverPostgres, DriverPgx:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.Username, c.Password, c.DBName), nil
	case DriverSQLite:
		if c.Path == "" {
			return "", fmt.Errorf("sqlite3 には database.path が必要")
		}
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", c.Path), nil
	default:
		return "", fmt.Errorf("未対応のドライバ: %q", c.Driver)
	}
}

func Connect(c DatabaseConfig) (*sqlx.DB, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}
	if c.Driver == DriverSQLite {
		if dir := filepath.Dir(c.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("DBディレクトリの作成に失敗: %w", err)
			}
		}
	}

	db, err := sqlx.Open(c.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("接続準備に失敗: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB接続に失敗: %w", err)
	}

	// 接続プール（合算がサーバ側の max_connections を超えないよう配分する）
	db.SetMaxOpenConns(80)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}
