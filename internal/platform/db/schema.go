package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// テーブルが無ければ作るだけ。バージョン管理されたマイグレーションはここでは扱わない。
// isbn の比較は大文字小文字を区別する。MySQL の既定照合順序は区別しないので utf8mb4_bin を明示する。
var schemas = map[string][]string{
	"mysql": {
		`CREATE TABLE IF NOT EXISTS book (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			author VARCHAR(255) NOT NULL,
			isbn VARCHAR(64) COLLATE utf8mb4_bin NOT NULL,
			UNIQUE KEY uq_book_isbn (isbn)
		)`,
		`CREATE TABLE IF NOT EXISTS loan (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			customer VARCHAR(255) NOT NULL,
			book_id BIGINT NOT NULL,
			loan_date DATE NOT NULL,
			returned BOOLEAN NULL,
			KEY idx_loan_book (book_id),
			KEY idx_loan_date (loan_date),
			CONSTRAINT fk_loan_book FOREIGN KEY (book_id) REFERENCES book (id)
		)`,
		`CREATE TABLE IF NOT EXISTS librarian_account (
			id VARCHAR(64) PRIMARY KEY,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(32) NOT NULL,
			is_disabled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME(6) NOT NULL
		)`,
	},
	"postgres": {
		`CREATE TABLE IF NOT EXISTS book (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			author VARCHAR(255) NOT NULL,
			isbn VARCHAR(64) NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS loan (
			id BIGSERIAL PRIMARY KEY,
			customer VARCHAR(255) NOT NULL,
			book_id BIGINT NOT NULL REFERENCES book (id),
			loan_date DATE NOT NULL,
			returned BOOLEAN NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loan_book ON loan (book_id)`,
		`CREATE INDEX IF NOT EXISTS idx_loan_date ON loan (loan_date)`,
		`CREATE TABLE IF NOT EXISTS librarian_account (
			id VARCHAR(64) PRIMARY KEY,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(32) NOT NULL,
			is_disabled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	},
	"sqlite3": {
		`CREATE TABLE IF NOT EXISTS book (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			isbn TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS loan (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer TEXT NOT NULL,
			book_id INTEGER NOT NULL REFERENCES book (id),
			loan_date DATE NOT NULL,
			returned BOOLEAN NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loan_book ON loan (book_id)`,
		`CREATE INDEX IF NOT EXISTS idx_loan_date ON loan (loan_date)`,
		`CREATE TABLE IF NOT EXISTS librarian_account (
			id TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			is_disabled BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,
	},
}

func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	name, err := dialectName(db.DriverName())
	if err != nil {
		return err
	}
	for _, stmt := range schemas[name] {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("スキーマ作成に失敗: %w", err)
		}
	}
	return nil
}
