package auth

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"

	"library-api/internal/platform/db"
)

const tableAccount = "librarian_account"

type Account struct {
	ID           string    `db:"id"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	IsDisabled   bool      `db:"is_disabled"`
	CreatedAt    time.Time `db:"created_at"`
}

type AccountStore interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id string) (int64, error)
	UpdateID(ctx context.Context, oldID, newID string) (int64, error)
}

type Store struct {
	db      db.DBTX
	dialect goqu.DialectWrapper
}

func NewStore(conn db.DBTX) *Store {
	return &Store{db: conn, dialect: db.Dialect(conn.DriverName())}
}

func (s *Store) GetByID(ctx context.Context, id string) (*Account, error) {
	q, args, err := s.dialect.From(tableAccount).Prepared(true).
		Select("id", "password_hash", "role", "is_disabled", "created_at").
		Where(goqu.C("id").Eq(id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}
	var rows []Account
	if err := sqlx.SelectContext(ctx, s.db, &rows, q, args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *Store) Create(ctx context.Context, a *Account) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	q, args, err := s.dialect.Insert(tableAccount).Prepared(true).
		Cols("id", "password_hash", "role", "is_disabled", "created_at").
		Vals(goqu.Vals{a.ID, a.PasswordHash, a.Role, a.IsDisabled, a.CreatedAt}).
		ToSQL()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	q, args, err := s.dialect.Delete(tableAccount).Prepared(true).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PK を書き換える
func (s *Store) UpdateID(ctx context.Context, oldID, newID string) (int64, error) {
	q, args, err := s.dialect.Update(tableAccount).Prepared(true).
		Set(goqu.Record{"id": newID}).
		Where(goqu.C("id").Eq(oldID)).
		ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
