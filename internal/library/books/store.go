package books

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"library-api/internal/platform/db"
)

const tableBook = "book"

var bookColumns = []any{"id", "title", "author", "isbn"}

type Store struct {
	db        db.DBTX
	dialect   goqu.DialectWrapper
	returning bool
}

func NewStore(conn db.DBTX) *Store {
	return &Store{
		db:        conn,
		dialect:   db.Dialect(conn.DriverName()),
		returning: db.SupportsReturning(conn.DriverName()),
	}
}

// WithTx は同じ方言のまま tx 上で動く Store を返す
func (s *Store) WithTx(tx db.DBTX) *Store {
	return &Store{db: tx, dialect: s.dialect, returning: s.returning}
}

func (s *Store) from() *goqu.SelectDataset {
	return s.dialect.From(tableBook).Prepared(true)
}

func (s *Store) getOne(ctx context.Context, where exp.Expression) (*Book, error) {
	q, args, err := s.from().Select(bookColumns...).Where(where).Limit(1).ToSQL()
	if err != nil {
		return nil, err
	}
	var b Book
	if err := sqlx.GetContext(ctx, s.db, &b, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// 見つからなければ nil, nil
func (s *Store) GetByID(ctx context.Context, id int64) (*Book, error) {
	return s.getOne(ctx, goqu.C("id").Eq(id))
}

func (s *Store) GetByIsbn(ctx context.Context, isbn string) (*Book, error) {
	return s.getOne(ctx, goqu.C("isbn").Eq(isbn))
}

func (s *Store) ExistsByIsbn(ctx context.Context, isbn string) (bool, error) {
	q, args, err := s.from().Select(goqu.COUNT(goqu.Star())).Where(goqu.C("isbn").Eq(isbn)).ToSQL()
	if err != nil {
		return false, err
	}
	var n int64
	if err := sqlx.GetContext(ctx, s.db, &n, q, args...); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Insert sets b.ID from the database.
func (s *Store) Insert(ctx context.Context, b *Book) error {
	ins := s.dialect.Insert(tableBook).Prepared(true).
		Cols("title", "author", "isbn").
		Vals(goqu.Vals{b.Title, b.Author, b.Isbn})

	if s.returning {
		q, args, err := ins.Returning("id").ToSQL()
		if err != nil {
			return err
		}
		return sqlx.GetContext(ctx, s.db, &b.ID, q, args...)
	}

	q, args, err := ins.ToSQL()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

// UpdateTitleAuthor は isbn に触らない。戻り値は更新件数
func (s *Store) UpdateTitleAuthor(ctx context.Context, b Book) (int64, error) {
	q, args, err := s.dialect.Update(tableBook).Prepared(true).
		Set(goqu.Record{"title": b.Title, "author": b.Author}).
		Where(goqu.C("id").Eq(b.ID)).
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

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	q, args, err := s.dialect.Delete(tableBook).Prepared(true).Where(goqu.C("id").Eq(id)).ToSQL()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// predicates builds one case-insensitive substring predicate per non-empty filter field.
func (f BookFilter) predicates() []exp.Expression {
	var out []exp.Expression
	add := func(col, v string) {
		if strings.TrimSpace(v) == "" {
			return
		}
		out = append(out, goqu.L("LOWER(?) LIKE ? ESCAPE '!'", goqu.C(col), containsPattern(v)))
	}
	add("title", f.Title)
	add("author", f.Author)
	add("isbn", f.Isbn)
	return out
}

// likeEscaper makes % and _ in user input match literally. MySQL の文字列リテラルでは
// バックスラッシュ自体がエスケープになるので、どの方言でも同じ '!' を使う。
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(v string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(v)) + "%"
}

// Find returns one page of matches ordered by id plus the total number of matches.
func (s *Store) Find(ctx context.Context, f BookFilter, limit, offset int) ([]Book, int64, error) {
	where := f.predicates()

	countSQL, countArgs, err := s.from().Select(goqu.COUNT(goqu.Star())).Where(where...).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := sqlx.GetContext(ctx, s.db, &total, countSQL, countArgs...); err != nil {
		return nil, 0, err
	}

	q, args, err := s.from().Select(bookColumns...).Where(where...).
		Order(goqu.C("id").Asc()).
		Limit(uint(limit)).Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, 0, err
	}
	out := []Book{}
	if err := sqlx.SelectContext(ctx, s.db, &out, q, args...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
