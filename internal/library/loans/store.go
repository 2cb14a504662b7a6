package loans

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"library-api/internal/platform/db"
)

const tableLoan = "loan"

var loanColumns = []any{
	goqu.I("l.id").As("id"),
	goqu.I("l.customer").As("customer"),
	goqu.I("l.loan_date").As("loan_date"),
	goqu.I("l.returned").As("returned"),
	goqu.I("b.id").As("book_id"),
	goqu.I("b.title").As("book_title"),
	goqu.I("b.author").As("book_author"),
	goqu.I("b.isbn").As("book_isbn"),
}

// returned が NULL か false の行
var activeLoan = goqu.Or(
	goqu.I("l.returned").IsNull(),
	goqu.L("? = ?", goqu.I("l.returned"), false),
)

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

func (s *Store) WithTx(tx db.DBTX) *Store {
	return &Store{db: tx, dialect: s.dialect, returning: s.returning}
}

func (s *Store) joined() *goqu.SelectDataset {
	return s.dialect.From(goqu.T(tableLoan).As("l")).Prepared(true).
		Join(goqu.T("book").As("b"), goqu.On(goqu.I("l.book_id").Eq(goqu.I("b.id"))))
}

func (s *Store) selectRows(ctx context.Context, ds *goqu.SelectDataset) ([]Loan, error) {
	q, args, err := ds.ToSQL()
	if err != nil {
		return nil, err
	}
	var rows []loanRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, q, args...); err != nil {
		return nil, err
	}
	out := make([]Loan, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toLoan())
	}
	return out, nil
}

func (s *Store) count(ctx context.Context, where []exp.Expression) (int64, error) {
	q, args, err := s.joined().Select(goqu.COUNT(goqu.Star())).Where(where...).ToSQL()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := sqlx.GetContext(ctx, s.db, &n, q, args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) page(ctx context.Context, where []exp.Expression, limit, offset int) ([]Loan, int64, error) {
	total, err := s.count(ctx, where)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.selectRows(ctx, s.joined().Select(loanColumns...).Where(where...).
		Order(goqu.I("l.id").Asc()).
		Limit(uint(limit)).Offset(uint(offset)))
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Insert sets l.ID from the database.
func (s *Store) Insert(ctx context.Context, l *Loan) error {
	returned := false
	if l.Returned != nil {
		returned = *l.Returned
	}
	ins := s.dialect.Insert(tableLoan).Prepared(true).
		Cols("customer", "book_id", "loan_date", "returned").
		Vals(goqu.Vals{l.Customer, l.Book.ID, l.LoanDate.Format(dateLayout), returned})

	if s.returning {
		q, args, err := ins.Returning("id").ToSQL()
		if err != nil {
			return err
		}
		return sqlx.GetContext(ctx, s.db, &l.ID, q, args...)
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
	l.ID = id
	return nil
}

// 見つからなければ nil, nil
func (s *Store) GetByID(ctx context.Context, id int64) (*Loan, error) {
	items, err := s.selectRows(ctx, s.joined().Select(loanColumns...).Where(goqu.I("l.id").Eq(id)).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (s *Store) ExistsActiveByBook(ctx context.Context, bookID int64) (bool, error) {
	n, err := s.count(ctx, []exp.Expression{goqu.I("l.book_id").Eq(bookID), activeLoan})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) SetReturned(ctx context.Context, id int64, returned bool) (int64, error) {
	q, args, err := s.dialect.Update(tableLoan).Prepared(true).
		Set(goqu.Record{"returned": returned}).
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

// Find matches book isbn OR customer. 空の条件は無視し、両方空なら全件。
func (s *Store) Find(ctx context.Context, f LoanFilter, limit, offset int) ([]Loan, int64, error) {
	var ors []exp.Expression
	if f.Isbn != "" {
		ors = append(ors, goqu.I("b.isbn").Eq(f.Isbn))
	}
	if f.Customer != "" {
		ors = append(ors, goqu.I("l.customer").Eq(f.Customer))
	}
	var where []exp.Expression
	if len(ors) > 0 {
		where = append(where, goqu.Or(ors...))
	}
	return s.page(ctx, where, limit, offset)
}

func (s *Store) ListByBook(ctx context.Context, bookID int64, limit, offset int) ([]Loan, int64, error) {
	return s.page(ctx, []exp.Expression{goqu.I("l.book_id").Eq(bookID)}, limit, offset)
}

// ListActiveBefore returns every active loan whose loan_date is strictly before cutoff.
func (s *Store) ListActiveBefore(ctx context.Context, cutoff time.Time) ([]Loan, error) {
	return s.selectRows(ctx, s.joined().Select(loanColumns...).
		Where(activeLoan, goqu.I("l.loan_date").Lt(cutoff.Format(dateLayout))).
		Order(goqu.I("l.loan_date").Asc(), goqu.I("l.id").Asc()))
}
