package loans

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"library-api/internal/library/books"
	"library-api/internal/platform/apierr"
	"library-api/internal/platform/db"
	"library-api/internal/platform/paging"
)

const (
	MsgBookNotFoundForIsbn = "Book not found for passed isbn"
	MsgBookAlreadyLoaned   = "Book already loaned"
	MsgLoanNotFound        = "Loan not found"
	MsgLoanIDRequired      = "Loan id cannot be null"
	MsgOnlyReturnAllowed   = "returned can only be set to true"

	DefaultLateAfterDays = 4
)

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// ===== Service本体 =====

type Service struct {
	db    *sqlx.DB
	store *Store
	books *books.Store
	clock Clock
}

func NewService(conn *sqlx.DB) *Service {
	return &Service{
		db:    conn,
		store: NewStore(conn),
		books: books.NewStore(conn),
		clock: realClock{},
	}
}

// WithClock は日付計算に使う時計を差し替えたコピーを返す（テスト用）
func (s *Service) WithClock(c Clock) *Service {
	cp := *s
	cp.clock = c
	return &cp
}

// today は UTC の暦日
func (s *Service) today() time.Time {
	return dateOf(s.clock.Now().UTC())
}

// 貸出登録
func (s *Service) Create(ctx context.Context, isbn, customer string) (Loan, error) {
	var msgs []string
	if strings.TrimSpace(isbn) == "" {
		msgs = append(msgs, "isbn must not be empty")
	}
	if strings.TrimSpace(customer) == "" {
		msgs = append(msgs, "customer must not be empty")
	}
	if len(msgs) > 0 {
		return Loan{}, apierr.Validation(msgs...)
	}

	f := false
	l := Loan{Customer: customer, LoanDate: s.today(), Returned: &f}

	err := db.ReadCommitted(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		b, err := s.books.WithTx(tx).GetByIsbn(ctx, isbn)
		if err != nil {
			return err
		}
		if b == nil {
			return apierr.NotFound(MsgBookNotFoundForIsbn)
		}
		l.Book = *b

		st := s.store.WithTx(tx)
		active, err := st.ExistsActiveByBook(ctx, b.ID)
		if err != nil {
			return err
		}
		if active {
			return apierr.BusinessRule(MsgBookAlreadyLoaned)
		}
		return st.Insert(ctx, &l)
	})
	if err != nil {
		return Loan{}, fmt.Errorf("create loan: %w", err)
	}
	return l, nil
}

// GetByID returns nil, nil when the loan does not exist.
func (s *Service) GetByID(ctx context.Context, id int64) (*Loan, error) {
	l, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get loan %d: %w", id, err)
	}
	return l, nil
}

// MarkReturned sets returned=true. 返却済みに対して呼んでも成功する。
func (s *Service) MarkReturned(ctx context.Context, id int64) (Loan, error) {
	return s.SetReturned(ctx, id, true)
}

// SetReturned applies a requested returned flag. 存在確認が先で、未知の id は false でも NotFound。
// false（返却の取り消し）は受け付けない。
func (s *Service) SetReturned(ctx context.Context, id int64, returned bool) (Loan, error) {
	if id <= 0 {
		return Loan{}, apierr.InvalidArgument(MsgLoanIDRequired)
	}

	var out Loan
	err := db.ReadCommitted(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.WithTx(tx)
		cur, err := st.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return apierr.NotFound(MsgLoanNotFound)
		}
		if !returned {
			return apierr.InvalidArgument(MsgOnlyReturnAllowed)
		}
		if _, err := st.SetReturned(ctx, id, true); err != nil {
			return err
		}
		t := true
		cur.Returned = &t
		out = *cur
		return nil
	})
	if err != nil {
		return Loan{}, fmt.Errorf("return loan %d: %w", id, err)
	}
	return out, nil
}

func (s *Service) Find(ctx context.Context, f LoanFilter, p paging.Request) (paging.Page[Loan], error) {
	items, total, err := s.store.Find(ctx, f, p.Limit(), p.Offset())
	if err != nil {
		return paging.Page[Loan]{}, fmt.Errorf("find loans: %w", err)
	}
	return paging.New(items, p, total), nil
}

// ListByBook pages every loan of one book, returned or not.
func (s *Service) ListByBook(ctx context.Context, bookID int64, p paging.Request) (paging.Page[Loan], error) {
	if bookID <= 0 {
		return paging.Page[Loan]{}, apierr.InvalidArgument(books.MsgBookIDRequired)
	}
	b, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return paging.Page[Loan]{}, fmt.Errorf("list loans of book %d: %w", bookID, err)
	}
	if b == nil {
		return paging.Page[Loan]{}, apierr.NotFound(books.MsgBookNotFound)
	}
	items, total, err := s.store.ListByBook(ctx, bookID, p.Limit(), p.Offset())
	if err != nil {
		return paging.Page[Loan]{}, fmt.Errorf("list loans of book %d: %w", bookID, err)
	}
	return paging.New(items, p, total), nil
}

// ListLate returns the active loans made more than thresholdDays days before today.
// thresholdDays <= 0 は既定値 4 日。
func (s *Service) ListLate(ctx context.Context, thresholdDays int) ([]Loan, error) {
	if thresholdDays <= 0 {
		thresholdDays = DefaultLateAfterDays
	}
	cutoff := s.today().AddDate(0, 0, -thresholdDays)
	items, err := s.store.ListActiveBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list late loans: %w", err)
	}
	return items, nil
}
