package books

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"library-api/internal/platform/apierr"
	"library-api/internal/platform/db"
	"library-api/internal/platform/paging"
)

const (
	MsgIsbnAlreadyRegistered = "Isbn already registered"
	MsgBookNotFound          = "Book not found"
	MsgBookIDRequired        = "Book id cannot be null"
	MsgBookHasLoans          = "Book has loans"
)

type Service struct {
	db    *sqlx.DB
	store *Store
}

func NewService(conn *sqlx.DB) *Service {
	return &Service{db: conn, store: NewStore(conn)}
}

// Create は isbn の重複を確認してから登録する。
// 確認と登録の間に割り込まれた場合は UNIQUE 制約違反を同じエラーに変換する。
func (s *Service) Create(ctx context.Context, title, author, isbn string) (Book, error) {
	b := Book{Title: title, Author: author, Isbn: isbn}
	if err := validateBook(b); err != nil {
		return Book{}, err
	}

	err := db.ReadCommitted(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.WithTx(tx)
		exists, err := st.ExistsByIsbn(ctx, isbn)
		if err != nil {
			return err
		}
		if exists {
			return apierr.BusinessRule(MsgIsbnAlreadyRegistered)
		}
		return st.Insert(ctx, &b)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Book{}, apierr.BusinessRule(MsgIsbnAlreadyRegistered)
		}
		return Book{}, fmt.Errorf("create book: %w", err)
	}
	return b, nil
}

// GetByID returns nil, nil when the book does not exist.
func (s *Service) GetByID(ctx context.Context, id int64) (*Book, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return b, nil
}

func (s *Service) GetByIsbn(ctx context.Context, isbn string) (*Book, error) {
	b, err := s.store.GetByIsbn(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("get book by isbn: %w", err)
	}
	return b, nil
}

// Update overwrites title and author; isbn stays as created.
func (s *Service) Update(ctx context.Context, id int64, title, author string) (Book, error) {
	if id <= 0 {
		return Book{}, apierr.InvalidArgument(MsgBookIDRequired)
	}

	var out Book
	err := db.ReadCommitted(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.WithTx(tx)
		cur, err := st.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return apierr.NotFound(MsgBookNotFound)
		}
		cur.Title, cur.Author = title, author
		if err := validateBook(*cur); err != nil {
			return err
		}
		if _, err := st.UpdateTitleAuthor(ctx, *cur); err != nil {
			return err
		}
		out = *cur
		return nil
	})
	if err != nil {
		return Book{}, fmt.Errorf("update book %d: %w", id, err)
	}
	return out, nil
}

func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	if id <= 0 {
		return apierr.InvalidArgument(MsgBookIDRequired)
	}
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apierr.BusinessRule(MsgBookHasLoans)
		}
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if n == 0 {
		return apierr.NotFound(MsgBookNotFound)
	}
	return nil
}

func (s *Service) Find(ctx context.Context, f BookFilter, p paging.Request) (paging.Page[Book], error) {
	items, total, err := s.store.Find(ctx, f, p.Limit(), p.Offset())
	if err != nil {
		return paging.Page[Book]{}, fmt.Errorf("find books: %w", err)
	}
	return paging.New(items, p, total), nil
}

// Import は1行ずつ Create する。失敗した行は結果に残して先へ進む。
func (s *Service) Import(ctx context.Context, rows []ImportRow) ImportResult {
	res := ImportResult{Total: len(rows), Results: make([]ImportRowResult, 0, len(rows))}
	for i, r := range rows {
		rr := ImportRowResult{Row: i + 1, Isbn: r.Isbn}
		b, err := s.Create(ctx, strings.TrimSpace(r.Title), strings.TrimSpace(r.Author), strings.TrimSpace(r.Isbn))
		if err != nil {
			msg := strings.Join(apierr.BodyFrom(err).Errors, "; ")
			if apierr.ToHTTPStatus(err) >= 500 {
				log.Printf("[ERROR] import row %d: %v", rr.Row, err)
			}
			rr.Error = &msg
			res.NgCount++
		} else {
			id := b.ID
			rr.Ok = true
			rr.BookID = &id
			res.OkCount++
		}
		res.Results = append(res.Results, rr)
	}
	return res
}

func validateBook(b Book) error {
	var msgs []string
	if strings.TrimSpace(b.Title) == "" {
		msgs = append(msgs, "title must not be empty")
	}
	if strings.TrimSpace(b.Author) == "" {
		msgs = append(msgs, "author must not be empty")
	}
	if strings.TrimSpace(b.Isbn) == "" {
		msgs = append(msgs, "isbn must not be empty")
	}
	if len(msgs) > 0 {
		return apierr.Validation(msgs...)
	}
	return nil
}
