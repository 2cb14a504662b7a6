package loans

import (
	"database/sql"
	"time"

	"library-api/internal/library/books"
)

const dateLayout = "2006-01-02"

// Loan は loan テーブルの1行を表す。Book は参照先の現在値
type Loan struct {
	ID       int64
	Book     books.Book
	Customer string
	LoanDate time.Time // 日付のみ（UTC 0:00）
	Returned *bool     // nil = 未設定
}

// Active は returned が true 以外なら貸出中
func (l Loan) Active() bool {
	return l.Returned == nil || !*l.Returned
}

// 一覧の検索条件。isbn と customer は OR で結合する
type LoanFilter struct {
	Isbn     string
	Customer string
}

// loanRow は loan と book を JOIN した1行
type loanRow struct {
	ID         int64        `db:"id"`
	Customer   string       `db:"customer"`
	LoanDate   time.Time    `db:"loan_date"`
	Returned   sql.NullBool `db:"returned"`
	BookID     int64        `db:"book_id"`
	BookTitle  string       `db:"book_title"`
	BookAuthor string       `db:"book_author"`
	BookIsbn   string       `db:"book_isbn"`
}

func (r loanRow) toLoan() Loan {
	l := Loan{
		ID:       r.ID,
		Customer: r.Customer,
		LoanDate: dateOf(r.LoanDate),
		Book: books.Book{
			ID:     r.BookID,
			Title:  r.BookTitle,
			Author: r.BookAuthor,
			Isbn:   r.BookIsbn,
		},
	}
	if r.Returned.Valid {
		v := r.Returned.Bool
		l.Returned = &v
	}
	return l
}

// dateOf keeps the calendar date of t as read in t's location and returns it as UTC midnight.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
