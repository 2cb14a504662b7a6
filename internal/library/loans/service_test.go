package loans_test

import (
	"context"
	"testing"
	"time"

	"github.com/Pallinder/go-randomdata"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/library/books"
	"library-api/internal/library/loans"
	"library-api/internal/platform/apierr"
	"library-api/internal/platform/db/dbtest"
	"library-api/internal/platform/paging"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var today = time.Date(2024, 3, 20, 15, 4, 5, 0, time.UTC)

type fixture struct {
	conn  *sqlx.DB
	books *books.Service
	loans *loans.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.New(t)
	return &fixture{
		conn:  conn,
		books: books.NewService(conn),
		loans: loans.NewService(conn).WithClock(fixedClock{today}),
	}
}

func (f *fixture) book(t *testing.T, isbn string) books.Book {
	t.Helper()
	b, err := f.books.Create(context.Background(), randomdata.SillyName(), randomdata.FullName(randomdata.RandomGender), isbn)
	require.NoError(t, err)
	return b
}

// loanOn creates a loan dated daysAgo days before today.
func (f *fixture) loanOn(t *testing.T, isbn, customer string, daysAgo int) loans.Loan {
	t.Helper()
	svc := f.loans.WithClock(fixedClock{today.AddDate(0, 0, -daysAgo)})
	l, err := svc.Create(context.Background(), isbn, customer)
	require.NoError(t, err)
	return l
}

func Test_Create_StoresTodayAndNotReturned(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "001")

	l, err := f.loans.Create(context.Background(), "001", "Fulano")
	require.NoError(t, err)
	assert.NotZero(t, l.ID)

	got, err := f.loans.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Fulano", got.Customer)
	assert.Equal(t, b, got.Book)
	assert.Equal(t, "2024-03-20", got.LoanDate.Format("2006-01-02"))
	require.NotNil(t, got.Returned)
	assert.False(t, *got.Returned)
	assert.True(t, got.Active())
}

func Test_Create_UnknownIsbn(t *testing.T) {
	f := newFixture(t)

	_, err := f.loans.Create(context.Background(), "123", "Fulano")

	assert.ErrorIs(t, err, apierr.NotFound(""))
	assert.Equal(t, []string{"Book not found for passed isbn"}, apierr.BodyFrom(err).Errors)
}

func Test_Create_SecondActiveLoanRejected(t *testing.T) {
	f := newFixture(t)
	f.book(t, "001")
	f.loanOn(t, "001", "first", 0)

	_, err := f.loans.Create(context.Background(), "001", "second")

	assert.ErrorIs(t, err, apierr.BusinessRule(""))
	assert.Equal(t, []string{"Book already loaned"}, apierr.BodyFrom(err).Errors)

	page, err := f.loans.Find(context.Background(), loans.LoanFilter{}, paging.NewRequest(0, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)
}

func Test_Create_AllowedAfterReturn(t *testing.T) {
	f := newFixture(t)
	f.book(t, "001")
	first := f.loanOn(t, "001", "first", 1)

	_, err := f.loans.MarkReturned(context.Background(), first.ID)
	require.NoError(t, err)

	second, err := f.loans.Create(context.Background(), "001", "second")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func Test_Create_RejectsBlankFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.loans.Create(context.Background(), "", " ")

	assert.Equal(t, []string{"isbn must not be empty", "customer must not be empty"}, apierr.BodyFrom(err).Errors)
}

func Test_MarkReturned_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.book(t, "001")
	l := f.loanOn(t, "001", "Fulano", 2)

	for i := 0; i < 2; i++ {
		got, err := f.loans.MarkReturned(context.Background(), l.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Returned)
		assert.True(t, *got.Returned)
		assert.Equal(t, "001", got.Book.Isbn)
	}

	got, err := f.loans.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.False(t, got.Active())
}

func Test_MarkReturned_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.loans.MarkReturned(context.Background(), 42)
	assert.ErrorIs(t, err, apierr.NotFound(""))
	assert.Equal(t, []string{"Loan not found"}, apierr.BodyFrom(err).Errors)

	_, err = f.loans.MarkReturned(context.Background(), 0)
	assert.ErrorIs(t, err, apierr.InvalidArgument(""))
}

func Test_SetReturned_FalseChecksExistenceFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.loans.SetReturned(ctx, 42, false)
	assert.ErrorIs(t, err, apierr.NotFound(""))

	f.book(t, "001")
	l := f.loanOn(t, "001", "ana", 0)
	_, err = f.loans.SetReturned(ctx, l.ID, false)
	assert.ErrorIs(t, err, apierr.InvalidArgument(""))
	assert.Equal(t, []string{"returned can only be set to true"}, apierr.BodyFrom(err).Errors)

	got, err := f.loans.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, got.Active())
}

func Test_Find_IsbnOrCustomer(t *testing.T) {
	f := newFixture(t)
	f.book(t, "001")
	f.book(t, "002")
	f.book(t, "003")
	f.loanOn(t, "001", "ana", 0)
	f.loanOn(t, "002", "bia", 0)
	f.loanOn(t, "003", "ana", 0)

	tests := []struct {
		name   string
		filter loans.LoanFilter
		isbns  []string
	}{
		{"both_empty_returns_all", loans.LoanFilter{}, []string{"001", "002", "003"}},
		{"isbn_only", loans.LoanFilter{Isbn: "002"}, []string{"002"}},
		{"customer_only", loans.LoanFilter{Customer: "ana"}, []string{"001", "003"}},
		{"or_not_and", loans.LoanFilter{Isbn: "002", Customer: "ana"}, []string{"001", "002", "003"}},
		{"exact_match", loans.LoanFilter{Isbn: "00"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.loans.Find(context.Background(), tt.filter, paging.NewRequest(0, 10))
			require.NoError(t, err)

			isbns := []string{}
			for _, l := range page.Content {
				isbns = append(isbns, l.Book.Isbn)
			}
			assert.Equal(t, tt.isbns, isbns)
			assert.Equal(t, int64(len(tt.isbns)), page.TotalElements)
		})
	}
}

func Test_ListByBook(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "001")
	f.book(t, "002")
	first := f.loanOn(t, "001", "a", 3)
	_, err := f.loans.MarkReturned(context.Background(), first.ID)
	require.NoError(t, err)
	f.loanOn(t, "001", "b", 1)
	f.loanOn(t, "002", "c", 1)

	page, err := f.loans.ListByBook(context.Background(), b.ID, paging.NewRequest(0, 10))
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "a", page.Content[0].Customer)
	assert.Equal(t, "b", page.Content[1].Customer)

	_, err = f.loans.ListByBook(context.Background(), 999, paging.NewRequest(0, 10))
	assert.ErrorIs(t, err, apierr.NotFound(""))
	assert.Equal(t, []string{"Book not found"}, apierr.BodyFrom(err).Errors)
}

func Test_ListLate(t *testing.T) {
	f := newFixture(t)
	f.book(t, "001")
	f.book(t, "002")
	f.book(t, "003")
	f.book(t, "004")

	late := f.loanOn(t, "001", "late", 5)
	f.loanOn(t, "002", "recent", 3)
	returned := f.loanOn(t, "003", "returned", 5)
	f.loanOn(t, "004", "boundary", 4)
	_, err := f.loans.MarkReturned(context.Background(), returned.ID)
	require.NoError(t, err)

	got, err := f.loans.ListLate(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, late.ID, got[0].ID)
	assert.Equal(t, "2024-03-15", got[0].LoanDate.Format("2006-01-02"))

	fallback, err := f.loans.ListLate(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, fallback, 1)

	wider, err := f.loans.ListLate(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, wider, 3)
}
