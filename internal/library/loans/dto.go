package loans

import "library-api/internal/library/books"

// ===== Requests =====

type CreateLoanRequest struct {
	Isbn     string `json:"isbn" binding:"required"`
	Customer string `json:"customer" binding:"required"`
}

// 返却登録。returned=true のみ受け付ける
type ReturnLoanRequest struct {
	Returned *bool `json:"returned" binding:"required"`
}

// ===== Responses =====

type LoanResponse struct {
	ID       int64              `json:"id"`
	Isbn     string             `json:"isbn"`
	Customer string             `json:"customer"`
	LoanDate string             `json:"loanDate"` // "2006-01-02"
	Returned *bool              `json:"returned"`
	Book     books.BookResponse `json:"book"`
}

func ToResponse(l Loan) LoanResponse {
	return LoanResponse{
		ID:       l.ID,
		Isbn:     l.Book.Isbn,
		Customer: l.Customer,
		LoanDate: l.LoanDate.Format(dateLayout),
		Returned: l.Returned,
		Book:     books.ToResponse(l.Book),
	}
}
