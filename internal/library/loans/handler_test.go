package loans_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/library/books"
	"library-api/internal/library/loans"
	"library-api/internal/platform/apierr"
	"library-api/internal/platform/db/dbtest"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conn := dbtest.New(t)
	r := gin.New()
	api := r.Group("/api")
	books.RegisterRoutes(api, books.NewService(conn))
	loans.RegisterRoutes(api, loans.NewService(conn).WithClock(fixedClock{today}))
	return &apiClient{t: t, router: r}
}

func (a *apiClient) do(method, path, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *apiClient) book(isbn string) books.BookResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/books", `{"title":"Arthur","author":"Dom","isbn":"`+isbn+`"}`)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var b books.BookResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func (a *apiClient) lend(isbn, customer string) int64 {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/loans", `{"isbn":"`+isbn+`","customer":"`+customer+`"}`)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	id, err := strconv.ParseInt(strings.TrimSpace(w.Body.String()), 10, 64)
	require.NoError(a.t, err)
	return id
}

func errorsOf(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var body apierr.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Errors
}

func Test_API_CreateLoanReturnsPlainID(t *testing.T) {
	api := newAPI(t)
	api.book("001")

	id := api.lend("001", "Fulano")

	assert.Positive(t, id)
}

func Test_API_CreateLoanUnknownIsbnIsBadRequest(t *testing.T) {
	api := newAPI(t)

	w := api.do(http.MethodPost, "/api/loans", `{"isbn":"123","customer":"Fulano"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Book not found for passed isbn"}, errorsOf(t, w))
}

func Test_API_CreateLoanAlreadyLoaned(t *testing.T) {
	api := newAPI(t)
	api.book("001")
	api.lend("001", "a")

	w := api.do(http.MethodPost, "/api/loans", `{"isbn":"001","customer":"b"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Book already loaned"}, errorsOf(t, w))
}

func Test_API_CreateLoanEmptyBody(t *testing.T) {
	api := newAPI(t)

	w := api.do(http.MethodPost, "/api/loans", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"isbn must not be empty", "customer must not be empty"}, errorsOf(t, w))
}

func Test_API_ReturnLoan(t *testing.T) {
	api := newAPI(t)
	b := api.book("001")
	id := api.lend("001", "Fulano")
	path := "/api/loans/" + strconv.FormatInt(id, 10)

	w := api.do(http.MethodPatch, path, `{"returned":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got loans.LoanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "001", got.Isbn)
	assert.Equal(t, "2024-03-20", got.LoanDate)
	require.NotNil(t, got.Returned)
	assert.True(t, *got.Returned)
	assert.Equal(t, b, got.Book)

	// 2回目も成功する
	assert.Equal(t, http.StatusOK, api.do(http.MethodPatch, path, `{"returned":true}`).Code)
}

func Test_API_ReturnLoanErrors(t *testing.T) {
	api := newAPI(t)
	api.book("001")
	id := api.lend("001", "Fulano")

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		errors []string
	}{
		{"missing_loan", "/api/loans/999", `{"returned":true}`, http.StatusNotFound, []string{"Loan not found"}},
		{"missing_loan_returned_false", "/api/loans/999", `{"returned":false}`, http.StatusNotFound, []string{"Loan not found"}},
		{"returned_false", "/api/loans/" + strconv.FormatInt(id, 10), `{"returned":false}`, http.StatusBadRequest, []string{"returned can only be set to true"}},
		{"returned_missing", "/api/loans/" + strconv.FormatInt(id, 10), `{}`, http.StatusBadRequest, []string{"returned must not be empty"}},
		{"bad_id", "/api/loans/x", `{"returned":true}`, http.StatusBadRequest, []string{"id must be a positive integer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPatch, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.errors, errorsOf(t, w))
		})
	}
}

func Test_API_FindLoans(t *testing.T) {
	api := newAPI(t)
	api.book("001")
	api.book("002")
	api.lend("001", "ana")
	api.lend("002", "bia")

	w := api.do(http.MethodGet, "/api/loans?isbn=001&customer=bia&page=0&size=10", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Content       []loans.LoanResponse `json:"content"`
		TotalElements int64                `json:"totalElements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.TotalElements)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "ana", page.Content[0].Customer)
	assert.Equal(t, "bia", page.Content[1].Customer)
}

func Test_API_LoansOfBook(t *testing.T) {
	api := newAPI(t)
	b := api.book("001")
	api.lend("001", "ana")

	w := api.do(http.MethodGet, "/api/books/"+strconv.FormatInt(b.ID, 10)+"/loans", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Content []loans.LoanResponse `json:"content"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "ana", page.Content[0].Customer)

	w = api.do(http.MethodGet, "/api/books/999/loans", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"Book not found"}, errorsOf(t, w))
}

func Test_API_DeleteBookWithLoans(t *testing.T) {
	api := newAPI(t)
	b := api.book("001")
	api.lend("001", "ana")

	w := api.do(http.MethodDelete, "/api/books/"+strconv.FormatInt(b.ID, 10), "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Book has loans"}, errorsOf(t, w))
}
