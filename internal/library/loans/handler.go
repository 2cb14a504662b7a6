package loans

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-api/internal/platform/apierr"
	"library-api/internal/platform/paging"
	"library-api/internal/platform/web"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts /loans and /books/:id/loans. write は更新系ルートに挟むミドルウェア。
func RegisterRoutes(r gin.IRouter, svc *Service, write ...gin.HandlerFunc) {
	h := &Handler{svc: svc}

	r.GET("/loans", h.Find)
	r.GET("/books/:id/loans", h.ListByBook)

	w := r.Group("", write...)
	w.POST("/loans", h.Create)
	w.PATCH("/loans/:id", h.Return)
}

// Create godoc
// @Summary  Lend a book
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    body body CreateLoanRequest true "loan"
// @Success  201 {integer} int64 "loan id"
// @Failure  400 {object} apierr.Body
// @Router   /loans [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateLoanRequest
	if err := web.BindJSON(c, &req); err != nil {
		web.Fail(c, err)
		return
	}
	l, err := h.svc.Create(c.Request.Context(), req.Isbn, req.Customer)
	if err != nil {
		// isbn 未登録は 404 ではなく 400 で返す
		if errors.Is(err, apierr.NotFound("")) {
			err = apierr.BusinessRule(MsgBookNotFoundForIsbn)
		}
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, l.ID)
}

// Return godoc
// @Summary  Mark a loan as returned
// @Tags     loans
// @Accept   json
// @Produce  json
// @Param    id   path int               true "loan id"
// @Param    body body ReturnLoanRequest true "returned"
// @Success  200 {object} LoanResponse
// @Failure  400 {object} apierr.Body
// @Failure  404 {object} apierr.Body
// @Router   /loans/{id} [patch]
func (h *Handler) Return(c *gin.Context) {
	id, err := web.PathID(c, "id")
	if err != nil {
		web.Fail(c, err)
		return
	}
	var req ReturnLoanRequest
	if err := web.BindJSON(c, &req); err != nil {
		web.Fail(c, err)
		return
	}
	l, err := h.svc.SetReturned(c.Request.Context(), id, *req.Returned)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(l))
}

// Find godoc
// @Summary  Search loans by book isbn or customer
// @Tags     loans
// @Produce  json
// @Param    isbn     query string false "book isbn (exact)"
// @Param    customer query string false "customer (exact)"
// @Param    page     query int    false "0-based page"
// @Param    size     query int    false "page size"
// @Success  200 {object} paging.Page[LoanResponse]
// @Router   /loans [get]
func (h *Handler) Find(c *gin.Context) {
	f := LoanFilter{Isbn: c.Query("isbn"), Customer: c.Query("customer")}
	res, err := h.svc.Find(c.Request.Context(), f, web.PageRequest(c))
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, paging.Map(res, ToResponse))
}

// ListByBook godoc
// @Summary  Loans of one book
// @Tags     loans
// @Produce  json
// @Param    id   path  int true  "book id"
// @Param    page query int false "0-based page"
// @Param    size query int false "page size"
// @Success  200 {object} paging.Page[LoanResponse]
// @Failure  404 {object} apierr.Body
// @Router   /books/{id}/loans [get]
func (h *Handler) ListByBook(c *gin.Context) {
	id, err := web.PathID(c, "id")
	if err != nil {
		web.Fail(c, err)
		return
	}
	res, err := h.svc.ListByBook(c.Request.Context(), id, web.PageRequest(c))
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, paging.Map(res, ToResponse))
}
