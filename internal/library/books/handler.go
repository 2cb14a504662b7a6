package books

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-api/internal/platform/apierr"
	"library-api/internal/platform/paging"
	"library-api/internal/platform/web"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts the book routes. write は更新系ルートの前に挟むミドルウェア（認証など）。
func RegisterRoutes(r gin.IRouter, svc *Service, write ...gin.HandlerFunc) {
	h := &Handler{svc: svc}

	r.GET("/books", h.Find)
	r.GET("/books/:id", h.Get)

	w := r.Group("", write...)
	w.POST("/books", h.Create)
	w.PUT("/books/:id", h.Update)
	w.DELETE("/books/:id", h.Delete)
}

// Create godoc
// @Summary  Register a book
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    body body CreateBookRequest true "book"
// @Success  201 {object} BookResponse
// @Failure  400 {object} apierr.Body
// @Router   /books [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := web.BindJSON(c, &req); err != nil {
		web.Fail(c, err)
		return
	}
	b, err := h.svc.Create(c.Request.Context(), req.Title, req.Author, req.Isbn)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.Header("Location", "/api/books/"+strconv.FormatInt(b.ID, 10))
	c.JSON(http.StatusCreated, ToResponse(b))
}

// Get godoc
// @Summary  Get a book
// @Tags     books
// @Produce  json
// @Param    id path int true "book id"
// @Success  200 {object} BookResponse
// @Failure  404 {object} apierr.Body
// @Router   /books/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := web.PathID(c, "id")
	if err != nil {
		web.Fail(c, err)
		return
	}
	b, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		web.Fail(c, err)
		return
	}
	if b == nil {
		web.Fail(c, apierr.NotFound(MsgBookNotFound))
		return
	}
	c.JSON(http.StatusOK, ToResponse(*b))
}

// Update godoc
// @Summary  Update title and author of a book
// @Tags     books
// @Accept   json
// @Produce  json
// @Param    id   path int               true "book id"
// @Param    body body UpdateBookRequest true "book"
// @Success  200 {object} BookResponse
// @Failure  404 {object} apierr.Body
// @Router   /books/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := web.PathID(c, "id")
	if err != nil {
		web.Fail(c, err)
		return
	}
	var req UpdateBookRequest
	if err := web.BindJSON(c, &req); err != nil {
		web.Fail(c, err)
		return
	}
	b, err := h.svc.Update(c.Request.Context(), id, req.Title, req.Author)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ToResponse(b))
}

// Delete godoc
// @Summary  Delete a book
// @Tags     books
// @Param    id path int true "book id"
// @Success  204
// @Failure  404 {object} apierr.Body
// @Router   /books/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := web.PathID(c, "id")
	if err != nil {
		web.Fail(c, err)
		return
	}
	if err := h.svc.DeleteByID(c.Request.Context(), id); err != nil {
		web.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Find godoc
// @Summary  Search books (case-insensitive substring match on each given field)
// @Tags     books
// @Produce  json
// @Param    title  query string false "title contains"
// @Param    author query string false "author contains"
// @Param    isbn   query string false "isbn contains"
// @Param    page   query int    false "0-based page"
// @Param    size   query int    false "page size"
// @Success  200 {object} paging.Page[BookResponse]
// @Router   /books [get]
func (h *Handler) Find(c *gin.Context) {
	f := BookFilter{
		Title:  c.Query("title"),
		Author: c.Query("author"),
		Isbn:   c.Query("isbn"),
	}
	res, err := h.svc.Find(c.Request.Context(), f, web.PageRequest(c))
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, paging.Map(res, ToResponse))
}
