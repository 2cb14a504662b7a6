package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-api/internal/platform/web"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts /auth/login and the account routes; admin guards the latter.
func RegisterRoutes(r gin.IRouter, svc *Service, admin ...gin.HandlerFunc) {
	h := &Handler{svc: svc}
	r.POST("/auth/login", h.Login)

	a := r.Group("/auth/accounts", admin...)
	a.POST("", h.Register)
	a.DELETE("/:id", h.DeleteAccount)
	a.PATCH("/:id", h.ChangeID) // ユーザー名変更 = id 変更
}

type LoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Login godoc
// @Summary  Issue a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body LoginRequest true "credentials"
// @Success  200 {object} LoginResponse
// @Failure  401 {object} apierr.Body
// @Router   /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := web.BindJSON(c, &req); err != nil {
		web.Fail(c, err)
		return
	}
	token, err := h.svc.Login(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token})
}

type RegisterRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role,omitempty"` // 未指定なら librarian
}

type AccountResponse struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Register godoc
// @Summary  Create a librarian account (admin)
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body RegisterRequest true "account"
// @Success  201 {object} AccountResponse
// @Failure  409 {object} apierr.Body
// @Router   /auth/accounts [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := web.BindJSON(c, &req); err != nil {
		web.Fail(c, err)
		return
	}
	role := req.Role
	if role == "" {
		role = RoleLibrarian
	}
	if err := h.svc.Register(c.Request.Context(), req.ID, req.Password, role); err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, AccountResponse{ID: req.ID, Role: role})
}

// DeleteAccount godoc
// @Summary  Delete an account (admin)
// @Tags     auth
// @Param    id path string true "account id"
// @Success  204
// @Failure  404 {object} apierr.Body
// @Router   /auth/accounts/{id} [delete]
func (h *Handler) DeleteAccount(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		web.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type ChangeIDRequest struct {
	NewID string `json:"new_id" binding:"required"`
}

// ChangeID godoc
// @Summary  Rename an account (admin)
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    id   path string          true "account id"
// @Param    body body ChangeIDRequest true "new id"
// @Success  200 {object} AccountResponse
// @Failure  404 {object} apierr.Body
// @Failure  409 {object} apierr.Body
// @Router   /auth/accounts/{id} [patch]
func (h *Handler) ChangeID(c *gin.Context) {
	var req ChangeIDRequest
	if err := web.BindJSON(c, &req); err != nil {
		web.Fail(c, err)
		return
	}
	acct, err := h.svc.ChangeID(c.Request.Context(), c.Param("id"), req.NewID)
	if err != nil {
		web.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, AccountResponse{ID: acct.ID, Role: acct.Role})
}
