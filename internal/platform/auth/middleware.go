package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"library-api/internal/platform/apierr"
	"library-api/internal/platform/web"
)

const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"
)

// RequireAuth: Authorization: Bearer <token> を検証して context に sub/role を詰める
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			web.Fail(c, apierr.Unauthorized("missing Authorization header"))
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			web.Fail(c, apierr.Unauthorized("invalid Authorization header"))
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			web.Fail(c, apierr.Unauthorized("empty token"))
			return
		}

		sub, role, err := ParseToken(secret, tokenStr)
		if err != nil {
			web.Fail(c, apierr.Unauthorized("invalid token"))
			return
		}

		c.Set(CtxUserIDKey, sub)
		c.Set(CtxRoleKey, role)
		c.Next()
	}
}

// RequireRole: RequireAuth の後ろに置く
func RequireRole(roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{})
	for _, r := range roles {
		if r == "" {
			continue
		}
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(CtxRoleKey)
		if role == "" {
			web.Fail(c, apierr.Forbidden("missing role"))
			return
		}
		if _, ok := roleSet[role]; !ok {
			web.Fail(c, apierr.Forbidden("forbidden"))
			return
		}
		c.Next()
	}
}

// Staff は更新系ルート用のガード（librarian または admin）
func Staff(secret []byte) []gin.HandlerFunc {
	return []gin.HandlerFunc{RequireAuth(secret), RequireRole(RoleLibrarian, RoleAdmin)}
}

// Admin はアカウント管理ルート用のガード
func Admin(secret []byte) []gin.HandlerFunc {
	return []gin.HandlerFunc{RequireAuth(secret), RequireRole(RoleAdmin)}
}
