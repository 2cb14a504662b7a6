package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const (
	Header = "X-Request-ID"
	ctxKey = "request_id"
)

// Middleware はクライアント指定の X-Request-ID を引き継ぎ、無ければ ULID を振る。
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" || len(id) > 128 {
			id = ulid.Make().String()
		}
		c.Set(ctxKey, id)
		c.Header(Header, id)
		c.Next()
	}
}

func FromContext(c *gin.Context) string {
	return c.GetString(ctxKey)
}
