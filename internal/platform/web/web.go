// Package web holds the gin helpers every handler shares: body binding with
// per-field validation messages, path id parsing, paging params and error responses.
package web

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"library-api/internal/platform/apierr"
	"library-api/internal/platform/paging"
	"library-api/internal/platform/requestid"
)

// BindJSON decodes the body into dst and validates its binding tags.
// 空ボディは {} として扱い、必須項目ごとにエラーを積む。
func BindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(dst)
	}
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldMessage(fe))
		}
		return apierr.Validation(msgs...)
	}
	return apierr.Validation("malformed request body")
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " must not be empty"
	default:
		return field + " is invalid"
	}
}

func PathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.InvalidArgument(name + " must be a positive integer")
	}
	return id, nil
}

// PageRequest reads ?page= (0-based) and ?size=.
func PageRequest(c *gin.Context) paging.Request {
	return paging.NewRequest(
		atoiDef(c.Query("page"), 0),
		atoiDef(c.Query("size"), paging.DefaultSize),
	)
}

// Fail writes the error body and aborts. 5xx の詳細はログにだけ残す。
func Fail(c *gin.Context, err error) {
	status := apierr.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[ERROR] %s %s request_id=%s: %v", c.Request.Method, c.FullPath(), requestid.FromContext(c), err)
	}
	c.AbortWithStatusJSON(status, apierr.BodyFrom(err))
}

func atoiDef(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
