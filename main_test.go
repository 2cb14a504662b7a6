package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/platform/auth"
	"library-api/internal/platform/db"
	"library-api/internal/platform/db/dbtest"
	"library-api/internal/platform/requestid"
)

func testConfig(t *testing.T, yaml string) *db.Config {
	t.Helper()
	cfg, err := db.ParseConfig([]byte(yaml))
	require.NoError(t, err)
	return cfg
}

func call(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func Test_Router_LendingFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testConfig(t, "mode: release\ndatabase: {driver: sqlite3}\n"), dbtest.New(t))

	w := call(r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestid.Header))

	w = call(r, http.MethodPost, "/api/books", "", `{"title":"Arthur","author":"Dom","isbn":"001"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/api/books/"))

	w = call(r, http.MethodPost, "/api/loans", "", `{"isbn":"001","customer":"Fulano"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	loanID, err := strconv.ParseInt(w.Body.String(), 10, 64)
	require.NoError(t, err)

	w = call(r, http.MethodPost, "/api/loans", "", `{"isbn":"001","customer":"Beltrano"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"errors":["Book already loaned"]}`, w.Body.String())

	w = call(r, http.MethodPatch, "/api/loans/"+strconv.FormatInt(loanID, 10), "", `{"returned":true}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodPost, "/api/loans", "", `{"isbn":"001","customer":"Beltrano"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = call(r, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"errors":["route not found"]}`, w.Body.String())
}

func Test_Router_AuthEnabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conn := dbtest.New(t)
	cfg := testConfig(t, "mode: release\ndatabase: {driver: sqlite3}\nauth: {enabled: true, jwt_secret: s3cret}\n")
	require.NoError(t, auth.NewService(conn, cfg.Auth).Register(context.Background(), "lib", "pw", auth.RoleLibrarian))
	r := newRouter(cfg, conn)

	w := call(r, http.MethodPost, "/api/books", "", `{"title":"a","author":"b","isbn":"1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(r, http.MethodGet, "/api/books", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodPost, "/api/auth/login", "", `{"id":"lib","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login auth.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = call(r, http.MethodPost, "/api/books", login.Token, `{"title":"a","author":"b","isbn":"1"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = call(r, http.MethodPost, "/api/auth/accounts", login.Token, `{"id":"x","password":"pw"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func Test_Router_Swagger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(testConfig(t, "database: {driver: sqlite3}\n"), dbtest.New(t))

	w := call(r, http.MethodGet, "/swagger/doc.json", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/loans/{id}"`)
}

func Test_ServerCmd_Flags(t *testing.T) {
	cmd := newServerCmd()
	f := cmd.Flags().Lookup("config")
	require.NotNil(t, f)
	assert.Equal(t, "config/config.yaml", f.DefValue)

	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, cmd.Execute())
}

func Test_ServerCmd_ShutsDownOnCancel(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "library.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := fmt.Sprintf("mode: release\nserver:\n  addr: 127.0.0.1:0\ndatabase:\n  driver: sqlite3\n  path: %s\n", dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		cmd := newServerCmd()
		cmd.SetArgs([]string{"--config", cfgPath})
		done <- cmd.ExecuteContext(ctx)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.FileExists(t, dbPath)
}
