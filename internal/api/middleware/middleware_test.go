package middleware

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/security"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Rdb.Close() })
	return mr
}

// whoami 回显 gin 与 request context 中的用户
func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/whoami", func(c *gin.Context) {
		ctxID, _ := c.Request.Context().Value(consts.UserIDKey).(uint64)
		c.JSON(http.StatusOK, gin.H{
			"user":  c.GetUint64(consts.UserIDKey),
			"ctx":   ctxID,
			"token": c.GetString(consts.TokenKey),
		})
	})
	return r
}

func doGet(r http.Handler, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	mr := setupRedis(t)
	r := newRouter(AuthMiddleware())

	token, err := security.GenerateToken(7)
	require.NoError(t, err)
	signature, err := security.ExtractSignature(token)
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		w := doGet(r, "/whoami", "")
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("bearer header", func(t *testing.T) {
		w := doGet(r, "/whoami", "Bearer "+token)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(7), body["user"])
		assert.Equal(t, float64(7), body["ctx"])
		assert.Equal(t, token, body["token"])
	})

	t.Run("query param", func(t *testing.T) {
		w := doGet(r, "/whoami?token="+token, "")
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(7), body["user"])
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doGet(r, "/whoami", "Bearer not.a.jwt")
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Equal(t, "Invalid or expired token", resp.Message)
	})

	t.Run("revoked token", func(t *testing.T) {
		require.NoError(t, mr.Set(consts.TokenBlacklistKey+signature, "1"))
		mr.SetTTL(consts.TokenBlacklistKey+signature, time.Hour)
		defer mr.Del(consts.TokenBlacklistKey + signature)

		w := doGet(r, "/whoami", "Bearer "+token)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestAuthOptionalMiddleware(t *testing.T) {
	mr := setupRedis(t)
	r := newRouter(AuthOptionalMiddleware())

	token, err := security.GenerateToken(9)
	require.NoError(t, err)

	tests := []struct {
		name string
		auth string
		want float64
	}{
		{name: "anonymous", auth: "", want: 0},
		{name: "invalid token", auth: "Bearer broken", want: 0},
		{name: "valid token", auth: "Bearer " + token, want: 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(r, "/whoami", tt.auth)
			assert.Equal(t, http.StatusOK, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["user"])
		})
	}

	signature, err := security.ExtractSignature(token)
	require.NoError(t, err)
	require.NoError(t, mr.Set(consts.TokenBlacklistKey+signature, "1"))

	w := doGet(r, "/whoami", "Bearer "+token)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["user"])
}

func TestTraceMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/trace", func(c *gin.Context) {
		c.String(http.StatusOK, logger.TraceID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set("X-Trace-ID", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get("X-Trace-ID"))

	req = httptest.NewRequest(http.MethodGet, "/trace", nil)
	req.Header.Set("X-Request-ID", "upstream")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "upstream", w.Body.String())

	w = doGet(r, "/trace", "")
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://inkwell.dev"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name    string
		method  string
		origin  string
		status  int
		allowed string
	}{
		{name: "allowed origin", method: http.MethodGet, origin: "https://inkwell.dev", status: http.StatusOK, allowed: "https://inkwell.dev"},
		{name: "other origin", method: http.MethodGet, origin: "https://evil.example", status: http.StatusOK},
		{name: "preflight", method: http.MethodOptions, origin: "https://inkwell.dev", status: http.StatusNoContent, allowed: "https://inkwell.dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ping", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.allowed, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestMaskPassword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			in:   `{"variables":{"email":"a@b.c","password":"hunter22"}}`,
			want: `{"variables":{"email":"a@b.c","password":"***"}}`,
		},
		{
			in:   `{"query":"mutation { login(email: \"a@b.c\", password: \"hunter22\") { token } }"}`,
			want: `{"query":"mutation { login(email: \"a@b.c\", password: \"***\") { token } }"}`,
		},
		{
			in:   `query=mutation{login(password: "hunter22")}`,
			want: `query=mutation{login(password: "***")}`,
		},
		{
			in:   `{"query":"{ hello }"}`,
			want: `{"query":"{ hello }"}`,
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, maskPassword([]byte(tt.in)))
	}
}

func TestMaskQuery(t *testing.T) {
	assert.Equal(t, "token=***", maskQuery("token=eyJhbGciOi.abc.def"))
	assert.Equal(t, "", maskQuery("%zz"))

	masked := maskQuery(url.Values{"query": {`mutation { login(email: "a@b.c", password: "hunter2") { token } }`}}.Encode())
	assert.NotContains(t, masked, "hunter2")
	assert.Contains(t, masked, `password: "***"`)
}
