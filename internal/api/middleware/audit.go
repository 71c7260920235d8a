package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if r.body.Len() < 16384 {
		r.body.Write(b)
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseBodyWriter) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// passwordPattern 匹配 JSON 字段与 GraphQL 内联参数中的密码
var passwordPattern = regexp.MustCompile(`(?i)(\\?"?password\\?"?\s*:\s*\\?")((?:[^"\\]|\\[^"])*)(\\?")`)

// maskPassword 审计日志中不记录明文密码
func maskPassword(body []byte) string {
	return passwordPattern.ReplaceAllString(string(body), "${1}***${3}")
}

// maskQuery 隐藏 ws 连接携带的 token，并对 GraphQL GET 参数做密码脱敏
func maskQuery(rawQuery string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	if values.Has("token") {
		values.Set("token", "***")
	}
	decoded, err := url.QueryUnescape(values.Encode())
	if err != nil {
		return ""
	}
	return maskPassword([]byte(decoded))
}

func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(reqBody))
		}

		log.InfoContext(ctx, "Recv Request",
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.String("query", maskQuery(c.Request.URL.RawQuery)),
			log.String("req_body", maskPassword(reqBody)),
		)

		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		startTime := time.Now()

		c.Next()

		log.InfoContext(ctx, "Send Response",
			log.Int("status", c.Writer.Status()),
			log.Duration("latency", time.Since(startTime)),
			log.String("res_body", w.body.String()),
		)
	}
}
