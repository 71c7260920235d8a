package handler

import (
	"Inkwell/internal/api/dto"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const echoSchema = `
schema { query: Query }
type Query {
  echo(text: String!): String!
  viewer: String!
}
`

type viewerKey struct{}

type echoResolver struct{}

func (echoResolver) Echo(args struct{ Text string }) string {
	return args.Text
}

func (echoResolver) Viewer(ctx context.Context) string {
	name, _ := ctx.Value(viewerKey{}).(string)
	return name
}

func newGraphQLRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewGraphQLHandler(graphql.MustParseSchema(echoSchema, &echoResolver{}))
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), viewerKey{}, "alice"))
	})
	r.GET("/graphql", h.Serve)
	r.POST("/graphql", h.Serve)
	return r
}

type graphQLResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func TestGraphQLHandler_Post(t *testing.T) {
	r := newGraphQLRouter()

	body, err := json.Marshal(map[string]interface{}{
		"query":     `query Echo($text: String!) { echo(text: $text) viewer }`,
		"variables": map[string]interface{}{"text": "hi"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp graphQLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "hi", resp.Data["echo"])
	assert.Equal(t, "alice", resp.Data["viewer"])
}

func TestGraphQLHandler_Get(t *testing.T) {
	r := newGraphQLRouter()

	params := url.Values{}
	params.Set("query", `query Echo($text: String!) { echo(text: $text) }`)
	params.Set("variables", `{"text":"from get"}`)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphql?"+params.Encode(), nil))

	var resp graphQLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "from get", resp.Data["echo"])
}

func TestGraphQLHandler_BadRequests(t *testing.T) {
	r := newGraphQLRouter()

	tests := []struct {
		name string
		req  *http.Request
	}{
		{name: "get without query", req: httptest.NewRequest(http.MethodGet, "/graphql", nil)},
		{name: "get with broken variables", req: httptest.NewRequest(http.MethodGet, "/graphql?query=%7Becho%7D&variables=%7B", nil)},
		{name: "post without body", req: httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader([]byte(`{}`)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, tt.req)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestGraphQLHandler_QueryErrors(t *testing.T) {
	r := newGraphQLRouter()

	body := []byte(`{"query":"{ missing }"}`)
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp graphQLResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "missing")
}
