package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/varshinivarma16/booksbackend/internal/resource/repository"
)

func TestSwaggerEndpoints(t *testing.T) {
	g := gin.New()
	RegisterSwagger(g)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "swagger-ui")

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Equal(t, "3.0.0", doc.OpenAPI)
	require.Contains(t, doc.Paths, "/api/login/login")
	require.Contains(t, doc.Paths, "/api/fitness/bmi")
}

// Every documented /api path must be a mounted route.
func TestSwaggerPathsAreRouted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterVerticals(g, Verticals{Backend: repository.NewMemoryBackend()})
	g.POST("/api/login/login", func(*gin.Context) {})
	g.POST("/api/login/refresh-token", func(*gin.Context) {})
	g.POST("/api/login/logout", func(*gin.Context) {})

	routed := map[string]bool{}
	param := regexp.MustCompile(`:(\w+)`)
	for _, rt := range g.Routes() {
		routed[rt.Method+" "+param.ReplaceAllString(rt.Path, "{$1}")] = true
	}

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(swaggerJSON), &doc))
	for path, ops := range doc.Paths {
		if !strings.HasPrefix(path, "/api/") {
			continue
		}
		for method := range ops {
			key := map[string]string{"get": "GET", "post": "POST"}[method] + " " + path
			require.True(t, routed[key], "documented route %s is not mounted", key)
		}
	}
}
