package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/matricula-admin/internal/service"
)

func TestMetricsMiddlewareLabelsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()

	r := gin.New()
	r.Use(Metrics(metrics, "/static/"))
	r.GET("/listado/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/static/app.js", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/listado/a", "/listado/b", "/static/app.js", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)

	var body strings.Builder
	for _, mf := range families {
		body.WriteString(mf.String())
	}
	dump := body.String()
	assert.Contains(t, dump, "/listado/:id")
	assert.Contains(t, dump, unmatchedRoute)
	assert.NotContains(t, dump, "/static/app.js")
	assert.NotContains(t, dump, "/listado/a")
}

func TestMetricsMiddlewareWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
