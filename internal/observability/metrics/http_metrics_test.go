package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := NewHTTPMetricsWithRegisterer(reg, Config{ServiceName: "biztime-test"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/companies/:code", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, code := range []string{"apple", "ibm"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/companies/"+code, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	count := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/companies/:code", "200"))
	assert.Equal(t, 2.0, count)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestNewHTTPMetricsRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewHTTPMetricsWithRegisterer(reg, Config{})
	require.NoError(t, err)

	_, err = NewHTTPMetricsWithRegisterer(reg, Config{})
	assert.Error(t, err)
}
