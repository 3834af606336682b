package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsByRoutePattern(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/products/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", Handler())

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/products/:id", "200"))
	for _, id := range []string{"a", "b", "c"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/products/"+id, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/products/:id", "200"))
	assert.Equal(t, 3.0, after-before)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "producthub_http_requests_total"))
}

func TestMiddleware_RecordsErrorStatus(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/product-detail/:id", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	})

	series := httpRequestsTotal.WithLabelValues(http.MethodGet, "/product-detail/:id", "404")
	before := testutil.ToFloat64(series)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/product-detail/x", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(series)-before)
}
