package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pitwall/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_LabelsSurviveMixedMethods(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.Metrics())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/items/:id", ok)
	app.Put("/items/:id", ok)
	app.Delete("/items/:id", ok)

	for i := 0; i < 20; i++ {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			resp, err := app.Test(httptest.NewRequest(method, "/items/1", nil), -1)
			require.NoError(t, err)
			resp.Body.Close()
		}
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		series := `pitwall_http_requests_total{method="` + method + `",route="/items/:id",status="200"} 20`
		assert.True(t, strings.Contains(string(body), series), "missing %s", series)
	}
}
