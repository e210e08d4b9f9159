package http

import (
	"strconv"
	"time"

	"orders/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Instrumentation records request counts and latencies per route. The
// route template (not the raw path) is used as the label so ids do not
// explode the cardinality.
func Instrumentation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			method := c.Request().Method
			metrics.HTTPRequestDuration.WithLabelValues(route, method).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(route, method,
				strconv.Itoa(c.Response().Status)).Inc()

			return err
		}
	}
}
