package middleware

import (
	"animeRecommendator/pkg/trace"

	"github.com/labstack/echo/v4"
)

// TraceMiddleware attaches a request-scoped trace ID, honoring an inbound
// X-Trace-Id header when the caller supplies one.
func TraceMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			traceID := c.Request().Header.Get("X-Trace-Id")
			if traceID == "" {
				traceID = trace.NewID()
			}

			ctx := trace.WithTraceID(c.Request().Context(), traceID)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set("X-Trace-Id", traceID)

			return next(c)
		}
	}
}
