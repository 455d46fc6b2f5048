package middleware

import (
	"time"

	"user-api/internal/logging"

	"github.com/labstack/echo/v4"
)

// RequestLogger 每個 request 結束後記錄一筆結構化 log
// 需放在 echo middleware.RequestID 之後才會帶 request_id
func RequestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			args := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"status", res.Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", res.Header().Get(echo.HeaderXRequestID),
			}

			ctx := req.Context()
			switch {
			case res.Status >= 500:
				logger.Error(ctx, "request", args...)
			case res.Status >= 400:
				logger.Warn(ctx, "request", args...)
			default:
				logger.Info(ctx, "request", args...)
			}
			return nil
		}
	}
}
