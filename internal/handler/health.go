package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency probed by the health check.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports liveness and, when deps are given, their reachability.
// Any unreachable dependency turns the status into 503.
func Health(deps map[string]Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, d := range deps {
			if err := d.PingContext(ctx); err != nil {
				checks[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		body := echo.Map{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(checks) > 0 {
			body["checks"] = checks
		}
		return c.JSON(status, body)
	}
}
