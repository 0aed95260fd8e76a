package session

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

const contextKey = "storefront.session"

// Middleware loads the request session into the echo context and commits
// it right before the first response write, so Set-Cookie headers land
// ahead of any redirect or rendered body.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := m.Load(c.Request().Context(), c.Request())
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session store unavailable").SetInternal(err)
			}
			c.Set(contextKey, sess)

			c.Response().Before(func() {
				if err := m.Commit(c.Request().Context(), c.Response(), sess); err != nil {
					m.logger.Error("session commit", slog.Any("error", err))
				}
			})

			return next(c)
		}
	}
}

// FromEcho returns the session attached by Middleware, or nil.
func FromEcho(c echo.Context) *Session {
	sess, _ := c.Get(contextKey).(*Session)
	return sess
}
