// Package auth guards the admin routes. Failures never mutate the session
// beyond attaching a flash notice; the wrapped handler is simply not run.
package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/fatihashop/storefront/internal/session"
)

// Guard holds the dependencies the route guards need.
type Guard struct {
	DB *gorm.DB
}

// RequireLogin redirects anonymous requests to the login form.
func (g *Guard) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := session.FromEcho(c)
		if _, ok := sess.UserID(); !ok {
			sess.AddFlash("error", "You must log in first")
			return c.Redirect(http.StatusFound, "/admin/login")
		}
		return next(c)
	}
}
