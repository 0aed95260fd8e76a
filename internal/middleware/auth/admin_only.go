package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fatihashop/storefront/internal/session"
)

// AdminOnly is the full guard for admin routes: a login check followed by
// a role check against the user row. Non-admin accounts are sent back to
// the home page, not to the login form.
func (g *Guard) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := session.FromEcho(c)
		userID, ok := sess.UserID()
		if !ok {
			sess.AddFlash("error", "You must log in first")
			return c.Redirect(http.StatusFound, "/admin/login")
		}

		user, err := g.loadUser(c.Request().Context(), userID)
		if err != nil || !user.IsAdmin {
			sess.AddFlash("error", "You do not have permission to access this page")
			return c.Redirect(http.StatusFound, "/")
		}

		setUserContext(c, user)
		return next(c)
	}
}
