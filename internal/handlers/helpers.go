package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fatihashop/storefront/internal/session"
	"github.com/fatihashop/storefront/internal/view"
)

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// render wraps page data in the common template envelope, consuming any
// pending flash notices along the way.
func render(c echo.Context, code int, name, title string, data any) error {
	td := view.TemplateData{Title: title, Data: data}
	if sess := session.FromEcho(c); sess != nil {
		td.Flashes = sess.PopFlashes()
	}
	return c.Render(code, name, td)
}
