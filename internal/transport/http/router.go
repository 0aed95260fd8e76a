package httpserver

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fatihashop/storefront/internal/handlers"
	authmw "github.com/fatihashop/storefront/internal/middleware/auth"
	"github.com/fatihashop/storefront/internal/session"
)

type Deps struct {
	Sessions       *session.Manager
	Guard          *authmw.Guard
	CatalogHandler *handlers.CatalogHandler
	AuthHandler    *handlers.AuthHandler
	AdminHandler   *handlers.AdminHandler
	SearchHandler  *handlers.SearchHandler
	MaxUploadSize  string
	StaticDir      string
}

func Register(e *echo.Echo, d *Deps) {
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.BodyLimit(d.MaxUploadSize),
		d.Sessions.Middleware(),
	)

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	if d.StaticDir != "" {
		e.Static("/static", d.StaticDir)
	}

	e.GET("/", d.CatalogHandler.Home)
	e.GET("/shop", d.CatalogHandler.Shop)
	e.GET("/product/:id", d.CatalogHandler.ProductDetail)

	if d.SearchHandler != nil {
		e.GET("/search", d.SearchHandler.Handler)
	}

	e.GET("/admin/login", d.AuthHandler.LoginForm)
	e.POST("/admin/login", d.AuthHandler.Login)
	e.GET("/admin/logout", d.AuthHandler.Logout)

	admin := e.Group("/admin", d.Guard.AdminOnly)
	admin.GET("/dashboard", d.AdminHandler.Dashboard)
	admin.GET("/products", d.AdminHandler.Products)
	admin.POST("/products", d.AdminHandler.CreateProduct)
	admin.POST("/products/delete/:id", d.AdminHandler.DeleteProduct)
}
