package auth

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/fatihashop/storefront/internal/models"
)

const userContextKey = "storefront.user"

func (g *Guard) loadUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := g.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func setUserContext(c echo.Context, user *models.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the user attached by AdminOnly, or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
