package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/fatihashop/storefront/internal/hash"
	"github.com/fatihashop/storefront/internal/models"
	"github.com/fatihashop/storefront/internal/mykafka"
	"github.com/fatihashop/storefront/internal/session"
)

// invalidCredentials is the single notice every login failure produces, so
// a caller cannot tell an unknown username from a wrong password or a
// non-admin account.
const invalidCredentials = "Invalid username or password"

type AuthHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Validate *validator.Validate
}

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

func (h *AuthHandler) LoginForm(c echo.Context) error {
	return render(c, http.StatusOK, "admin_login.html", "Admin Login", map[string]any{
		"Username": "",
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	form := loginForm{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}
	sess := session.FromEcho(c)

	fail := func() error {
		sess.AddFlash("error", invalidCredentials)
		return render(c, http.StatusOK, "admin_login.html", "Admin Login", map[string]any{
			"Username": form.Username,
		})
	}

	if err := h.Validate.Struct(form); err != nil {
		return fail()
	}

	var user models.User
	if err := h.DB.WithContext(c.Request().Context()).
		Where("username = ?", form.Username).
		First(&user).Error; err != nil {
		return fail()
	}
	if !hash.CheckPassword(user.PasswordHash, form.Password) {
		return fail()
	}
	if !user.IsAdmin {
		return fail()
	}

	sess.SetUserID(user.ID)
	sess.AddFlash("success", "Logged in successfully")

	h.publish(c, map[string]any{
		"type":     "admin_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	return c.Redirect(http.StatusFound, "/admin/dashboard")
}

// Logout drops the user id unconditionally; logging out twice is fine.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess := session.FromEcho(c)
	sess.ClearUserID()
	sess.AddFlash("success", "Logged out successfully")
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
