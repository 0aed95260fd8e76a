package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fatihashop/storefront/internal/handlers"
	"github.com/fatihashop/storefront/internal/hash"
	authmw "github.com/fatihashop/storefront/internal/middleware/auth"
	"github.com/fatihashop/storefront/internal/models"
	"github.com/fatihashop/storefront/internal/session"
	httpserver "github.com/fatihashop/storefront/internal/transport/http"
	"github.com/fatihashop/storefront/internal/view"
)

const testCookieName = "test_session"

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	DB        *gorm.DB
	Sessions  *session.Manager
	UploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	sessions := session.NewManager(redisClient, testCookieName, "test_secret", time.Hour, false, slog.Default())

	renderer, err := view.NewEngine()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer

	uploadDir := t.TempDir()
	validate := validator.New()
	deps := httpserver.Deps{
		Sessions:       sessions,
		Guard:          &authmw.Guard{DB: db},
		CatalogHandler: &handlers.CatalogHandler{DB: db, WhatsAppNumber: "212600000000"},
		AuthHandler:    &handlers.AuthHandler{DB: db, Validate: validate},
		AdminHandler:   &handlers.AdminHandler{DB: db, UploadDir: uploadDir, Validate: validate},
		MaxUploadSize:  "16M",
	}
	httpserver.Register(e, &deps)

	return &testEnv{T: t, E: e, DB: db, Sessions: sessions, UploadDir: uploadDir}
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return env.do(req)
}

func (env *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return env.do(req)
}

// postMultipart submits the product-create form; fileName == "" omits the
// image part entirely.
func (env *testEnv) postMultipart(path string, fields map[string]string, fileName string, fileContent []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(env.T, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("image", fileName)
		require.NoError(env.T, err)
		_, err = part.Write(fileContent)
		require.NoError(env.T, err)
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return env.do(req)
}

func (env *testEnv) createUser(username, password string, isAdmin bool) *models.User {
	env.T.Helper()
	passwordHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)
	user := models.User{Username: username, PasswordHash: passwordHash, IsAdmin: isAdmin}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return &user
}

func (env *testEnv) loginAdmin() *http.Cookie {
	env.T.Helper()
	env.createUser("admin", "admin123", true)
	rec := env.postForm("/admin/login", url.Values{
		"username": {"admin"},
		"password": {"admin123"},
	})
	require.Equal(env.T, http.StatusFound, rec.Code)
	require.Equal(env.T, "/admin/dashboard", rec.Header().Get(echo.HeaderLocation))
	return sessionCookie(env.T, rec)
}

// sessionFor builds a session cookie for an arbitrary user id without
// going through the login form.
func (env *testEnv) sessionFor(userID uint) *http.Cookie {
	env.T.Helper()
	sess, err := env.Sessions.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(env.T, err)
	sess.SetUserID(userID)
	rec := httptest.NewRecorder()
	require.NoError(env.T, env.Sessions.Commit(context.Background(), rec, sess))
	return sessionCookie(env.T, rec)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == testCookieName && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func (env *testEnv) addProduct(name, category string, inStock bool, createdAt time.Time) *models.Product {
	env.T.Helper()
	product := models.Product{
		Name:        name,
		Description: name + " description",
		Price:       10,
		Image:       models.DefaultImage,
		Category:    category,
		InStock:     inStock,
		CreatedAt:   createdAt,
	}
	require.NoError(env.T, env.DB.Create(&product).Error)
	return &product
}
