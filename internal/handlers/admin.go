package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/fatihashop/storefront/internal/models"
	"github.com/fatihashop/storefront/internal/mykafka"
	"github.com/fatihashop/storefront/internal/service/search"
	"github.com/fatihashop/storefront/internal/session"
	"github.com/fatihashop/storefront/internal/upload"
	"github.com/fatihashop/storefront/internal/util"
)

const adminPageSize = 10

// AdminHandler owns the authenticated product-management surface.
// Producer and Search are optional; a nil value disables that integration.
type AdminHandler struct {
	DB        *gorm.DB
	Producer  *mykafka.Producer
	Search    *search.Service
	UploadDir string
	Validate  *validator.Validate
}

type productForm struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	Price       string `validate:"required"`
	OldPrice    string
	Category    string `validate:"required"`
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	var count int64
	if err := h.DB.WithContext(c.Request().Context()).Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	return render(c, http.StatusOK, "admin_dashboard.html", "Dashboard", map[string]any{
		"ProductCount": count,
	})
}

// Products lists every product, in stock or not.
func (h *AdminHandler) Products(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)

	ctx := c.Request().Context()
	var total int64
	if err := h.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return err
	}

	offset, limit := util.Calculate(page, adminPageSize)
	var products []models.Product
	err := h.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return err
	}

	pages := util.NewPages(page, adminPageSize, total)
	return render(c, http.StatusOK, "admin_products.html", "Products", map[string]any{
		"Products": products,
		"Pages":    pages,
		"PrevPage": pages.Page - 1,
		"NextPage": pages.Page + 1,
	})
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	form := productForm{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		OldPrice:    c.FormValue("old_price"),
		Category:    c.FormValue("category"),
	}
	if err := h.Validate.Struct(form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing required product fields")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(form.Price), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "price must be a number")
	}

	var oldPrice *float64
	if raw := strings.TrimSpace(form.OldPrice); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "old price must be a number")
		}
		oldPrice = &v
	}

	imageName := models.DefaultImage
	if fh, err := c.FormFile("image"); err == nil && fh.Filename != "" {
		name, err := upload.Save(fh, h.UploadDir)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "could not store image").SetInternal(err)
		}
		imageName = name
	}

	product := models.Product{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		OldPrice:    oldPrice,
		Image:       imageName,
		Category:    form.Category,
		InStock:     true,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&product).Error; err != nil {
		return err
	}

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})
	h.index(c, &product)

	session.FromEcho(c).AddFlash("success", "Product added successfully")
	return c.Redirect(http.StatusFound, "/admin/products")
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	ctx := c.Request().Context()
	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return err
	}

	if product.Image != models.DefaultImage {
		if err := upload.Remove(h.UploadDir, product.Image); err != nil {
			return err
		}
	}

	if err := h.DB.WithContext(ctx).Delete(&models.Product{}, product.ID).Error; err != nil {
		return err
	}

	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": product.ID,
	})
	h.deindex(c, product.ID)

	session.FromEcho(c).AddFlash("success", "Product deleted successfully")
	return c.Redirect(http.StatusFound, "/admin/products")
}

func (h *AdminHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AdminHandler) index(c echo.Context, p *models.Product) {
	if h.Search == nil {
		return
	}
	if err := h.Search.IndexProduct(c.Request().Context(), p); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *AdminHandler) deindex(c echo.Context, id uint) {
	if h.Search == nil {
		return
	}
	if err := h.Search.DeleteProduct(c.Request().Context(), id); err != nil {
		c.Logger().Errorf("ES delete error: %v", err)
	}
}
