package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/fatihashop/storefront/internal/models"
	"github.com/fatihashop/storefront/internal/util"
)

const (
	homePageSize = 8
	shopPageSize = 12
	relatedLimit = 4
)

// CatalogHandler serves the public, read-only side of the store. Listings
// only ever show in-stock products.
type CatalogHandler struct {
	DB             *gorm.DB
	WhatsAppNumber string
}

func (h *CatalogHandler) Home(c echo.Context) error {
	var products []models.Product
	err := h.DB.WithContext(c.Request().Context()).
		Where("in_stock = ?", true).
		Order("created_at DESC").
		Limit(homePageSize).
		Find(&products).Error
	if err != nil {
		return err
	}

	return render(c, http.StatusOK, "index.html", "Home", map[string]any{
		"Products": products,
	})
}

func (h *CatalogHandler) Shop(c echo.Context) error {
	category := c.QueryParam("category")
	page := parseIntDefault(c.QueryParam("page"), 1)

	// fresh chain per query; gorm chains must not be reused after Count
	listed := func() *gorm.DB {
		q := h.DB.WithContext(c.Request().Context()).
			Model(&models.Product{}).
			Where("in_stock = ?", true)
		if category != "" {
			q = q.Where("category = ?", category)
		}
		return q
	}

	var total int64
	if err := listed().Count(&total).Error; err != nil {
		return err
	}

	offset, limit := util.Calculate(page, shopPageSize)
	var products []models.Product
	if err := listed().Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return err
	}

	pages := util.NewPages(page, shopPageSize, total)
	return render(c, http.StatusOK, "shop.html", "Shop", map[string]any{
		"Products": products,
		"Category": category,
		"Pages":    pages,
		"PrevPage": pages.Page - 1,
		"NextPage": pages.Page + 1,
	})
}

func (h *CatalogHandler) ProductDetail(c echo.Context) error {
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

	var related []models.Product
	err = h.DB.WithContext(ctx).
		Where("category = ? AND id <> ? AND in_stock = ?", product.Category, product.ID, true).
		Limit(relatedLimit).
		Find(&related).Error
	if err != nil {
		return err
	}

	return render(c, http.StatusOK, "product.html", product.Name, map[string]any{
		"Product":     product,
		"Related":     related,
		"WhatsAppURL": h.whatsAppURL(&product),
	})
}

// whatsAppURL builds the wa.me inquiry deep link for a product, or returns
// an empty string when no store number is configured.
func (h *CatalogHandler) whatsAppURL(p *models.Product) string {
	if h.WhatsAppNumber == "" {
		return ""
	}
	text := fmt.Sprintf("Hello, I would like to order: %s (%.2f)", p.Name, p.Price)
	return fmt.Sprintf("https://wa.me/%s?text=%s", h.WhatsAppNumber, url.QueryEscape(text))
}
