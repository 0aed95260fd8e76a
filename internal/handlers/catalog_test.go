package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fatihashop/storefront/internal/models"
)

func TestOutOfStockValuePersists(t *testing.T) {
	env := newTestEnv(t)

	created := env.addProduct("warehouse-only", "misc", false, time.Now().UTC())

	var got models.Product
	require.NoError(t, env.DB.First(&got, created.ID).Error)
	require.False(t, got.InStock)
}

func TestHomeShowsNewestInStockOnly(t *testing.T) {
	env := newTestEnv(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		env.addProduct(fmt.Sprintf("instock-%d", i), "misc", true, base.Add(time.Duration(i)*time.Hour))
	}
	env.addProduct("sold-out-item", "misc", false, base.Add(24*time.Hour))

	rec := env.get("/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.NotContains(t, body, "sold-out-item")
	require.Equal(t, 8, strings.Count(body, `class="product-card"`))
	// newest first: the two oldest fall off the page
	require.Contains(t, body, "instock-9")
	require.NotContains(t, body, "instock-0")
	require.NotContains(t, body, "instock-1")
}

func TestShopCategoryFilterIsExact(t *testing.T) {
	env := newTestEnv(t)

	now := time.Now().UTC()
	env.addProduct("oak-table", "furniture", true, now)
	env.addProduct("pine-chair", "furniture", true, now.Add(time.Minute))
	env.addProduct("desk-lamp", "lighting", true, now.Add(2*time.Minute))
	env.addProduct("hidden-sofa", "furniture", false, now.Add(3*time.Minute))

	rec := env.get("/shop?category=furniture")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "oak-table")
	require.Contains(t, body, "pine-chair")
	require.NotContains(t, body, "desk-lamp")
	require.NotContains(t, body, "hidden-sofa")
}

func TestShopPageBeyondLastIsEmptyNotError(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct("lonely-item", "misc", true, time.Now().UTC())

	rec := env.get("/shop?page=99")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No products found")
	require.NotContains(t, rec.Body.String(), "lonely-item")
}

func TestShopPaginatesAtTwelve(t *testing.T) {
	env := newTestEnv(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		env.addProduct(fmt.Sprintf("bulk-%02d", i), "misc", true, base.Add(time.Duration(i)*time.Hour))
	}

	rec := env.get("/shop")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 12, strings.Count(rec.Body.String(), `class="product-card"`))

	rec = env.get("/shop?page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 3, strings.Count(rec.Body.String(), `class="product-card"`))
}

func TestProductDetailUnknownIDIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/product/9999")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.get("/product/not-a-number")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductDetailRelated(t *testing.T) {
	env := newTestEnv(t)

	now := time.Now().UTC()
	self := env.addProduct("main-armchair", "furniture", true, now)
	env.addProduct("side-table", "furniture", true, now.Add(time.Minute))
	env.addProduct("foot-stool", "furniture", true, now.Add(2*time.Minute))
	env.addProduct("floor-lamp", "lighting", true, now.Add(3*time.Minute))
	env.addProduct("broken-bench", "furniture", false, now.Add(4*time.Minute))

	rec := env.get(fmt.Sprintf("/product/%d", self.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "side-table")
	require.Contains(t, body, "foot-stool")
	require.NotContains(t, body, "floor-lamp")
	require.NotContains(t, body, "broken-bench")
	require.Contains(t, body, "wa.me/212600000000")
}

func TestProductDetailNoRelatedInLonelyCategory(t *testing.T) {
	env := newTestEnv(t)
	self := env.addProduct("one-of-a-kind", "art", true, time.Now().UTC())

	rec := env.get(fmt.Sprintf("/product/%d", self.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "Related Products")
}
