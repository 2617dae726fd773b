package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avkuzmin/shopcart-backend/internal/models"
)

func addProduct(t *testing.T, h *ProductHandler, name string) productResponse {
	t.Helper()

	c, rec := newJSONContext(t, http.MethodPost, "/addproduct", map[string]any{
		"name":      name,
		"image":     "http://localhost:4000/images/" + name + ".png",
		"category":  "women",
		"new_price": 49.99,
		"old_price": 79.99,
	})
	require.NoError(t, h.AddProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAddProductAssignsSequentialIDs(t *testing.T) {
	db := initTestDB(t)
	h := &ProductHandler{DB: db}

	resp := addProduct(t, h, "first")
	require.True(t, resp.Success)
	require.Equal(t, "first", resp.Name)

	var first models.Product
	require.NoError(t, db.Where("name = ?", "first").First(&first).Error)
	require.Equal(t, 1, first.ID)
	require.True(t, first.Available)

	addProduct(t, h, "second")

	var second models.Product
	require.NoError(t, db.Where("name = ?", "second").First(&second).Error)
	require.Equal(t, 2, second.ID)
}

func TestAddProductAfterRemovalContinuesFromMax(t *testing.T) {
	db := initTestDB(t)
	h := &ProductHandler{DB: db}

	addProduct(t, h, "first")
	addProduct(t, h, "second")

	c, rec := newJSONContext(t, http.MethodPost, "/removeproduct", map[string]any{"id": 1})
	require.NoError(t, h.RemoveProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	addProduct(t, h, "third")

	var third models.Product
	require.NoError(t, db.Where("name = ?", "third").First(&third).Error)
	require.Equal(t, 3, third.ID)
}

func TestRemoveProductDeletesOnlyMatch(t *testing.T) {
	db := initTestDB(t)
	h := &ProductHandler{DB: db}

	addProduct(t, h, "keep")
	addProduct(t, h, "drop")

	c, rec := newJSONContext(t, http.MethodPost, "/removeproduct", map[string]any{
		"id":   2,
		"name": "drop",
	})
	require.NoError(t, h.RemoveProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "drop", resp.Name)

	var remaining []models.Product
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, "keep", remaining[0].Name)
}

func TestAllProducts(t *testing.T) {
	db := initTestDB(t)
	h := &ProductHandler{DB: db}

	c, rec := newJSONContext(t, http.MethodGet, "/allproducts", nil)
	require.NoError(t, h.AllProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())

	addProduct(t, h, "first")
	addProduct(t, h, "second")

	c2, rec2 := newJSONContext(t, http.MethodGet, "/allproducts", nil)
	require.NoError(t, h.AllProducts(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &products))
	require.Len(t, products, 2)
}
