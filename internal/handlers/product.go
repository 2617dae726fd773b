package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avkuzmin/shopcart-backend/internal/events"
	"github.com/avkuzmin/shopcart-backend/internal/logging"
	"github.com/avkuzmin/shopcart-backend/internal/models"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

type productResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
}

func (h *ProductHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// nextID reserves the next catalog id with an explicit descending sort
// instead of trusting storage-native result order.
func (h *ProductHandler) nextID() (int, error) {
	var last models.Product
	if err := h.DB.Order("id DESC").First(&last).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 1, nil
		}
		return 0, err
	}
	return last.ID + 1, nil
}

func (h *ProductHandler) AddProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add_product")

	var req struct {
		Name     string  `json:"name"`
		Image    string  `json:"image"`
		Category string  `json:"category"`
		NewPrice float64 `json:"new_price"`
		OldPrice float64 `json:"old_price"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_product_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	id, err := h.nextID()
	if err != nil {
		l.Error("add_product_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	product := models.Product{
		ID:        id,
		Name:      req.Name,
		Image:     req.Image,
		Category:  req.Category,
		NewPrice:  req.NewPrice,
		OldPrice:  req.OldPrice,
		Available: true,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		l.Error("add_product_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, fmt.Sprint(product.ID), map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	l.Info("product_added", "status", 200, "product_id", product.ID)
	return c.JSON(http.StatusOK, productResponse{Success: true, Name: req.Name})
}

func (h *ProductHandler) RemoveProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove_product")

	var req struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("remove_product_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.DB.Where("id = ?", req.ID).Delete(&models.Product{}).Error; err != nil {
		l.Error("remove_product_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, fmt.Sprint(req.ID), map[string]any{
		"type":      "product_deleted",
		"productID": req.ID,
	})

	l.Info("product_removed", "status", 200, "product_id", req.ID)
	return c.JSON(http.StatusOK, productResponse{Success: true, Name: req.Name})
}

func (h *ProductHandler) AllProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "all_products")

	products := make([]models.Product, 0)
	if err := h.DB.Find(&products).Error; err != nil {
		l.Error("all_products_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("all_products_fetched", "status", 200, "count", len(products))
	return c.JSON(http.StatusOK, products)
}
