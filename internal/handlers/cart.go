package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avkuzmin/shopcart-backend/internal/events"
	"github.com/avkuzmin/shopcart-backend/internal/logging"
	"github.com/avkuzmin/shopcart-backend/internal/models"
	"github.com/avkuzmin/shopcart-backend/internal/token"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

type cartResponse struct {
	Message string `json:"message"`
}

func (h *CartHandler) publish(c echo.Context, userID uint, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(userID), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *CartHandler) loadUser(c echo.Context) (*models.User, error) {
	userID, err := token.UserID(c)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if user.CartData == nil {
		user.CartData = models.NewCart()
	}
	return &user, nil
}

func (h *CartHandler) bindItemID(c echo.Context) (string, error) {
	var req struct {
		ItemID int `json:"itemId"`
	}
	if err := c.Bind(&req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return strconv.Itoa(req.ItemID), nil
}

func (h *CartHandler) saveCart(user *models.User) error {
	return h.DB.Model(user).Update("cart_data", user.CartData).Error
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "add_to_cart")

	user, err := h.loadUser(c)
	if err != nil {
		return err
	}
	key, err := h.bindItemID(c)
	if err != nil {
		return err
	}

	user.CartData[key]++
	if err := h.saveCart(user); err != nil {
		l.Error("add_to_cart_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, user.ID, map[string]any{
		"type":     "cart_item_added",
		"userID":   user.ID,
		"itemID":   key,
		"quantity": user.CartData[key],
	})

	l.Info("cart_item_added", "status", 200, "user_id", user.ID, "item_id", key)
	return c.JSON(http.StatusOK, cartResponse{Message: "Added"})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "remove_from_cart")

	user, err := h.loadUser(c)
	if err != nil {
		return err
	}
	key, err := h.bindItemID(c)
	if err != nil {
		return err
	}

	// Quantity never drops below zero; removal from an empty slot is an
	// explicit no-op rather than a hung request.
	if user.CartData[key] > 0 {
		user.CartData[key]--
		if err := h.saveCart(user); err != nil {
			l.Error("remove_from_cart_failed", "status", 500, "reason", "db_error", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		h.publish(c, user.ID, map[string]any{
			"type":     "cart_item_removed",
			"userID":   user.ID,
			"itemID":   key,
			"quantity": user.CartData[key],
		})
	}

	l.Info("cart_item_removed", "status", 200, "user_id", user.ID, "item_id", key)
	return c.JSON(http.StatusOK, cartResponse{Message: "Removed"})
}

func (h *CartHandler) ClearFromCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "clear_from_cart")

	user, err := h.loadUser(c)
	if err != nil {
		return err
	}
	key, err := h.bindItemID(c)
	if err != nil {
		return err
	}

	user.CartData[key] = 0
	if err := h.saveCart(user); err != nil {
		l.Error("clear_from_cart_failed", "status", 500, "reason", "db_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	h.publish(c, user.ID, map[string]any{
		"type":   "cart_item_cleared",
		"userID": user.ID,
		"itemID": key,
	})

	l.Info("cart_item_cleared", "status", 200, "user_id", user.ID, "item_id", key)
	return c.JSON(http.StatusOK, cartResponse{Message: "Cleared"})
}

func (h *CartHandler) GetCart(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "get_cart")

	user, err := h.loadUser(c)
	if err != nil {
		return err
	}

	l.Info("cart_fetched", "status", 200, "user_id", user.ID)
	return c.JSON(http.StatusOK, user.CartData)
}
