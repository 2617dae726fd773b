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
	"github.com/avkuzmin/shopcart-backend/internal/hash"
	"github.com/avkuzmin/shopcart-backend/internal/logging"
	"github.com/avkuzmin/shopcart-backend/internal/models"
	"github.com/avkuzmin/shopcart-backend/internal/token"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	Producer  *events.Producer
}

type authData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type authResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    *authData `json:"data"`
}

func authError(c echo.Context, code int, message string) error {
	return c.JSON(code, authResponse{Success: false, Message: message, Data: nil})
}

func (h *AuthHandler) publish(c echo.Context, userID uint, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(userID), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "signup")

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_failed", "status", 400, "error", err)
		return authError(c, http.StatusBadRequest, "invalid body")
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("signup_failed", "status", 500, "reason", "db_error", "error", err)
			return authError(c, http.StatusInternalServerError, "Internal server error")
		}
	} else {
		l.Warn("signup_failed", "status", 400, "reason", "email_taken")
		return authError(c, http.StatusBadRequest, "User already exists with that email")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return authError(c, http.StatusInternalServerError, "Internal server error")
	}

	user := models.User{
		Name:         req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
		CartData:     models.NewCart(),
	}
	if err := h.DB.Create(&user).Error; err != nil {
		l.Error("signup_failed", "status", 500, "reason", "db_error", "error", err)
		return authError(c, http.StatusInternalServerError, "Internal server error")
	}

	signed, err := token.Issue(h.JWTSecret, user.ID)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot create token", "error", err)
		return authError(c, http.StatusInternalServerError, "Internal server error")
	}

	h.publish(c, user.ID, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	l.Info("signup_success", "status", 200, "user_id", user.ID)
	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "User saved successfully",
		Data:    &authData{Name: user.Name, Email: user.Email, Token: signed},
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "error", err)
		return authError(c, http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 404, "reason", "unknown_email")
			return authError(c, http.StatusNotFound, "User not found")
		}
		l.Error("login_failed", "status", 500, "reason", "db_error", "error", err)
		return authError(c, http.StatusInternalServerError, "Internal server error")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "reason", "invalid_password")
		return authError(c, http.StatusUnauthorized, "Invalid password")
	}

	signed, err := token.Issue(h.JWTSecret, user.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot create token", "error", err)
		return authError(c, http.StatusInternalServerError, "Internal server error")
	}

	h.publish(c, user.ID, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	l.Info("login_success", "status", 200, "user_id", user.ID)
	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "User logged in successfully",
		Data:    &authData{Name: user.Name, Email: user.Email, Token: signed},
	})
}
