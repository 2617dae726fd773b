package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avkuzmin/shopcart-backend/internal/logging"
)

type UploadHandler struct {
	Dir       string
	PublicURL string
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"image_url"`
}

// Upload stores a single multipart image under a generated unique name and
// returns the URL it will be served from.
func (h *UploadHandler) Upload(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "upload")

	file, err := c.FormFile("product")
	if err != nil {
		l.Warn("upload_failed", "status", 400, "reason", "missing_file", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "missing file field 'product'")
	}

	src, err := file.Open()
	if err != nil {
		l.Error("upload_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	defer src.Close()

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		l.Error("upload_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	name := fmt.Sprintf("product_%d%s", time.Now().UnixMilli(), filepath.Ext(file.Filename))
	dst, err := os.Create(filepath.Join(h.Dir, name))
	if err != nil {
		l.Error("upload_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		l.Error("upload_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("upload_success", "status", 200, "file", name)
	return c.JSON(http.StatusOK, uploadResponse{
		Success:  true,
		ImageURL: h.PublicURL + "/images/" + name,
	})
}
