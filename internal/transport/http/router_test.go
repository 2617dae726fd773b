package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avkuzmin/shopcart-backend/internal/handlers"
	"github.com/avkuzmin/shopcart-backend/internal/models"
	"github.com/avkuzmin/shopcart-backend/internal/token"
)

var testSecret = []byte("test_secret")

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))

	e := echo.New()
	Register(e, &Deps{
		DB:             db,
		JWTSecret:      testSecret,
		UploadDir:      t.TempDir(),
		AuthHandler:    &handlers.AuthHandler{DB: db, JWTSecret: testSecret},
		ProductHandler: &handlers.ProductHandler{DB: db},
		CartHandler:    &handlers.CartHandler{DB: db},
		UploadHandler:  &handlers.UploadHandler{Dir: t.TempDir(), PublicURL: "http://localhost:4000"},
	})
	return e
}

func doJSON(e *echo.Echo, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		reader = bytes.NewReader(bodyBytes)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	e := newTestServer(t)

	require.Equal(t, http.StatusOK, doJSON(e, http.MethodGet, "/health/live", nil, nil).Code)
	require.Equal(t, http.StatusOK, doJSON(e, http.MethodGet, "/health/ready", nil, nil).Code)
}

func TestRootStatusLine(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "running")
}

func TestCartRoutesRequireToken(t *testing.T) {
	e := newTestServer(t)

	for _, path := range []string{"/addToCart", "/removeFromCart", "/clearFromCart", "/getCartdata"} {
		rec := doJSON(e, http.MethodPost, path, map[string]any{"itemId": 1}, nil)
		require.Equalf(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}

func TestSignupThenCartFlow(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/signup", map[string]string{
		"username": "a",
		"email":    "a@x.com",
		"password": "p",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var signup struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))
	require.True(t, signup.Success)
	require.NotEmpty(t, signup.Data.Token)

	header := http.Header{}
	header.Set(token.HeaderName, signup.Data.Token)

	rec = doJSON(e, http.MethodPost, "/addToCart", map[string]any{"itemId": 4}, header)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/getCartdata", nil, header)
	require.Equal(t, http.StatusOK, rec.Code)

	var cart models.CartData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cart))
	require.Equal(t, 1, cart["4"])
}
