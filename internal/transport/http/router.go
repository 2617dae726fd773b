package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avkuzmin/shopcart-backend/internal/handlers"
	"github.com/avkuzmin/shopcart-backend/internal/token"
)

type Deps struct {
	DB             *gorm.DB
	JWTSecret      []byte
	UploadDir      string
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
	UploadHandler  *handlers.UploadHandler
	SearchHandler  *handlers.SearchHandler
}

// Register wires the storefront HTTP surface. Paths mirror the public client
// contract, so they stay flat rather than versioned.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Shopcart API is running")
	})

	e.POST("/upload", d.UploadHandler.Upload)
	e.Static("/images", d.UploadDir)

	e.POST("/addproduct", d.ProductHandler.AddProduct)
	e.POST("/removeproduct", d.ProductHandler.RemoveProduct)
	e.GET("/allproducts", d.ProductHandler.AllProducts)

	e.POST("/signup", d.AuthHandler.Signup)
	e.POST("/login", d.AuthHandler.Login)

	if d.SearchHandler != nil {
		e.GET("/search", d.SearchHandler.Search)
	}

	cart := e.Group("", token.Middleware(d.JWTSecret))
	cart.POST("/addToCart", d.CartHandler.AddToCart)
	cart.POST("/removeFromCart", d.CartHandler.RemoveFromCart)
	cart.POST("/clearFromCart", d.CartHandler.ClearFromCart)
	cart.POST("/getCartdata", d.CartHandler.GetCart)
}
