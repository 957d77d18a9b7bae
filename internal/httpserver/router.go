package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmarkhas/storefront/internal/middleware/auth"
)

// Deps carries every handler the router needs. Search is optional and
// its routes are only registered when a client is configured.
type Deps struct {
	Guard  *auth.Guard
	Auth   *AuthHTTP
	Admin  *AdminHTTP
	Shop   *ShopHTTP
	Orders *OrderHTTP
	Search *SearchHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	e.GET("/", d.Shop.GetIndex)
	e.GET("/products", d.Shop.GetProducts)
	if d.Search != nil {
		e.GET("/products/search", d.Search.Search)
	}
	e.GET("/products/:id", d.Shop.GetProduct)

	e.POST("/signup", d.Auth.Register)
	e.POST("/login", d.Auth.Login)
	e.POST("/logout", d.Auth.LogOut)
	e.POST("/refresh", d.Auth.Refresh)

	user := e.Group("", d.Guard.RequireLogin)
	user.GET("/cart", d.Shop.GetCart)
	user.POST("/cart", d.Shop.PostCart)
	user.POST("/cart-delete-item", d.Shop.PostCartDeleteItem)
	user.GET("/checkout", d.Orders.GetCheckout)
	user.GET("/checkout/success", d.Orders.GetCheckoutSuccess)
	user.GET("/checkout/cancel", d.Orders.GetCheckoutCancel)
	user.GET("/orders", d.Orders.GetOrders)
	user.GET("/orders/:orderId/invoice", d.Orders.GetInvoice)

	admin := e.Group("/admin", d.Guard.AdminOnly)
	admin.GET("/add-product", d.Admin.GetAddProduct)
	admin.POST("/add-product", d.Admin.PostAddProduct)
	admin.GET("/edit-product/:productId", d.Admin.GetEditProduct)
	admin.POST("/edit-product/:productId", d.Admin.PostEditProduct)
	admin.GET("/products", d.Admin.GetProducts)
	admin.DELETE("/products/:productId", d.Admin.DeleteProduct)
}
