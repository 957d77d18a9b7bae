package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmarkhas/storefront/internal/logging"
	"github.com/dmarkhas/storefront/internal/middleware/auth"
	"github.com/dmarkhas/storefront/internal/service"
	"github.com/dmarkhas/storefront/internal/transport"
	"github.com/dmarkhas/storefront/internal/util"
)

type ShopHTTP struct {
	Catalog *service.CatalogService
	Cart    *service.CartService
}

func (h *ShopHTTP) GetIndex(c echo.Context) error {
	return h.listPage(c, "Shop", "/")
}

func (h *ShopHTTP) GetProducts(c echo.Context) error {
	return h.listPage(c, "All Products", "/products")
}

func (h *ShopHTTP) listPage(c echo.Context, pageTitle, path string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.list_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset := util.Offset(page, util.ItemsPerPage)

	total, items, err := h.Catalog.List(ctx, offset, util.ItemsPerPage)
	if err != nil {
		l.Error("list_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, transport.ProductListView{
		Prods:      items,
		PageTitle:  pageTitle,
		Path:       path,
		Pagination: util.Paginate(page, total, util.ItemsPerPage),
	})
}

func (h *ShopHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.get_product")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 400, "reason", "invalid id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	prod, err := h.Catalog.Get(ctx, uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_product_error", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_error", "status", 500, "reason", "cannot load product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load product")
	}

	return c.JSON(http.StatusOK, transport.ProductDetailView{
		Product:   *prod,
		PageTitle: prod.Title,
		Path:      "/products",
	})
}

func (h *ShopHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.get_cart")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	lines, err := h.Cart.View(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "reason", "cannot load cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load cart")
	}

	return c.JSON(http.StatusOK, transport.CartView{
		Path:      "/cart",
		PageTitle: "Your Cart",
		Products:  lines,
	})
}

func (h *ShopHTTP) PostCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.post_cart")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ProductID uint `form:"product_id" json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("post_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Cart.Add(ctx, userID, req.ProductID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("post_cart_error", "status", 404, "reason", "product not found")
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("post_cart_error", "status", 500, "reason", "cannot add to cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add to cart")
	}

	l.Info("post_cart_success", "productID", req.ProductID)
	return c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *ShopHTTP) PostCartDeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "shop.post_cart_delete_item")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ProductID uint `form:"product_id" json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_delete_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Cart.Remove(ctx, userID, req.ProductID); err != nil {
		l.Error("cart_delete_item_error", "status", 500, "reason", "cannot remove item", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot remove item")
	}

	l.Info("cart_delete_item_success", "productID", req.ProductID)
	return c.Redirect(http.StatusSeeOther, "/cart")
}
