package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dmarkhas/storefront/internal/logging"
	"github.com/dmarkhas/storefront/internal/middleware/auth"
	"github.com/dmarkhas/storefront/internal/service"
	"github.com/dmarkhas/storefront/internal/transport"
)

type OrderHTTP struct {
	Checkout *service.CheckoutService
	Invoices *service.InvoiceService
}

func (h *OrderHTTP) GetCheckout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get_checkout")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	base := c.Scheme() + "://" + c.Request().Host
	successURL := base + "/checkout/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURL := base + "/checkout/cancel"

	view, err := h.Checkout.BuildCheckout(ctx, userID, successURL, cancelURL)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("checkout_error", "status", 400, "reason", "cart is empty")
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		l.Error("checkout_error", "status", 500, "reason", "cannot create payment session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create payment session")
	}

	l.Info("checkout_session_created")
	return c.JSON(http.StatusOK, view)
}

// GetCheckoutSuccess finalizes the order only after the payment session
// is verified as paid with the provider; the redirect alone proves
// nothing.
func (h *OrderHTTP) GetCheckoutSuccess(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get_checkout_success")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	sessionID := c.QueryParam("session_id")
	order, err := h.Checkout.Finalize(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentRequired) {
			l.Warn("checkout_success_error", "status", 402, "reason", "payment not verified")
			return echo.NewHTTPError(http.StatusPaymentRequired, "payment not verified")
		}
		l.Error("checkout_success_error", "status", 500, "reason", "cannot finalize order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot finalize order")
	}

	l.Info("order_created", "orderID", order.ID)
	return c.Redirect(http.StatusSeeOther, "/orders")
}

func (h *OrderHTTP) GetCheckoutCancel(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get_orders")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Checkout.ListOrders(ctx, userID)
	if err != nil {
		l.Error("get_orders_error", "status", 500, "reason", "cannot list orders", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
	}

	return c.JSON(http.StatusOK, transport.OrdersView{
		Path:      "/orders",
		PageTitle: "Orders",
		Orders:    orders,
	})
}

func (h *OrderHTTP) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get_invoice")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		l.Warn("get_invoice_error", "status", 400, "reason", "invalid order id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	name := service.InvoiceName(uint(orderID))
	c.Response().Header().Set(echo.HeaderContentType, "application/pdf")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, name))

	if _, err := h.Invoices.Generate(ctx, uint(orderID), userID, c.Response()); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("get_invoice_error", "status", 404, "reason", "order not found")
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrForbidden):
			l.Warn("get_invoice_error", "status", 403, "reason", "not your order")
			return echo.NewHTTPError(http.StatusForbidden, "not your order")
		default:
			l.Error("get_invoice_error", "status", 500, "reason", "cannot generate invoice", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot generate invoice")
		}
	}

	l.Info("invoice_streamed", "orderID", orderID)
	return nil
}
