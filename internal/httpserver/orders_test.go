package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/dmarkhas/storefront/internal/models"
	"github.com/dmarkhas/storefront/internal/payment"
	"github.com/dmarkhas/storefront/internal/service"
	"github.com/dmarkhas/storefront/internal/transport"
)

type stubPayments struct {
	sessionID string
	paid      bool
}

func (s *stubPayments) CreateSession(ctx context.Context, items []payment.LineItem, successURL, cancelURL string) (string, error) {
	return s.sessionID, nil
}

func (s *stubPayments) SessionPaid(ctx context.Context, sessionID string) (bool, error) {
	return s.paid, nil
}

func TestGetCheckout(t *testing.T) {
	r, db := newTestRepo(t)
	cart := &service.CartService{Repo: r}
	h := &OrderHTTP{
		Checkout: &service.CheckoutService{
			Repo: r, Cart: cart, Payments: &stubPayments{sessionID: "cs_test_1"}, Currency: "usd",
		},
	}

	prod := seedProduct(t, db, "Book", 12.99, 1)
	require.NoError(t, cart.Add(context.Background(), 7, prod.ID))

	rec, c := newContext(t, http.MethodGet, "/checkout", nil, 7)
	require.NoError(t, h.GetCheckout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view transport.CheckoutView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "cs_test_1", view.SessionID)
	require.InDelta(t, 12.99, view.TotalSum, 0.001)
}

func TestGetCheckoutEmptyCart(t *testing.T) {
	r, _ := newTestRepo(t)
	h := &OrderHTTP{
		Checkout: &service.CheckoutService{
			Repo: r, Cart: &service.CartService{Repo: r}, Payments: &stubPayments{}, Currency: "usd",
		},
	}

	_, c := newContext(t, http.MethodGet, "/checkout", nil, 7)
	err := h.GetCheckout(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetCheckoutSuccessPaid(t *testing.T) {
	r, db := newTestRepo(t)
	cart := &service.CartService{Repo: r}
	checkout := &service.CheckoutService{
		Repo: r, Cart: cart, Payments: &stubPayments{paid: true}, Currency: "usd",
	}
	h := &OrderHTTP{Checkout: checkout}

	require.NoError(t, db.Create(&models.User{Email: "buyer@example.com", PasswordHash: "x", Role: "user"}).Error)
	prod := seedProduct(t, db, "Book", 12.99, 1)
	require.NoError(t, cart.Add(context.Background(), 1, prod.ID))

	rec, c := newContext(t, http.MethodGet, "/checkout/success?session_id=cs_test_1", nil, 1)
	require.NoError(t, h.GetCheckoutSuccess(c))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/orders", rec.Header().Get("Location"))

	orders, err := checkout.ListOrders(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestGetCheckoutSuccessUnpaid(t *testing.T) {
	r, db := newTestRepo(t)
	cart := &service.CartService{Repo: r}
	checkout := &service.CheckoutService{
		Repo: r, Cart: cart, Payments: &stubPayments{paid: false}, Currency: "usd",
	}
	h := &OrderHTTP{Checkout: checkout}

	prod := seedProduct(t, db, "Book", 12.99, 1)
	require.NoError(t, cart.Add(context.Background(), 1, prod.ID))

	_, c := newContext(t, http.MethodGet, "/checkout/success?session_id=cs_test_1", nil, 1)
	err := h.GetCheckoutSuccess(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusPaymentRequired, he.Code)

	orders, lerr := checkout.ListOrders(context.Background(), 1)
	require.NoError(t, lerr)
	require.Empty(t, orders)
}

func TestGetCheckoutSuccessMissingSessionID(t *testing.T) {
	r, _ := newTestRepo(t)
	h := &OrderHTTP{
		Checkout: &service.CheckoutService{
			Repo: r, Cart: &service.CartService{Repo: r}, Payments: &stubPayments{paid: true}, Currency: "usd",
		},
	}

	_, c := newContext(t, http.MethodGet, "/checkout/success", nil, 1)
	err := h.GetCheckoutSuccess(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusPaymentRequired, he.Code)
}

func TestGetCheckoutCancel(t *testing.T) {
	h := &OrderHTTP{}

	rec, c := newContext(t, http.MethodGet, "/checkout/cancel", nil, 1)
	require.NoError(t, h.GetCheckoutCancel(c))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/cart", rec.Header().Get("Location"))
}

func TestGetInvoiceStreamsPDF(t *testing.T) {
	r, _ := newTestRepo(t)
	h := &OrderHTTP{Invoices: &service.InvoiceService{Repo: r, Dir: t.TempDir()}}

	order := models.Order{
		UserID: 7, UserEmail: "buyer@example.com", CreatedAt: 1700000000,
		Items: []models.OrderItem{{Quantity: 2, ProductID: 1, Title: "Book", Price: 5}},
	}
	require.NoError(t, r.CreateOrder(context.Background(), &order))

	rec, c := newContext(t, http.MethodGet, "/orders/1/invoice", nil, 7)
	c.SetParamNames("orderId")
	c.SetParamValues("1")

	require.NoError(t, h.GetInvoice(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	require.Equal(t, `inline; filename="invoice-1.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
	require.True(t, bytes.Contains(rec.Body.Bytes(), []byte("Invoice")))
	require.True(t, bytes.Contains(rec.Body.Bytes(), []byte("Book - 2 x $5")))
}

func TestGetInvoiceForbidden(t *testing.T) {
	r, _ := newTestRepo(t)
	h := &OrderHTTP{Invoices: &service.InvoiceService{Repo: r, Dir: t.TempDir()}}

	order := models.Order{
		UserID: 7, UserEmail: "buyer@example.com", CreatedAt: 1700000000,
		Items: []models.OrderItem{{Quantity: 1, ProductID: 1, Title: "Book", Price: 5}},
	}
	require.NoError(t, r.CreateOrder(context.Background(), &order))

	_, c := newContext(t, http.MethodGet, "/orders/1/invoice", nil, 8)
	c.SetParamNames("orderId")
	c.SetParamValues("1")

	err := h.GetInvoice(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestGetInvoiceMissingOrder(t *testing.T) {
	r, _ := newTestRepo(t)
	h := &OrderHTTP{Invoices: &service.InvoiceService{Repo: r, Dir: t.TempDir()}}

	_, c := newContext(t, http.MethodGet, "/orders/99/invoice", nil, 7)
	c.SetParamNames("orderId")
	c.SetParamValues("99")

	err := h.GetInvoice(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, he.Code)
}

func TestGetOrdersView(t *testing.T) {
	r, _ := newTestRepo(t)
	h := &OrderHTTP{
		Checkout: &service.CheckoutService{Repo: r, Cart: &service.CartService{Repo: r}, Payments: &stubPayments{}, Currency: "usd"},
	}

	order := models.Order{
		UserID: 7, UserEmail: "buyer@example.com", CreatedAt: 1700000000,
		Items: []models.OrderItem{{Quantity: 1, ProductID: 1, Title: "Book", Price: 5}},
	}
	require.NoError(t, r.CreateOrder(context.Background(), &order))

	rec, c := newContext(t, http.MethodGet, "/orders", nil, 7)
	require.NoError(t, h.GetOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view transport.OrdersView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "Orders", view.PageTitle)
	require.Len(t, view.Orders, 1)
	require.Len(t, view.Orders[0].Items, 1)
}
