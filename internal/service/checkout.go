package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dmarkhas/storefront/internal/events"
	"github.com/dmarkhas/storefront/internal/logging"
	"github.com/dmarkhas/storefront/internal/models"
	"github.com/dmarkhas/storefront/internal/payment"
	"github.com/dmarkhas/storefront/internal/repo"
	"github.com/dmarkhas/storefront/internal/transport"
)

// CheckoutService drives a checkout attempt: cart → payment session →
// verified payment → persisted order snapshot → cleared cart.
type CheckoutService struct {
	Repo     *repo.GormRepo
	Cart     *CartService
	Payments payment.Client
	Events   *events.Producer
	Currency string
}

// BuildCheckout resolves the cart, sums it and requests a hosted
// payment session with one line item per cart entry.
func (s *CheckoutService) BuildCheckout(ctx context.Context, userID uint, successURL, cancelURL string) (*transport.CheckoutView, error) {
	lines, err := s.Cart.View(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	var totalSum float64
	items := make([]payment.LineItem, 0, len(lines))
	for _, line := range lines {
		totalSum += float64(line.Quantity) * line.Product.Price
		items = append(items, payment.LineItem{
			Name:        line.Product.Title,
			Description: line.Product.Description,
			UnitAmount:  payment.MinorUnits(line.Product.Price),
			Currency:    s.Currency,
			Quantity:    int64(line.Quantity),
		})
	}

	sessionID, err := s.Payments.CreateSession(ctx, items, successURL, cancelURL)
	if err != nil {
		return nil, fmt.Errorf("create payment session: %w", err)
	}

	return &transport.CheckoutView{
		Path:      "/checkout",
		PageTitle: "Checkout",
		Products:  lines,
		TotalSum:  totalSum,
		SessionID: sessionID,
	}, nil
}

// Finalize persists the order once the payment session is verified as
// paid. Each cart line is snapshotted with a full copy of its product,
// so later catalog edits never touch the order. Order create and cart
// clear are two sequential writes, not one transaction.
func (s *CheckoutService) Finalize(ctx context.Context, userID uint, sessionID string) (*models.Order, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: missing session id", ErrPaymentRequired)
	}
	paid, err := s.Payments.SessionPaid(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("verify payment session: %w", err)
	}
	if !paid {
		return nil, fmt.Errorf("%w: session %s", ErrPaymentRequired, sessionID)
	}

	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	lines, err := s.Cart.View(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			Quantity:    line.Quantity,
			ProductID:   line.Product.ID,
			Title:       line.Product.Title,
			Price:       line.Product.Price,
			Description: line.Product.Description,
			ImageURL:    line.Product.ImageURL,
		})
	}

	order := models.Order{
		UserID:    user.ID,
		UserEmail: user.Email,
		CreatedAt: time.Now().Unix(),
		Items:     items,
	}
	if err := s.Repo.CreateOrder(ctx, &order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.Cart.Clear(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.Events.PublishEvent(ctx, events.TopicOrderEvents, fmt.Sprint(userID), map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"items":   len(items),
	}); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "error", err)
	}

	return &order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, userID)
}
