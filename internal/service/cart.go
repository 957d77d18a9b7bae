package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dmarkhas/storefront/internal/events"
	"github.com/dmarkhas/storefront/internal/logging"
	"github.com/dmarkhas/storefront/internal/models"
	"github.com/dmarkhas/storefront/internal/repo"
	"github.com/dmarkhas/storefront/internal/transport"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events *events.Producer
}

// View resolves the cart lines with their product details, in the order
// the lines were added.
func (s *CartService) View(ctx context.Context, userID uint) ([]transport.CartLine, error) {
	items, err := s.Repo.ListCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}

	lines := make([]transport.CartLine, 0, len(items))
	for _, it := range items {
		prod, err := s.Repo.GetProduct(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("resolve cart product: %w", err)
		}
		lines = append(lines, transport.CartLine{Product: *prod, Quantity: it.Quantity})
	}
	return lines, nil
}

// Add puts one unit of the product in the cart: an existing line gets
// its quantity bumped, otherwise a new line is appended.
func (s *CartService) Add(ctx context.Context, userID, productID uint) error {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return fmt.Errorf("load product: %w", err)
	}

	item, err := s.Repo.FindCartItem(ctx, userID, productID)
	switch {
	case err == nil:
		item.Quantity++
		if err := s.Repo.SaveCartItem(ctx, item); err != nil {
			return fmt.Errorf("save cart item: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = &models.CartItem{UserID: userID, ProductID: productID, Quantity: 1}
		if err := s.Repo.CreateCartItem(ctx, item); err != nil {
			return fmt.Errorf("create cart item: %w", err)
		}
	default:
		return fmt.Errorf("find cart item: %w", err)
	}

	s.publish(ctx, userID, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
		"quantity":  item.Quantity,
	})
	return nil
}

// Remove drops the whole line for the product, whatever its quantity.
func (s *CartService) Remove(ctx context.Context, userID, productID uint) error {
	if err := s.Repo.DeleteCartItem(ctx, userID, productID); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	s.publish(ctx, userID, map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
	})
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.publish(ctx, userID, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return nil
}

func (s *CartService) publish(ctx context.Context, userID uint, event map[string]any) {
	if err := s.Events.PublishEvent(ctx, events.TopicCartEvents, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "error", err)
	}
}
