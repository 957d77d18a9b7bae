package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"github.com/dmarkhas/storefront/internal/events"
	"github.com/dmarkhas/storefront/internal/fileutil"
	"github.com/dmarkhas/storefront/internal/logging"
	"github.com/dmarkhas/storefront/internal/models"
	"github.com/dmarkhas/storefront/internal/repo"
	"github.com/dmarkhas/storefront/internal/search"
	"github.com/dmarkhas/storefront/internal/transport"
)

// CatalogService owns the admin side of the product catalog. Every
// mutation is scoped to the owning user. Search indexing and event
// publishing are best-effort and never fail the request.
type CatalogService struct {
	Repo    *repo.GormRepo
	Events  *events.Producer
	ES      *elasticsearch.Client
	ESIndex string
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	return prod, nil
}

func (s *CatalogService) List(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) Create(ctx context.Context, in transport.ProductInput, imageURL string, ownerID uint) (*models.Product, error) {
	prod := models.Product{
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		ImageURL:    imageURL,
		UserID:      ownerID,
	}
	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.index(ctx, prod)
	s.publish(ctx, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"userID":    ownerID,
		"title":     prod.Title,
	})
	return &prod, nil
}

// Update applies field edits to an owned product. A missing product or
// a non-owner requester both surface as sentinels the handlers turn
// into a silent redirect home.
func (s *CatalogService) Update(ctx context.Context, id uint, in transport.ProductInput, newImageURL string, requesterID uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	if prod.UserID != requesterID {
		return nil, fmt.Errorf("%w: product %d", ErrForbidden, id)
	}

	prod.Title = in.Title
	prod.Price = in.Price
	prod.Description = in.Description
	if newImageURL != "" {
		if err := fileutil.Delete(prod.ImageURL); err != nil {
			logging.FromContext(ctx).Warn("delete_old_image_failed", "path", prod.ImageURL, "error", err)
		}
		prod.ImageURL = newImageURL
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.index(ctx, *prod)
	s.publish(ctx, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"userID":    requesterID,
		"title":     prod.Title,
	})
	return prod, nil
}

func (s *CatalogService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Product, error) {
	return s.Repo.ListProductsByOwner(ctx, ownerID)
}

// Delete removes an owned product. The row delete is scoped to
// (id, requester), so a non-owner request matches zero rows and returns
// without error or effect. Cart lines referencing the product are
// pruned only after an actual row delete.
func (s *CatalogService) Delete(ctx context.Context, id, requesterID uint) error {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return fmt.Errorf("load product: %w", err)
	}

	if err := fileutil.Delete(prod.ImageURL); err != nil {
		logging.FromContext(ctx).Warn("delete_image_failed", "path", prod.ImageURL, "error", err)
	}

	rows, err := s.Repo.DeleteProductOwned(ctx, id, requesterID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if rows == 0 {
		return nil
	}

	if err := s.Repo.PruneCartItemsForProduct(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("prune_cart_items_failed", "productID", id, "error", err)
	}

	s.deindex(ctx, id)
	s.publish(ctx, map[string]any{
		"type":      "product_deleted",
		"productID": id,
		"userID":    requesterID,
	})
	return nil
}

func (s *CatalogService) publish(ctx context.Context, event map[string]any) {
	if err := s.Events.PublishEvent(ctx, events.TopicProductEvents, fmt.Sprint(event["userID"]), event); err != nil {
		logging.FromContext(ctx).Warn("kafka_publish_failed", "error", err)
	}
}

func (s *CatalogService) index(ctx context.Context, p models.Product) {
	if s.ES == nil {
		return
	}
	if err := search.IndexProduct(ctx, s.ES, s.ESIndex, p); err != nil {
		logging.FromContext(ctx).Warn("es_index_failed", "productID", p.ID, "error", err)
	}
}

func (s *CatalogService) deindex(ctx context.Context, id uint) {
	if s.ES == nil {
		return
	}
	if err := search.DeleteProduct(ctx, s.ES, s.ESIndex, id); err != nil {
		logging.FromContext(ctx).Warn("es_deindex_failed", "productID", id, "error", err)
	}
}
