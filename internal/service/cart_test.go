package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmarkhas/storefront/internal/models"
)

func TestCartAddNewLine(t *testing.T) {
	r, db := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	prod := seedProduct(t, db, "Book", 12.99, 1)

	require.NoError(t, svc.Add(ctx, 7, prod.ID))

	lines, err := svc.View(ctx, 7)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, prod.ID, lines[0].Product.ID)
	require.Equal(t, uint(1), lines[0].Quantity)
}

func TestCartAddBumpsQuantity(t *testing.T) {
	r, db := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	prod := seedProduct(t, db, "Book", 12.99, 1)

	require.NoError(t, svc.Add(ctx, 7, prod.ID))
	require.NoError(t, svc.Add(ctx, 7, prod.ID))

	lines, err := svc.View(ctx, 7)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, uint(2), lines[0].Quantity)
}

func TestCartAddMissingProduct(t *testing.T) {
	r, _ := newTestRepo(t)
	svc := &CartService{Repo: r}

	err := svc.Add(context.Background(), 7, 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCartViewKeepsInsertionOrder(t *testing.T) {
	r, db := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	first := seedProduct(t, db, "first", 1, 1)
	second := seedProduct(t, db, "second", 2, 1)

	require.NoError(t, svc.Add(ctx, 7, first.ID))
	require.NoError(t, svc.Add(ctx, 7, second.ID))

	lines, err := svc.View(ctx, 7)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "first", lines[0].Product.Title)
	require.Equal(t, "second", lines[1].Product.Title)
}

func TestCartViewSkipsDeletedProduct(t *testing.T) {
	r, db := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	prod := seedProduct(t, db, "gone", 5, 1)
	require.NoError(t, svc.Add(ctx, 7, prod.ID))
	require.NoError(t, db.Delete(&models.Product{}, prod.ID).Error)

	lines, err := svc.View(ctx, 7)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestCartRemoveDropsWholeLine(t *testing.T) {
	r, db := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	prod := seedProduct(t, db, "Book", 12.99, 1)
	require.NoError(t, svc.Add(ctx, 7, prod.ID))
	require.NoError(t, svc.Add(ctx, 7, prod.ID))

	require.NoError(t, svc.Remove(ctx, 7, prod.ID))

	lines, err := svc.View(ctx, 7)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestCartRemoveScopedToUser(t *testing.T) {
	r, db := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	prod := seedProduct(t, db, "Book", 12.99, 1)
	require.NoError(t, svc.Add(ctx, 7, prod.ID))
	require.NoError(t, svc.Add(ctx, 8, prod.ID))

	require.NoError(t, svc.Remove(ctx, 7, prod.ID))

	lines, err := svc.View(ctx, 8)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestCartClear(t *testing.T) {
	r, db := newTestRepo(t)
	svc := &CartService{Repo: r}
	ctx := context.Background()

	a := seedProduct(t, db, "a", 1, 1)
	b := seedProduct(t, db, "b", 2, 1)
	require.NoError(t, svc.Add(ctx, 7, a.ID))
	require.NoError(t, svc.Add(ctx, 7, b.ID))

	require.NoError(t, svc.Clear(ctx, 7))

	lines, err := svc.View(ctx, 7)
	require.NoError(t, err)
	require.Empty(t, lines)
}
