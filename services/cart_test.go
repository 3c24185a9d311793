package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kymani/dukahub-api/models"
)

func TestGetCartLazyCreate(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	user := seedUser(t, db, "cart@example.com")

	cart, err := carts.GetCart(context.Background(), int(user.ID))
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	again, err := carts.GetCart(context.Background(), int(user.ID))
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddToCart(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	user := seedUser(t, db, "cart@example.com")
	product := seedProduct(t, db, "widget", 29.99, 10)

	item, err := carts.AddToCart(context.Background(), int(user.ID), int(product.ID), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 29.99, item.Price)

	// Adding again folds into the existing line.
	item, err = carts.AddToCart(context.Background(), int(user.ID), int(product.ID), 4)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity)

	// Price snapshot is re-stamped from the live product.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 24.99).Error)
	item, err = carts.AddToCart(context.Background(), int(user.ID), int(product.ID), 1)
	require.NoError(t, err)
	assert.Equal(t, 24.99, item.Price)
}

func TestAddToCartInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	user := seedUser(t, db, "cart@example.com")
	product := seedProduct(t, db, "widget", 29.99, 5)

	_, err := carts.AddToCart(context.Background(), int(user.ID), int(product.ID), 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = carts.AddToCart(context.Background(), int(user.ID), int(product.ID), 3)
	require.NoError(t, err)

	// Existing line plus the request would exceed stock.
	_, err = carts.AddToCart(context.Background(), int(user.ID), int(product.ID), 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	user := seedUser(t, db, "cart@example.com")

	_, err := carts.AddToCart(context.Background(), int(user.ID), 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateItemOwnership(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	product := seedProduct(t, db, "widget", 29.99, 10)

	item, err := carts.AddToCart(context.Background(), int(owner.ID), int(product.ID), 2)
	require.NoError(t, err)

	_, err = carts.UpdateItem(context.Background(), int(other.ID), int(item.ID), 1)
	assert.ErrorIs(t, err, ErrNotOwner)

	err = carts.RemoveItem(context.Background(), int(other.ID), int(item.ID))
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := carts.UpdateItem(context.Background(), int(owner.ID), int(item.ID), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = carts.UpdateItem(context.Background(), int(owner.ID), int(item.ID), 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestClearCartIdempotent(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	user := seedUser(t, db, "cart@example.com")

	// User has no cart yet; clearing is still a success.
	require.NoError(t, carts.ClearCart(context.Background(), int(user.ID)))

	product := seedProduct(t, db, "widget", 29.99, 10)
	_, err := carts.AddToCart(context.Background(), int(user.ID), int(product.ID), 2)
	require.NoError(t, err)

	require.NoError(t, carts.ClearCart(context.Background(), int(user.ID)))
	cart, err := carts.GetCart(context.Background(), int(user.ID))
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestMergeGuestCart(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	user := seedUser(t, db, "cart@example.com")
	inStock := seedProduct(t, db, "widget", 29.99, 5)
	outOfStock := seedProduct(t, db, "gadget", 9.99, 0)

	items := []models.GuestCartItem{
		{ProductID: int(inStock.ID), Quantity: 3},
		{ProductID: int(outOfStock.ID), Quantity: 2}, // skipped: no stock
		{ProductID: 9999, Quantity: 1},               // skipped: unknown
	}
	require.NoError(t, carts.MergeGuestCart(context.Background(), int(user.ID), items))

	cart, err := carts.GetCart(context.Background(), int(user.ID))
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// Merging the same guest cart again caps at stock instead of failing.
	require.NoError(t, carts.MergeGuestCart(context.Background(), int(user.ID), items))
	cart, err = carts.GetCart(context.Background(), int(user.ID))
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartSummary(t *testing.T) {
	db := newTestDB(t)
	carts := NewCartService(db)
	user := seedUser(t, db, "cart@example.com")
	product := seedProduct(t, db, "widget", 25.00, 10)

	_, err := carts.AddToCart(context.Background(), int(user.ID), int(product.ID), 4)
	require.NoError(t, err)

	summary, err := carts.Summary(context.Background(), int(user.ID))
	require.NoError(t, err)
	assert.Equal(t, 4, summary.ItemCount)
	assert.InDelta(t, 100.0, summary.Subtotal, 1e-9)
	assert.InDelta(t, 8.0, summary.Tax, 1e-9)
	assert.InDelta(t, 108.0, summary.Total, 1e-9)
}
