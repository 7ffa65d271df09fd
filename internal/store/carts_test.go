package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCartStore(t *testing.T) *CartStore {
	t.Helper()
	return NewCartStore(NewProductStore(), 3)
}

func TestAddItemSumsQuantitiesForSameVariant(t *testing.T) {
	carts := newTestCartStore(t)

	snap, err := carts.AddItem("u1", "p1", "9", "black", 1)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Items[0].Quantity)

	snap, err = carts.AddItem("u1", "p1", "9", "black", 1)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.InDelta(t, 240.0, snap.Total, 0.001)
}

func TestAddItemCapsAtPerLineLimit(t *testing.T) {
	carts := newTestCartStore(t)

	snap, err := carts.AddItem("u1", "p1", "9", "black", 2)
	require.NoError(t, err)

	snap, err = carts.AddItem("u1", "p1", "9", "black", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Items[0].Quantity)
}

func TestAddItemMatchesColorCaseInsensitively(t *testing.T) {
	carts := newTestCartStore(t)

	snap, err := carts.AddItem("u1", "p1", "9", "BLACK", 1)
	require.NoError(t, err)
	assert.Equal(t, "black", snap.Items[0].Color)

	// Same variant regardless of the caller's casing
	snap, err = carts.AddItem("u1", "p1", "9", "Black", 1)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
}

func TestAddItemRejectsUnofferedVariant(t *testing.T) {
	carts := newTestCartStore(t)

	tests := []struct {
		name  string
		size  string
		color string
	}{
		{name: "unoffered size", size: "15", color: "black"},
		{name: "unoffered color", size: "9", color: "purple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := carts.AddItem("u1", "p1", tt.size, tt.color, 1)
			require.Error(t, err)
			assert.True(t, IsInvalidInput(err))
		})
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	carts := newTestCartStore(t)

	_, err := carts.AddItem("u1", "nope", "9", "black", 1)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestUpdateQuantityBelowOneRemovesLine(t *testing.T) {
	carts := newTestCartStore(t)

	snap, err := carts.AddItem("u1", "p1", "9", "black", 2)
	require.NoError(t, err)
	itemID := snap.Items[0].ID

	snap, err = carts.UpdateQuantity("u1", itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.Total)
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	carts := newTestCartStore(t)

	_, err := carts.UpdateQuantity("u1", "missing", 2)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestRemoveByVariant(t *testing.T) {
	carts := newTestCartStore(t)

	_, err := carts.AddItem("u1", "p1", "9", "black", 1)
	require.NoError(t, err)
	_, err = carts.AddItem("u1", "p2", "10", "blue", 1)
	require.NoError(t, err)

	snap, err := carts.RemoveByVariant("u1", "p1", "9", "black")
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "p2", snap.Items[0].Product.ID)
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	carts := newTestCartStore(t)

	_, err := carts.AddItem("u1", "p1", "9", "black", 1)
	require.NoError(t, err)

	assert.Empty(t, carts.Get("u2").Items)

	carts.Clear("u1")
	assert.Empty(t, carts.Get("u1").Items)
}

func TestOrderCreateDrainsCart(t *testing.T) {
	carts := newTestCartStore(t)
	orders := NewOrderStore(carts)

	_, err := carts.AddItem("u1", "p2", "10", "blue", 2)
	require.NoError(t, err)

	order, err := orders.Create("u1", ShippingInfo{
		FullName: "Alice Doe",
		Address:  "1 Main St",
		City:     "Springfield",
		ZipCode:  "12345",
		Country:  "US",
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", order.Status)
	assert.InDelta(t, 300.0, order.Total, 0.001)

	assert.Empty(t, carts.Get("u1").Items)
	assert.Len(t, orders.List("u1"), 1)
}

func TestOrderCreateRejectsEmptyCart(t *testing.T) {
	carts := newTestCartStore(t)
	orders := NewOrderStore(carts)

	_, err := orders.Create("u1", ShippingInfo{FullName: "Alice Doe", Address: "1 Main St"})
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
}
