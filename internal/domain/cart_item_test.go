package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItem_Subtotal(t *testing.T) {
	item := NewCartItem("p1", "Coffee", usd("10"), mustQuantity(t, 3))
	assert.True(t, item.Subtotal().Equals(usd("30")))
}

func TestCartItem_Subtotal_FractionalQuantity(t *testing.T) {
	half, err := NewQuantity(decimal.RequireFromString("1.5"))
	require.NoError(t, err)

	item := NewCartItem("p1", "Beans", usd("2.50"), half)
	assert.True(t, item.Subtotal().Equals(usd("3.75")))
}

func TestCartItem_Subtotal_ZeroPrice(t *testing.T) {
	item := NewCartItem("p1", "Freebie", usd("0"), mustQuantity(t, 4))
	assert.True(t, item.Subtotal().Amount().IsZero())
}

func TestCartItem_UpdateQuantity_Replaces(t *testing.T) {
	item := NewCartItem("p1", "Coffee", usd("10"), mustQuantity(t, 2))

	item.UpdateQuantity(mustQuantity(t, 9))

	// A set, not an add
	assert.True(t, item.Quantity().Value().Equal(decimal.NewFromInt(9)))
}

func TestCartItem_UpdatePrice(t *testing.T) {
	item := NewCartItem("p1", "Coffee", usd("10"), mustQuantity(t, 2))

	item.UpdatePrice(usd("12"))

	assert.True(t, item.Price().Equals(usd("12")))
	assert.True(t, item.Subtotal().Equals(usd("24")))
}

func TestCartItem_IdentityIsStable(t *testing.T) {
	item := NewCartItem("p1", "Coffee", usd("10"), mustQuantity(t, 2))
	id := item.ID()
	addedAt := item.AddedAt()

	item.UpdateQuantity(mustQuantity(t, 5))
	item.UpdatePrice(usd("11"))

	assert.Equal(t, id, item.ID())
	assert.Equal(t, addedAt, item.AddedAt())

	other := NewCartItem("p1", "Coffee", usd("10"), mustQuantity(t, 2))
	assert.NotEqual(t, item.ID(), other.ID())
}
