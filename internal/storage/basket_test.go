package storage

import (
	"testing"

	"github.com/lehigh-university-libraries/moviebasket/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasketAddReprices(t *testing.T) {
	b := NewBasket(pricing.Default())

	entries, size, added := b.Add(movie(1, "10"))
	require.True(t, added)
	assert.Equal(t, 1, size)
	require.Len(t, entries, 1)
	assert.True(t, dec("9.95").Equal(entries[0].DiscountedPrice))

	entries, size, added = b.Add(movie(2, "20"))
	require.True(t, added)
	assert.Equal(t, 2, size)
	assert.True(t, dec("9.9").Equal(entries[0].DiscountedPrice))
	assert.True(t, dec("19.8").Equal(entries[1].DiscountedPrice))
}

func TestBasketAddUsesOriginalPrice(t *testing.T) {
	b := NewBasket(pricing.Default())
	item := movie(1, "10")
	item.CurrentPrice = dec("3")

	entries, _, _ := b.Add(item)
	assert.True(t, dec("9.95").Equal(entries[0].DiscountedPrice))
}

func TestBasketAddDuplicateIsNoop(t *testing.T) {
	b := NewBasket(pricing.Default())
	first, _, _ := b.Add(movie(1, "10"))

	again, size, added := b.Add(movie(1, "10"))
	assert.False(t, added)
	assert.Equal(t, 1, size)
	assert.Equal(t, first, again)
}

func TestBasketRemove(t *testing.T) {
	b := NewBasket(pricing.Default())
	b.Add(movie(1, "10"))
	b.Add(movie(2, "20"))

	entries, size, removed := b.Remove(1)
	require.True(t, removed)
	assert.Equal(t, 1, size)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ID)
	assert.True(t, dec("19.9").Equal(entries[0].DiscountedPrice))
	assert.False(t, b.Contains(1))
}

func TestBasketRemoveMissingIsNoop(t *testing.T) {
	b := NewBasket(pricing.Default())
	b.Add(movie(1, "10"))

	entries, size, removed := b.Remove(7)
	assert.False(t, removed)
	assert.Equal(t, 1, size)
	assert.True(t, dec("9.95").Equal(entries[0].DiscountedPrice))
}

func TestBasketTotals(t *testing.T) {
	b := NewBasket(pricing.Default())
	assert.True(t, b.TotalPrice().IsZero())
	assert.True(t, b.TotalDiscount().IsZero())

	b.Add(movie(1, "10"))
	b.Add(movie(2, "20"))
	b.Remove(1)

	assert.True(t, dec("19.9").Equal(b.TotalPrice()))
	assert.True(t, dec("0.1").Equal(b.TotalDiscount()))
}

func TestBasketUniformFactor(t *testing.T) {
	b := NewBasket(pricing.Default())
	for i, price := range []string{"5", "7", "11", "24", "13"} {
		b.Add(movie(int64(i+1), price))
	}

	want := pricing.Default().Factor(5)
	for _, e := range b.Entries() {
		assert.True(t, want.Equal(e.DiscountedPrice.Div(e.OriginalPrice)), "entry %d factor", e.ID)
	}
}

func TestBasketOverrides(t *testing.T) {
	b := NewBasket(pricing.Default())
	b.Add(movie(1, "10"))
	b.Add(movie(2, "20"))

	overrides := b.Overrides()
	assert.Len(t, overrides, 2)
	assert.True(t, dec("9.9").Equal(overrides[1]))
	assert.True(t, dec("19.8").Equal(overrides[2]))

	e, ok := b.Get(2)
	require.True(t, ok)
	assert.True(t, dec("0.2").Equal(e.Discount()))
}
