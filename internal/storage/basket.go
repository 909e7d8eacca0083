package storage

import (
	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"github.com/lehigh-university-libraries/moviebasket/internal/pricing"
	"github.com/shopspring/decimal"
)

// Basket holds the movies currently selected, unique by id, in the order they
// were added. Every mutation reprices all entries with the new basket size.
// Basket is not safe for concurrent use; state.Manager serializes access.
type Basket struct {
	entries []models.BasketEntry
	engine  pricing.Engine
}

// NewBasket creates an empty basket priced by engine
func NewBasket(engine pricing.Engine) *Basket {
	return &Basket{engine: engine}
}

// Add appends item using its OriginalPrice as the basis and reprices every
// entry. Adding an id that is already present changes nothing and reports
// added=false.
func (b *Basket) Add(item models.CatalogItem) (entries []models.BasketEntry, size int, added bool) {
	if b.indexOf(item.ID) >= 0 {
		return b.Entries(), len(b.entries), false
	}

	b.entries = append(b.entries, models.BasketEntry{
		ID:            item.ID,
		Title:         item.Title,
		ImageRef:      item.ImageRef,
		OriginalPrice: item.OriginalPrice,
	})
	b.reprice()
	return b.Entries(), len(b.entries), true
}

// Remove drops the entry with the given id and reprices the remaining ones.
// Removing an absent id changes nothing and reports removed=false.
func (b *Basket) Remove(id int64) (entries []models.BasketEntry, size int, removed bool) {
	i := b.indexOf(id)
	if i < 0 {
		return b.Entries(), len(b.entries), false
	}

	b.entries = append(b.entries[:i:i], b.entries[i+1:]...)
	b.reprice()
	return b.Entries(), len(b.entries), true
}

// reprice applies the factor for the current size to every entry
func (b *Basket) reprice() {
	size := len(b.entries)
	for i := range b.entries {
		b.entries[i].DiscountedPrice = b.engine.Price(b.entries[i].OriginalPrice, size)
	}
}

func (b *Basket) indexOf(id int64) int {
	for i, e := range b.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether id is in the basket
func (b *Basket) Contains(id int64) bool {
	return b.indexOf(id) >= 0
}

// Get returns the entry for id
func (b *Basket) Get(id int64) (models.BasketEntry, bool) {
	i := b.indexOf(id)
	if i < 0 {
		return models.BasketEntry{}, false
	}
	return b.entries[i], true
}

// Entries returns a copy of the basket in insertion order
func (b *Basket) Entries() []models.BasketEntry {
	result := make([]models.BasketEntry, len(b.entries))
	copy(result, b.entries)
	return result
}

// Len returns the basket size
func (b *Basket) Len() int {
	return len(b.entries)
}

// Overrides returns the id -> discounted price mapping for the whole basket
func (b *Basket) Overrides() map[int64]decimal.Decimal {
	result := make(map[int64]decimal.Decimal, len(b.entries))
	for _, e := range b.entries {
		result[e.ID] = e.DiscountedPrice
	}
	return result
}

// TotalPrice sums the discounted prices; zero for an empty basket
func (b *Basket) TotalPrice() decimal.Decimal {
	return TotalPrice(b.entries)
}

// TotalDiscount sums OriginalPrice - DiscountedPrice over all entries
func (b *Basket) TotalDiscount() decimal.Decimal {
	return TotalDiscount(b.entries)
}

// TotalPrice sums the discounted prices of entries
func TotalPrice(entries []models.BasketEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.DiscountedPrice)
	}
	return total
}

// TotalDiscount sums the per-entry discounts of entries
func TotalDiscount(entries []models.BasketEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Discount())
	}
	return total
}
