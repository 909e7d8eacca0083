package storage

import (
	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"github.com/shopspring/decimal"
)

// Catalog holds the accumulated ordered sequence of catalog items across all
// fetched pages. It only grows: items are never removed or reordered.
// Catalog is not safe for concurrent use; state.Manager serializes access.
type Catalog struct {
	items []models.CatalogItem
	index map[int64][]int // id -> positions, ids may repeat across pages
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		index: make(map[int64][]int),
	}
}

// AppendPage appends items to the end of the catalog in order
func (c *Catalog) AppendPage(items []models.CatalogItem) {
	for _, item := range items {
		c.index[item.ID] = append(c.index[item.ID], len(c.items))
		c.items = append(c.items, item)
	}
}

// ApplyPriceOverrides replaces CurrentPrice for every item whose id is a key in
// overrides. Items not in overrides keep whatever price they have.
func (c *Catalog) ApplyPriceOverrides(overrides map[int64]decimal.Decimal) {
	for id, price := range overrides {
		for _, pos := range c.index[id] {
			c.items[pos].CurrentPrice = price
		}
	}
}

// RevertPrices sets CurrentPrice back to OriginalPrice for the given ids
func (c *Catalog) RevertPrices(ids ...int64) {
	for _, id := range ids {
		for _, pos := range c.index[id] {
			c.items[pos].CurrentPrice = c.items[pos].OriginalPrice
		}
	}
}

// Lookup returns the first catalog item with the given id
func (c *Catalog) Lookup(id int64) (models.CatalogItem, bool) {
	positions := c.index[id]
	if len(positions) == 0 {
		return models.CatalogItem{}, false
	}
	return c.items[positions[0]], true
}

// Occurrences returns every catalog item carrying the given id, in catalog order
func (c *Catalog) Occurrences(id int64) []models.CatalogItem {
	positions := c.index[id]
	result := make([]models.CatalogItem, 0, len(positions))
	for _, pos := range positions {
		result = append(result, c.items[pos])
	}
	return result
}

// Items returns a copy of the full ordered sequence
func (c *Catalog) Items() []models.CatalogItem {
	result := make([]models.CatalogItem, len(c.items))
	copy(result, c.items)
	return result
}

// Len returns the number of items, counting repeated ids
func (c *Catalog) Len() int {
	return len(c.items)
}
