package models

import "github.com/shopspring/decimal"

// CatalogItem represents a movie in the accumulated catalog
type CatalogItem struct {
	ID            int64           `json:"id" yaml:"id"`
	Title         string          `json:"title" yaml:"title"`
	ImageRef      string          `json:"image_ref" yaml:"imageref"`
	OriginalPrice decimal.Decimal `json:"original_price" yaml:"originalprice"` // Assigned once, never recomputed
	CurrentPrice  decimal.Decimal `json:"current_price" yaml:"currentprice"`   // Basket price while in the basket
}

// BasketEntry represents a catalog item selected into the basket
type BasketEntry struct {
	ID              int64           `json:"id" yaml:"id"`
	Title           string          `json:"title" yaml:"title"`
	ImageRef        string          `json:"image_ref" yaml:"imageref"`
	OriginalPrice   decimal.Decimal `json:"original_price" yaml:"originalprice"`
	DiscountedPrice decimal.Decimal `json:"discounted_price" yaml:"discountedprice"`
}

// Discount is the amount taken off the entry's original price
func (e BasketEntry) Discount() decimal.Decimal {
	return e.OriginalPrice.Sub(e.DiscountedPrice)
}

// RawItem is a catalog record as returned by a page fetcher
type RawItem struct {
	ID                int64            `json:"id" yaml:"id"`
	Title             string           `json:"title" yaml:"title"`
	PosterPath        string           `json:"poster_path" yaml:"posterpath"`
	OriginalPriceHint *decimal.Decimal `json:"original_price,omitempty" yaml:"originalprice,omitempty"`
}

// Snapshot is a consistent view of catalog and basket taken in one critical section
type Snapshot struct {
	Version       uint64          `json:"version" yaml:"version"`
	Catalog       []CatalogItem   `json:"catalog" yaml:"catalog"`
	Basket        []BasketEntry   `json:"basket" yaml:"basket"`
	BasketSize    int             `json:"basket_size" yaml:"basketsize"`
	TotalPrice    decimal.Decimal `json:"total_price" yaml:"totalprice"`
	TotalDiscount decimal.Decimal `json:"total_discount" yaml:"totaldiscount"`
}
