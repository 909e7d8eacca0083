package catalog

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"github.com/shopspring/decimal"
)

// ErrMalformedItem is returned for raw records that cannot become catalog items
var ErrMalformedItem = errors.New("malformed catalog record")

// PriceSource assigns an original price to a movie that arrives without one
type PriceSource interface {
	Price(item models.RawItem) decimal.Decimal
}

// RandomPrices assigns whole prices uniformly in [Min, Max]
type RandomPrices struct {
	Min int64
	Max int64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPrices creates a price source for [lo, hi]; seed 0 uses the clock
func NewRandomPrices(lo, hi int64, seed int64) *RandomPrices {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return &RandomPrices{
		Min: lo,
		Max: hi,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Price returns a random whole price
func (p *RandomPrices) Price(models.RawItem) decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return decimal.NewFromInt(p.Min + p.rng.Int63n(p.Max-p.Min+1))
}

// FixedPrice gives every movie the same price
type FixedPrice decimal.Decimal

// Price returns the fixed price
func (p FixedPrice) Price(models.RawItem) decimal.Decimal {
	return decimal.Decimal(p)
}

// Converter turns raw fetcher records into catalog items
type Converter struct {
	ImageBaseURL string
	Prices       PriceSource
}

// Validate reports whether a raw record can be converted
func Validate(raw models.RawItem) error {
	if raw.ID <= 0 {
		return fmt.Errorf("%w: invalid id %d", ErrMalformedItem, raw.ID)
	}
	if strings.TrimSpace(raw.Title) == "" {
		return fmt.Errorf("%w: id %d has no title", ErrMalformedItem, raw.ID)
	}
	if raw.OriginalPriceHint != nil && raw.OriginalPriceHint.IsNegative() {
		return fmt.Errorf("%w: id %d has negative price", ErrMalformedItem, raw.ID)
	}
	return nil
}

// Convert builds a catalog item. The original price comes from the record's
// hint when present, otherwise from the price source; the current price
// starts equal to it.
func (c Converter) Convert(raw models.RawItem) (models.CatalogItem, error) {
	if err := Validate(raw); err != nil {
		return models.CatalogItem{}, err
	}

	var price decimal.Decimal
	switch {
	case raw.OriginalPriceHint != nil:
		price = *raw.OriginalPriceHint
	case c.Prices != nil:
		price = c.Prices.Price(raw)
	default:
		return models.CatalogItem{}, fmt.Errorf("%w: id %d has no price and no price source", ErrMalformedItem, raw.ID)
	}

	return models.CatalogItem{
		ID:            raw.ID,
		Title:         strings.TrimSpace(raw.Title),
		ImageRef:      ImageRef(c.ImageBaseURL, raw.PosterPath),
		OriginalPrice: price,
		CurrentPrice:  price,
	}, nil
}

// ConvertPage converts a whole page; a single malformed record rejects the page
func (c Converter) ConvertPage(raws []models.RawItem) ([]models.CatalogItem, error) {
	items := make([]models.CatalogItem, 0, len(raws))
	for _, raw := range raws {
		item, err := c.Convert(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ImageRef joins the image base URL and a poster path
func ImageRef(base, posterPath string) string {
	if posterPath == "" {
		return ""
	}
	if strings.HasPrefix(posterPath, "http://") || strings.HasPrefix(posterPath, "https://") {
		return posterPath
	}
	if base == "" {
		base = DefaultImageBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(posterPath, "/")
}
