// Package pricing computes basket-size dependent movie prices.
//
// Every movie in the basket gets the same discount: 0.5% per movie in the
// basket. DiscountFactor and PriceFor apply the formula as-is, so a basket of
// 200 or more movies yields a zero or negative factor. Engine lets callers
// choose whether to clamp it.
package pricing

import "github.com/shopspring/decimal"

// DefaultStep is the discount granted per movie in the basket (0.5%)
var DefaultStep = decimal.RequireFromString("0.005")

var one = decimal.NewFromInt(1)

// DiscountFactor returns 1 - basketSize*0.005 without any guard
func DiscountFactor(basketSize int) decimal.Decimal {
	return factor(DefaultStep, basketSize)
}

// PriceFor returns originalPrice * DiscountFactor(basketSize)
func PriceFor(originalPrice decimal.Decimal, basketSize int) decimal.Decimal {
	return originalPrice.Mul(DiscountFactor(basketSize))
}

func factor(step decimal.Decimal, basketSize int) decimal.Decimal {
	return one.Sub(step.Mul(decimal.NewFromInt(int64(basketSize))))
}

// Engine is a configurable pricing policy. The zero value grants no
// discount; use Default for the application's policy.
type Engine struct {
	Step        decimal.Decimal // Discount per basket item
	ClampAtZero bool            // Never let the factor drop below zero
}

// Default returns the engine used by the application: 0.5% per item, clamped at zero
func Default() Engine {
	return Engine{Step: DefaultStep, ClampAtZero: true}
}

// Factor returns the basket-wide discount factor for the given size
func (e Engine) Factor(basketSize int) decimal.Decimal {
	f := factor(e.Step, basketSize)
	if e.ClampAtZero && f.IsNegative() {
		return decimal.Zero
	}
	return f
}

// Price returns the discounted price of one item for the given basket size
func (e Engine) Price(originalPrice decimal.Decimal, basketSize int) decimal.Decimal {
	return originalPrice.Mul(e.Factor(basketSize))
}
