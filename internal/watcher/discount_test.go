package watcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/ebaybot/internal/domain"
)

func testBands() map[string]PriceBand {
	return map[string]PriceBand{
		"MacBook":  {Low: 900, High: 2200},
		"ThinkPad": {Low: 550, High: 1300},
	}
}

func TestDiscountResolver_RealDiscountWins(t *testing.T) {
	r := NewDiscountResolver(testBands())
	l := domain.Listing{CurrentPrice: 899, OriginalPrice: 1299, BrandMatch: "MacBook"}

	assert.InDelta(t, 30.79, r.Resolve(l), 0.01)
}

func TestDiscountResolver_FallbackToBand(t *testing.T) {
	r := NewDiscountResolver(testBands())
	// Sin precio original: MacBook a 600 contra piso de 900 → 33.3%
	l := domain.Listing{CurrentPrice: 600, BrandMatch: "MacBook"}

	assert.InDelta(t, 33.33, r.Resolve(l), 0.01)
}

func TestDiscountResolver_OriginalBelowCurrentUsesFallback(t *testing.T) {
	r := NewDiscountResolver(testBands())
	// Precio "was" menor al actual no es descuento: cae al fallback
	l := domain.Listing{CurrentPrice: 700, OriginalPrice: 650, BrandMatch: "MacBook"}

	assert.InDelta(t, 22.22, r.Resolve(l), 0.01)
}

func TestDiscountResolver_NoBandForBrand(t *testing.T) {
	r := NewDiscountResolver(testBands())
	l := domain.Listing{CurrentPrice: 400, BrandMatch: "XPS"}

	assert.Equal(t, 0.0, r.Resolve(l))
}

func TestDiscountResolver_PriceWithinBand(t *testing.T) {
	r := NewDiscountResolver(testBands())
	l := domain.Listing{CurrentPrice: 1100, BrandMatch: "MacBook"}

	assert.Equal(t, 0.0, r.Resolve(l))
}

func TestDiscountResolver_FallbackMonotonic(t *testing.T) {
	r := NewDiscountResolver(testBands())

	prev := 0.0
	for price := 890.0; price >= 200; price -= 30 {
		l := domain.Listing{CurrentPrice: price, BrandMatch: "MacBook"}
		got := r.Resolve(l)
		assert.GreaterOrEqual(t, got, prev, "precio %.0f", price)
		prev = got
	}
}
