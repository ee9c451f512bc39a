package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiscountComponent_Linear(t *testing.T) {
	assert.InDelta(t, 3.0, DiscountComponent(30), 0.001)
}

func TestDiscountComponent_CapAt100Percent(t *testing.T) {
	assert.Equal(t, DiscountCap, DiscountComponent(100))
	assert.Equal(t, DiscountCap, DiscountComponent(150))
}

func TestDiscountComponent_NoDiscount(t *testing.T) {
	assert.Equal(t, 0.0, DiscountComponent(0))
	assert.Equal(t, 0.0, DiscountComponent(-5))
}

func TestDiscountComponent_Monotonic(t *testing.T) {
	prev := 0.0
	for pct := 0.0; pct <= 120; pct += 5 {
		got := DiscountComponent(pct)
		assert.GreaterOrEqual(t, got, prev, "descuento %.0f%%", pct)
		prev = got
	}
}

// --- ActivityComponent ---

func TestActivityComponent_HalfPointPerBid(t *testing.T) {
	assert.InDelta(t, 3.5, ActivityComponent(7), 0.001)
}

func TestActivityComponent_DiminishingReturns(t *testing.T) {
	// Pasadas las 20 pujas el componente no crece más
	assert.Equal(t, ActivityCap, ActivityComponent(20))
	assert.Equal(t, ActivityCap, ActivityComponent(80))
}

func TestActivityComponent_NoBids(t *testing.T) {
	assert.Equal(t, 0.0, ActivityComponent(0))
}

// --- UrgencyComponent ---

func TestUrgencyComponent_Steps(t *testing.T) {
	assert.Equal(t, 5.0, UrgencyComponent(30*time.Minute))
	assert.Equal(t, 5.0, UrgencyComponent(time.Hour))
	assert.Equal(t, 3.0, UrgencyComponent(90*time.Minute))
	assert.Equal(t, 1.0, UrgencyComponent(2*time.Hour+30*time.Minute))
	assert.Equal(t, 0.0, UrgencyComponent(4*time.Hour))
}

func TestUrgencyComponent_EndedAuction(t *testing.T) {
	assert.Equal(t, 0.0, UrgencyComponent(0))
	assert.Equal(t, 0.0, UrgencyComponent(-10*time.Minute))
}

func TestUrgencyComponent_MinutesBeatHours(t *testing.T) {
	// Dentro de la ventana ≤3h, terminar en minutos puntúa más que en horas
	assert.Greater(t, UrgencyComponent(20*time.Minute), UrgencyComponent(2*time.Hour+15*time.Minute))
}

// --- BrandBonus / PriceComponent ---

func TestBrandBonus(t *testing.T) {
	assert.Equal(t, TopTierBonus, BrandBonus(true))
	assert.Equal(t, PremiumBonus, BrandBonus(false))
}

func TestPriceComponent_Tiers(t *testing.T) {
	assert.Equal(t, 3.0, PriceComponent(450))
	assert.Equal(t, 3.0, PriceComponent(500))
	assert.Equal(t, 2.0, PriceComponent(700))
	assert.Equal(t, 1.0, PriceComponent(1000))
	assert.Equal(t, 0.0, PriceComponent(1500))
	assert.Equal(t, 0.0, PriceComponent(0))
}

// --- RealDiscount ---

func TestRealDiscount_Basic(t *testing.T) {
	// (1299 - 899) / 1299 × 100 = 30.79%
	assert.InDelta(t, 30.79, RealDiscount(899, 1299), 0.01)
}

func TestRealDiscount_NoOriginalOrNoGap(t *testing.T) {
	assert.Equal(t, 0.0, RealDiscount(899, 0))
	assert.Equal(t, 0.0, RealDiscount(899, 899))
	assert.Equal(t, 0.0, RealDiscount(899, 800))
}

// --- EstimatedDiscount ---

func TestEstimatedDiscount_BelowBand(t *testing.T) {
	// (900 - 600) / 900 × 100 = 33.33%
	assert.InDelta(t, 33.33, EstimatedDiscount(600, 900), 0.01)
}

func TestEstimatedDiscount_AtOrAboveBand(t *testing.T) {
	assert.Equal(t, 0.0, EstimatedDiscount(900, 900))
	assert.Equal(t, 0.0, EstimatedDiscount(1200, 900))
}

func TestEstimatedDiscount_MonotonicInFallingPrice(t *testing.T) {
	// A menor precio actual, nunca menor descuento estimado
	prev := EstimatedDiscount(900, 900)
	for price := 850.0; price >= 100; price -= 50 {
		got := EstimatedDiscount(price, 900)
		assert.GreaterOrEqual(t, got, prev, "precio %.0f", price)
		prev = got
	}
}
