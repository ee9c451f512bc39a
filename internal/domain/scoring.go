package domain

import (
	"math"
	"time"
)

// Componentes aditivos del score de interés. Cada componente está acotado
// y es monótono en su señal; el total no se recorta: los llamadores
// ordenan por valor crudo.
const (
	// DiscountCap limita el aporte del descuento (100% de descuento → 10 pts).
	DiscountCap = 10.0
	// ActivityCap limita el aporte de las pujas (20+ pujas → 10 pts).
	ActivityCap = 10.0
	// TopTierBonus es el bonus plano para marcas top (MacBook, Alienware).
	TopTierBonus = 3.0
	// PremiumBonus es el bonus plano para el resto de marcas premium.
	PremiumBonus = 2.0
)

// DiscountComponent devuelve los puntos por porcentaje de descuento.
//
// Fórmula: min(descuento / 10, DiscountCap)
// Monótono creciente en el descuento; 0 si no hay descuento.
func DiscountComponent(discountPct float64) float64 {
	if discountPct <= 0 {
		return 0
	}
	return math.Min(discountPct/10, DiscountCap)
}

// ActivityComponent devuelve los puntos por actividad de pujas.
//
// Fórmula: min(pujas / 2, ActivityCap)
// Rendimientos decrecientes: pasadas las 20 pujas, más pujas no suman.
func ActivityComponent(bids int) float64 {
	if bids <= 0 {
		return 0
	}
	return math.Min(float64(bids)/2, ActivityCap)
}

// UrgencyComponent devuelve los puntos por cercanía al cierre.
// Escalones dentro de la ventana monitoreada (≤3h): cuanto menos tiempo
// queda, más puntos. Fuera de la ventana o ya terminada → 0.
func UrgencyComponent(remaining time.Duration) float64 {
	if remaining <= 0 {
		return 0
	}
	switch h := remaining.Hours(); {
	case h <= 1:
		return 5
	case h <= 2:
		return 3
	case h <= 3:
		return 1
	default:
		return 0
	}
}

// BrandBonus devuelve el bonus plano por marca premium.
func BrandBonus(topTier bool) float64 {
	if topTier {
		return TopTierBonus
	}
	return PremiumBonus
}

// PriceComponent devuelve los puntos por precio absoluto atractivo,
// independiente del descuento: captura lo "objetivamente barato" aunque
// la matemática de descuento sea ruidosa.
func PriceComponent(price float64) float64 {
	switch {
	case price <= 0:
		return 0
	case price <= 500:
		return 3
	case price <= 800:
		return 2
	case price <= 1200:
		return 1
	default:
		return 0
	}
}

// RealDiscount calcula el porcentaje de descuento contra el precio original.
// Devuelve 0 si no hay precio original o no hay descuento real.
func RealDiscount(current, original float64) float64 {
	if original <= 0 || current <= 0 || original <= current {
		return 0
	}
	return (original - current) / original * 100
}

// EstimatedDiscount sintetiza un descuento cuando el listing no trae precio
// original: el gap entre el precio actual y el piso de la banda de mercado
// de la marca.
//
// Fórmula: (bandLow - current) / bandLow × 100
// Determinista y monótono: a menor precio actual (misma marca), nunca
// menor descuento estimado.
func EstimatedDiscount(current, bandLow float64) float64 {
	if current <= 0 || bandLow <= 0 || current >= bandLow {
		return 0
	}
	return (bandLow - current) / bandLow * 100
}
