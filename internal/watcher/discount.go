package watcher

import "github.com/alejandrodnm/ebaybot/internal/domain"

// PriceBand es el rango de precio de mercado esperado para una marca.
type PriceBand struct {
	Low  float64
	High float64
}

// DiscountResolver calcula el porcentaje de descuento de un listing.
// Muchos listings no traen precio "was": tratarlos como descuento cero
// subestimaría sistemáticamente los chollos de marcas premium, así que
// en ese caso se estima contra el piso de la banda de mercado de la marca.
type DiscountResolver struct {
	bands map[string]PriceBand // marca → banda de mercado
}

// NewDiscountResolver crea un resolver con las bandas de precio dadas.
func NewDiscountResolver(bands map[string]PriceBand) *DiscountResolver {
	return &DiscountResolver{bands: bands}
}

// Resolve devuelve el descuento del listing en porcentaje (0 si no hay
// nada computable). Prioridad: descuento real contra el precio original;
// si no existe, estimación contra la banda de la marca matcheada.
func (r *DiscountResolver) Resolve(l domain.Listing) float64 {
	if l.HasOriginalPrice() && l.OriginalPrice > l.CurrentPrice {
		return domain.RealDiscount(l.CurrentPrice, l.OriginalPrice)
	}

	band, ok := r.bands[l.BrandMatch]
	if !ok {
		return 0
	}
	return domain.EstimatedDiscount(l.CurrentPrice, band.Low)
}
