package watcher

import (
	"strings"
	"time"

	"github.com/alejandrodnm/ebaybot/internal/domain"
)

// FilterConfig contiene los criterios configurables del filtro de reglas.
type FilterConfig struct {
	// MinPrice y MaxPrice acotan el precio actual aceptable.
	MinPrice float64
	MaxPrice float64
	// MaxTimeRemaining descarta subastas que cierran más tarde que esto.
	MaxTimeRemaining time.Duration
	// MinBids exige una actividad mínima de pujas.
	MinBids int
	// PremiumBrands son los tokens de marca que deben aparecer en el título.
	PremiumBrands []string
	// ExcludeKeywords descartan el listing si aparecen en el título.
	ExcludeKeywords []string
}

// Filter decide si un listing siquiera califica para evaluación.
// Sin efectos secundarios más allá de setear BrandMatch en los que pasan.
type Filter struct {
	cfg FilterConfig
}

// NewFilter crea un Filter con la configuración dada.
func NewFilter(cfg FilterConfig) *Filter {
	return &Filter{cfg: cfg}
}

// Apply devuelve los listings que pasan todas las reglas, con BrandMatch
// seteado a la marca que matcheó.
func (f *Filter) Apply(listings []domain.Listing) []domain.Listing {
	result := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if f.Passes(&l) {
			result = append(result, l)
		}
	}
	return result
}

// Passes devuelve true si el listing supera todas las reglas. Setea
// l.BrandMatch cuando una marca premium matchea. Fail-closed: datos
// faltantes o inconsistentes descartan el listing, nunca lo dejan pasar.
func (f *Filter) Passes(l *domain.Listing) bool {
	// Sin precio utilizable no hay decisión posible
	if !l.HasPrice() {
		return false
	}
	if l.CurrentPrice < f.cfg.MinPrice || l.CurrentPrice > f.cfg.MaxPrice {
		return false
	}

	brand, ok := f.matchBrand(l.Title)
	if !ok {
		return false
	}

	if f.hasExcludedKeyword(l.Title) {
		return false
	}

	// Subastas ya terminadas fallan, no erroran
	if l.Ended() || l.TimeRemaining > f.cfg.MaxTimeRemaining {
		return false
	}

	if l.BidCount < f.cfg.MinBids {
		return false
	}

	l.BrandMatch = brand
	return true
}

// matchBrand busca la primera marca premium configurada que aparezca en el
// título (substring, case-insensitive). El orden de configuración decide
// ante títulos que mencionan más de una marca.
func (f *Filter) matchBrand(title string) (string, bool) {
	lower := strings.ToLower(title)
	for _, brand := range f.cfg.PremiumBrands {
		if strings.Contains(lower, strings.ToLower(brand)) {
			return brand, true
		}
	}
	return "", false
}

// hasExcludedKeyword devuelve true si el título contiene alguna palabra excluida.
func (f *Filter) hasExcludedKeyword(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range f.cfg.ExcludeKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
