package watcher

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/ebaybot/internal/domain"
)

// ScorerConfig contiene los parámetros configurables del score.
type ScorerConfig struct {
	// MinDiscountPercent es el piso bajo el cual el descuento no puntúa
	// ni genera razón.
	MinDiscountPercent float64
	// TopTierBrands reciben el bonus de marca mayor.
	TopTierBrands []string
	// HighActivityBids es el umbral para la razón de actividad alta.
	HighActivityBids int
}

// Scorer calcula el score de interés y sus razones. Determinista y puro:
// todo sale de los campos del listing, sin lookups externos.
type Scorer struct {
	cfg     ScorerConfig
	topTier map[string]bool
}

// NewScorer crea un Scorer con la configuración dada.
func NewScorer(cfg ScorerConfig) *Scorer {
	top := make(map[string]bool, len(cfg.TopTierBrands))
	for _, b := range cfg.TopTierBrands {
		top[b] = true
	}
	return &Scorer{cfg: cfg, topTier: top}
}

// Score suma los componentes acotados y devuelve (score, razones).
// Las razones se emiten en orden fijo: marca → descuento → actividad →
// urgencia → precio. El total no se recorta a 10: los llamadores ordenan
// por valor crudo.
func (s *Scorer) Score(l domain.Listing, discountPct float64) (float64, []string) {
	var score float64
	var reasons []string

	// 1. Marca premium
	if l.BrandMatch != "" {
		score += domain.BrandBonus(s.topTier[l.BrandMatch])
		reasons = append(reasons, fmt.Sprintf("marca premium: %s", l.BrandMatch))
	}

	// 2. Descuento — bajo el piso configurado no suma ni se menciona
	if discountPct > 0 && discountPct >= s.cfg.MinDiscountPercent {
		score += domain.DiscountComponent(discountPct)
		reasons = append(reasons, fmt.Sprintf("descuento: %.1f%%", discountPct))
	}

	// 3. Actividad de pujas
	score += domain.ActivityComponent(l.BidCount)
	if l.BidCount > 0 && l.BidCount >= s.cfg.HighActivityBids {
		reasons = append(reasons, fmt.Sprintf("actividad alta: %d pujas", l.BidCount))
	}

	// 4. Urgencia
	if u := domain.UrgencyComponent(l.TimeRemaining); u > 0 {
		score += u
		reasons = append(reasons, "termina pronto")
	}

	// 5. Precio absoluto atractivo
	score += domain.PriceComponent(l.CurrentPrice)
	if l.CurrentPrice > 0 && l.CurrentPrice <= 500 {
		reasons = append(reasons, "precio muy atractivo")
	}

	return math.Round(score*100) / 100, reasons
}
