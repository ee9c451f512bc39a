package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/alejandrodnm/ebaybot/internal/domain"
)

// formatMessage arma el mensaje Markdown para un listing calificado.
func formatMessage(res domain.EvaluationResult) string {
	l := res.Listing

	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n\n", domain.TruncateTitle(l.Title, l.ID, 60))
	fmt.Fprintf(&sb, "💰 *Precio actual:* $%.2f\n", l.CurrentPrice)
	if res.DiscountPercent > 0 {
		fmt.Fprintf(&sb, "📉 *Descuento:* %.1f%%\n", res.DiscountPercent)
	}
	fmt.Fprintf(&sb, "🔨 *Pujas:* %d\n", l.BidCount)
	fmt.Fprintf(&sb, "⏰ *Termina en:* %s\n", formatRemaining(l.TimeRemaining))
	if l.BrandMatch != "" {
		fmt.Fprintf(&sb, "🏢 *Marca:* %s\n", l.BrandMatch)
	}
	fmt.Fprintf(&sb, "⭐ *Score:* %.2f\n", res.Score)

	if len(res.Reasons) > 0 {
		fmt.Fprintf(&sb, "📋 %s\n", strings.Join(res.Reasons, " · "))
	}

	if l.URL != "" {
		fmt.Fprintf(&sb, "\n🔗 [Ver en eBay](%s)", l.URL)
	}

	return sb.String()
}

// formatRemaining imprime el tiempo restante como "2h15m" o "45m".
func formatRemaining(d time.Duration) string {
	if d <= 0 {
		return "terminada"
	}
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
