package domain

import "time"

// Listing representa una subasta de laptop observada en un ciclo.
// Es inmutable dentro del ciclo: precio, pujas y tiempo restante pueden
// cambiar entre ciclos, pero el ID identifica siempre la misma subasta.
type Listing struct {
	ID            string
	Title         string
	CurrentPrice  float64
	OriginalPrice float64 // 0 = el listing no trae precio "was"
	BidCount      int
	TimeRemaining time.Duration // negativo = subasta ya terminada
	URL           string

	// BrandMatch es la marca premium configurada que matcheó en el título.
	// Lo setea el filtro; vacío si ninguna matcheó.
	BrandMatch string
}

// HasPrice devuelve true si el listing trae un precio actual utilizable.
func (l Listing) HasPrice() bool {
	return l.CurrentPrice > 0
}

// HasOriginalPrice devuelve true si el listing trae precio original ("was").
func (l Listing) HasOriginalPrice() bool {
	return l.OriginalPrice > 0
}

// Ended devuelve true si la subasta ya terminó.
func (l Listing) Ended() bool {
	return l.TimeRemaining <= 0
}

// TruncateTitle devuelve el título truncado a maxLen caracteres.
// Si el título está vacío usa el ID como fallback. Trunca por runas:
// cortar por bytes partiría un carácter multibyte del título.
func TruncateTitle(title, id string, maxLen int) string {
	t := title
	if t == "" {
		t = id
	}
	if r := []rune(t); len(r) > maxLen {
		t = string(r[:maxLen-3]) + "..."
	}
	return t
}
