package domain

import "time"

// EvaluationResult es el veredicto sobre un listing que pasó el filtro y
// aún no fue notificado. Los reasons explican por qué califica, en el
// orden fijo marca → descuento → actividad → urgencia → precio.
type EvaluationResult struct {
	Listing         Listing
	Score           float64
	DiscountPercent float64 // descuento real o estimado por banda de precio
	Reasons         []string
}

// LedgerEntry es una fila del ledger de notificaciones. Guarda el snapshot
// del listing al momento de notificar, además de la clave de dedup.
type LedgerEntry struct {
	ListingID       string
	Title           string
	CurrentPrice    float64
	OriginalPrice   float64
	DiscountPercent float64
	BidCount        int
	Brand           string
	Score           float64
	URL             string
	NotifiedAt      time.Time
}

// CycleSummary es el resumen ligero de un ciclo de evaluación.
type CycleSummary struct {
	ID         string // uuid del ciclo, aparece también en los logs
	StartedAt  time.Time
	Fetched    int // listings recibidos del feed
	Candidates int // pasaron filtro + dedup
	Notified   int // entregados y commiteados
	BestScore  float64
}

// LedgerStats son las estadísticas agregadas del ledger.
type LedgerStats struct {
	TotalNotified  int
	ByBrand        map[string]int
	LastNotifiedAt time.Time // cero si el ledger está vacío
}
