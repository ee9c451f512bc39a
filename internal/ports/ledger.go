package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/ebaybot/internal/domain"
)

// Ledger es la fuente de verdad del estado "ya notificado".
type Ledger interface {
	// HasNotified devuelve si el listing ya fue notificado. "No encontrado"
	// es (false, nil); un fallo de lectura es (false, err) y el llamador
	// NUNCA debe interpretarlo como "no notificado".
	HasNotified(ctx context.Context, listingID string) (bool, error)

	// RecordNotified inserta la entrada. Idempotente: re-insertar un
	// listing_id existente es un no-op, no un error.
	RecordNotified(ctx context.Context, entry domain.LedgerEntry) error

	// PurgeOlderThan elimina entradas con notified_at anterior a now-window.
	// Devuelve cuántas filas se eliminaron.
	PurgeOlderThan(ctx context.Context, window time.Duration) (int64, error)

	// SaveCycle persiste el resumen de un ciclo.
	SaveCycle(ctx context.Context, summary domain.CycleSummary) error

	// Stats devuelve estadísticas agregadas del ledger.
	Stats(ctx context.Context) (domain.LedgerStats, error)

	Close() error
}
