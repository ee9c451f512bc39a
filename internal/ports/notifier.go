package ports

import (
	"context"

	"github.com/alejandrodnm/ebaybot/internal/domain"
)

// Notifier entrega una notificación por listing calificado.
// La entrega es por item, no por batch: el engine solo commitea al ledger
// los envíos que el notifier confirma con retorno nil.
type Notifier interface {
	// Send formatea y transmite el resultado. Un error significa que la
	// entrega NO se confirmó y el listing debe reintentarse el próximo ciclo.
	Send(ctx context.Context, result domain.EvaluationResult) error
}
