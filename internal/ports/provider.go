package ports

import (
	"context"

	"github.com/alejandrodnm/ebaybot/internal/domain"
)

// ListingProvider entrega los listings activos ya normalizados al shape
// del dominio. El core no sabe (ni le importa) cómo se obtuvieron.
type ListingProvider interface {
	// FetchListings devuelve los listings del ciclo actual.
	// Los registros malformados se descartan antes de llegar aquí.
	FetchListings(ctx context.Context) ([]domain.Listing, error)
}
