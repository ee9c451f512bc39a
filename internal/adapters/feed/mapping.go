package feed

import (
	"log/slog"
	"time"

	"github.com/alejandrodnm/ebaybot/internal/domain"
)

// mapListings convierte los registros wire en listings de dominio.
// Los registros malformados (sin ID, sin precio, sin URL o sin fecha de
// cierre) se descartan con un warn: nunca deben llegar al filtro datos
// con los que no se puede decidir.
func mapListings(records []listingRecord, now time.Time) []domain.Listing {
	listings := make([]domain.Listing, 0, len(records))
	for _, rec := range records {
		l, ok := mapListing(rec, now)
		if !ok {
			slog.Warn("dropping malformed listing record",
				"item_id", rec.ItemID, "title", rec.Title)
			continue
		}
		listings = append(listings, l)
	}
	return listings
}

// mapListing valida y convierte un registro. El tiempo restante puede
// quedar negativo (subasta terminada): eso lo decide el filtro, no el feed.
func mapListing(rec listingRecord, now time.Time) (domain.Listing, bool) {
	if rec.ItemID == "" || rec.Title == "" || rec.URL == "" {
		return domain.Listing{}, false
	}
	if rec.CurrentPrice <= 0 || rec.Bids < 0 {
		return domain.Listing{}, false
	}
	if rec.EndTime.IsZero() {
		return domain.Listing{}, false
	}

	return domain.Listing{
		ID:            rec.ItemID,
		Title:         rec.Title,
		CurrentPrice:  rec.CurrentPrice,
		OriginalPrice: rec.OriginalPrice,
		BidCount:      rec.Bids,
		TimeRemaining: rec.EndTime.Sub(now),
		URL:           rec.URL,
	}, true
}
