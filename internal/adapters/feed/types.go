package feed

import "time"

// listingRecord es el shape wire de un listing ya normalizado por el
// colaborador de scraping. El core no sabe de dónde salió el HTML.
type listingRecord struct {
	ItemID        string    `json:"item_id"`
	Title         string    `json:"title"`
	CurrentPrice  float64   `json:"current_price"`
	OriginalPrice float64   `json:"original_price,omitempty"` // 0 u omitido = sin precio "was"
	Bids          int       `json:"bids"`
	EndTime       time.Time `json:"end_time"`
	URL           string    `json:"url"`
}
