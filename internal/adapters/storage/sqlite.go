package storage

// sqlite.go — ledger de notificaciones sobre SQLite (pure Go, sin CGo).
//
// Estrategia:
//   - `notified_auctions`: una fila por listing notificado, listing_id como
//     PRIMARY KEY. El INSERT OR IGNORE hace el commit idempotente: re-insertar
//     tras un ciclo parcialmente fallido es seguro.
//   - `cycles`: resumen ligero por ciclo (conteos + mejor score).
//   - Purge por retención en cada ciclo; los ciclos viejos se podan con una
//     retención fija más larga.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alejandrodnm/ebaybot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Subastas ya notificadas: la clave de dedup es listing_id
CREATE TABLE IF NOT EXISTS notified_auctions (
    listing_id       TEXT PRIMARY KEY,
    title            TEXT NOT NULL,
    current_price    REAL NOT NULL,
    original_price   REAL,
    discount_percent REAL    NOT NULL DEFAULT 0,
    bids             INTEGER NOT NULL DEFAULT 0,
    brand            TEXT,
    score            REAL    NOT NULL DEFAULT 0,
    url              TEXT,
    notified_at      DATETIME NOT NULL
);

-- Resumen ligero por ciclo de evaluación
CREATE TABLE IF NOT EXISTS cycles (
    id         TEXT PRIMARY KEY,
    started_at DATETIME NOT NULL,
    fetched    INTEGER  NOT NULL DEFAULT 0,
    candidates INTEGER  NOT NULL DEFAULT 0,
    notified   INTEGER  NOT NULL DEFAULT 0,
    best_score REAL     NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_notified_at   ON notified_auctions(notified_at);
CREATE INDEX IF NOT EXISTS idx_cycles_start  ON cycles(started_at DESC);
`

// retentionCycles poda los resúmenes de ciclo; independiente de la
// retención del ledger de notificaciones, que viene por config.
const retentionCycles = 30 * 24 * time.Hour

// Los timestamps se guardan como texto RFC3339 en UTC: el formato es
// estable ante drivers y el orden lexicográfico coincide con el
// cronológico, así `MAX` y las comparaciones de purge funcionan sobre
// el texto tal cual.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// SQLiteLedger implementa ports.Ledger usando SQLite.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger abre (o crea) la base de datos en la ruta dada y
// aplica el schema.
func NewSQLiteLedger(path string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteLedger: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteLedger: apply schema: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

// HasNotified devuelve si el listing ya fue notificado. Distingue
// "no encontrado" (false, nil) de "lectura fallida" (false, err): un
// ledger ilegible nunca debe responder "nunca visto".
func (s *SQLiteLedger) HasNotified(ctx context.Context, listingID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM notified_auctions WHERE listing_id = ?`, listingID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage.HasNotified: query %s: %w", listingID, err)
	}
	return true, nil
}

// RecordNotified inserta la entrada. INSERT OR IGNORE: re-insertar un
// listing ya presente es un no-op, así un commit reintentado tras un
// fallo parcial siempre es seguro.
func (s *SQLiteLedger) RecordNotified(ctx context.Context, e domain.LedgerEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO notified_auctions
			(listing_id, title, current_price, original_price, discount_percent,
			 bids, brand, score, url, notified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ListingID,
		e.Title,
		e.CurrentPrice,
		nullFloat(e.OriginalPrice),
		e.DiscountPercent,
		e.BidCount,
		nullString(e.Brand),
		e.Score,
		e.URL,
		formatTime(e.NotifiedAt),
	)
	if err != nil {
		return fmt.Errorf("storage.RecordNotified: insert %s: %w", e.ListingID, err)
	}
	return nil
}

// PurgeOlderThan elimina entradas más viejas que la ventana dada y poda
// los resúmenes de ciclo viejos. Devuelve cuántas entradas del ledger
// se eliminaron.
func (s *SQLiteLedger) PurgeOlderThan(ctx context.Context, window time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().Add(-window))
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notified_auctions WHERE notified_at < ?`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("storage.PurgeOlderThan: delete: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage.PurgeOlderThan: rows affected: %w", err)
	}

	cutoffCycles := formatTime(time.Now().Add(-retentionCycles))
	s.db.ExecContext(ctx, `DELETE FROM cycles WHERE started_at < ?`, cutoffCycles)

	return deleted, nil
}

// SaveCycle persiste el resumen de un ciclo.
func (s *SQLiteLedger) SaveCycle(ctx context.Context, c domain.CycleSummary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cycles (id, started_at, fetched, candidates, notified, best_score)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, formatTime(c.StartedAt), c.Fetched, c.Candidates, c.Notified, c.BestScore,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveCycle: insert %s: %w", c.ID, err)
	}
	return nil
}

// Stats devuelve el total de notificaciones, el desglose por marca y el
// timestamp de la última notificación.
func (s *SQLiteLedger) Stats(ctx context.Context) (domain.LedgerStats, error) {
	stats := domain.LedgerStats{ByBrand: make(map[string]int)}

	var last sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MAX(notified_at) FROM notified_auctions`,
	).Scan(&stats.TotalNotified, &last)
	if err != nil {
		return domain.LedgerStats{}, fmt.Errorf("storage.Stats: totals: %w", err)
	}
	if last.Valid {
		t, err := time.Parse(time.RFC3339, last.String)
		if err != nil {
			return domain.LedgerStats{}, fmt.Errorf("storage.Stats: parse last notified_at %q: %w", last.String, err)
		}
		stats.LastNotifiedAt = t
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT brand, COUNT(*)
		FROM notified_auctions
		WHERE brand IS NOT NULL
		GROUP BY brand`,
	)
	if err != nil {
		return domain.LedgerStats{}, fmt.Errorf("storage.Stats: by brand: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var brand string
		var count int
		if err := rows.Scan(&brand, &count); err != nil {
			return domain.LedgerStats{}, fmt.Errorf("storage.Stats: scan row: %w", err)
		}
		stats.ByBrand[brand] = count
	}

	return stats, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteLedger) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

func nullFloat(f float64) any {
	if f <= 0 {
		return nil
	}
	return f
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
