package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/ebaybot/internal/domain"
	"github.com/alejandrodnm/ebaybot/internal/ports"
)

// Config contiene la configuración del watcher.
type Config struct {
	Interval  time.Duration
	Retention time.Duration // ventana de vida de las entradas del ledger
	Filter    FilterConfig
	Scorer    ScorerConfig
	Bands     map[string]PriceBand
}

// Watcher orquesta el ciclo filtro → dedup → score → notificar → commit.
type Watcher struct {
	cfg       Config
	provider  ports.ListingProvider
	ledger    ports.Ledger
	notifier  ports.Notifier
	filter    *Filter
	discounts *DiscountResolver
	scorer    *Scorer
}

// New crea un Watcher con todas las dependencias inyectadas.
func New(cfg Config, provider ports.ListingProvider, ledger ports.Ledger, notifier ports.Notifier) *Watcher {
	return &Watcher{
		cfg:       cfg,
		provider:  provider,
		ledger:    ledger,
		notifier:  notifier,
		filter:    NewFilter(cfg.Filter),
		discounts: NewDiscountResolver(cfg.Bands),
		scorer:    NewScorer(cfg.Scorer),
	}
}

// Run ejecuta el loop de ciclos hasta que el contexto se cancele.
// Un solo goroutine consume el ticker, así que nunca corren dos ciclos a
// la vez: la secuencia leer-ledger-luego-escribir queda protegida sin locks.
func (w *Watcher) Run(ctx context.Context) error {
	slog.Info("watcher starting",
		"interval", w.cfg.Interval,
		"retention", w.cfg.Retention,
	)

	if err := w.runCycle(ctx); err != nil {
		slog.Error("watch cycle failed", "err", err)
	}

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("watcher stopped")
			return nil
		case <-ticker.C:
			if err := w.runCycle(ctx); err != nil {
				slog.Error("watch cycle failed", "err", err)
			}
		}
	}
}

// RunOnce hace fetch → filtro → dedup → score → rank, sin entregar ni
// commitear nada. Útil para inspección manual y tests.
func (w *Watcher) RunOnce(ctx context.Context) ([]domain.EvaluationResult, error) {
	listings, err := w.provider.FetchListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("watcher.RunOnce: fetch listings: %w", err)
	}
	return w.Evaluate(ctx, listings)
}

// runCycle ejecuta un ciclo completo: purga, evalúa, entrega y persiste.
func (w *Watcher) runCycle(ctx context.Context) error {
	cycleID := uuid.New().String()
	start := time.Now()

	// Purga antes de evaluar; un fallo aquí no impide el ciclo, solo
	// deja basura vieja un ciclo más.
	if purged, err := w.ledger.PurgeOlderThan(ctx, w.cfg.Retention); err != nil {
		slog.Warn("ledger purge failed", "cycle", cycleID, "err", err)
	} else if purged > 0 {
		slog.Info("ledger purged", "cycle", cycleID, "entries", purged)
	}

	listings, err := w.provider.FetchListings(ctx)
	if err != nil {
		return fmt.Errorf("watcher.runCycle: fetch listings: %w", err)
	}

	results, err := w.Evaluate(ctx, listings)
	if err != nil {
		return fmt.Errorf("watcher.runCycle: %w", err)
	}

	notified, deliverErr := w.deliver(ctx, results)

	summary := domain.CycleSummary{
		ID:         cycleID,
		StartedAt:  start.UTC(),
		Fetched:    len(listings),
		Candidates: len(results),
		Notified:   notified,
		BestScore:  bestScore(results),
	}
	if err := w.ledger.SaveCycle(ctx, summary); err != nil {
		slog.Warn("cycle summary not saved", "cycle", cycleID, "err", err)
	}

	slog.Info("watch cycle complete",
		"cycle", cycleID,
		"fetched", summary.Fetched,
		"candidates", summary.Candidates,
		"notified", summary.Notified,
		"best_score", summary.BestScore,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if deliverErr != nil {
		return fmt.Errorf("watcher.runCycle: %w", deliverErr)
	}
	return nil
}

// Evaluate aplica filtro → dedup → descuento → score y devuelve los
// resultados ordenados por score. Un fallo de lectura del ledger aborta
// la evaluación: un ledger ilegible jamás se interpreta como "nunca visto",
// porque eso dispararía notificaciones duplicadas en masa.
func (w *Watcher) Evaluate(ctx context.Context, listings []domain.Listing) ([]domain.EvaluationResult, error) {
	passed := w.filter.Apply(listings)

	results := make([]domain.EvaluationResult, 0, len(passed))
	for _, l := range passed {
		seen, err := w.ledger.HasNotified(ctx, l.ID)
		if err != nil {
			return nil, fmt.Errorf("watcher.Evaluate: ledger lookup %s: %w", l.ID, err)
		}
		if seen {
			continue
		}

		discount := w.discounts.Resolve(l)
		score, reasons := w.scorer.Score(l, discount)
		results = append(results, domain.EvaluationResult{
			Listing:         l,
			Score:           score,
			DiscountPercent: discount,
			Reasons:         reasons,
		})
	}

	rankResults(results)
	return results, nil
}

// deliver entrega cada resultado y commitea al ledger los confirmados.
// Un fallo de entrega NO commitea (se reintenta el próximo ciclo) y no
// frena el resto del batch. Un fallo de commit sí aborta el resto: sin
// ledger confiable no hay garantía de exactly-once, y lo ya commiteado
// queda commiteado.
func (w *Watcher) deliver(ctx context.Context, results []domain.EvaluationResult) (int, error) {
	notified := 0
	for _, res := range results {
		if err := w.notifier.Send(ctx, res); err != nil {
			slog.Warn("delivery failed, will retry next cycle",
				"listing", res.Listing.ID, "err", err)
			continue
		}

		entry := entryFrom(res, time.Now().UTC())
		if err := w.ledger.RecordNotified(ctx, entry); err != nil {
			return notified, fmt.Errorf("watcher.deliver: record %s: %w", res.Listing.ID, err)
		}
		notified++

		slog.Info("listing notified",
			"listing", res.Listing.ID,
			"title", domain.TruncateTitle(res.Listing.Title, res.Listing.ID, 50),
			"score", res.Score,
			"price", res.Listing.CurrentPrice,
		)
	}
	return notified, nil
}

// rankResults ordena por score descendente; empates por tiempo restante
// ascendente (más urgente primero) y después por ID, para que el orden
// sea totalmente determinista.
func rankResults(results []domain.EvaluationResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Listing.TimeRemaining != results[j].Listing.TimeRemaining {
			return results[i].Listing.TimeRemaining < results[j].Listing.TimeRemaining
		}
		return results[i].Listing.ID < results[j].Listing.ID
	})
}

// entryFrom arma la fila del ledger con el snapshot del listing notificado.
func entryFrom(res domain.EvaluationResult, at time.Time) domain.LedgerEntry {
	l := res.Listing
	return domain.LedgerEntry{
		ListingID:       l.ID,
		Title:           l.Title,
		CurrentPrice:    l.CurrentPrice,
		OriginalPrice:   l.OriginalPrice,
		DiscountPercent: res.DiscountPercent,
		BidCount:        l.BidCount,
		Brand:           l.BrandMatch,
		Score:           res.Score,
		URL:             l.URL,
		NotifiedAt:      at,
	}
}

// bestScore devuelve el score más alto del batch (0 si está vacío).
func bestScore(results []domain.EvaluationResult) float64 {
	var best float64
	for _, r := range results {
		if r.Score > best {
			best = r.Score
		}
	}
	return best
}
