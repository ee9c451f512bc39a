package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/ebaybot/config"
	"github.com/alejandrodnm/ebaybot/internal/adapters/feed"
	"github.com/alejandrodnm/ebaybot/internal/adapters/notify"
	"github.com/alejandrodnm/ebaybot/internal/adapters/storage"
	"github.com/alejandrodnm/ebaybot/internal/adapters/telegram"
	"github.com/alejandrodnm/ebaybot/internal/ports"
	"github.com/alejandrodnm/ebaybot/internal/watcher"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "evaluate one cycle, print the ranked table and exit (no sends, no commits)")
	dryRun := flag.Bool("dry-run", false, "run the full loop against an in-memory ledger and the console (nothing persisted, nothing sent to Telegram)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}

	slog.Info("ebaybot starting",
		"config", *configPath,
		"interval", cfg.WatchInterval(),
		"retention", cfg.Retention(),
		"telegram", cfg.Telegram.Enabled,
		"once", *once,
		"dry_run", *dryRun,
	)

	provider := feed.NewClient(cfg.Feed.URL, time.Duration(cfg.Feed.TimeoutSeconds)*time.Second)

	// En dry-run el ledger vive en memoria: el camino de dedup corre
	// completo pero no sobrevive al proceso.
	dsn := cfg.Storage.DSN
	if *dryRun {
		dsn = ":memory:"
	}
	ledger, err := storage.NewSQLiteLedger(dsn)
	if err != nil {
		slog.Error("failed to open ledger", "err", err, "dsn", dsn)
		os.Exit(1)
	}
	defer ledger.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if st, err := ledger.Stats(ctx); err != nil {
		slog.Warn("ledger stats unavailable", "err", err)
	} else {
		slog.Info("ledger loaded", "total_notified", st.TotalNotified, "brands", len(st.ByBrand))
	}

	console := notify.NewConsole()
	var notifier ports.Notifier = console
	if cfg.Telegram.Enabled && !*dryRun {
		notifier = telegram.NewClient(cfg.Telegram.Token, cfg.Telegram.ChatID)
	}

	w := watcher.New(watcherConfig(cfg), provider, ledger, notifier)

	if *once {
		results, err := w.RunOnce(ctx)
		if err != nil {
			slog.Error("evaluation failed", "err", err)
			os.Exit(1)
		}
		console.PrintTable(results)
		return
	}

	if err := w.Run(ctx); err != nil {
		slog.Error("watcher exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("ebaybot stopped cleanly")
}

// watcherConfig traduce la config YAML al config del watcher.
func watcherConfig(cfg *config.Config) watcher.Config {
	bands := make(map[string]watcher.PriceBand, len(cfg.Watcher.PriceBands))
	for brand, b := range cfg.Watcher.PriceBands {
		bands[brand] = watcher.PriceBand{Low: b.Low, High: b.High}
	}

	return watcher.Config{
		Interval:  cfg.WatchInterval(),
		Retention: cfg.Retention(),
		Filter: watcher.FilterConfig{
			MinPrice:         cfg.Watcher.MinPrice,
			MaxPrice:         cfg.Watcher.MaxPrice,
			MaxTimeRemaining: cfg.MaxTimeRemaining(),
			MinBids:          cfg.Watcher.MinBids,
			PremiumBrands:    cfg.Watcher.PremiumBrands,
			ExcludeKeywords:  cfg.Watcher.ExcludeKeywords,
		},
		Scorer: watcher.ScorerConfig{
			MinDiscountPercent: cfg.Watcher.MinDiscountPercent,
			TopTierBrands:      cfg.Watcher.TopTierBrands,
			HighActivityBids:   cfg.Watcher.MinBids,
		},
		Bands: bands,
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
