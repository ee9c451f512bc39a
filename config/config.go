package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del watcher.
type Config struct {
	Watcher  WatcherConfig  `yaml:"watcher"`
	Feed     FeedConfig     `yaml:"feed"`
	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// WatcherConfig controla los criterios de filtrado y scoring.
type WatcherConfig struct {
	IntervalSeconds       int      `yaml:"interval_seconds"`
	MinPrice              float64  `yaml:"min_price"`
	MaxPrice              float64  `yaml:"max_price"`
	MinDiscountPercent    float64  `yaml:"min_discount_percent"`     // descuentos menores no puntúan
	MaxTimeRemainingHours float64  `yaml:"max_time_remaining_hours"` // solo subastas que terminan pronto
	MinBids               int      `yaml:"min_bids"`
	PremiumBrands         []string `yaml:"premium_brands"`
	TopTierBrands         []string `yaml:"top_tier_brands"` // subconjunto de premium con bonus mayor
	ExcludeKeywords       []string `yaml:"exclude_keywords"`
	RetentionDays         int      `yaml:"retention_days"` // cuánto vive una entrada en el ledger

	// PriceBands define el rango de precio de mercado esperado por marca.
	// Se usa para estimar descuento cuando el listing no trae precio original.
	PriceBands map[string]PriceBand `yaml:"price_bands"`
}

// PriceBand es el rango de precio de mercado típico de una marca.
type PriceBand struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// FeedConfig apunta al feed JSON de listings ya normalizados.
type FeedConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// TelegramConfig controla la entrega de notificaciones.
// El token nunca va en el YAML: se lee de TELEGRAM_BOT_TOKEN.
type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	ChatID  string `yaml:"chat_id"`
	Token   string `yaml:"-"`
}

// StorageConfig controla dónde se persiste el ledger.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del entorno sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// WatchInterval devuelve el intervalo entre ciclos como time.Duration.
func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.Watcher.IntervalSeconds) * time.Second
}

// Retention devuelve la ventana de retención del ledger como time.Duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Watcher.RetentionDays) * 24 * time.Hour
}

// MaxTimeRemaining devuelve la ventana de subastas monitoreadas como time.Duration.
func (c *Config) MaxTimeRemaining() time.Duration {
	return time.Duration(c.Watcher.MaxTimeRemainingHours * float64(time.Hour))
}

// Validate comprueba la configuración antes del primer ciclo.
// Un error aquí es fatal: ningún filtro debe correr con config inválida.
func (c *Config) Validate() error {
	w := c.Watcher

	if w.IntervalSeconds <= 0 {
		return fmt.Errorf("config.Validate: interval_seconds %d debe ser positivo", w.IntervalSeconds)
	}
	if w.MinDiscountPercent < 0 {
		return fmt.Errorf("config.Validate: min_discount_percent %.1f es negativo", w.MinDiscountPercent)
	}
	if c.Feed.TimeoutSeconds <= 0 {
		return fmt.Errorf("config.Validate: feed timeout_seconds %d debe ser positivo", c.Feed.TimeoutSeconds)
	}
	if w.MinPrice < 0 {
		return fmt.Errorf("config.Validate: min_price %.2f es negativo", w.MinPrice)
	}
	if w.MaxPrice <= w.MinPrice {
		return fmt.Errorf("config.Validate: max_price %.2f debe superar min_price %.2f", w.MaxPrice, w.MinPrice)
	}
	if w.MaxTimeRemainingHours <= 0 {
		return fmt.Errorf("config.Validate: max_time_remaining_hours debe ser positivo")
	}
	if w.MinBids < 0 {
		return fmt.Errorf("config.Validate: min_bids %d es negativo", w.MinBids)
	}
	if len(w.PremiumBrands) == 0 {
		return fmt.Errorf("config.Validate: premium_brands vacío — nada pasaría el filtro")
	}
	if w.RetentionDays <= 0 {
		return fmt.Errorf("config.Validate: retention_days debe ser positivo")
	}

	// La retención del ledger debe superar la vida máxima de una subasta
	// monitoreada. Si una entrada se purgara con la subasta aún abierta,
	// el mismo listing volvería a notificarse.
	if c.Retention() <= c.MaxTimeRemaining() {
		return fmt.Errorf("config.Validate: retention_days (%d) debe superar max_time_remaining_hours (%.1f)",
			w.RetentionDays, w.MaxTimeRemainingHours)
	}

	for brand, band := range w.PriceBands {
		if band.Low <= 0 || band.High <= band.Low {
			return fmt.Errorf("config.Validate: price_bands[%s]: rango inválido (low=%.2f high=%.2f)",
				brand, band.Low, band.High)
		}
	}

	if c.Telegram.Enabled {
		if c.Telegram.Token == "" {
			return fmt.Errorf("config.Validate: telegram habilitado pero TELEGRAM_BOT_TOKEN no configurado")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("config.Validate: telegram habilitado pero chat_id no configurado")
		}
	}

	return nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	cfg.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores no seteados tengan valores sensatos.
// Solo rellena ceros: un valor negativo en el YAML no se "corrige", llega
// tal cual a Validate y ahí falla el arranque.
func setDefaults(cfg *Config) {
	w := &cfg.Watcher
	if w.IntervalSeconds == 0 {
		w.IntervalSeconds = 300
	}
	if w.MinPrice == 0 {
		w.MinPrice = 100
	}
	if w.MaxPrice == 0 {
		w.MaxPrice = 2000
	}
	if w.MinDiscountPercent == 0 {
		w.MinDiscountPercent = 20
	}
	if w.MaxTimeRemainingHours == 0 {
		w.MaxTimeRemainingHours = 3
	}
	if w.MinBids == 0 {
		w.MinBids = 3
	}
	if len(w.PremiumBrands) == 0 {
		w.PremiumBrands = []string{"MacBook", "ThinkPad", "XPS", "Surface", "Alienware"}
	}
	if len(w.TopTierBrands) == 0 {
		w.TopTierBrands = []string{"MacBook", "Alienware"}
	}
	if len(w.ExcludeKeywords) == 0 {
		w.ExcludeKeywords = []string{"parts", "repair", "broken", "damaged", "cracked"}
	}
	if w.RetentionDays == 0 {
		w.RetentionDays = 7
	}
	if len(w.PriceBands) == 0 {
		// Rangos de mercado estimados para laptops usadas en buen estado.
		// El valor low es el piso bajo el cual un precio se considera chollo.
		w.PriceBands = map[string]PriceBand{
			"MacBook":   {Low: 900, High: 2200},
			"Alienware": {Low: 800, High: 2000},
			"XPS":       {Low: 700, High: 1600},
			"Surface":   {Low: 600, High: 1500},
			"ThinkPad":  {Low: 550, High: 1300},
		}
	}
	if cfg.Feed.TimeoutSeconds == 0 {
		cfg.Feed.TimeoutSeconds = 10
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "ebaybot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
