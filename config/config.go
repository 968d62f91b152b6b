package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/y3y-tech/Finm32500-AlpacaTradingProject-sub001/internal/domain"
)

// Config es la configuración completa del trader.
type Config struct {
	Trading TradingConfig `yaml:"trading"`
	Risk    RiskConfig    `yaml:"risk"`
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// TradingConfig controla la estrategia y el ritmo de la sesión.
type TradingConfig struct {
	Tickers         []string `yaml:"tickers"`
	Strategy        string   `yaml:"strategy"` // momentum | ma_divergence
	MinWarmupBars   int      `yaml:"min_warmup_bars"`
	PositionSize    float64  `yaml:"position_size"` // USD por instrumento
	MaxPosition     int      `yaml:"max_position"`
	RebalancePeriod int      `yaml:"rebalance_period"` // ciclos entre rebalanceos
	PollSeconds     int      `yaml:"poll_seconds"`
	LongShort       bool     `yaml:"long_short"`
	LongFraction    float64  `yaml:"long_fraction"`
	ShortFraction   float64  `yaml:"short_fraction"`
}

// RiskConfig acota lo que la estrategia puede hacer con la cuenta.
type RiskConfig struct {
	MaxExposure        float64 `yaml:"max_exposure"` // exposición bruta máxima en USD; 0 = sin límite
	MinWarmInstruments int     `yaml:"min_warm_instruments"`
}

// APIConfig contiene los base URLs de Alpaca. Las credenciales NO van aquí:
// viajan solo por entorno (APCA_API_KEY_ID / APCA_API_SECRET_KEY).
type APIConfig struct {
	TradingBase string `yaml:"trading_base"`
	DataBase    string `yaml:"data_base"`
}

// StorageConfig controla dónde se persisten los datos de sesión.
type StorageConfig struct {
	SaveData bool   `yaml:"save_data"`
	DSN      string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Credentials son las claves del broker leídas del entorno.
type Credentials struct {
	KeyID     string
	SecretKey string
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. path vacío arranca desde los defaults (útil con presets y flags).
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// LoadCredentials lee las claves de Alpaca del entorno. Nunca se leen de
// ficheros de config para que no acaben commiteadas.
func LoadCredentials() (Credentials, error) {
	creds := Credentials{
		KeyID:     os.Getenv("APCA_API_KEY_ID"),
		SecretKey: os.Getenv("APCA_API_SECRET_KEY"),
	}
	if creds.KeyID == "" || creds.SecretKey == "" {
		return Credentials{}, fmt.Errorf("config.LoadCredentials: APCA_API_KEY_ID and APCA_API_SECRET_KEY must be set")
	}
	return creds, nil
}

// Validate comprueba que la configuración efectiva (tras presets y flags)
// puede arrancar una sesión. Un error aquí es fatal antes del primer ciclo.
func (c *Config) Validate() error {
	if len(c.Trading.Tickers) == 0 {
		return fmt.Errorf("config.Validate: at least one ticker is required")
	}
	if _, err := domain.NewBasket(c.Trading.Tickers); err != nil {
		return fmt.Errorf("config.Validate: %w", err)
	}
	if c.Trading.MinWarmupBars < 2 {
		return fmt.Errorf("config.Validate: min_warmup_bars must be >= 2 (a return needs two closes), got %d", c.Trading.MinWarmupBars)
	}
	if c.Trading.PositionSize <= 0 {
		return fmt.Errorf("config.Validate: position_size must be positive, got %g", c.Trading.PositionSize)
	}
	if c.Trading.MaxPosition <= 0 {
		return fmt.Errorf("config.Validate: max_position must be positive, got %d", c.Trading.MaxPosition)
	}
	if c.Trading.RebalancePeriod <= 0 {
		return fmt.Errorf("config.Validate: rebalance_period must be positive, got %d", c.Trading.RebalancePeriod)
	}
	if c.Trading.PollSeconds <= 0 {
		return fmt.Errorf("config.Validate: poll_seconds must be positive, got %d", c.Trading.PollSeconds)
	}
	if c.Risk.MaxExposure < 0 {
		return fmt.Errorf("config.Validate: max_exposure cannot be negative")
	}
	return nil
}

// PollInterval devuelve el intervalo de polling como time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Trading.PollSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ALPACA_TRADING_BASE"); v != "" {
		cfg.API.TradingBase = v
	}
	if v := os.Getenv("ALPACA_DATA_BASE"); v != "" {
		cfg.API.DataBase = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Trading.Strategy == "" {
		cfg.Trading.Strategy = "momentum"
	}
	if cfg.Trading.MinWarmupBars <= 0 {
		cfg.Trading.MinWarmupBars = 30
	}
	if cfg.Trading.PositionSize <= 0 {
		cfg.Trading.PositionSize = 1000
	}
	if cfg.Trading.MaxPosition <= 0 {
		cfg.Trading.MaxPosition = 10
	}
	if cfg.Trading.RebalancePeriod <= 0 {
		cfg.Trading.RebalancePeriod = 60
	}
	if cfg.Trading.PollSeconds <= 0 {
		cfg.Trading.PollSeconds = 60
	}
	if cfg.Trading.LongFraction <= 0 {
		cfg.Trading.LongFraction = 0.5
	}
	if cfg.Trading.ShortFraction <= 0 {
		cfg.Trading.ShortFraction = 0.5
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "trader.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
