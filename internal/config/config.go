package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/despesa-app/despesa/internal/logger"
)

// DBConfig holds the SQLite source path plus connection pool and PRAGMA
// tuning knobs. Zero values leave the driver defaults untouched.
type DBConfig struct {
	Source            string        `yaml:"source" toml:"source"`
	MaxOpenConns      int           `yaml:"max_open_conns" toml:"max_open_conns"`
	MaxIdleConns      int           `yaml:"max_idle_conns" toml:"max_idle_conns"`
	ConnMaxLifetime   time.Duration `yaml:"conn_max_lifetime" toml:"conn_max_lifetime"`
	ConnMaxIdleTime   time.Duration `yaml:"conn_max_idle_time" toml:"conn_max_idle_time"`
	JournalMode       string        `yaml:"journal_mode" toml:"journal_mode"`
	Synchronous       string        `yaml:"synchronous" toml:"synchronous"`
	CacheSize         int           `yaml:"cache_size" toml:"cache_size"`
	BusyTimeout       int           `yaml:"busy_timeout" toml:"busy_timeout"`
	WALAutocheckpoint int           `yaml:"wal_autocheckpoint" toml:"wal_autocheckpoint"`
	TempStore         string        `yaml:"temp_store" toml:"temp_store"`
}

// ExchangeConfig configures the currency conversion client. The API key has
// no default and must come from the config file, a .env file, or the
// environment.
type ExchangeConfig struct {
	URL      string        `yaml:"url" toml:"url"`
	APIKey   string        `yaml:"api_key" toml:"api_key"`
	Currency string        `yaml:"currency" toml:"currency"`
	Timeout  time.Duration `yaml:"timeout" toml:"timeout"`
}

type Config struct {
	DB       DBConfig       `yaml:"db" toml:"db"`
	Port     string         `yaml:"port" toml:"port"`
	Logger   logger.Config  `yaml:"logger" toml:"logger"`
	Exchange ExchangeConfig `yaml:"exchange" toml:"exchange"`
}

const (
	defaultDBSource         = "despesa.db"
	defaultPort             = "8080"
	defaultExchangeURL      = "https://v6.exchangerate-api.com"
	defaultExchangeCurrency = "BRL"
	defaultExchangeTimeout  = 10 * time.Second
	defaultLogLevel         = logger.LevelInfo
	defaultLogFormat        = logger.FormatText
	defaultLogOutput        = "stdout"
)

// Parse builds the configuration from the given file, a .env file when one
// exists, and DESPESA_* environment variables. The file is optional; its
// format is chosen by extension (.yml/.yaml or .toml). Environment variables
// win over file values.
func Parse(path string) (*Config, error) {
	// Populates the process environment before the env overrides below run.
	_ = godotenv.Load()

	conf := &Config{}

	if path != "" {
		if err := conf.parseFile(path); err != nil {
			return nil, err
		}
	}

	conf.parseEnv()
	conf.applyDefaults()

	return conf, nil
}

func (c *Config) parseFile(path string) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(bytes, c); err != nil {
			return fmt.Errorf("parsing yaml config %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(bytes, c); err != nil {
			return fmt.Errorf("parsing toml config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}

	return nil
}

func (c *Config) parseEnv() {
	if db := os.Getenv("DESPESA_DB"); db != "" {
		c.DB.Source = db
	}

	if port := os.Getenv("DESPESA_PORT"); port != "" {
		c.Port = port
	}

	if key := os.Getenv("DESPESA_EXCHANGE_API_KEY"); key != "" {
		c.Exchange.APIKey = key
	}

	if url := os.Getenv("DESPESA_EXCHANGE_URL"); url != "" {
		c.Exchange.URL = url
	}

	if currency := os.Getenv("DESPESA_EXCHANGE_CURRENCY"); currency != "" {
		c.Exchange.Currency = currency
	}

	if level := os.Getenv("DESPESA_LOG_LEVEL"); level != "" {
		c.Logger.Level = logger.Level(level)
	}

	if format := os.Getenv("DESPESA_LOG_FORMAT"); format != "" {
		c.Logger.Format = logger.Format(format)
	}

	if output := os.Getenv("DESPESA_LOG_OUTPUT"); output != "" {
		c.Logger.Output = output
	}
}

func (c *Config) applyDefaults() {
	if c.DB.Source == "" {
		c.DB.Source = defaultDBSource
	}

	if c.Port == "" {
		c.Port = defaultPort
	}

	if c.Exchange.URL == "" {
		c.Exchange.URL = defaultExchangeURL
	}

	if c.Exchange.Currency == "" {
		c.Exchange.Currency = defaultExchangeCurrency
	}

	if c.Exchange.Timeout == 0 {
		c.Exchange.Timeout = defaultExchangeTimeout
	}

	if c.Logger.Level == "" {
		c.Logger.Level = defaultLogLevel
	}

	if c.Logger.Format == "" {
		c.Logger.Format = defaultLogFormat
	}

	if c.Logger.Output == "" {
		c.Logger.Output = defaultLogOutput
	}
}
