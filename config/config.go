// Package config carica la configurazione da file YAML, file .env e variabili
// d'ambiente con prefisso EFFEMMEWEB_.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix è il prefisso delle variabili d'ambiente (es. EFFEMMEWEB_SHODAN_API_KEY).
const EnvPrefix = "EFFEMMEWEB"

// DefaultFile è il file di configurazione cercato quando non ne viene indicato uno.
const DefaultFile = "effemmeweb.yaml"

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Shodan    ShodanConfig    `mapstructure:"shodan"`
	PageSpeed PageSpeedConfig `mapstructure:"pagespeed"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // trace, debug, info, warn, error
	Format string `mapstructure:"format"` // text o json
}

type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type ShodanConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type PageSpeedConfig struct {
	APIKey string  `mapstructure:"api_key"`
	Rate   float64 `mapstructure:"rate"` // richieste al secondo
}

type ScraperConfig struct {
	Concurrency      int           `mapstructure:"concurrency"`
	ExitOnInactivity time.Duration `mapstructure:"exit_on_inactivity"`
}

// Load legge la configurazione. Un path vuoto usa DefaultFile se esiste;
// un path esplicito che non esiste è un errore.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("errore durante la lettura del file .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("errore durante la lettura della configurazione %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("file di configurazione non trovato: %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("errore durante il parsing della configurazione: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("http.timeout", 15*time.Second)
	v.SetDefault("http.user_agent", "Mozilla/5.0")

	// le chiavi API vanno registrate anche vuote, altrimenti AutomaticEnv
	// non le considera durante Unmarshal
	v.SetDefault("shodan.api_key", "")
	v.SetDefault("pagespeed.api_key", "")
	v.SetDefault("pagespeed.rate", 1.0)

	v.SetDefault("scraper.concurrency", 2)
	v.SetDefault("scraper.exit_on_inactivity", 30*time.Second)
}

func (c *Config) validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("formato di log non valido: %s", c.Log.Format)
	}
	if c.Scraper.Concurrency < 1 {
		return fmt.Errorf("scraper.concurrency deve essere almeno 1")
	}
	if c.PageSpeed.Rate <= 0 {
		return fmt.Errorf("pagespeed.rate deve essere positivo")
	}
	return nil
}
