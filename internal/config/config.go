package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sadopc/nutriplan/internal/store"
)

// Config is the runtime configuration read from the environment.
type Config struct {
	DBPath           string        `env:"NUTRIPLAN_DB_PATH"`
	MealDBURL        string        `env:"NUTRIPLAN_MEALDB_URL" envDefault:"https://www.themealdb.com/api/json/v1/1"`
	ProductSearchURL string        `env:"NUTRIPLAN_PRODUCT_SEARCH_URL" envDefault:"https://world.openfoodfacts.org/cgi/search.pl"`
	ProductURL       string        `env:"NUTRIPLAN_PRODUCT_URL" envDefault:"https://world.openfoodfacts.org/api/v0/product"`
	HTTPTimeout      time.Duration `env:"NUTRIPLAN_HTTP_TIMEOUT" envDefault:"10s"`
	LogFile          string        `env:"NUTRIPLAN_LOG_FILE"`
}

// Load reads an optional .env file from the working directory, then parses
// the environment. An empty DBPath resolves to store.DefaultDBPath.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("NUTRIPLAN_HTTP_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}

	if cfg.DBPath == "" {
		path, err := store.DefaultDBPath()
		if err != nil {
			return Config{}, fmt.Errorf("resolve db path: %w", err)
		}
		cfg.DBPath = path
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
