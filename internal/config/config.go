package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/moviebasket/internal/catalog"
	"github.com/lehigh-university-libraries/moviebasket/internal/pricing"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds the application settings
type Config struct {
	TMDBBaseURL       string  `yaml:"tmdb_base_url"`
	TMDBAPIKey        string  `yaml:"tmdb_api_key"`
	ImageBaseURL      string  `yaml:"image_base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	FixturePath       string  `yaml:"fixture"` // Serve pages from a YAML file instead of TMDB

	PriceMin  int64  `yaml:"price_min"`
	PriceMax  int64  `yaml:"price_max"`
	PriceSeed int64  `yaml:"price_seed"`
	Discount  string `yaml:"discount_step"`
	Clamp     bool   `yaml:"discount_clamp"`

	Port string `yaml:"port"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		TMDBBaseURL:       catalog.DefaultBaseURL,
		ImageBaseURL:      catalog.DefaultImageBaseURL,
		RequestsPerSecond: 4,
		PriceMin:          5,
		PriceMax:          24,
		Discount:          pricing.DefaultStep.String(),
		Clamp:             true,
		Port:              "8888",
	}
}

// Load builds the config from defaults, then the YAML file at path (if any),
// then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.TMDBBaseURL, "TMDB_BASE_URL")
	setString(&c.TMDBAPIKey, "TMDB_API_KEY")
	setString(&c.ImageBaseURL, "TMDB_IMAGE_BASE_URL")
	setString(&c.FixturePath, "CATALOG_FIXTURE")
	setString(&c.Discount, "DISCOUNT_STEP")
	setString(&c.Port, "PORT")

	if v := os.Getenv("TMDB_REQUESTS_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TMDB_REQUESTS_PER_SECOND must be a number: %w", err)
		}
		c.RequestsPerSecond = f
	}
	for key, dst := range map[string]*int64{
		"PRICE_MIN":  &c.PriceMin,
		"PRICE_MAX":  &c.PriceMax,
		"PRICE_SEED": &c.PriceSeed,
	} {
		if v := os.Getenv(key); v != "" {
			i, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%s must be an integer: %w", key, err)
			}
			*dst = i
		}
	}
	if v := os.Getenv("DISCOUNT_CLAMP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DISCOUNT_CLAMP must be a boolean: %w", err)
		}
		c.Clamp = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate checks the settings that cannot be defaulted
func (c Config) Validate() error {
	if c.FixturePath == "" && c.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required unless a fixture catalog is used")
	}
	if c.PriceMin < 0 || c.PriceMax < c.PriceMin {
		return fmt.Errorf("invalid price range [%d, %d]", c.PriceMin, c.PriceMax)
	}
	step, err := decimal.NewFromString(c.Discount)
	if err != nil {
		return fmt.Errorf("invalid discount step %q: %w", c.Discount, err)
	}
	if step.IsNegative() {
		return fmt.Errorf("discount step must be >= 0, got %s", step)
	}
	return nil
}

// PricingEngine returns the engine described by the config
func (c Config) PricingEngine() pricing.Engine {
	step, err := decimal.NewFromString(c.Discount)
	if err != nil {
		step = pricing.DefaultStep
	}
	return pricing.Engine{Step: step, ClampAtZero: c.Clamp}
}

// Fetcher returns the page source described by the config
func (c Config) Fetcher() (catalog.Fetcher, error) {
	if c.FixturePath != "" {
		f, err := catalog.LoadFixture(c.FixturePath)
		if err != nil {
			return nil, err
		}
		slog.Info("Using fixture catalog", "path", c.FixturePath, "pages", f.Pages())
		return f, nil
	}
	return catalog.NewClient(c.TMDBBaseURL, c.TMDBAPIKey, c.RequestsPerSecond), nil
}

// Converter returns the raw record converter described by the config
func (c Config) Converter() catalog.Converter {
	return catalog.Converter{
		ImageBaseURL: c.ImageBaseURL,
		Prices:       catalog.NewRandomPrices(c.PriceMin, c.PriceMax, c.PriceSeed),
	}
}
