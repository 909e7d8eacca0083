package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/moviebasket/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "abc")
	t.Setenv("PRICE_MIN", "3")
	t.Setenv("PRICE_MAX", "9")
	t.Setenv("DISCOUNT_CLAMP", "false")
	t.Setenv("PORT", "9000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.TMDBAPIKey)
	assert.Equal(t, int64(3), cfg.PriceMin)
	assert.Equal(t, int64(9), cfg.PriceMax)
	assert.False(t, cfg.Clamp)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, catalog.DefaultBaseURL, cfg.TMDBBaseURL)
}

func TestLoadRequiresKeyOrFixture(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("CATALOG_FIXTURE", "")

	_, err := Load("")
	assert.ErrorContains(t, err, "TMDB_API_KEY")
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moviebasket.yaml")
	content := `fixture: ./movies.yaml
price_min: 1
price_max: 2
discount_step: "0.01"
port: "7000"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("PORT", "7001")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./movies.yaml", cfg.FixturePath)
	assert.Equal(t, int64(1), cfg.PriceMin)
	assert.Equal(t, "7001", cfg.Port)
	assert.True(t, decimal.RequireFromString("0.97").Equal(cfg.PricingEngine().Factor(3)))
	assert.True(t, cfg.PricingEngine().ClampAtZero)
}

func TestZeroDiscountStep(t *testing.T) {
	t.Setenv("CATALOG_FIXTURE", "./movies.yaml")
	t.Setenv("DISCOUNT_STEP", "0")

	cfg, err := Load("")
	require.NoError(t, err)

	engine := cfg.PricingEngine()
	assert.True(t, decimal.NewFromInt(1).Equal(engine.Factor(10)))
	assert.True(t, decimal.RequireFromString("12").Equal(engine.Price(decimal.RequireFromString("12"), 10)))
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad price", env: map[string]string{"PRICE_MIN": "cheap"}},
		{name: "inverted range", env: map[string]string{"PRICE_MIN": "30", "PRICE_MAX": "5"}},
		{name: "bad clamp", env: map[string]string{"DISCOUNT_CLAMP": "maybe"}},
		{name: "bad step", env: map[string]string{"DISCOUNT_STEP": "half"}},
		{name: "negative step", env: map[string]string{"DISCOUNT_STEP": "-0.1"}},
		{name: "bad rate", env: map[string]string{"TMDB_REQUESTS_PER_SECOND": "fast"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TMDB_API_KEY", "abc")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestFetcherSelection(t *testing.T) {
	cfg := Default()
	cfg.TMDBAPIKey = "abc"
	f, err := cfg.Fetcher()
	require.NoError(t, err)
	assert.IsType(t, &catalog.Client{}, f)

	path := filepath.Join(t.TempDir(), "movies.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pages: []\n"), 0644))
	cfg.FixturePath = path
	f, err = cfg.Fetcher()
	require.NoError(t, err)
	assert.IsType(t, &catalog.FixtureFetcher{}, f)
}
