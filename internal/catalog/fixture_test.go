package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixture(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "movies.yaml")

	content := `pages:
  - items:
      - id: 1
        title: Heat
        posterpath: /heat.jpg
        originalprice: 12
      - id: 2
        title: Alien
        posterpath: /alien.jpg
  - items:
      - id: 3
        title: Brazil
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	fetcher, err := LoadFixture(path)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.Pages())

	page, err := fetcher.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Heat", page[0].Title)
	require.NotNil(t, page[0].OriginalPriceHint)
	assert.True(t, decimal.NewFromInt(12).Equal(*page[0].OriginalPriceHint))
	assert.Nil(t, page[1].OriginalPriceHint)

	page, err = fetcher.FetchPage(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(3), page[0].ID)

	page, err = fetcher.FetchPage(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestLoadFixtureErrors(t *testing.T) {
	_, err := LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pages: [\n"), 0644))
	_, err = LoadFixture(path)
	assert.Error(t, err)
}

func TestFixtureFetcherReturnsCopies(t *testing.T) {
	f := NewFixtureFetcher([]models.RawItem{{ID: 1, Title: "Heat"}})

	page, err := f.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	page[0].Title = "changed"

	page, err = f.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Heat", page[0].Title)

	_, err = f.FetchPage(context.Background(), 0)
	assert.Error(t, err)
}
