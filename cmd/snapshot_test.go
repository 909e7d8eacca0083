package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/moviebasket/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)
	root.SilenceUsage = true
	return root.ExecuteContext(context.Background())
}

func TestSnapshotParquet(t *testing.T) {
	t.Setenv("CATALOG_FIXTURE", filepath.Join("..", "testdata", "movies.yaml"))
	t.Setenv("TMDB_API_KEY", "")
	out := filepath.Join(t.TempDir(), "basket.parquet")

	err := runRoot(t, "snapshot", "--pages", "2", "--add", "949", "--add", "348", "--add", "68", "--remove", "68", "--output", out)
	require.NoError(t, err)

	rows, err := export.ReadParquet(out)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	byPosition := map[int64]export.Row{}
	for _, r := range rows {
		byPosition[r.Position] = r
	}

	// basket of two: factor 0.99
	assert.Equal(t, "9.9", byPosition[0].CurrentPrice)
	assert.True(t, byPosition[0].InBasket)
	assert.Equal(t, "19.8", byPosition[1].CurrentPrice)
	assert.Equal(t, "15", byPosition[2].CurrentPrice)
	assert.False(t, byPosition[2].InBasket)
	assert.Equal(t, "12", byPosition[3].CurrentPrice)
	// the repeated id on page two follows the basket price too
	assert.Equal(t, "19.8", byPosition[4].CurrentPrice)
}

func TestSnapshotRequiresOutputForParquet(t *testing.T) {
	t.Setenv("CATALOG_FIXTURE", filepath.Join("..", "testdata", "movies.yaml"))

	err := runRoot(t, "snapshot", "--format", "parquet")
	assert.ErrorContains(t, err, "--output")
}

func TestSnapshotRejectsBadPages(t *testing.T) {
	err := runRoot(t, "snapshot", "--pages", "0")
	assert.ErrorContains(t, err, "--pages")
}
