package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleSnapshot() models.Snapshot {
	return models.Snapshot{
		Version: 4,
		Catalog: []models.CatalogItem{
			{ID: 1, Title: "Heat", OriginalPrice: dec("10"), CurrentPrice: dec("10")},
			{ID: 2, Title: "Alien", OriginalPrice: dec("20"), CurrentPrice: dec("19.9")},
		},
		Basket: []models.BasketEntry{
			{ID: 2, Title: "Alien", OriginalPrice: dec("20"), DiscountedPrice: dec("19.9")},
		},
		BasketSize:    1,
		TotalPrice:    dec("19.9"),
		TotalDiscount: dec("0.1"),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected Format
		wantErr  bool
	}{
		{in: "yaml", expected: FormatYAML},
		{in: ".yml", expected: FormatYAML},
		{in: "JSON", expected: FormatJSON},
		{in: ".parquet", expected: FormatParquet},
		{in: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleSnapshot())
	require.Len(t, rows, 2)

	assert.False(t, rows[0].InBasket)
	assert.Equal(t, "", rows[0].DiscountedPrice)
	assert.True(t, rows[1].InBasket)
	assert.Equal(t, "19.9", rows[1].DiscountedPrice)
	assert.Equal(t, "19.9", rows[1].CurrentPrice)
	assert.Equal(t, int64(1), rows[1].Position)
	assert.Equal(t, int64(4), rows[1].Version)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, 3, sampleSnapshot()))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 3, doc.Page)
	assert.Equal(t, uint64(4), doc.Snapshot.Version)
	require.Len(t, doc.Snapshot.Catalog, 2)
	assert.True(t, dec("19.9").Equal(doc.Snapshot.Catalog[1].CurrentPrice))
	assert.True(t, dec("0.1").Equal(doc.Snapshot.TotalDiscount))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, 1, sampleSnapshot()))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 1, doc.Snapshot.BasketSize)
	assert.True(t, dec("19.9").Equal(doc.Snapshot.TotalPrice))
}

func TestWriteFileParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "snapshot.parquet")
	require.NoError(t, WriteFile(path, FormatParquet, 1, sampleSnapshot()))

	rows, err := ReadParquet(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Heat", rows[0].Title)
	assert.True(t, rows[1].InBasket)
	assert.Equal(t, "19.9", rows[1].DiscountedPrice)
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, Format("csv"), 1, sampleSnapshot()))
}
