package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Format is a snapshot output format
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// ParseFormat accepts a format name or a file extension
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Document is the serialized form of a snapshot
type Document struct {
	GeneratedAt string          `json:"generated_at" yaml:"generatedat"`
	Page        int             `json:"page" yaml:"page"`
	Snapshot    models.Snapshot `json:"snapshot" yaml:"snapshot"`
}

// Row is one catalog position in the Parquet export
type Row struct {
	Position        int64  `parquet:"position"`
	ID              int64  `parquet:"id"`
	Title           string `parquet:"title"`
	ImageRef        string `parquet:"image_ref"`
	OriginalPrice   string `parquet:"original_price"`
	CurrentPrice    string `parquet:"current_price"`
	InBasket        bool   `parquet:"in_basket"`
	DiscountedPrice string `parquet:"discounted_price,optional"`
	Version         int64  `parquet:"version"`
}

// Rows flattens a snapshot into one row per catalog position
func Rows(snap models.Snapshot) []Row {
	basket := make(map[int64]models.BasketEntry, len(snap.Basket))
	for _, e := range snap.Basket {
		basket[e.ID] = e
	}

	rows := make([]Row, 0, len(snap.Catalog))
	for i, item := range snap.Catalog {
		row := Row{
			Position:      int64(i),
			ID:            item.ID,
			Title:         item.Title,
			ImageRef:      item.ImageRef,
			OriginalPrice: item.OriginalPrice.String(),
			CurrentPrice:  item.CurrentPrice.String(),
			Version:       int64(snap.Version),
		}
		if e, ok := basket[item.ID]; ok {
			row.InBasket = true
			row.DiscountedPrice = e.DiscountedPrice.String()
		}
		rows = append(rows, row)
	}
	return rows
}

// Write encodes the snapshot to w
func Write(w io.Writer, format Format, page int, snap models.Snapshot) error {
	doc := Document{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Page:        page,
		Snapshot:    snap,
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&doc); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(&doc); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return nil
	case FormatParquet:
		if err := parquet.Write(w, Rows(snap)); err != nil {
			return fmt.Errorf("failed to write parquet: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteFile writes the snapshot to path, creating parent directories
func WriteFile(path string, format Format, page int, snap models.Snapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(f, format, page, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadParquet loads rows written by WriteFile
func ReadParquet(path string) ([]Row, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet: %w", err)
	}
	return rows, nil
}
