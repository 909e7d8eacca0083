package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"gopkg.in/yaml.v3"
)

// FixtureFile is the on-disk layout of a fixture catalog
//
//	pages:
//	  - items:
//	      - id: 1
//	        title: Heat
//	        posterpath: /heat.jpg
//	        originalprice: 12
type FixtureFile struct {
	Pages []FixturePage `yaml:"pages"`
}

// FixturePage is one page of a fixture catalog
type FixturePage struct {
	Items []models.RawItem `yaml:"items"`
}

// FixtureFetcher serves pages from memory, typically loaded from a YAML file.
// Pages past the end come back empty.
type FixtureFetcher struct {
	pages [][]models.RawItem
}

// NewFixtureFetcher serves the given pages, page 1 first
func NewFixtureFetcher(pages ...[]models.RawItem) *FixtureFetcher {
	return &FixtureFetcher{pages: pages}
}

// LoadFixture reads a fixture catalog from a YAML file
func LoadFixture(path string) (*FixtureFetcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var file FixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file: %w", err)
	}

	pages := make([][]models.RawItem, 0, len(file.Pages))
	for _, p := range file.Pages {
		pages = append(pages, p.Items)
	}
	return NewFixtureFetcher(pages...), nil
}

// FetchPage returns a copy of the requested page
func (f *FixtureFetcher) FetchPage(ctx context.Context, page int) ([]models.RawItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 1 {
		return nil, fmt.Errorf("invalid page %d", page)
	}
	if page > len(f.pages) {
		return []models.RawItem{}, nil
	}

	items := make([]models.RawItem, len(f.pages[page-1]))
	copy(items, f.pages[page-1])
	return items, nil
}

// Pages returns the number of pages available
func (f *FixtureFetcher) Pages() int {
	return len(f.pages)
}
