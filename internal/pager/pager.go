// Package pager loads catalog pages on demand and appends them to the state.
package pager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lehigh-university-libraries/moviebasket/internal/catalog"
	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrFetchFailed wraps fetcher errors; the page was not appended
	ErrFetchFailed = errors.New("page fetch failed")
	// ErrMalformedPage means the page contained unusable records and was skipped
	ErrMalformedPage = errors.New("malformed page")
)

// DefaultMaxAttempts is how many times LoadNext requests a page whose fetch
// keeps failing before moving on to the next one
const DefaultMaxAttempts = 3

// PageState is what the caller knows about pagination so far
type PageState struct {
	Page int `json:"page"` // Last page settled (appended or skipped), 0 before the first one
}

// NextPage returns the page to request after s
func NextPage(s PageState) int {
	if s.Page < 0 {
		return 1
	}
	return s.Page + 1
}

// Appender receives converted pages
type Appender interface {
	AppendPage(items []models.CatalogItem)
}

// Pager fetches pages and appends each successfully fetched page exactly once
type Pager struct {
	fetcher   catalog.Fetcher
	converter catalog.Converter
	target    Appender
	logger    *slog.Logger

	// MaxAttempts bounds the retries of a page that fails to fetch
	MaxAttempts int

	group singleflight.Group

	mu       sync.Mutex
	loaded   map[int]bool
	attempts map[int]int
	state    PageState
}

// New creates a pager that appends into target
func New(fetcher catalog.Fetcher, converter catalog.Converter, target Appender, logger *slog.Logger) *Pager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pager{
		fetcher:     fetcher,
		converter:   converter,
		target:      target,
		logger:      logger,
		MaxAttempts: DefaultMaxAttempts,
		loaded:      make(map[int]bool),
		attempts:    make(map[int]int),
	}
}

// State returns the current pagination state
func (p *Pager) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// LoadNext requests the page after the last settled one. A malformed page is
// skipped right away; a page that fails to fetch is retried by the following
// calls until MaxAttempts is reached and then skipped too.
func (p *Pager) LoadNext(ctx context.Context) (int, error) {
	page := NextPage(p.State())
	_, err := p.LoadPage(ctx, page)
	p.settle(page, err)
	return page, err
}

func (p *Pager) settle(page int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// a concurrent LoadNext already moved past this page
	if page <= p.state.Page {
		return
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrMalformedPage):
		p.logger.Warn("Skipping malformed catalog page", "page", page)
	case errors.Is(err, ErrFetchFailed):
		p.attempts[page]++
		if p.attempts[page] < p.MaxAttempts {
			return
		}
		p.logger.Warn("Skipping catalog page after repeated failures", "page", page, "attempts", p.attempts[page])
	default:
		// the caller gave up; the page is still next in line
		return
	}

	delete(p.attempts, page)
	p.state.Page = page
}

// LoadPage fetches and appends one page. Concurrent calls for the same page
// share one fetch, and a page already appended is not appended again (the
// call returns 0 items). A failed page leaves the catalog untouched.
//
// The shared fetch is detached from ctx so one caller going away does not
// fail the others; that caller gets ctx.Err() back instead.
func (p *Pager) LoadPage(ctx context.Context, page int) (int, error) {
	if page < 1 {
		return 0, fmt.Errorf("invalid page %d", page)
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(strconv.Itoa(page), func() (interface{}, error) {
		return p.load(fetchCtx, page)
	})

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int), nil
	}
}

func (p *Pager) load(ctx context.Context, page int) (int, error) {
	p.mu.Lock()
	done := p.loaded[page]
	p.mu.Unlock()
	if done {
		p.logger.Debug("Page already loaded", "page", page)
		return 0, nil
	}

	raws, err := p.fetcher.FetchPage(ctx, page)
	if err != nil {
		p.logger.Warn("Dropping catalog page", "page", page, "err", err)
		return 0, fmt.Errorf("%w: page %d: %w", ErrFetchFailed, page, err)
	}

	items, err := p.converter.ConvertPage(raws)
	if err != nil {
		p.logger.Warn("Dropping malformed catalog page", "page", page, "err", err)
		return 0, fmt.Errorf("%w: page %d: %w", ErrMalformedPage, page, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded[page] {
		return 0, nil
	}
	p.target.AppendPage(items)
	p.loaded[page] = true

	p.logger.Info("Loaded catalog page", "page", page, "items", len(items), "pages_loaded", len(p.loaded))
	return len(items), nil
}
