// Package state keeps the catalog and the basket consistent with each other.
//
// Manager owns both stores behind a single mutex. Every operation reads the
// current state, computes the next one and publishes it without releasing
// the lock, so concurrent callers always build on the latest published
// state and observers never see a basket size whose prices have not been
// propagated to the catalog yet.
package state

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"github.com/lehigh-university-libraries/moviebasket/internal/pricing"
	"github.com/lehigh-university-libraries/moviebasket/internal/storage"
	"github.com/lehigh-university-libraries/moviebasket/internal/stream"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownItem is returned by AddByID when the id is not in the catalog
	ErrUnknownItem = errors.New("item not in catalog")
	// ErrInvariantViolation means catalog and basket disagree on a price
	ErrInvariantViolation = errors.New("catalog and basket are inconsistent")
)

// Options configures a Manager
type Options struct {
	Pricing pricing.Engine
	// Strict checks every invariant after each mutation and panics on failure
	Strict bool
	Logger *slog.Logger
}

// Manager is the state synchronizer for catalog and basket
type Manager struct {
	mu      sync.Mutex
	catalog *storage.Catalog
	basket  *storage.Basket
	engine  pricing.Engine
	strict  bool
	logger  *slog.Logger
	version uint64

	catalogSubject  *stream.Subject[[]models.CatalogItem]
	basketSubject   *stream.Subject[[]models.BasketEntry]
	snapshotSubject *stream.Subject[models.Snapshot]
}

// New creates a Manager with an empty catalog and basket
func New(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		catalog: storage.NewCatalog(),
		basket:  storage.NewBasket(opts.Pricing),
		engine:  opts.Pricing,
		strict:  opts.Strict,
		logger:  logger,

		catalogSubject: stream.NewSubject([]models.CatalogItem{}),
		basketSubject:  stream.NewSubject([]models.BasketEntry{}),
	}
	m.snapshotSubject = stream.NewSubject(m.snapshotLocked())
	return m
}

// Add puts item into the basket, reprices the basket and propagates the new
// prices to the catalog. It reports false when the id was already present.
func (m *Manager) Add(item models.CatalogItem) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addLocked(item)
}

// AddByID adds the catalog item with the given id to the basket
func (m *Manager) AddByID(id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.catalog.Lookup(id)
	if !ok {
		return false, fmt.Errorf("add %d: %w", id, ErrUnknownItem)
	}
	return m.addLocked(item), nil
}

func (m *Manager) addLocked(item models.CatalogItem) bool {
	_, size, added := m.basket.Add(item)
	if !added {
		m.logger.Debug("Item already in basket", "id", item.ID)
		return false
	}

	m.catalog.ApplyPriceOverrides(m.basket.Overrides())
	m.logger.Debug("Added item to basket", "id", item.ID, "basket_size", size, "factor", m.engine.Factor(size).String())
	m.commitLocked(true)
	return true
}

// Remove takes id out of the basket, reverts its catalog price to the
// original one and reprices what remains. It reports false when id was not
// in the basket.
func (m *Manager) Remove(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, size, removed := m.basket.Remove(id)
	if !removed {
		m.logger.Debug("Item not in basket", "id", id)
		return false
	}

	// The catalog never infers "not in basket" on its own.
	m.catalog.RevertPrices(id)
	m.catalog.ApplyPriceOverrides(m.basket.Overrides())
	m.logger.Debug("Removed item from basket", "id", id, "basket_size", size)
	m.commitLocked(true)
	return true
}

// AppendPage appends a fetched page to the catalog. Items whose id is
// already in the basket take the basket price right away.
func (m *Manager) AppendPage(items []models.CatalogItem) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalog.AppendPage(items)

	overrides := make(map[int64]decimal.Decimal)
	for _, item := range items {
		if e, ok := m.basket.Get(item.ID); ok {
			overrides[item.ID] = e.DiscountedPrice
		}
	}
	if len(overrides) > 0 {
		m.catalog.ApplyPriceOverrides(overrides)
	}

	m.logger.Debug("Appended page to catalog", "items", len(items), "catalog_size", m.catalog.Len())
	m.commitLocked(false)
}

// commitLocked bumps the version, checks invariants in strict mode and
// publishes every stream while the lock is still held.
func (m *Manager) commitLocked(basketChanged bool) {
	m.version++

	if m.strict {
		if err := m.checkLocked(); err != nil {
			panic(err)
		}
	}

	m.catalogSubject.Publish(m.catalog.Items())
	if basketChanged {
		m.basketSubject.Publish(m.basket.Entries())
	}
	m.snapshotSubject.Publish(m.snapshotLocked())
}

func (m *Manager) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Version:       m.version,
		Catalog:       m.catalog.Items(),
		Basket:        m.basket.Entries(),
		BasketSize:    m.basket.Len(),
		TotalPrice:    m.basket.TotalPrice(),
		TotalDiscount: m.basket.TotalDiscount(),
	}
}

// CheckInvariants verifies that catalog and basket agree on every price and
// that the basket is priced with a single factor.
func (m *Manager) CheckInvariants() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkLocked()
}

func (m *Manager) checkLocked() error {
	entries := m.basket.Entries()
	factor := m.engine.Factor(len(entries))
	seen := make(map[int64]bool, len(entries))

	for _, e := range entries {
		if seen[e.ID] {
			return fmt.Errorf("%w: id %d in basket twice", ErrInvariantViolation, e.ID)
		}
		seen[e.ID] = true

		if want := e.OriginalPrice.Mul(factor); !want.Equal(e.DiscountedPrice) {
			return fmt.Errorf("%w: basket id %d priced %s, want %s", ErrInvariantViolation, e.ID, e.DiscountedPrice, want)
		}
	}

	for _, item := range m.catalog.Items() {
		want := item.OriginalPrice
		if e, ok := m.basket.Get(item.ID); ok {
			want = e.DiscountedPrice
		}
		if !want.Equal(item.CurrentPrice) {
			return fmt.Errorf("%w: catalog id %d priced %s, want %s", ErrInvariantViolation, item.ID, item.CurrentPrice, want)
		}
	}
	return nil
}

// Snapshot returns a consistent copy of the whole state
func (m *Manager) Snapshot() models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Catalog returns a copy of the catalog
func (m *Manager) Catalog() []models.CatalogItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.Items()
}

// Basket returns a copy of the basket
func (m *Manager) Basket() []models.BasketEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.basket.Entries()
}

// Lookup returns the first catalog item with the given id
func (m *Manager) Lookup(id int64) (models.CatalogItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.Lookup(id)
}

// Occurrences returns every catalog row carrying id, in catalog order
func (m *Manager) Occurrences(id int64) []models.CatalogItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalog.Occurrences(id)
}

// Stats is a lock-free summary of the last published state
type Stats struct {
	Version     uint64 `json:"version"`
	CatalogSize int    `json:"catalog_size"`
	BasketSize  int    `json:"basket_size"`
	Subscribers int    `json:"subscribers"`
}

// Stats reads the latest published snapshot rather than taking the state
// lock, so it can be polled while mutations are in flight.
func (m *Manager) Stats() Stats {
	snap := m.snapshotSubject.Value()
	return Stats{
		Version:     snap.Version,
		CatalogSize: len(snap.Catalog),
		BasketSize:  snap.BasketSize,
		Subscribers: m.catalogSubject.Subscribers() + m.basketSubject.Subscribers() + m.snapshotSubject.Subscribers(),
	}
}

// TotalPrice returns the sum of discounted basket prices
func (m *Manager) TotalPrice() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.basket.TotalPrice()
}

// TotalDiscount returns the amount saved over the whole basket
func (m *Manager) TotalDiscount() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.basket.TotalDiscount()
}

// IsInBasket reports whether id is in the basket
func (m *Manager) IsInBasket(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.basket.Contains(id)
}

// Close ends every subscription
func (m *Manager) Close() {
	m.catalogSubject.Close()
	m.basketSubject.Close()
	m.snapshotSubject.Close()
}
