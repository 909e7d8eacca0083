package state

import (
	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"github.com/lehigh-university-libraries/moviebasket/internal/storage"
	"github.com/lehigh-university-libraries/moviebasket/internal/stream"
	"github.com/shopspring/decimal"
)

// Every Observe method emits the current value on subscription and then each
// change. The returned func cancels the subscription and closes the channel.

func (m *Manager) ObserveCatalog() (<-chan []models.CatalogItem, func()) {
	return m.catalogSubject.Subscribe()
}

func (m *Manager) ObserveBasket() (<-chan []models.BasketEntry, func()) {
	return m.basketSubject.Subscribe()
}

// ObserveTotalPrice starts at zero for an empty basket
func (m *Manager) ObserveTotalPrice() (<-chan decimal.Decimal, func()) {
	return stream.Map(m.basketSubject, storage.TotalPrice)
}

func (m *Manager) ObserveTotalDiscount() (<-chan decimal.Decimal, func()) {
	return stream.Map(m.basketSubject, storage.TotalDiscount)
}

func (m *Manager) ObserveMembership(id int64) (<-chan bool, func()) {
	return stream.Map(m.basketSubject, func(entries []models.BasketEntry) bool {
		for _, e := range entries {
			if e.ID == id {
				return true
			}
		}
		return false
	})
}

// ObserveSnapshot streams catalog and basket together, one value per mutation
func (m *Manager) ObserveSnapshot() (<-chan models.Snapshot, func()) {
	return m.snapshotSubject.Subscribe()
}
