package handlers

import (
	"errors"
	"net/http"

	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"github.com/lehigh-university-libraries/moviebasket/internal/state"
	"github.com/shopspring/decimal"
)

type basketResponse struct {
	Items         []models.BasketEntry `json:"items"`
	Size          int                  `json:"size"`
	TotalPrice    decimal.Decimal      `json:"total_price"`
	TotalDiscount decimal.Decimal      `json:"total_discount"`
	Changed       *bool                `json:"changed,omitempty"`
}

type membershipResponse struct {
	ID       int64 `json:"id"`
	InBasket bool  `json:"in_basket"`
}

func (h *Handler) basketView(changed *bool) basketResponse {
	snap := h.state.Snapshot()
	return basketResponse{
		Items:         snap.Basket,
		Size:          snap.BasketSize,
		TotalPrice:    snap.TotalPrice,
		TotalDiscount: snap.TotalDiscount,
		Changed:       changed,
	}
}

func (h *Handler) HandleBasket(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.basketView(nil))
}

func (h *Handler) HandleAddToBasket(w http.ResponseWriter, r *http.Request) {
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	added, err := h.state.AddByID(id)
	if errors.Is(err, state.ErrUnknownItem) {
		h.writeError(w, "Movie not found in catalog", http.StatusNotFound)
		return
	}
	if err != nil {
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, h.basketView(&added))
}

func (h *Handler) HandleRemoveFromBasket(w http.ResponseWriter, r *http.Request) {
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	removed := h.state.Remove(id)
	h.writeJSON(w, http.StatusOK, h.basketView(&removed))
}

func (h *Handler) HandleMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, membershipResponse{ID: id, InBasket: h.state.IsInBasket(id)})
}
