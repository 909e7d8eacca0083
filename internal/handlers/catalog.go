package handlers

import (
	"errors"
	"net/http"

	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"github.com/lehigh-university-libraries/moviebasket/internal/pager"
	"github.com/lehigh-university-libraries/moviebasket/internal/state"
)

type catalogResponse struct {
	Page  int                  `json:"page"`
	Items []models.CatalogItem `json:"items"`
}

type catalogItemResponse struct {
	ID   int64                `json:"id"`
	Rows []models.CatalogItem `json:"rows"`
}

type nextPageResponse struct {
	Page    int `json:"page"`
	Catalog int `json:"catalog_size"`
}

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, catalogResponse{
		Page:  h.pager.State().Page,
		Items: h.state.Catalog(),
	})
}

// HandleNextPage is the scroll trigger: it loads the page after the last one
func (h *Handler) HandleNextPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.pager.LoadNext(r.Context())
	switch {
	case errors.Is(err, pager.ErrMalformedPage):
		h.writeError(w, "Catalog page was malformed and has been skipped", http.StatusBadGateway)
		return
	case err != nil:
		h.writeError(w, "Failed to fetch catalog page: "+err.Error(), http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, nextPageResponse{
		Page:    page,
		Catalog: len(h.state.Catalog()),
	})
}

// HandleCatalogItem returns every catalog row for one movie id
func (h *Handler) HandleCatalogItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.movieID(w, r)
	if !ok {
		return
	}

	items := h.state.Occurrences(id)
	if len(items) == 0 {
		h.writeError(w, "Movie not found in catalog", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, catalogItemResponse{ID: id, Rows: items})
}

type statsResponse struct {
	state.Stats
	Page int `json:"page"`
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, statsResponse{
		Stats: h.state.Stats(),
		Page:  h.pager.State().Page,
	})
}
