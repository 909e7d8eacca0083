package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", h.HandleCatalog)
		r.Post("/catalog/next", h.HandleNextPage)
		r.Get("/catalog/{id}", h.HandleCatalogItem)

		r.Get("/basket", h.HandleBasket)
		r.Put("/basket/{id}", h.HandleAddToBasket)
		r.Delete("/basket/{id}", h.HandleRemoveFromBasket)
		r.Get("/basket/{id}/membership", h.HandleMembership)

		r.Get("/events", h.HandleEvents)
		r.Get("/stats", h.HandleStats)
	})

	return r
}
