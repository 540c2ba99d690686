package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type toggleFavoriteResponse struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"is_favorite"`
}

func (a *App) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "record id required")
		return
	}
	fav, err := a.Bench.ToggleFavorite(r.Context(), id)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, toggleFavoriteResponse{ID: id, IsFavorite: fav})
}
