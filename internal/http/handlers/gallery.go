package handlers

import "net/http"

func (a *App) Gallery(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Bench.Gallery())
}
