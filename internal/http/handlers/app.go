package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"promptstudio/internal/domain"
	"promptstudio/internal/infra"
	"promptstudio/internal/workbench"
)

// App is the handler container: configuration, logger and the workbench the
// intent endpoints dispatch into.
type App struct {
	Config *infra.Config
	Logger zerolog.Logger
	Bench  *workbench.Workbench
}

func NewApp(cfg *infra.Config, logger zerolog.Logger, bench *workbench.Workbench) *App {
	return &App{Config: cfg, Logger: logger, Bench: bench}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail translates orchestrator errors into the HTTP surface. Partial success
// is not handled here; the callers that can see it respond themselves.
func (a *App) fail(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	var rErr *domain.RemoteCallError
	switch {
	case errors.As(err, &vErr):
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", vErr.Error())
	case errors.Is(err, domain.ErrPromptInFlight), errors.Is(err, domain.ErrImageInFlight):
		a.error(w, http.StatusConflict, "in_flight", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "record not found")
	case errors.As(err, &rErr):
		a.error(w, http.StatusBadGateway, "remote_call_failed", rErr.Error())
	default:
		a.Logger.Error().Err(err).Msg("unhandled handler error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
