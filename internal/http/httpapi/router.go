package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"promptstudio/internal/http/handlers"
	"promptstudio/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/workbench", func(r chi.Router) {
		r.Get("/", app.WorkbenchSnapshot)
		r.Put("/mode", app.SelectMode)
		r.Put("/form", app.UpdateForm)
		r.Put("/seed", app.UpdateSeed)
		r.Put("/gallery", app.SwitchGallery)
		r.Post("/load", app.LoadRecord)
		r.Get("/prompt/text", app.PromptText)
		r.Get("/image/download", app.DownloadImage)

		// Only the endpoints that reach the remote services are metered.
		r.Group(func(r chi.Router) {
			r.Use(middleware.GenerationLimit(app.Config.RateLimitPerMin))
			r.Post("/prompt/form", app.SubmitFormPrompt)
			r.Post("/prompt/enhance", app.EnhancePrompt)
			r.Post("/image", app.GenerateImage)
		})
	})

	r.Get("/v1/gallery", app.Gallery)
	r.Post("/v1/records/{id}/favorite", app.ToggleFavorite)

	return r
}
