package infra

import (
	"net/http"
	"time"
)

// NewHTTPServer builds the API server. The write timeout comes from config
// because it must outlast the slowest image generation call, which holds the
// response open for the whole remote render.
func NewHTTPServer(cfg *Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}
}
