package handler

import (
	"log/slog"
	"net/http"

	"github.com/wadjakorntonsri/tinylink/pkg/config"
	"github.com/wadjakorntonsri/tinylink/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, links ports.LinkService, redirects ports.RedirectService, logger *slog.Logger) http.Handler {
	h := NewHTTPHandler(links, redirects, cfg.BaseURL, logger)
	mw := NewMiddleware(logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)

	// Link API
	mux.HandleFunc("POST /api/links", h.Create)
	mux.HandleFunc("GET /api/links", h.List)
	mux.HandleFunc("GET /api/links/{code}", h.Get)
	mux.HandleFunc("DELETE /api/links/{code}", h.Delete)
	mux.HandleFunc("GET /api/links/{code}/qr", h.QRCode)

	// Short links. More specific patterns above take precedence.
	mux.HandleFunc("GET /{code}", h.Redirect)

	return mw.RequestID(mw.Logger(mw.Recover(mux)))
}
