package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/lanchonete-stations/internal/infra/httpx/middlewares"
)

// NewRouter exposes a station's state and action table over HTTP.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middlewares.StartSpan(handler.station))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)
	r.Get("/state", handler.State)
	r.Get("/actions", handler.Actions)
	r.Post("/actions/{action}", handler.Dispatch)
	return r
}
