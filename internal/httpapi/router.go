// Package httpapi exposes the engine over JSON HTTP. The same router serves
// the Lambda (through the API Gateway adapter) and local runs.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/fpang/venue-enhance/internal/engine"
)

// maxBodyBytes bounds request bodies; photos arrive base64 encoded in JSON.
const maxBodyBytes = 20 << 20

// Handler serves the API for one Engine.
type Handler struct {
	engine  *engine.Engine
	version string
}

// requestTimeout covers the slowest route: an enhancement that runs for the
// full enhancement timeout and then polls the publisher to its limit.
func requestTimeout(e *engine.Engine) time.Duration {
	return e.EnhanceTimeout() + e.PublishBound() + 15*time.Second
}

// NewRouter builds the chi router with the standard middleware stack.
func NewRouter(e *engine.Engine, version string) http.Handler {
	h := &Handler{engine: e, version: version}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(withRequestLog)
	r.Use(withMetrics)
	r.Use(chimw.Timeout(requestTimeout(e)))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/venues", h.venues)
		r.Get("/facets", h.facets)
		r.Post("/angle", h.detectAngle)
		r.Post("/prompt", h.buildPrompt)
		r.Post("/style/validate", h.validateStyle)
		r.Post("/style/validate-advanced", h.validateAdvanced)
		r.Post("/edit", h.runEdit)
		r.Post("/enhance", h.enhance)
		r.Post("/publish", h.publish)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}
