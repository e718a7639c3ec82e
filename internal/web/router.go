package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lojf/clientbook/internal/handlers"
)

// Router mounts every page of the app on h.
func Router(h *handlers.Handlers, access *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(access))
	r.Use(middleware.Recoverer)

	r.Get("/", h.Home)
	r.Get("/healthz", h.Health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())
	}

	r.Get("/add", h.AddForm)
	r.Post("/add", h.AddSubmit)
	r.Get("/edit/{id}", h.EditForm)
	r.Post("/edit/{id}", h.EditSubmit)
	r.Get("/remove/{id}", h.Remove)
	r.Get("/view", h.View)
	r.Get("/search", h.SearchForm)
	r.Post("/search", h.SearchSubmit)
	r.Get("/export", h.Export)
	r.Get("/clients/{id}/qr.png", h.QR)

	return r
}

// accessLog routes chi's request lines through zap.
func accessLog(z *zap.Logger) func(http.Handler) http.Handler {
	if z == nil {
		z = zap.NewNop()
	}
	return middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  zap.NewStdLog(z.Named("http")),
		NoColor: true,
	})
}
