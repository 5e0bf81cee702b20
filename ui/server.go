// Package ui exposes the edit session over HTTP for a local front end.
package ui

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/fsantini/nimpulseqgui/app"
)

// Server wires the protocol service into a chi router.
type Server struct {
	router  *chi.Mux
	service *app.ProtocolService
	log     zerolog.Logger
}

// Config holds HTTP surface configuration.
type Config struct {
	Port string
}

func NewServer(service *app.ProtocolService, log zerolog.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		log:     log,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/protocol", s.handleGetProtocol)
		r.Put("/protocol/{name}", s.handleSetValue)
		r.Post("/protocol/{name}/search", s.handleSearch)
		r.Get("/preamble", s.handleGetPreamble)
		r.Post("/snapshots/{name}", s.handleSaveSnapshot)
		r.Post("/snapshots/{name}/restore", s.handleRestoreSnapshot)
	})
}

// ListenAndServe blocks serving the API on the configured port.
func (s *Server) ListenAndServe(cfg Config) error {
	addr := ":" + cfg.Port
	s.log.Info().Str("addr", addr).Msg("protocol UI listening")
	return http.ListenAndServe(addr, s.router)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
