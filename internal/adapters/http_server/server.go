package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const defaultRequestTimeout = 30 * time.Second

// Server is the itinerary API router.
type Server struct{ mux *chi.Mux }

// New builds the router. timeout bounds a whole request, itinerary generation included.
func New(timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	m := chi.NewRouter()

	// Observe sits outside Recoverer and Timeout so panics and 503s are counted.
	m.Use(chimw.RealIP, chimw.RequestID)
	m.Use(Observe(log.Logger))
	m.Use(chimw.Recoverer, Timeout(timeout))

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches an extra handler such as /metrics.
func (s *Server) Mount(path string, h http.Handler) { s.mux.Handle(path, h) }
