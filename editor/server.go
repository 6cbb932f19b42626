// ABOUTME: HTTP server struct with chi router, session store, and PNG render cache
// ABOUTME: Configures all routes and wires handler methods via functional options

package editor

import (
	"net/http"

	"github.com/2389-research/patchbay/render"
	"github.com/go-chi/chi/v5"
)

// ServerOption configures optional Server behavior.
type ServerOption func(*Server)

// WithRenderCache replaces the default snapshot cache.
func WithRenderCache(c *render.RenderCache) ServerOption {
	return func(s *Server) {
		s.cache = c
	}
}

// Server holds the chi router, session store, and snapshot cache.
type Server struct {
	router chi.Router
	store  *Store
	cache  *render.RenderCache
}

// NewServer creates a Server with all routes configured.
func NewServer(store *Store, opts ...ServerOption) *Server {
	s := &Server{
		store: store,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = render.NewRenderCache(render.PNGRenderFunc(store.cfg.PNGOptions()), store.cfg.Server.CacheTTL)
	}

	r := chi.NewRouter()
	r.Use(requestLogger)

	// Session lifecycle
	r.Post("/sessions", s.handleCreateSession)
	r.Delete("/sessions/{id}", s.handleDeleteSession)
	r.Get("/sessions/{id}/graph", s.handleGetGraph)
	r.Get("/sessions/{id}/snapshot.png", s.handleSnapshot)
	r.Get("/sessions/{id}/export", s.handleExport)

	// Mutation handlers
	r.Post("/sessions/{id}/nodes", s.handleAddNode)
	r.Get("/sessions/{id}/nodes/{nodeID}", s.handleGetNode)
	r.Patch("/sessions/{id}/nodes/{nodeID}", s.handleMoveNode)
	r.Delete("/sessions/{id}/nodes/{nodeID}", s.handleDeleteNode)
	r.Post("/sessions/{id}/connections", s.handleConnect)
	r.Delete("/sessions/{id}/connections/{connID}", s.handleDisconnect)

	// Drag gestures
	r.Get("/sessions/{id}/drag", s.handleDragStatus)
	r.Post("/sessions/{id}/drag", s.handleDrag)

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
