// ABOUTME: HTTP handler methods for all server endpoints
// ABOUTME: Covers session lifecycle, node and connection mutations, drag events, and PNG snapshots

package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/2389-research/patchbay/drag"
	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/render"
	"github.com/go-chi/chi/v5"
)

// maxBodySize bounds every JSON request body.
const maxBodySize = 1 << 20

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, graph.ErrNodeNotFound),
		errors.Is(err, graph.ErrPortNotFound),
		errors.Is(err, graph.ErrConnectionNotFound),
		errors.Is(err, errSessionNotFound),
		errors.Is(err, render.ErrEmptyScene):
		return http.StatusNotFound
	case errors.Is(err, graph.ErrPortAlreadyConnected),
		errors.Is(err, drag.ErrGestureActive),
		errors.Is(err, drag.ErrNoGesture):
		return http.StatusConflict
	case errors.Is(err, graph.ErrInvalidSpec),
		errors.Is(err, drag.ErrUnknownEvent),
		errors.Is(err, ErrUnknownSeed),
		errors.Is(err, render.ErrUnsupportedFormat),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, render.ErrSceneTooLarge):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

var (
	errSessionNotFound = errors.New("session not found")
	errBadRequest      = errors.New("bad request")
)

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	return nil
}

// session resolves the {id} URL parameter, writing a 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.store.Get(id)
	if !ok {
		writeError(w, fmt.Errorf("%w: %s", errSessionNotFound, id))
		return nil, false
	}
	return sess, true
}

// handleCreateSession creates a session, seeded when ?seed= names a blueprint.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Create(r.URL.Query().Get("seed"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.Delete(id) {
		writeError(w, fmt.Errorf("%w: %s", errSessionNotFound, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var spec graph.NodeSpec
	if err := decodeJSON(w, r, &spec); err != nil {
		writeError(w, err)
		return
	}
	n, err := sess.AddNode(spec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	n, err := sess.GetNode(graph.NodeID(chi.URLParam(r, "nodeID")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

type moveRequest struct {
	Position *graph.Position `json:"position"`
}

// handleMoveNode repositions a node and reroutes its connections.
func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Position == nil {
		writeError(w, fmt.Errorf("%w: position is required", errBadRequest))
		return
	}
	id := graph.NodeID(chi.URLParam(r, "nodeID"))
	if err := sess.MoveNode(id, *req.Position); err != nil {
		writeError(w, err)
		return
	}
	n, err := sess.GetNode(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	removal, err := sess.RemoveNode(graph.NodeID(chi.URLParam(r, "nodeID")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, removal)
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var spec graph.ConnectionSpec
	if err := decodeJSON(w, r, &spec); err != nil {
		writeError(w, err)
		return
	}
	c, err := sess.Connect(spec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Disconnect(graph.ConnectionID(chi.URLParam(r, "connID"))); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDragStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.DragStatus())
}

// handleDrag applies one pointer event to the session's drag coordinator.
func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var ev drag.Event
	if err := decodeJSON(w, r, &ev); err != nil {
		writeError(w, err)
		return
	}
	status, err := sess.Drag(ev)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleSnapshot renders the session's scene to PNG through the cache.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	data, err := sess.Render(r.Context(), s.cache, render.FormatPNG)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

// exportTypes maps export formats to content types.
var exportTypes = map[string]string{
	render.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	render.FormatSVG: "image/svg+xml",
}

// handleExport writes the graph as DOT text or graphviz SVG, picked by ?format= (default dot).
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatDOT
	}
	data, err := sess.Export(r.Context(), format)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", exportTypes[format])
	w.Write(data)
}
