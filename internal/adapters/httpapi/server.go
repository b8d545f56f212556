// internal/adapters/httpapi/server.go
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"osintx/internal/core/domain"
	"osintx/internal/core/usecases"
	"osintx/internal/platform/errors"
	"osintx/internal/platform/logx"
)

// Server exposes the collection pipeline over HTTP: launch collections,
// project visualizations and search past results.
type Server struct {
	orchestrator *usecases.Orchestrator
	store        *usecases.ResultStore
	projector    *usecases.VisualizationProjector
	logger       logx.Logger
	httpServer   *http.Server
}

// Options configures the HTTP server.
type Options struct {
	Addr         string
	Orchestrator *usecases.Orchestrator
	Store        *usecases.ResultStore
	Projector    *usecases.VisualizationProjector
	Logger       logx.Logger
}

// NewServer wires the API routes.
func NewServer(opts Options) *Server {
	s := &Server{
		orchestrator: opts.Orchestrator,
		store:        opts.Store,
		projector:    opts.Projector,
		logger:       opts.Logger.With("component", "httpapi"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/collect", s.handleCollect)
	mux.HandleFunc("GET /api/visualize/{value}", s.handleVisualize)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // collections can run long
	}

	return s
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts serving requests until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http api listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// collectRequest is the body of POST /api/collect.
type collectRequest struct {
	TargetType  string   `json:"target_type"`
	TargetValue string   `json:"target_value"`
	Modules     []string `json:"modules"`
}

// collectResponse pairs the collection result with the freshly
// projected subgraph so clients get both in one round trip.
type collectResponse struct {
	Result        *domain.CollectionResult    `json:"result"`
	Visualization domain.VisualizationPayload `json:"visualization"`
}

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error string `json:"error"`
}

// handleCollect runs a full collection and persists the result. Module
// failures stay inline in the result; only validation and persistence
// problems surface as HTTP errors.
func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	var req collectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target := domain.NewTarget(domain.TargetType(req.TargetType), req.TargetValue, req.Modules)

	result, err := s.orchestrator.Collect(r.Context(), *target)
	if err != nil {
		// Collect only errors on validation problems
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.Store(r.Context(), result); err != nil {
		if errors.Is(err, domain.ErrIndexing) {
			// Graph is consistent; indexing is best-effort
			s.logger.Warn("indexing failed", "target", result.Target.Value, "error", err.Error())
		} else {
			s.logger.Err(err, "target", result.Target.Value)
			s.writeError(w, http.StatusInternalServerError, "failed to persist collection result")
			return
		}
	}

	// The result is persisted, so a projection failure here should not
	// void the collection; the client still gets the result itself.
	payload, err := s.projector.Project(r.Context(), result.Target.Value)
	if err != nil {
		s.logger.Warn("projection after collect failed", "target", result.Target.Value, "error", err.Error())
		payload = domain.EmptyVisualizationPayload()
	}

	s.writeJSON(w, http.StatusOK, collectResponse{Result: result, Visualization: payload})
}

// handleVisualize projects the persisted subgraph of a target. A target
// never collected yields an empty payload, not a 404.
func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("value")
	if value == "" {
		s.writeError(w, http.StatusBadRequest, "target value is required")
		return
	}

	payload, err := s.projector.Project(r.Context(), value)
	if err != nil {
		s.logger.Err(err, "target", value)
		s.writeError(w, http.StatusInternalServerError, "failed to project visualization")
		return
	}

	s.writeJSON(w, http.StatusOK, payload)
}

// handleSearch queries the result index with free text.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	limit := 20
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed <= 0 || parsed > 100 {
			s.writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	hits, err := s.store.Search(r.Context(), query, limit)
	if err != nil {
		s.logger.Err(err, "query", query)
		s.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"query": query,
		"total": len(hits),
		"hits":  hits,
	})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Err(err, "op", "encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
