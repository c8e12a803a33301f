// Package chi exposes the search engine over HTTP with hand-written
// handlers on a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/illustra/internal/domain"
	"github.com/kailas-cloud/illustra/internal/domain/search/request"
	"github.com/kailas-cloud/illustra/internal/domain/search/scope"
	"github.com/kailas-cloud/illustra/internal/domain/weights"
	healthuc "github.com/kailas-cloud/illustra/internal/usecase/health"
	searchuc "github.com/kailas-cloud/illustra/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes HTTP requests to the search and health services.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeEmptyQuery),
		sentinelHandler(domain.ErrUnknownPreset, http.StatusBadRequest, codeUnknownPreset),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusBadGateway, codeEmbeddingUnavailable),
		sentinelHandler(domain.ErrCandidateFetch, http.StatusBadGateway, codeCandidateFetch),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
	}
	return s
}

// Routes registers all endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/search/multi", s.handleSearchMulti)
	r.Get("/api/v1/presets", s.handlePresets)
	r.Post("/api/v1/weights/normalize", s.handleNormalizeWeights)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var dto searchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	source, err := dto.toSource()
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	req, err := request.New(dto.Query, source, dto.TopK, scope.Scope(dto.Scope))
	if err != nil {
		s.handleRequestError(w, err)
		return
	}

	results, diag, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFrom(results, diag))
}

// handleSearchMulti handles POST /api/v1/search/multi.
func (s *Server) handleSearchMulti(w http.ResponseWriter, r *http.Request) {
	var dto searchMultiRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(dto.Profiles) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "at least one profile is required")
		return
	}

	sources := make([]request.WeightSource, len(dto.Profiles))
	for i := range dto.Profiles {
		src, err := dto.Profiles[i].toSource()
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
			return
		}
		sources[i] = src
	}

	req, err := request.New(dto.Query, sources[0], dto.TopK, scope.Scope(dto.Scope))
	if err != nil {
		s.handleRequestError(w, err)
		return
	}

	results, diag, err := s.search.SearchMulti(r.Context(), &req, sources[1:])
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFrom(results, diag))
}

// handlePresets handles GET /api/v1/presets.
func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	names := weights.PresetNames()
	resp := presetsResponseDTO{Presets: make([]presetDTO, 0, len(names))}
	for _, name := range names {
		vec, err := weights.Resolve(name)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		resp.Presets = append(resp.Presets, presetDTO{Name: name, Weights: weightsToDTO(vec)})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleNormalizeWeights handles POST /api/v1/weights/normalize.
// Lets callers preview a resolved weight vector before searching.
func (s *Server) handleNormalizeWeights(w http.ResponseWriter, r *http.Request) {
	var dto normalizeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	vec, err := weights.Normalize(rawWeightsFromDTO(dto.Weights))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, weightsResponseDTO{Weights: weightsToDTO(vec)})
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleRequestError maps request construction failures: sentinel domain
// errors go through the handler chain, everything else is a validation error.
func (s *Server) handleRequestError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err, safeDomainMessage(err)) {
			return
		}
	}
	writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrUnknownPreset,
		domain.ErrEmbeddingUnavailable,
		domain.ErrCandidateFetch,
		domain.ErrNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}
