package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/caseflow/searchd/internal/domain"
	indexeruc "github.com/caseflow/searchd/internal/usecase/indexer"
	searchuc "github.com/caseflow/searchd/internal/usecase/search"
)

// Caller identity travels in headers: searchd sits behind the platform
// gateway, which authenticates the session and forwards the principal.
const (
	headerTenantID = "X-Tenant-ID"
	headerUserID   = "X-User-ID"
)

// ErrorCode is the machine-readable error class in error responses.
type ErrorCode string

const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeAccessDenied       ErrorCode = "access_denied"
	CodeNotFound           ErrorCode = "not_found"
	CodeRateLimited        ErrorCode = "rate_limited"
	CodeEmbeddingProvider  ErrorCode = "embedding_provider_error"
	CodeStorageUnavailable ErrorCode = "storage_unavailable"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search and indexer services over HTTP.
type Server struct {
	search        *searchuc.Service
	indexer       *indexeruc.Service
	store         Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// Pinger reports storage liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, indexer *indexeruc.Service, store Pinger, logger *zap.Logger) *Server {
	s := &Server{
		search:  search,
		indexer: indexer,
		store:   store,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnknownSource, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrAccessDenied, http.StatusForbidden, CodeAccessDenied),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProvider),
		sentinelHandler(domain.ErrStorageUnavailable, http.StatusServiceUnavailable, CodeStorageUnavailable),
	}
	return s
}

// Routes mounts all API handlers on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/search", s.handleSearch)
	r.Post("/v1/index/documents/{id}", s.handleIndexOne(domain.IndexDocuments))
	r.Post("/v1/index/notes/{id}", s.handleIndexOne(domain.IndexNotes))
	r.Post("/v1/index/batch", s.handleIndexBatch)
	r.Post("/v1/index/reindex", s.handleReindex)
	r.Get("/v1/index/unindexed", s.handleUnindexed)
	r.Get("/v1/index/stats", s.handleStats)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

type searchRequest struct {
	Query             string            `json:"query"`
	Sources           []string          `json:"sources,omitempty"`
	Mode              string            `json:"search_mode,omitempty"`
	CaseID            string            `json:"case_id,omitempty"`
	Filters           searchFilters     `json:"filters"`
	Limit             int               `json:"limit,omitempty"`
	Offset            int               `json:"offset,omitempty"`
	MinRelevanceScore float64           `json:"min_relevance_score,omitempty"`
	SemanticThreshold float64           `json:"semantic_threshold,omitempty"`
}

type searchFilters struct {
	DateFrom       *time.Time `json:"date_from,omitempty"`
	DateTo         *time.Time `json:"date_to,omitempty"`
	Status         []string   `json:"status,omitempty"`
	Owner          string     `json:"owner,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Classification []string   `json:"classification,omitempty"`
	DocumentTypes  []string   `json:"document_types,omitempty"`
}

// handleSearch handles POST /v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	tenantID, userID, ok := s.identity(w, r)
	if !ok {
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	q := domain.Query{
		TenantID:          tenantID,
		UserID:            userID,
		Text:              req.Query,
		Mode:              domain.SearchMode(req.Mode),
		CaseID:            req.CaseID,
		Limit:             req.Limit,
		Offset:            req.Offset,
		MinRelevanceScore: req.MinRelevanceScore,
		SemanticThreshold: req.SemanticThreshold,
		Filters: domain.Filters{
			Status:         req.Filters.Status,
			Owner:          req.Filters.Owner,
			Tags:           req.Filters.Tags,
			Classification: req.Filters.Classification,
			DocumentTypes:  req.Filters.DocumentTypes,
		},
	}
	if req.Filters.DateFrom != nil {
		q.Filters.DateRange.From = *req.Filters.DateFrom
	}
	if req.Filters.DateTo != nil {
		q.Filters.DateRange.To = *req.Filters.DateTo
	}
	for _, src := range req.Sources {
		kind, err := domain.ParseSource(src)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
			return
		}
		q.Sources = append(q.Sources, kind)
	}

	resp, err := s.search.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleIndexOne handles POST /v1/index/{documents,notes}/{id}.
func (s *Server) handleIndexOne(kind domain.IndexKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "id is required")
			return
		}

		var res indexeruc.Result
		if kind == domain.IndexNotes {
			res = s.indexer.IndexNote(r.Context(), id)
		} else {
			res = s.indexer.IndexDocument(r.Context(), id)
		}

		status := http.StatusOK
		if !res.Success {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, res)
	}
}

type batchRequest struct {
	Kind string   `json:"kind"`
	IDs  []string `json:"ids"`
}

// handleIndexBatch handles POST /v1/index/batch.
func (s *Server) handleIndexBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	kind, ok := parseKind(req.Kind)
	if !ok {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "kind must be documents or notes")
		return
	}

	writeJSON(w, http.StatusOK, s.indexer.IndexBatch(r.Context(), kind, req.IDs))
}

type reindexRequest struct {
	Kind     string `json:"kind"`
	TenantID string `json:"tenant_id,omitempty"`
}

// handleReindex handles POST /v1/index/reindex. The run is synchronous;
// progress is reported through the log.
func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	var req reindexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	kind, ok := parseKind(req.Kind)
	if !ok {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "kind must be documents or notes")
		return
	}

	log := s.logger
	res, err := s.indexer.ReindexAll(r.Context(), kind, req.TenantID, func(p indexeruc.Progress) {
		log.Info("reindex progress",
			zap.String("kind", string(kind)),
			zap.Int("processed", p.Processed),
			zap.Int("total", p.Total),
			zap.Int("current_batch", p.CurrentBatch),
			zap.Int("total_batches", p.TotalBatches),
			zap.Int64("eta_ms", p.EstimatedRemainingMs))
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleUnindexed handles GET /v1/index/unindexed.
func (s *Server) handleUnindexed(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(r.URL.Query().Get("kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "kind must be documents or notes")
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = n
	}

	ids, err := s.indexer.UnindexedIDs(r.Context(), kind, r.URL.Query().Get("tenant_id"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"ids": ids, "count": len(ids)})
}

// handleStats handles GET /v1/index/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.indexer.Stats(r.Context(), r.URL.Query().Get("tenant_id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"store":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) identity(w http.ResponseWriter, r *http.Request) (tenantID, userID string, ok bool) {
	tenantID = r.Header.Get(headerTenantID)
	userID = r.Header.Get(headerUserID)
	if tenantID == "" || userID == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest,
			headerTenantID+" and "+headerUserID+" headers are required")
		return "", "", false
	}
	return tenantID, userID, true
}

func parseKind(raw string) (domain.IndexKind, bool) {
	switch domain.IndexKind(raw) {
	case domain.IndexDocuments:
		return domain.IndexDocuments, true
	case domain.IndexNotes:
		return domain.IndexNotes, true
	}
	return "", false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrUnknownSource,
		domain.ErrAccessDenied,
		domain.ErrDocumentNotFound,
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
		domain.ErrStorageUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
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
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
