// Package rest exposes a Collection over a small JSON HTTP API, replacing
// the gRPC-fronted REST gateway the teacher used to wrap: there is no
// generated client here, Handler talks to the in-process hnsw.Collection
// directly.
package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/therealutkarshpriyadarshi/vector/pkg/hnsw"
	"github.com/therealutkarshpriyadarshi/vector/pkg/observability"
)

// Handler serves HTTP requests against a single in-memory collection. The
// payload type is json.RawMessage so arbitrary JSON metadata can ride along
// with each vector without the REST layer needing to know its shape.
type Handler struct {
	collection *hnsw.Collection[json.RawMessage]
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// NewHandler returns a Handler backed by collection.
func NewHandler(collection *hnsw.Collection[json.RawMessage], metrics *observability.Metrics, logger zerolog.Logger) *Handler {
	return &Handler{collection: collection, metrics: metrics, logger: logger}
}

type insertRequest struct {
	Vector hnsw.Vector     `json:"vector"`
	Data   json.RawMessage `json:"data"`
}

type insertResponse struct {
	ID uint32 `json:"id"`
}

type searchRequest struct {
	Vector hnsw.Vector `json:"vector"`
	K      int         `json:"k"`
	Exact  bool        `json:"exact,omitempty"`
}

type searchHit struct {
	ID       uint32          `json:"id"`
	Distance float32         `json:"distance"`
	Data     json.RawMessage `json:"data"`
}

type updateRequest struct {
	Vector hnsw.Vector     `json:"vector"`
	Data   json.RawMessage `json:"data"`
}

// HealthCheck handles GET /v1/health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// GetStats handles GET /v1/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]int{
		"size":      h.collection.Len(),
		"dimension": h.collection.Dimension(),
	}, http.StatusOK)
}

// Insert handles POST /v1/vectors.
func (h *Handler) Insert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	id, err := h.collection.Insert(req.Vector, req.Data)
	if err != nil {
		h.logger.Warn().Err(err).Msg("insert rejected")
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Debug().Uint32("id", uint32(id)).Msg("inserted vector")
	if h.metrics != nil {
		h.metrics.RecordInsert(1)
	}
	writeJSON(w, insertResponse{ID: uint32(id)}, http.StatusCreated)
}

// BatchInsert handles POST /v1/vectors/batch.
func (h *Handler) BatchInsert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var reqs []insertRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	records := make([]hnsw.Record[json.RawMessage], len(reqs))
	for i, req := range reqs {
		records[i] = hnsw.Record[json.RawMessage]{Vector: req.Vector, Data: req.Data}
	}

	ids, err := h.collection.BatchInsert(records)
	if err != nil {
		h.logger.Warn().Err(err).Int("count", len(records)).Msg("batch insert rejected")
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Debug().Int("count", len(ids)).Msg("batch inserted vectors")
	if h.metrics != nil {
		h.metrics.RecordBatchInsert(0, len(ids))
	}
	out := make([]insertResponse, len(ids))
	for i, id := range ids {
		out[i] = insertResponse{ID: uint32(id)}
	}
	writeJSON(w, out, http.StatusCreated)
}

// Search handles POST /v1/vectors/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.K <= 0 {
		req.K = 10
	}

	var (
		results []hnsw.SearchResult[json.RawMessage]
		err     error
	)
	if req.Exact {
		results, err = h.collection.TrueSearch(req.Vector, req.K)
	} else {
		results, err = h.collection.Search(req.Vector, req.K)
	}
	if err != nil {
		h.logger.Warn().Err(err).Int("k", req.K).Msg("search rejected")
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Debug().Int("k", req.K).Bool("exact", req.Exact).Int("hits", len(results)).Msg("search completed")
	if h.metrics != nil {
		h.metrics.RecordSearch(0, len(results))
	}

	hits := make([]searchHit, len(results))
	for i, res := range results {
		hits[i] = searchHit{ID: uint32(res.ID), Distance: res.Distance, Data: res.Data}
	}
	writeJSON(w, hits, http.StatusOK)
}

// Delete handles DELETE /v1/vectors/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := idFromPath(r.URL.Path)
	if !ok {
		writeError(w, "invalid id in path", http.StatusBadRequest)
		return
	}
	if err := h.collection.Delete(id); err != nil {
		h.logger.Warn().Err(err).Uint32("id", uint32(id)).Msg("delete rejected")
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}
	h.logger.Debug().Uint32("id", uint32(id)).Msg("deleted vector")
	if h.metrics != nil {
		h.metrics.RecordDelete(1)
	}
	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// Update handles PUT/PATCH /v1/vectors/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPatch {
		writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, ok := idFromPath(r.URL.Path)
	if !ok {
		writeError(w, "invalid id in path", http.StatusBadRequest)
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if err := h.collection.Update(id, req.Vector, req.Data); err != nil {
		h.logger.Warn().Err(err).Uint32("id", uint32(id)).Msg("update rejected")
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Debug().Uint32("id", uint32(id)).Msg("updated vector")
	if h.metrics != nil {
		h.metrics.RecordUpdate(1)
	}
	writeJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

func idFromPath(path string) (hnsw.VectorID, bool) {
	path = strings.TrimPrefix(path, "/v1/vectors/")
	n, err := strconv.ParseUint(path, 10, 32)
	if err != nil {
		return 0, false
	}
	return hnsw.VectorID(n), true
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  message,
		"status": statusCode,
	})
}
