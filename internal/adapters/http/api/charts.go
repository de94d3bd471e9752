package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/kundali/internal/domain/model"
)

// ChartsDependencies covers the collection endpoints: computing a new
// chart and listing recent ones.
type ChartsDependencies interface {
	ComputeChart(ctx context.Context, in model.BirthInput) (model.BirthChart, error)
	RecentCharts(ctx context.Context, n int) ([]model.BirthChart, error)
}

// ChartsHandler handles the /v1/charts collection.
type ChartsHandler struct {
	deps     ChartsDependencies
	maxLimit int
}

// NewChartsHandler creates a new charts collection handler.
func NewChartsHandler(deps ChartsDependencies, maxLimit int) *ChartsHandler {
	return &ChartsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleCharts dispatches POST (compute) and GET (recent listing).
func (h *ChartsHandler) HandleCharts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCompute(w, r)
	case http.MethodGet:
		h.handleRecent(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ChartsHandler) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	chart, err := h.deps.ComputeChart(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chart)
}

func (h *ChartsHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit %q", ErrBadRequest, limitStr))
		return
	}
	if limit > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit %d exceeds maximum %d", ErrBadRequest, limit, h.maxLimit))
		return
	}

	charts, err := h.deps.RecentCharts(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, charts)
}
