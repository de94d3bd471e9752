package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/kundali/internal/domain/dasha"
	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
	"github.com/okian/kundali/internal/domain/varga"
)

// ChartReadDependencies covers the single-chart endpoints: lookup by id
// plus the derived dasha and varga views.
type ChartReadDependencies interface {
	GetChart(ctx context.Context, id string) (model.BirthChart, error)
	DivisionalChart(ctx context.Context, id string, division types.Division) (model.DivisionalChart, error)
	DashaTimeline(ctx context.Context, id string, opts ...dasha.Option) (model.DashaTimeline, error)
}

// ChartHandler handles the /v1/charts/{id} subtree.
type ChartHandler struct {
	deps ChartReadDependencies
}

// NewChartHandler creates a new single-chart handler.
func NewChartHandler(deps ChartReadDependencies) *ChartHandler {
	return &ChartHandler{deps: deps}
}

// HandleChart routes GET /v1/charts/{id}, /v1/charts/{id}/dashas and
// /v1/charts/{id}/vargas/{division}.
func (h *ChartHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/charts/")
	segments := strings.Split(rest, "/")
	if segments[0] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing chart id", ErrBadRequest))
		return
	}

	switch {
	case len(segments) == 1:
		h.handleGet(w, r, segments[0])
	case len(segments) == 2 && segments[1] == "dashas":
		h.handleDashas(w, r, segments[0])
	case len(segments) == 3 && segments[1] == "vargas":
		h.handleVarga(w, r, segments[0], segments[2])
	default:
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: unrecognized path %q", ErrBadRequest, r.URL.Path))
	}
}

func (h *ChartHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	chart, err := h.deps.GetChart(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (h *ChartHandler) handleDashas(w http.ResponseWriter, r *http.Request, id string) {
	opts, err := dashaOptions(r.URL.Query())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	timeline, err := h.deps.DashaTimeline(r.Context(), id, opts...)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, timeline)
}

func (h *ChartHandler) handleVarga(w http.ResponseWriter, r *http.Request, id, token string) {
	division, err := parseDivision(token)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	divisional, err := h.deps.DivisionalChart(r.Context(), id, division)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, divisional)
}

// dashaOptions translates query parameters into timeline options.
func dashaOptions(q url.Values) ([]dasha.Option, error) {
	var opts []dasha.Option
	if v := q.Get("horizon_years"); v != "" {
		years, err := strconv.ParseFloat(v, 64)
		if err != nil || years <= 0 {
			return nil, fmt.Errorf("%w: horizon_years %q", ErrBadRequest, v)
		}
		opts = append(opts, dasha.WithHorizonYears(years))
	}
	if v := q.Get("sub_periods"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: sub_periods %q", ErrBadRequest, v)
		}
		opts = append(opts, dasha.WithSubPeriods(enabled))
	}
	return opts, nil
}

// parseDivision resolves a path token like "d9", "D9" or "9" into a
// supported divisional chart.
func parseDivision(token string) (types.Division, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(token, "d"), "D")
	factor, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: division %q", ErrBadRequest, token)
	}
	division, ok := types.DivisionByFactor(factor)
	if !ok {
		return 0, fmt.Errorf("%w: D%d", varga.ErrUnsupportedDivision, factor)
	}
	return division, nil
}
