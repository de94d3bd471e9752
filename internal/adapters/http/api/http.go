// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/kundali/internal/adapters/ephemeris"
	"github.com/okian/kundali/internal/adapters/repository"
	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
	"github.com/okian/kundali/internal/domain/varga"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ChartsDependencies
	ChartReadDependencies
	PanchangaDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	chartsHandler    *ChartsHandler
	chartHandler     *ChartHandler
	panchangaHandler *PanchangaHandler
}

// NewServer creates a new API server with all handlers. maxRecent caps
// the limit accepted by the recent-charts listing.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRecent int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		chartsHandler:    NewChartsHandler(deps, maxRecent),
		chartHandler:     NewChartHandler(deps),
		panchangaHandler: NewPanchangaHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/panchanga", MetricsMiddleware(s.panchangaHandler.HandlePanchanga, "panchanga"))
	mux.HandleFunc("/v1/charts/", MetricsMiddleware(s.chartHandler.HandleChart, "chart"))
	mux.HandleFunc("/v1/charts", MetricsMiddleware(s.chartsHandler.HandleCharts, "charts"))
}

// chartRequest mirrors the OpenAPI schema for POST /v1/charts.
type chartRequest struct {
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	Day              int     `json:"day"`
	Hour             int     `json:"hour"`
	Minute           int     `json:"minute"`
	Second           int     `json:"second"`
	Timezone         string  `json:"timezone"`
	UTCOffsetMinutes int     `json:"utc_offset_minutes"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	SiderealSystem   string  `json:"sidereal_system"`
	HouseSystem      string  `json:"house_system"`
}

// toInput converts the wire shape into a domain birth input. Empty
// system names keep the domain defaults (Lahiri, Placidus).
func (c chartRequest) toInput() (model.BirthInput, error) {
	in := model.BirthInput{
		Year:             c.Year,
		Month:            c.Month,
		Day:              c.Day,
		Hour:             c.Hour,
		Minute:           c.Minute,
		Second:           c.Second,
		Timezone:         c.Timezone,
		UTCOffsetMinutes: c.UTCOffsetMinutes,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
	}
	if c.SiderealSystem != "" {
		system, err := types.ParseSiderealSystem(c.SiderealSystem)
		if err != nil {
			return model.BirthInput{}, err
		}
		in.System = system
	}
	if c.HouseSystem != "" {
		houses, err := types.ParseHouseSystem(c.HouseSystem)
		if err != nil {
			return model.BirthInput{}, err
		}
		in.Houses = houses
	}
	return in, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps a domain error onto its HTTP shape.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

// statusFor translates domain sentinels into HTTP status codes and the
// stable machine-readable codes of the error envelope.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidBirthMoment):
		return http.StatusBadRequest, "invalid_birth_moment"
	case errors.Is(err, model.ErrInvalidLocation):
		return http.StatusBadRequest, "invalid_location"
	case errors.Is(err, varga.ErrUnsupportedDivision),
		errors.Is(err, types.ErrUnknownDivision):
		return http.StatusBadRequest, "unsupported_division"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, types.ErrUnknownSiderealSystem),
		errors.Is(err, types.ErrUnknownHouseSystem),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ephemeris.ErrEphemerisUnavailable):
		return http.StatusBadGateway, "ephemeris_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
