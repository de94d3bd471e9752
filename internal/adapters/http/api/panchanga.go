package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

// PanchangaDependencies covers the standalone panchanga endpoint.
type PanchangaDependencies interface {
	PanchangaAt(ctx context.Context, in model.BirthInput) (model.PanchangaSnapshot, error)
}

// PanchangaHandler handles panchanga lookups without chart persistence.
type PanchangaHandler struct {
	deps PanchangaDependencies
}

// NewPanchangaHandler creates a new panchanga handler.
func NewPanchangaHandler(deps PanchangaDependencies) *PanchangaHandler {
	return &PanchangaHandler{deps: deps}
}

// HandlePanchanga handles GET /v1/panchanga?year=...&month=...
func (h *PanchangaHandler) HandlePanchanga(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	in, err := inputFromQuery(r.URL.Query())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	snapshot, err := h.deps.PanchangaAt(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// inputFromQuery assembles a birth input from query parameters. Missing
// numeric parameters stay zero so the domain validation reports them.
func inputFromQuery(q url.Values) (model.BirthInput, error) {
	var in model.BirthInput

	ints := []struct {
		key string
		dst *int
	}{
		{"year", &in.Year},
		{"month", &in.Month},
		{"day", &in.Day},
		{"hour", &in.Hour},
		{"minute", &in.Minute},
		{"second", &in.Second},
		{"utc_offset_minutes", &in.UTCOffsetMinutes},
	}
	for _, p := range ints {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return model.BirthInput{}, fmt.Errorf("%w: %s %q", ErrBadRequest, p.key, v)
		}
		*p.dst = n
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"latitude", &in.Latitude},
		{"longitude", &in.Longitude},
	}
	for _, p := range floats {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return model.BirthInput{}, fmt.Errorf("%w: %s %q", ErrBadRequest, p.key, v)
		}
		*p.dst = f
	}

	in.Timezone = q.Get("timezone")
	if v := q.Get("sidereal_system"); v != "" {
		system, err := types.ParseSiderealSystem(v)
		if err != nil {
			return model.BirthInput{}, err
		}
		in.System = system
	}
	return in, nil
}
