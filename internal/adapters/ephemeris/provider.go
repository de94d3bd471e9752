// Package ephemeris supplies the two consumed astronomy contracts: raw
// tropical planetary positions and house cusps. It ships an approximate
// in-process provider built on planetary theory, a static fixture
// provider, a cusp calculator for the eight supported house systems,
// and a bounded fan-out pool that fetches all planets of a chart
// request concurrently.
package ephemeris

import (
	"context"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

// Provider yields the raw tropical position of one planet at a Julian
// ephemeris day. Implementations may block; they must honor the context.
type Provider interface {
	Position(ctx context.Context, planet types.Planet, jde float64) (model.RawPosition, error)
}
