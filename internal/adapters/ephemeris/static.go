package ephemeris

import (
	"context"
	"fmt"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

// Static serves positions from a fixed table regardless of the probed
// instant. It backs tests and offline verification runs where the
// astronomy must be a known quantity.
type Static struct {
	positions map[types.Planet]model.RawPosition
}

// NewStatic copies the given table. Planets absent from it fail with
// ErrEphemerisUnavailable.
func NewStatic(positions map[types.Planet]model.RawPosition) *Static {
	table := make(map[types.Planet]model.RawPosition, len(positions))
	for planet, pos := range positions {
		table[planet] = pos
	}
	return &Static{positions: table}
}

// Position implements Provider.
func (s *Static) Position(ctx context.Context, planet types.Planet, _ float64) (model.RawPosition, error) {
	if err := ctx.Err(); err != nil {
		return model.RawPosition{}, err
	}
	pos, ok := s.positions[planet]
	if !ok {
		return model.RawPosition{}, fmt.Errorf("%w: %s", ErrEphemerisUnavailable, planet)
	}
	return pos, nil
}
