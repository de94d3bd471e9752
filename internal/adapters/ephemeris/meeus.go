package ephemeris

import (
	"context"
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/planetelements"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

const (
	// kmPerAU converts the lunar theory's kilometre distances.
	kmPerAU = 149597870.7
	// speedStep is the day offset on each side of the probed instant for
	// the central-difference daily motion.
	speedStep = 0.5
	// keplerIterations bounds the Newton solve of Kepler's equation. The
	// iteration gains roughly a digit per step at planetary
	// eccentricities, so twelve is well past float64 precision.
	keplerIterations = 12
	// meanLunarDistanceAU stands in for the node, which has no distance
	// of its own.
	meanLunarDistanceAU = 384400.0 / kmPerAU
)

// Meeus is an approximate in-process ephemeris: low-precision solar
// theory for the Sun, the truncated lunar series for the Moon, mean
// Keplerian elements for Mercury through Saturn, and the mean lunar
// node for Rahu. Longitudes are of-date and arcminute-class for the
// luminaries; the mean-element planets can drift to a sizeable fraction
// of a degree, which still places signs and nakshatras reliably away
// from boundaries. Daily motion comes from a central difference one
// day wide.
type Meeus struct{}

// NewMeeus constructs the approximate provider. It has no state and is
// safe for concurrent use.
func NewMeeus() *Meeus {
	return &Meeus{}
}

// Position implements Provider.
func (m *Meeus) Position(ctx context.Context, planet types.Planet, jde float64) (model.RawPosition, error) {
	if err := ctx.Err(); err != nil {
		return model.RawPosition{}, err
	}
	pos, err := m.compute(planet, jde)
	if err != nil {
		return model.RawPosition{}, err
	}
	before, err := m.compute(planet, jde-speedStep)
	if err != nil {
		return model.RawPosition{}, err
	}
	after, err := m.compute(planet, jde+speedStep)
	if err != nil {
		return model.RawPosition{}, err
	}
	pos.SpeedDegPerDay = shortestArc(before.Longitude, after.Longitude) / (2 * speedStep)
	return pos, nil
}

func (m *Meeus) compute(planet types.Planet, jde float64) (model.RawPosition, error) {
	switch planet {
	case types.Sun:
		return m.sun(jde), nil
	case types.Moon:
		return m.moon(jde), nil
	case types.Rahu:
		return m.node(jde), nil
	case types.Mercury:
		return m.planet(planetelements.Mercury, jde), nil
	case types.Venus:
		return m.planet(planetelements.Venus, jde), nil
	case types.Mars:
		return m.planet(planetelements.Mars, jde), nil
	case types.Jupiter:
		return m.planet(planetelements.Jupiter, jde), nil
	case types.Saturn:
		return m.planet(planetelements.Saturn, jde), nil
	default:
		return model.RawPosition{}, fmt.Errorf("%w: %s", ErrUnsupportedPlanet, planet)
	}
}

func (m *Meeus) sun(jde float64) model.RawPosition {
	T := base.J2000Century(jde)
	return model.RawPosition{
		Longitude:  types.NormalizeDegrees(solar.ApparentLongitude(T).Deg()),
		Latitude:   0,
		DistanceAU: solar.Radius(T),
	}
}

func (m *Meeus) moon(jde float64) model.RawPosition {
	lon, lat, dist := moonposition.Position(jde)
	// The lunar series yields the geometric longitude; adding the
	// nutation in longitude makes it apparent, matching the Sun.
	dpsi, _ := nutation.Nutation(jde)
	return model.RawPosition{
		Longitude:  types.NormalizeDegrees(lon.Deg() + dpsi.Deg()),
		Latitude:   lat.Deg(),
		DistanceAU: dist / kmPerAU,
	}
}

func (m *Meeus) node(jde float64) model.RawPosition {
	// Mean ascending node, the traditional Rahu convention. The central
	// difference turns its steady regression into a negative speed.
	return model.RawPosition{
		Longitude:  types.NormalizeDegrees(moonposition.Node(jde).Deg()),
		Latitude:   0,
		DistanceAU: meanLunarDistanceAU,
	}
}

// planet reduces mean osculating elements to a geocentric ecliptic
// position of date. Mutual perturbations between the giants are beyond
// the element polynomials, hence the documented accuracy class.
func (m *Meeus) planet(index int, jde float64) model.RawPosition {
	body := heliocentric(index, jde)
	earth := heliocentric(planetelements.Earth, jde)

	x := body.x - earth.x
	y := body.y - earth.y
	z := body.z - earth.z
	return model.RawPosition{
		Longitude:  types.NormalizeDegrees(deg(math.Atan2(y, x))),
		Latitude:   deg(math.Atan2(z, math.Hypot(x, y))),
		DistanceAU: math.Sqrt(x*x + y*y + z*z),
	}
}

type helioVector struct {
	x, y, z float64
}

// heliocentric places one body from its mean elements: mean anomaly
// from mean longitude, a Newton solve of Kepler's equation, then the
// classical rotation through perihelion, node and inclination.
func heliocentric(index int, jde float64) helioVector {
	var e planetelements.Elements
	planetelements.Mean(index, jde, &e)

	meanAnomaly := e.Lon.Rad() - e.Peri.Rad()
	ecc := e.Ecc
	E := solveKepler(meanAnomaly, ecc)
	trueAnomaly := 2 * math.Atan(math.Sqrt((1+ecc)/(1-ecc))*math.Tan(E/2))
	radius := e.Axis * (1 - ecc*math.Cos(E))

	// Argument of latitude: the angle from the ascending node along the
	// orbit. Peri here is the longitude of perihelion.
	u := trueAnomaly + e.Peri.Rad() - e.Node.Rad()
	sinNode, cosNode := math.Sincos(e.Node.Rad())
	sinU, cosU := math.Sincos(u)
	sinInc, cosInc := math.Sincos(e.Inc.Rad())
	return helioVector{
		x: radius * (cosNode*cosU - sinNode*sinU*cosInc),
		y: radius * (sinNode*cosU + cosNode*sinU*cosInc),
		z: radius * sinU * sinInc,
	}
}

func solveKepler(meanAnomaly, ecc float64) float64 {
	E := meanAnomaly
	for i := 0; i < keplerIterations; i++ {
		E -= (E - ecc*math.Sin(E) - meanAnomaly) / (1 - ecc*math.Cos(E))
	}
	return E
}

// shortestArc is the signed degree arc from one longitude to another,
// in (-180, 180]. It keeps numeric daily motion correct across the
// 360 wrap.
func shortestArc(from, to float64) float64 {
	arc := types.NormalizeDegrees(to - from)
	if arc > 180 {
		arc -= 360
	}
	return arc
}
