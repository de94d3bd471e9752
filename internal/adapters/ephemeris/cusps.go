package ephemeris

import (
	"context"
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/unit"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

const (
	// secondsPerDegree converts sidereal time seconds to degrees.
	secondsPerDegree = 240.0
	// placidusIterations bounds the semi-arc fixed-point loop. It
	// converges in a handful of steps below the polar circles.
	placidusIterations = 30
	// convergence stops the Placidus loop early, in degrees.
	convergence = 1e-9
)

// Calculator derives tropical house cusps with spherical astronomy on
// the apparent sidereal time and the true obliquity of date. Quadrant
// systems report ErrPolarLatitude where their construction is
// undefined; the house engine degrades to equal houses on that.
type Calculator struct{}

// NewCalculator constructs the cusp calculator. It is stateless and
// safe for concurrent use.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Cusps returns the tropical ascendant and the twelve cusps of the
// requested system. Cusps[0] is house 1; the houses run
// counterclockwise.
func (c *Calculator) Cusps(ctx context.Context, jdUT, latitude, longitude float64, system types.HouseSystem) (model.RawCusps, error) {
	if err := ctx.Err(); err != nil {
		return model.RawCusps{}, err
	}

	theta := types.NormalizeDegrees(sidereal.Apparent(jdUT).Sec() / secondsPerDegree)
	ramc := types.NormalizeDegrees(theta + longitude)
	// Evaluating the obliquity at the UT day instead of TT is dozens of
	// seconds of time against a quantity moving 47 arcseconds a century.
	_, deps := nutation.Nutation(jdUT)
	eps := nutation.MeanObliquity(jdUT).Rad() + deps.Rad()

	asc := horizonLongitude(ramc+90, latitude, eps)
	mc := eclipticFromRA(ramc, eps)

	var (
		cusps [12]float64
		err   error
	)
	switch system {
	case types.Equal:
		cusps = spacedFrom(asc)
	case types.WholeSign:
		cusps = spacedFrom(types.SignSpan * math.Floor(asc/types.SignSpan))
	case types.Porphyry:
		cusps = porphyry(asc, mc)
	case types.Placidus:
		cusps, err = placidus(ramc, latitude, eps, asc, mc)
	case types.Koch:
		cusps, err = koch(ramc, latitude, eps, asc, mc)
	case types.Regiomontanus:
		cusps, err = regiomontanus(ramc, latitude, eps, asc, mc)
	case types.Campanus:
		cusps, err = campanus(ramc, latitude, eps, asc, mc)
	case types.Alcabitius:
		cusps, err = alcabitius(ramc, latitude, eps, asc, mc)
	default:
		return model.RawCusps{}, fmt.Errorf("%w: %v", types.ErrUnknownHouseSystem, system)
	}
	if err != nil {
		return model.RawCusps{}, err
	}
	if !circular(cusps) {
		return model.RawCusps{}, fmt.Errorf("%w: cusps degenerate at %.4f", ErrPolarLatitude, latitude)
	}
	return model.RawCusps{Ascendant: asc, Cusps: cusps}, nil
}

// horizonLongitude is the rising ecliptic longitude cut by a great
// circle of the given pole elevation whose equator crossing sits at
// right ascension x. The ascendant is the latitude-pole case with
// x = ramc+90.
func horizonLongitude(x, pole, eps float64) float64 {
	xr := rad(x)
	pr := rad(pole)
	lon := math.Atan2(math.Sin(xr), math.Cos(xr)*math.Cos(eps)-math.Tan(pr)*math.Sin(eps))
	return types.NormalizeDegrees(deg(lon))
}

// eclipticFromRA converts the right ascension of an ecliptic point back
// to its longitude, quadrant preserved. The midheaven is the ramc case.
func eclipticFromRA(alpha, eps float64) float64 {
	ar := rad(alpha)
	return types.NormalizeDegrees(deg(math.Atan2(math.Sin(ar), math.Cos(ar)*math.Cos(eps))))
}

// spacedFrom lays twelve equal houses from a starting longitude.
func spacedFrom(start float64) [12]float64 {
	var cusps [12]float64
	for i := range cusps {
		cusps[i] = types.NormalizeDegrees(start + float64(i)*types.SignSpan)
	}
	return cusps
}

// quadrantCusps assembles a full wheel from the four intermediate
// cusps; houses 4 through 9 oppose 10 through 3.
func quadrantCusps(asc, mc, c11, c12, c2, c3 float64) [12]float64 {
	return [12]float64{
		types.NormalizeDegrees(asc),
		types.NormalizeDegrees(c2),
		types.NormalizeDegrees(c3),
		types.NormalizeDegrees(mc + 180),
		types.NormalizeDegrees(c11 + 180),
		types.NormalizeDegrees(c12 + 180),
		types.NormalizeDegrees(asc + 180),
		types.NormalizeDegrees(c2 + 180),
		types.NormalizeDegrees(c3 + 180),
		types.NormalizeDegrees(mc),
		types.NormalizeDegrees(c11),
		types.NormalizeDegrees(c12),
	}
}

func porphyry(asc, mc float64) [12]float64 {
	upper := types.NormalizeDegrees(asc - mc)
	lower := 180 - upper
	return quadrantCusps(asc, mc,
		mc+upper/3,
		mc+2*upper/3,
		asc+lower/3,
		asc+2*lower/3,
	)
}

func placidus(ramc, latitude, eps, asc, mc float64) ([12]float64, error) {
	c11, err := placidusCusp(ramc, latitude, eps, 1.0/3, true)
	if err != nil {
		return [12]float64{}, err
	}
	c12, err := placidusCusp(ramc, latitude, eps, 2.0/3, true)
	if err != nil {
		return [12]float64{}, err
	}
	c2, err := placidusCusp(ramc, latitude, eps, 2.0/3, false)
	if err != nil {
		return [12]float64{}, err
	}
	c3, err := placidusCusp(ramc, latitude, eps, 1.0/3, false)
	if err != nil {
		return [12]float64{}, err
	}
	return quadrantCusps(asc, mc, c11, c12, c2, c3), nil
}

// placidusCusp iterates the proportional semi-arc construction in
// right ascension space. fraction is the share of the diurnal
// (above the horizon) or nocturnal semi-arc the cusp cuts off.
func placidusCusp(ramc, latitude, eps, fraction float64, above bool) (float64, error) {
	tanLat := math.Tan(rad(latitude))
	alpha := ramc + fraction*90
	if !above {
		alpha = ramc + 180 - fraction*90
	}
	for i := 0; i < placidusIterations; i++ {
		prev := alpha
		decl := math.Atan(math.Tan(eps) * math.Sin(rad(alpha)))
		x := math.Tan(decl) * tanLat
		if x < -1 || x > 1 {
			return 0, fmt.Errorf("%w: ascensional difference undefined at %.4f", ErrPolarLatitude, latitude)
		}
		ad := deg(math.Asin(x))
		if above {
			alpha = ramc + fraction*(90+ad)
		} else {
			alpha = ramc + 180 - fraction*(90-ad)
		}
		if math.Abs(alpha-prev) < convergence {
			break
		}
	}
	return eclipticFromRA(alpha, eps), nil
}

// koch divides the diurnal semi-arc of the midheaven degree and takes
// the longitudes rising at the divided times.
func koch(ramc, latitude, eps, asc, mc float64) ([12]float64, error) {
	declMC := math.Asin(math.Sin(eps) * math.Sin(rad(mc)))
	x := math.Tan(rad(latitude)) * math.Tan(declMC)
	if x < -1 || x > 1 {
		return [12]float64{}, fmt.Errorf("%w: midheaven never rises at %.4f", ErrPolarLatitude, latitude)
	}
	a := deg(math.Asin(x))
	return quadrantCusps(asc, mc,
		horizonLongitude(ramc+30-2*a/3, latitude, eps),
		horizonLongitude(ramc+60-a/3, latitude, eps),
		horizonLongitude(ramc+120+a/3, latitude, eps),
		horizonLongitude(ramc+150+2*a/3, latitude, eps),
	), nil
}

// regiomontanus divides the celestial equator into equal arcs from the
// ramc; each house circle's pole follows tan P = tan lat * sin H.
func regiomontanus(ramc, latitude, eps, asc, mc float64) ([12]float64, error) {
	tanLat := math.Tan(rad(latitude))
	cusp := func(h float64) float64 {
		pole := deg(math.Atan(tanLat * math.Sin(rad(h))))
		return horizonLongitude(ramc+h, pole, eps)
	}
	return quadrantCusps(asc, mc, cusp(30), cusp(60), cusp(120), cusp(150)), nil
}

// campanus divides the prime vertical into equal arcs. For the house
// circle h degrees from the meridian the pole is asin(sin lat * sin h)
// and the equator crossing sits atan(cos lat * tan h) from the ramc.
func campanus(ramc, latitude, eps, asc, mc float64) ([12]float64, error) {
	sinLat := math.Sin(rad(latitude))
	cosLat := math.Cos(rad(latitude))
	cusp := func(h float64) float64 {
		hr := rad(h)
		pole := deg(math.Asin(sinLat * math.Sin(hr)))
		crossing := deg(math.Atan2(cosLat*math.Sin(hr), math.Cos(hr)))
		return horizonLongitude(ramc+crossing, pole, eps)
	}
	return quadrantCusps(asc, mc, cusp(30), cusp(60), cusp(120), cusp(150)), nil
}

// alcabitius trisects the ascendant degree's semi-arcs in right
// ascension and projects the cut points back to the ecliptic along
// hour circles.
func alcabitius(ramc, latitude, eps, asc, mc float64) ([12]float64, error) {
	declAsc := math.Asin(math.Sin(eps) * math.Sin(rad(asc)))
	x := math.Tan(rad(latitude)) * math.Tan(declAsc)
	if x < -1 || x > 1 {
		return [12]float64{}, fmt.Errorf("%w: ascendant circumpolar at %.4f", ErrPolarLatitude, latitude)
	}
	ad := deg(math.Asin(x))
	dsa := 90 + ad
	nsa := 90 - ad
	return quadrantCusps(asc, mc,
		eclipticFromRA(ramc+dsa/3, eps),
		eclipticFromRA(ramc+2*dsa/3, eps),
		eclipticFromRA(ramc+180-2*nsa/3, eps),
		eclipticFromRA(ramc+180-nsa/3, eps),
	), nil
}

// circular reports whether the cusps run strictly counterclockwise and
// close after exactly one revolution. Quadrant constructions lose this
// near the poles even where their trigonometry stays defined.
func circular(cusps [12]float64) bool {
	total := 0.0
	for i := range cusps {
		arc := types.NormalizeDegrees(cusps[(i+1)%12] - cusps[i])
		if arc <= 0 || arc >= 180 {
			return false
		}
		total += arc
	}
	return math.Abs(total-360) < 1e-6
}

func rad(d float64) float64 { return unit.AngleFromDeg(d).Rad() }
func deg(r float64) float64 { return unit.Angle(r).Deg() }
