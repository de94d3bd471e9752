package houses

import (
	"sort"

	"github.com/okian/kundali/internal/domain/model"
	"github.com/okian/kundali/internal/domain/types"
)

// Place assigns each position to the house whose arc contains its
// sidereal longitude and records the occupants of every cusp, ordered by
// ascending longitude. It is a pure function: both the set and the
// position slice are returned as new values.
func Place(set model.HouseSet, positions []model.PlanetaryPosition) (model.HouseSet, []model.PlanetaryPosition) {
	var arcs [12]float64
	for i, c := range set.Cusps {
		arcs[i] = c.SiderealLongitude
	}

	placed := make([]model.PlanetaryPosition, len(positions))
	byHouse := make(map[int][]model.PlanetaryPosition, 12)
	for i, pos := range positions {
		h := HouseOf(arcs, pos.SiderealLongitude)
		pos.House = h
		placed[i] = pos
		byHouse[h] = append(byHouse[h], pos)
	}

	for h := range set.Cusps {
		members := byHouse[h+1]
		sort.Slice(members, func(i, j int) bool {
			return members[i].SiderealLongitude < members[j].SiderealLongitude
		})
		list := make([]types.Planet, len(members))
		for i, member := range members {
			list[i] = member.Planet
		}
		set.Cusps[h].Planets = list
	}
	return set, placed
}

// HouseOf returns the 1-based house whose half-open arc
// [cusp[h], cusp[h+1]) contains the longitude, walking the circle with
// wraparound at 0.
func HouseOf(cusps [12]float64, longitude float64) int {
	l := types.NormalizeDegrees(longitude)
	for h := 0; h < 12; h++ {
		lo, hi := cusps[h], cusps[(h+1)%12]
		if lo <= hi {
			if l >= lo && l < hi {
				return h + 1
			}
		} else if l >= lo || l < hi {
			return h + 1
		}
	}
	// The cusps form an exact circular partition, so the loop always
	// returns; reaching here means a malformed cusp set.
	return 12
}
