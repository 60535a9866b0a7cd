// Package geo plans the ordered location sequence for a scrape job.
//
// Planning is a pure function of its input and the static city table: no
// I/O and no randomness, so a persisted city index always resolves to the
// same city across process restarts.
package geo

import (
	"math"
	"sort"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Plan returns the ordered list of location strings to search for the
// given job location.
//
// The whole-country sentinel expands to the full city table in canonical
// order. A known city expands to every city sorted by ascending distance
// from it. An unknown location is returned as-is, alone, with no expansion.
func Plan(location string) []string {
	if location == WholeCountry {
		names := make([]string, len(Cities))
		for i, c := range Cities {
			names[i] = c.Name
		}
		return names
	}

	origin, ok := Lookup(location)
	if !ok {
		return []string{location}
	}

	type ranked struct {
		name     string
		distance float64
		index    int
	}
	cities := make([]ranked, len(Cities))
	for i, c := range Cities {
		cities[i] = ranked{
			name:     c.Name,
			distance: Haversine(origin.Lat, origin.Lng, c.Lat, c.Lng),
			index:    i,
		}
	}
	// Ties fall back on canonical order to keep the plan deterministic.
	sort.SliceStable(cities, func(i, j int) bool {
		if cities[i].distance != cities[j].distance {
			return cities[i].distance < cities[j].distance
		}
		return cities[i].index < cities[j].index
	})

	names := make([]string, len(cities))
	for i, c := range cities {
		names[i] = c.name
	}
	return names
}

// Haversine returns the great-circle distance in kilometers between two
// coordinate pairs.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
