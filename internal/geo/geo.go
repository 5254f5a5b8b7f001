package geo

import (
	"math"
	"sort"
)

// earthRadiusKm is the haversine Earth radius.
const earthRadiusKm = 6371

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether p is inside the legal latitude/longitude ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Distance returns the great-circle distance between a and b in kilometres.
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// Candidate pairs a record id with its coordinate for nearest-first ranking.
type Candidate struct {
	ID uint
	At Point
}

// Rank returns the candidates ordered by ascending distance from origin.
// Ties keep their input order. The input slice is not modified.
func Rank(origin Point, candidates []Candidate) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Distance(origin, ranked[i].At) < Distance(origin, ranked[j].At)
	})
	return ranked
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
