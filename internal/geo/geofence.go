package geo

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy"
)

// Fence is the estate perimeter. Accounts whose coordinates fall outside it
// are treated as operating outside the estate.
type Fence struct {
	polygon *geom.Polygon
}

// DefaultFenceGeoJSON bounds the demo estate (Lagos, ~6.52 N 3.37 E).
const DefaultFenceGeoJSON = `{"type":"Polygon","coordinates":[[[3.3760,6.5215],[3.3830,6.5215],[3.3830,6.5275],[3.3760,6.5275],[3.3760,6.5215]]]}`

// ParseFence parses a GeoJSON Polygon into a Fence.
func ParseFence(raw string) (*Fence, error) {
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, fmt.Errorf("parse fence geojson: %w", err)
	}
	poly, ok := g.(*geom.Polygon)
	if !ok {
		return nil, errors.New("fence geometry must be a Polygon")
	}
	if poly.NumLinearRings() == 0 {
		return nil, errors.New("fence polygon has no rings")
	}
	return &Fence{polygon: poly}, nil
}

// Contains reports whether p lies inside the fence's outer ring.
func (f *Fence) Contains(p Point) bool {
	ring := f.polygon.LinearRing(0)
	// GeoJSON positions are lng,lat order.
	coord := geom.Coord{p.Lng, p.Lat}
	return xy.IsPointInRing(f.polygon.Layout(), coord, ring.FlatCoords())
}
