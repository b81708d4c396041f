package sia

import "fmt"

// Region is the search region supplied through POS. It is a closed set of
// variants: Circle, Range and Polygon. The translator dispatches on the
// concrete type, so anything outside this file cannot add a variant.
type Region interface {
	region()
}

// Circle is a radial search region around a point on the sky.
type Circle struct {
	Longitude float64
	Latitude  float64
	Radius    float64
}

func (Circle) region() {}

// NewCircle validates coordinate bounds and builds a Circle. The same bounds
// apply whether the circle comes from a POS string or is constructed
// directly.
func NewCircle(lon, lat, radius float64) (Circle, error) {
	if lon < 0 || lon > 360 {
		return Circle{}, &ValidationError{Field: "POS", Msg: "longitude must be in [0, 360]"}
	}
	if lat < -90 || lat > 90 {
		return Circle{}, &ValidationError{Field: "POS", Msg: "latitude must be in [-90, 90]"}
	}
	return Circle{Longitude: lon, Latitude: lat, Radius: radius}, nil
}

// Range is a box search region bounded by two longitudes and two latitudes.
type Range struct {
	Lon1 float64
	Lon2 float64
	Lat1 float64
	Lat2 float64
}

func (Range) region() {}

// NewRange validates coordinate bounds and builds a Range.
func NewRange(lon1, lon2, lat1, lat2 float64) (Range, error) {
	for i, lon := range [2]float64{lon1, lon2} {
		if lon < 0 || lon > 360 {
			return Range{}, &ValidationError{Field: "POS", Msg: fmt.Sprintf("lon%d must be in [0, 360]", i+1)}
		}
	}
	for i, lat := range [2]float64{lat1, lat2} {
		if lat < -90 || lat > 90 {
			return Range{}, &ValidationError{Field: "POS", Msg: fmt.Sprintf("lat%d must be in [-90, 90]", i+1)}
		}
	}
	return Range{Lon1: lon1, Lon2: lon2, Lat1: lat1, Lat2: lat2}, nil
}

// Polygon is a search region bounded by an ordered list of vertices, stored
// as a flat lon1,lat1,lon2,lat2,... sequence. Vertices are taken in input
// order; closure and simplicity are not checked.
type Polygon struct {
	Coordinates []float64
}

func (Polygon) region() {}

// NewPolygon validates the vertex count: an even number of values, at least
// three lon/lat pairs.
func NewPolygon(coords []float64) (Polygon, error) {
	if len(coords) < 6 || len(coords)%2 != 0 {
		return Polygon{}, &ValidationError{Field: "POS", Msg: "POLYGON must have at least 3 lon/lat pairs (6 values total)"}
	}
	return Polygon{Coordinates: coords}, nil
}
