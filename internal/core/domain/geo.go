package domain

import "github.com/golang/geo/s2"

// Coordinate is a geographic position in degrees (WGS 84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies within -90..90 latitude and -180..180 longitude.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// DistanceDegrees is the great-circle angle between two coordinates, in degrees.
func (c Coordinate) DistanceDegrees(o Coordinate) float64 {
	a := s2.LatLngFromDegrees(c.Lat, c.Lng)
	b := s2.LatLngFromDegrees(o.Lat, o.Lng)
	return a.Distance(b).Degrees()
}

// Clamp pulls the coordinate back inside valid bounds.
func (c Coordinate) Clamp() Coordinate {
	if c.Lat > 90 {
		c.Lat = 90
	} else if c.Lat < -90 {
		c.Lat = -90
	}
	if c.Lng > 180 {
		c.Lng = 180
	} else if c.Lng < -180 {
		c.Lng = -180
	}
	return c
}

// CountryPolygon is one GeoJSON feature of the country outline collection.
// The geometry is opaque to the core and is passed through to renderers untouched.
type CountryPolygon struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   map[string]any `json:"geometry"`
}

// Name returns the lookup key of the polygon: ADMIN if present, else NAME.
func (p CountryPolygon) Name() string {
	if v, ok := p.Properties["ADMIN"].(string); ok && v != "" {
		return v
	}
	if v, ok := p.Properties["NAME"].(string); ok {
		return v
	}
	return ""
}

// FeatureCollection is the country GeoJSON document.
type FeatureCollection struct {
	Type     string           `json:"type"`
	Features []CountryPolygon `json:"features"`
}
