package usecases

import (
	"fmt"

	"github.com/samirrijal/globeview/internal/core/domain"
)

const (
	polygonAltitude        = 0.01
	polygonHoverAltitude   = 0.06
	polygonHighlightColor  = "#fbbf24"
	polygonSideColor       = "rgba(0, 0, 0, 0.15)"
	polygonStrokeColor     = "#111827"
	atmosphereAltitudeUnit = 0.25
)

// StyledPolygon is the per-feature styling of one country polygon.
type StyledPolygon struct {
	Name        string  `json:"name"`
	CapColor    string  `json:"cap_color"`
	SideColor   string  `json:"side_color"`
	StrokeColor string  `json:"stroke_color"`
	Altitude    float64 `json:"altitude"`
	Hovered     bool    `json:"hovered"`
}

// GlobeProps are the sphere-level renderer props. Colors are passed
// declaratively; RenderKey changes whenever a color does, so renderers that
// cache materials by color remount on the next frame.
type GlobeProps struct {
	OceanColor         string  `json:"ocean_color"`
	AtmosphereColor    string  `json:"atmosphere_color"`
	AtmosphereAltitude float64 `json:"atmosphere_altitude"`
	ShowGraticules     bool    `json:"show_graticules"`
	RenderKey          string  `json:"render_key"`
}

// RenderProps is everything a renderer needs for one frame.
type RenderProps struct {
	Globe          GlobeProps           `json:"globe"`
	Markers        []domain.Marker      `json:"markers"`
	Polygons       []StyledPolygon      `json:"polygons"`
	HoveredCountry string               `json:"hovered_country,omitempty"`
	Selected       *domain.MarkerDetail `json:"selected,omitempty"`
}

// GlobeView owns the ephemeral hover and selection state of one globe and maps
// markers, polygons and style into renderer props.
type GlobeView struct {
	hovered  string
	selected *domain.Marker
}

// NewGlobeView starts with nothing hovered and nothing selected.
func NewGlobeView() *GlobeView {
	return &GlobeView{}
}

// HoverCountry records the polygon under the pointer. An empty name clears it.
func (v *GlobeView) HoverCountry(name string) {
	v.hovered = name
}

// LeaveCountry clears the hover highlight.
func (v *GlobeView) LeaveCountry() {
	v.hovered = ""
}

// HoveredCountry returns the highlighted country, or "".
func (v *GlobeView) HoveredCountry() string {
	return v.hovered
}

// Select makes m the selected marker, replacing any previous selection.
func (v *GlobeView) Select(m domain.Marker) {
	v.selected = &m
}

// CloseSelection returns to the no-selection state.
func (v *GlobeView) CloseSelection() {
	v.selected = nil
}

// Selected returns the selected marker, if any.
func (v *GlobeView) Selected() (domain.Marker, bool) {
	if v.selected == nil {
		return domain.Marker{}, false
	}
	return *v.selected, true
}

// SelectByID selects the marker with the given id from markers.
func (v *GlobeView) SelectByID(markers []domain.Marker, id string) (domain.Marker, error) {
	for _, m := range markers {
		if m.ID == id {
			v.Select(m)
			return m, nil
		}
	}
	return domain.Marker{}, fmt.Errorf("select %q: %w", id, domain.ErrMarkerNotFound)
}

// SelectNearest selects the marker closest to point, if one lies within
// maxDegrees of great-circle distance.
func (v *GlobeView) SelectNearest(markers []domain.Marker, point domain.Coordinate, maxDegrees float64) (domain.Marker, error) {
	best := -1
	bestDist := maxDegrees
	for i, m := range markers {
		d := point.DistanceDegrees(domain.Coordinate{Lat: m.Lat, Lng: m.Lng})
		if d <= bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return domain.Marker{}, fmt.Errorf("select near %.4f,%.4f: %w", point.Lat, point.Lng, domain.ErrMarkerNotFound)
	}
	v.Select(markers[best])
	return markers[best], nil
}

// Reconcile keeps the selection in step with a freshly computed marker list:
// a selected marker that is gone is deselected, one that remains is refreshed.
func (v *GlobeView) Reconcile(markers []domain.Marker) {
	if v.selected == nil {
		return
	}
	for _, m := range markers {
		if m.ID == v.selected.ID {
			v.Select(m)
			return
		}
	}
	v.selected = nil
}

// PolygonStyle styles one country polygon for the current hover state.
func (v *GlobeView) PolygonStyle(p domain.CountryPolygon, style domain.StyleConfig) StyledPolygon {
	name := p.Name()
	sp := StyledPolygon{
		Name:        name,
		CapColor:    style.LandColor,
		SideColor:   polygonSideColor,
		StrokeColor: polygonStrokeColor,
		Altitude:    polygonAltitude,
	}
	if v.hovered != "" && name == v.hovered {
		sp.CapColor = polygonHighlightColor
		sp.Altitude = polygonHoverAltitude
		sp.Hovered = true
	}
	return sp
}

// Props assembles the renderer props for one frame.
func (v *GlobeView) Props(markers []domain.Marker, polygons []domain.CountryPolygon, style domain.StyleConfig, renderKey string) RenderProps {
	props := RenderProps{
		Globe: GlobeProps{
			OceanColor:         style.OceanColor,
			AtmosphereColor:    style.AtmosphereColor,
			AtmosphereAltitude: style.AtmosphereIntensity * atmosphereAltitudeUnit,
			ShowGraticules:     style.ShowGrid,
			RenderKey:          renderKey,
		},
		Markers:        markers,
		Polygons:       make([]StyledPolygon, 0, len(polygons)),
		HoveredCountry: v.hovered,
	}
	for _, p := range polygons {
		props.Polygons = append(props.Polygons, v.PolygonStyle(p, style))
	}
	if m, ok := v.Selected(); ok {
		d := Detail(m)
		props.Selected = &d
	}
	return props
}

// Detail builds the selected-marker card: organizations show their location,
// products their price.
func Detail(m domain.Marker) domain.MarkerDetail {
	d := domain.MarkerDetail{MarkerID: m.ID, Type: m.Type, Title: m.Label}
	switch e := m.Data.(type) {
	case domain.Organization:
		d.Description = e.Description
		d.Location = e.LocationText()
	case domain.Product:
		d.Description = e.Description
		price := e.Price
		d.Price = &price
	}
	return d
}
