package domain

import "strings"

// Entity is a source record that can become a marker.
type Entity interface {
	EntityID() string
	DisplayName() string
}

// Organization is a directory entry served by the backend's /companies endpoint.
type Organization struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Location    *string `json:"location"`
	Website     string  `json:"website,omitempty"`
	LogoURL     string  `json:"logo_url,omitempty"`
}

func (o Organization) EntityID() string    { return o.ID }
func (o Organization) DisplayName() string { return o.Name }

// LocationText returns the trimmed location, or "" when missing.
func (o Organization) LocationText() string {
	if o.Location == nil {
		return ""
	}
	return strings.TrimSpace(*o.Location)
}

// ProductCompany is the denormalized owner embedded in a product record.
type ProductCompany struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Product is a swag-shop item served by /swag-products. It carries no location of
// its own; its position comes from the owning organization.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	CompanyID   *string         `json:"company_id,omitempty"`
	Company     *ProductCompany `json:"company,omitempty"`
}

func (p Product) EntityID() string    { return p.ID }
func (p Product) DisplayName() string { return p.Name }

// Catalog is one fetched snapshot of every entity collection.
type Catalog struct {
	Organizations []Organization `json:"organizations"`
	Products      []Product      `json:"products"`
}

// MarkerType is the closed set of entity kinds a marker can represent.
type MarkerType string

const (
	MarkerOrganization MarkerType = "organization"
	MarkerProduct      MarkerType = "product"
)

// LayerID identifies a layer. It never changes after registration.
type LayerID string

// Layer is a togglable category of markers with its own access and zoom gate.
type Layer struct {
	ID           LayerID    `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	Color        string     `json:"color" yaml:"color"`
	Icon         string     `json:"icon" yaml:"icon"`
	EntityType   MarkerType `json:"entity_type" yaml:"entity_type"`
	MarkerSize   float64    `json:"marker_size" yaml:"marker_size"`
	Enabled      bool       `json:"enabled" yaml:"enabled"`
	RequiresAuth bool       `json:"requires_auth" yaml:"requires_auth"`
	MinZoomLevel float64    `json:"min_zoom_level" yaml:"min_zoom_level"`
	Count        int        `json:"count" yaml:"-"`
	PlottedCount int        `json:"plotted_count" yaml:"-"`
}

// Visibility explains whether a layer currently contributes markers.
type Visibility string

const (
	VisibilityVisible   Visibility = "visible"
	VisibilityDisabled  Visibility = "disabled"
	VisibilityLocked    Visibility = "locked"     // needs sign-in
	VisibilityZoomGated Visibility = "zoom_gated" // needs zoom-in
)

// Visibility evaluates the gate for the given auth and zoom context.
// A disabled layer reports disabled before any gate reason.
func (l Layer) Visibility(authenticated bool, zoom float64) Visibility {
	switch {
	case !l.Enabled:
		return VisibilityDisabled
	case l.RequiresAuth && !authenticated:
		return VisibilityLocked
	case zoom < l.MinZoomLevel:
		return VisibilityZoomGated
	default:
		return VisibilityVisible
	}
}

// Eligible reports whether the layer's entities may produce markers.
func (l Layer) Eligible(authenticated bool, zoom float64) bool {
	return l.Visibility(authenticated, zoom) == VisibilityVisible
}

// Marker is a renderable point derived from one source entity. Markers are
// always recomputed, never edited.
type Marker struct {
	ID      string     `json:"id"`
	Lat     float64    `json:"lat"`
	Lng     float64    `json:"lng"`
	Size    float64    `json:"size"`
	Color   string     `json:"color"`
	Label   string     `json:"label"`
	Type    MarkerType `json:"type"`
	LayerID LayerID    `json:"layer_id"`
	Geohash string     `json:"geohash"`
	Data    Entity     `json:"data"`
}

// MarkerDetail is the content of the selected-marker card.
type MarkerDetail struct {
	MarkerID    string     `json:"marker_id"`
	Type        MarkerType `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location,omitempty"`
	Price       *float64   `json:"price,omitempty"`
}

// StyleConfig is the set of visual parameters controlling the globe.
type StyleConfig struct {
	OceanColor          string  `json:"ocean_color" yaml:"ocean_color"`
	LandColor           string  `json:"land_color" yaml:"land_color"`
	AtmosphereColor     string  `json:"atmosphere_color" yaml:"atmosphere_color"`
	AtmosphereIntensity float64 `json:"atmosphere_intensity" yaml:"atmosphere_intensity"`
	ShowGrid            bool    `json:"show_grid" yaml:"show_grid"`
}

// StylePatch is a partial StyleConfig update. Nil fields are left unchanged.
type StylePatch struct {
	OceanColor          *string  `json:"ocean_color,omitempty"`
	LandColor           *string  `json:"land_color,omitempty"`
	AtmosphereColor     *string  `json:"atmosphere_color,omitempty"`
	AtmosphereIntensity *float64 `json:"atmosphere_intensity,omitempty"`
	ShowGrid            *bool    `json:"show_grid,omitempty"`
}
