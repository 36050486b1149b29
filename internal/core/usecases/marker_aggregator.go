package usecases

import (
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"

	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/pkg/geospatial"
)

const markerGeohashPrecision = 6

// OwnerIndex finds the organization that owns a product.
type OwnerIndex struct {
	byID   map[string]domain.Organization
	byName map[string]domain.Organization
}

// NewOwnerIndex indexes organizations by id and by case-folded name.
// The first organization wins when names collide.
func NewOwnerIndex(orgs []domain.Organization) *OwnerIndex {
	idx := &OwnerIndex{
		byID:   make(map[string]domain.Organization, len(orgs)),
		byName: make(map[string]domain.Organization, len(orgs)),
	}
	for _, o := range orgs {
		if o.ID != "" {
			if _, dup := idx.byID[o.ID]; !dup {
				idx.byID[o.ID] = o
			}
		}
		key := strings.ToLower(strings.TrimSpace(o.Name))
		if key == "" {
			continue
		}
		if _, dup := idx.byName[key]; !dup {
			idx.byName[key] = o
		}
	}
	return idx
}

// Owner resolves a product's organization via company_id, then via the
// embedded company name.
func (idx *OwnerIndex) Owner(p domain.Product) (domain.Organization, bool) {
	if idx == nil {
		return domain.Organization{}, false
	}
	if p.CompanyID != nil {
		if o, ok := idx.byID[*p.CompanyID]; ok {
			return o, true
		}
	}
	if p.Company != nil {
		if p.Company.ID != "" {
			if o, ok := idx.byID[p.Company.ID]; ok {
				return o, true
			}
		}
		if o, ok := idx.byName[strings.ToLower(strings.TrimSpace(p.Company.Name))]; ok {
			return o, true
		}
	}
	return domain.Organization{}, false
}

// EntitySet is the aggregator input: entities grouped by layer plus the owner
// lookup products need to find their location.
type EntitySet struct {
	ByLayer map[domain.LayerID][]domain.Entity
	Owners  *OwnerIndex
}

// NewEntitySet routes the catalog collections to the layers that display them.
func NewEntitySet(cat domain.Catalog, layers []domain.Layer) EntitySet {
	set := EntitySet{
		ByLayer: make(map[domain.LayerID][]domain.Entity, len(layers)),
		Owners:  NewOwnerIndex(cat.Organizations),
	}
	for _, l := range layers {
		var entities []domain.Entity
		switch l.EntityType {
		case domain.MarkerOrganization:
			entities = make([]domain.Entity, 0, len(cat.Organizations))
			for _, o := range cat.Organizations {
				entities = append(entities, o)
			}
		case domain.MarkerProduct:
			entities = make([]domain.Entity, 0, len(cat.Products))
			for _, p := range cat.Products {
				entities = append(entities, p)
			}
		}
		set.ByLayer[l.ID] = entities
	}
	return set
}

// LocationOf derives the location string an entity is plotted at.
func (s EntitySet) LocationOf(e domain.Entity) string {
	switch v := e.(type) {
	case domain.Organization:
		return v.LocationText()
	case domain.Product:
		if o, ok := s.Owners.Owner(v); ok {
			return o.LocationText()
		}
	}
	return ""
}

// MarkerAggregator turns entities and layer state into the marker list.
type MarkerAggregator struct {
	resolver       *geospatial.Resolver
	jitterByEntity bool
}

// AggregatorOption configures a MarkerAggregator.
type AggregatorOption func(*MarkerAggregator)

// WithLocationKeyedJitter keys jitter on the location string alone, so entities
// with identical locations share one jittered point.
func WithLocationKeyedJitter() AggregatorOption {
	return func(a *MarkerAggregator) { a.jitterByEntity = false }
}

// NewMarkerAggregator creates an aggregator. By default every entity gets its own
// jitter offset.
func NewMarkerAggregator(resolver *geospatial.Resolver, opts ...AggregatorOption) *MarkerAggregator {
	a := &MarkerAggregator{resolver: resolver, jitterByEntity: true}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate computes the markers for every visible layer. It has no side
// effects: identical inputs produce an identical list in identical order.
func (a *MarkerAggregator) Aggregate(set EntitySet, layers []domain.Layer, authenticated bool, zoom float64) []domain.Marker {
	markers := make([]domain.Marker, 0)
	seen := make(map[string]struct{})

	for _, layer := range layers {
		if !layer.Eligible(authenticated, zoom) {
			continue
		}
		for _, e := range set.ByLayer[layer.ID] {
			loc := set.LocationOf(e)
			if loc == "" {
				continue
			}
			base, ok := a.resolver.Resolve(loc)
			if !ok {
				continue
			}

			id := string(layer.ID) + ":" + e.EntityID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			seed := loc
			if a.jitterByEntity {
				seed = loc + "#" + e.EntityID()
			}
			pos := geospatial.Jitter(base, seed)

			markers = append(markers, domain.Marker{
				ID:      id,
				Lat:     pos.Lat,
				Lng:     pos.Lng,
				Size:    layer.MarkerSize,
				Color:   layer.Color,
				Label:   e.DisplayName(),
				Type:    layer.EntityType,
				LayerID: layer.ID,
				Geohash: geohash.EncodeWithPrecision(pos.Lat, pos.Lng, markerGeohashPrecision),
				Data:    e,
			})
		}
	}
	return markers
}

// PlottedByLayer counts markers per layer.
func PlottedByLayer(markers []domain.Marker) map[domain.LayerID]int {
	out := make(map[domain.LayerID]int)
	for _, m := range markers {
		out[m.LayerID]++
	}
	return out
}
