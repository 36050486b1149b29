package usecases_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/globeview/internal/catalog"
	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/core/usecases"
)

func polygon(name string) domain.CountryPolygon {
	return domain.CountryPolygon{Type: "Feature", Properties: map[string]any{"ADMIN": name}}
}

func viewMarkers() []domain.Marker {
	return []domain.Marker{
		{ID: "organizations:o1", Lat: 48.86, Lng: 2.35, Label: "Hemp Co", Type: domain.MarkerOrganization,
			Data: domain.Organization{ID: "o1", Name: "Hemp Co", Description: "Fibres", Location: strPtr("Paris, France")}},
		{ID: "shops:p1", Lat: 52.52, Lng: 13.40, Label: "Tote Bag", Type: domain.MarkerProduct,
			Data: domain.Product{ID: "p1", Name: "Tote Bag", Description: "Canvas", Price: 12.5}},
	}
}

func TestGlobeView_HoverLifecycle(t *testing.T) {
	v := usecases.NewGlobeView()
	style := catalog.Default().DefaultStyle()

	assert.Equal(t, "", v.HoveredCountry())
	v.HoverCountry("France")
	assert.Equal(t, "France", v.HoveredCountry())

	fr := v.PolygonStyle(polygon("France"), style)
	assert.True(t, fr.Hovered)
	assert.Equal(t, "#fbbf24", fr.CapColor)
	assert.Equal(t, 0.06, fr.Altitude)

	de := v.PolygonStyle(polygon("Germany"), style)
	assert.False(t, de.Hovered)
	assert.Equal(t, style.LandColor, de.CapColor)
	assert.Equal(t, 0.01, de.Altitude)

	v.HoverCountry("Germany")
	assert.Equal(t, "Germany", v.HoveredCountry())
	v.LeaveCountry()
	assert.Equal(t, "", v.HoveredCountry())
}

func TestGlobeView_SelectionLifecycle(t *testing.T) {
	v := usecases.NewGlobeView()
	markers := viewMarkers()

	_, ok := v.Selected()
	assert.False(t, ok)

	m, err := v.SelectByID(markers, "shops:p1")
	require.NoError(t, err)
	assert.Equal(t, "Tote Bag", m.Label)

	_, err = v.SelectByID(markers, "organizations:o1")
	require.NoError(t, err)
	sel, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, "organizations:o1", sel.ID, "selecting another marker replaces the first")

	_, err = v.SelectByID(markers, "nope")
	assert.ErrorIs(t, err, domain.ErrMarkerNotFound)

	v.CloseSelection()
	_, ok = v.Selected()
	assert.False(t, ok)
}

func TestGlobeView_SelectNearest(t *testing.T) {
	v := usecases.NewGlobeView()
	markers := viewMarkers()

	m, err := v.SelectNearest(markers, domain.Coordinate{Lat: 48.9, Lng: 2.4}, 1)
	require.NoError(t, err)
	assert.Equal(t, "organizations:o1", m.ID)

	_, err = v.SelectNearest(markers, domain.Coordinate{Lat: -33, Lng: 151}, 1)
	assert.ErrorIs(t, err, domain.ErrMarkerNotFound)
}

func TestGlobeView_ReconcileDropsVanishedSelection(t *testing.T) {
	v := usecases.NewGlobeView()
	markers := viewMarkers()
	_, err := v.SelectByID(markers, "organizations:o1")
	require.NoError(t, err)

	v.Reconcile(markers[1:])
	_, ok := v.Selected()
	assert.False(t, ok)

	_, _ = v.SelectByID(markers, "shops:p1")
	moved := viewMarkers()
	moved[1].Label = "Tote Bag v2"
	v.Reconcile(moved)
	sel, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, "Tote Bag v2", sel.Label)
}

func TestGlobeView_Props(t *testing.T) {
	v := usecases.NewGlobeView()
	style := catalog.Default().DefaultStyle()
	markers := viewMarkers()
	v.HoverCountry("France")
	_, _ = v.SelectByID(markers, "shops:p1")

	props := v.Props(markers, []domain.CountryPolygon{polygon("France"), polygon("Spain")}, style, "abcd1234")

	assert.Equal(t, style.OceanColor, props.Globe.OceanColor)
	assert.Equal(t, style.AtmosphereColor, props.Globe.AtmosphereColor)
	assert.InDelta(t, style.AtmosphereIntensity*0.25, props.Globe.AtmosphereAltitude, 1e-9)
	assert.Equal(t, style.ShowGrid, props.Globe.ShowGraticules)
	assert.Equal(t, "abcd1234", props.Globe.RenderKey)
	assert.Len(t, props.Polygons, 2)
	assert.True(t, props.Polygons[0].Hovered)
	assert.Equal(t, "France", props.HoveredCountry)
	require.NotNil(t, props.Selected)
	require.NotNil(t, props.Selected.Price)
	assert.Equal(t, 12.5, *props.Selected.Price)
}

func TestDetail(t *testing.T) {
	markers := viewMarkers()

	org := usecases.Detail(markers[0])
	assert.Equal(t, "Hemp Co", org.Title)
	assert.Equal(t, "Paris, France", org.Location)
	assert.Nil(t, org.Price)

	product := usecases.Detail(markers[1])
	assert.Equal(t, domain.MarkerProduct, product.Type)
	assert.Empty(t, product.Location)
	require.NotNil(t, product.Price)
}
