package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/globeview/internal/adapters/http"
	"github.com/samirrijal/globeview/internal/adapters/memory"
	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/core/usecases"
	"github.com/samirrijal/globeview/internal/pkg/geospatial"
)

// ---- Mocks ----

type mockEntitySource struct {
	listOrgsFn     func(ctx context.Context) ([]domain.Organization, error)
	listProductsFn func(ctx context.Context) ([]domain.Product, error)
}

func (m *mockEntitySource) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	if m.listOrgsFn != nil {
		return m.listOrgsFn(ctx)
	}
	return nil, nil
}

func (m *mockEntitySource) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if m.listProductsFn != nil {
		return m.listProductsFn(ctx)
	}
	return nil, nil
}

type mockAuth struct{}

func (mockAuth) Verify(ctx context.Context, token string) (bool, error) {
	return token == "good-token", nil
}

type mockCountrySource struct{}

func (mockCountrySource) FetchCountries(ctx context.Context) ([]domain.CountryPolygon, error) {
	return []domain.CountryPolygon{
		{Type: "Feature", Properties: map[string]any{"ADMIN": "France"}},
		{Type: "Feature", Properties: map[string]any{"ADMIN": "Germany"}},
	}, nil
}

// ---- Helpers ----

func strPtr(s string) *string { return &s }

func fixtureSource() *mockEntitySource {
	return &mockEntitySource{
		listOrgsFn: func(ctx context.Context) ([]domain.Organization, error) {
			return []domain.Organization{
				{ID: "o1", Name: "Hemp Co", Description: "Fibres", Location: strPtr("Paris, France")},
				{ID: "o2", Name: "Berlin Greens", Description: "Urban farm", Location: strPtr("Berlin, Germany")},
				{ID: "o3", Name: "Nowhere Inc", Description: "No address"},
			}, nil
		},
		listProductsFn: func(ctx context.Context) ([]domain.Product, error) {
			return []domain.Product{
				{ID: "p1", Name: "Tote Bag", Description: "Canvas", Price: 12.5, CompanyID: strPtr("o1")},
				{ID: "p2", Name: "Orphan Mug", Description: "No owner", Price: 8},
			}, nil
		},
	}
}

func makeDeps() *handler.Dependencies {
	countries := usecases.NewCountryService(mockCountrySource{})
	countries.Load(context.Background())
	return &handler.Dependencies{
		Sessions: usecases.NewSessionManager(usecases.SessionConfig{
			Catalogs:   usecases.NewCatalogService(fixtureSource(), nil, 60),
			Countries:  countries,
			Aggregator: usecases.NewMarkerAggregator(geospatial.NewResolver()),
			Styles:     memory.New(),
			Auth:       mockAuth{},
			IdleTTL:    time.Hour,
		}),
	}
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

// markerJSON and propsJSON mirror the wire shape; domain.Marker carries an
// interface payload that does not decode.
type markerJSON struct {
	ID   string            `json:"id"`
	Lat  float64           `json:"lat"`
	Lng  float64           `json:"lng"`
	Type domain.MarkerType `json:"type"`
}

type propsJSON struct {
	Globe struct {
		RenderKey string `json:"render_key"`
	} `json:"globe"`
	Markers        []markerJSON      `json:"markers"`
	Polygons       []json.RawMessage `json:"polygons"`
	HoveredCountry string            `json:"hovered_country"`
}

// createSession mounts a session and returns its id.
func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	code, body := doRequest(t, app, "POST", "/v1/sessions", `{"client_id":"alice"}`)
	if code != 201 {
		t.Fatalf("expected 201, got %d: %s", code, body)
	}
	var snap usecases.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap.ID
}

// ---- Catalog ----

func TestListLayers(t *testing.T) {
	app := setupApp(makeDeps())
	code, body := doRequest(t, app, "GET", "/v1/layers", "")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var layers []domain.Layer
	if err := json.Unmarshal(body, &layers); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(layers) != 2 || layers[0].ID != "organizations" || layers[1].ID != "shops" {
		t.Fatalf("unexpected layers: %+v", layers)
	}
}

func TestListPresets(t *testing.T) {
	app := setupApp(makeDeps())
	code, body := doRequest(t, app, "GET", "/v1/style/presets", "")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(string(body), `"midnight"`) {
		t.Errorf("expected midnight preset in %s", body)
	}
}

func TestCountries(t *testing.T) {
	app := setupApp(makeDeps())
	code, body := doRequest(t, app, "GET", "/v1/countries", "")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var resp handler.CountriesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Loading || resp.Count != 2 {
		t.Errorf("expected 2 loaded countries, got %+v", resp)
	}
}

// ---- Session lifecycle ----

func TestCreateSession_Success(t *testing.T) {
	app := setupApp(makeDeps())
	req := httptest.NewRequest("POST", "/v1/sessions", strings.NewReader(`{"client_id":"alice","zoom":1.5}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var snap usecases.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/sessions/"+snap.ID {
		t.Errorf("unexpected Location %q", loc)
	}
	if snap.ClientID != "alice" || snap.Zoom != 1.5 || snap.Authenticated {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	// o1, o2, and p1 (owned by o1) resolve; o3 and the orphan product do not.
	if snap.MarkerCount != 3 {
		t.Errorf("expected 3 markers, got %d", snap.MarkerCount)
	}
}

func TestCreateSession_WithBearerToken(t *testing.T) {
	app := setupApp(makeDeps())
	req := httptest.NewRequest("POST", "/v1/sessions", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var snap usecases.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !snap.Authenticated {
		t.Error("expected authenticated session")
	}
	if snap.ClientID != "default" {
		t.Errorf("expected default client id, got %q", snap.ClientID)
	}
}

func TestCreateSession_BadInput(t *testing.T) {
	app := setupApp(makeDeps())
	tests := []struct {
		name string
		body string
	}{
		{"negative zoom", `{"zoom":-1}`},
		{"long client id", fmt.Sprintf(`{"client_id":%q}`, strings.Repeat("x", 129))},
		{"malformed", `{"zoom":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := doRequest(t, app, "POST", "/v1/sessions", tt.body)
			if code != 400 {
				t.Errorf("expected 400, got %d", code)
			}
		})
	}
}

func TestGetSession_Props(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	code, body := doRequest(t, app, "GET", "/v1/sessions/"+id, "")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var props propsJSON
	if err := json.Unmarshal(body, &props); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(props.Polygons) != 2 {
		t.Errorf("expected 2 polygons, got %d", len(props.Polygons))
	}
	if props.Globe.RenderKey == "" {
		t.Error("expected a render key")
	}
}

func TestSession_UnknownIsGone(t *testing.T) {
	app := setupApp(makeDeps())
	code, body := doRequest(t, app, "GET", "/v1/sessions/does-not-exist/markers", "")
	if code != 410 {
		t.Fatalf("expected 410, got %d", code)
	}
	var apiErr handler.APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if apiErr.Code != "session_expired" {
		t.Errorf("expected session_expired, got %q", apiErr.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	if code, _ := doRequest(t, app, "DELETE", "/v1/sessions/"+id, ""); code != 204 {
		t.Fatalf("expected 204, got %d", code)
	}
	if code, _ := doRequest(t, app, "DELETE", "/v1/sessions/"+id, ""); code != 410 {
		t.Fatalf("expected 410 on second delete, got %d", code)
	}
	if code, _ := doRequest(t, app, "GET", "/v1/sessions/"+id, ""); code != 410 {
		t.Fatalf("expected 410 after delete, got %d", code)
	}
}

// ---- Markers and layers ----

func TestSessionMarkers_Pagination(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	req := httptest.NewRequest("GET", "/v1/sessions/"+id+"/markers?offset=0&limit=2", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var page struct {
		Data       []markerJSON    `json:"data"`
		Pagination handler.Pagination `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 markers on the first page, got %d", len(page.Data))
	}
	if page.Pagination.Total != 3 || page.Pagination.Limit != 2 {
		t.Errorf("unexpected pagination %+v", page.Pagination)
	}
	if page.Data[0].ID != "organizations:o1" {
		t.Errorf("expected organizations:o1 first, got %q", page.Data[0].ID)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected no-store, got %q", cc)
	}
	if link := resp.Header.Get("Link"); !strings.Contains(link, `rel="next"`) {
		t.Errorf("expected next link, got %q", link)
	}
}

func TestSessionMarkers_ETagNotModified(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	path := "/v1/sessions/" + id + "/markers"

	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	etag := resp.Header.Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("expected weak etag, got %q", etag)
	}

	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("If-None-Match", `W/"stale", `+etag)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 304 {
		t.Fatalf("expected 304, got %d", resp.StatusCode)
	}
}

func TestToggleLayer(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	code, body := doRequest(t, app, "POST", "/v1/sessions/"+id+"/layers/organizations/toggle", "")
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	var layer domain.Layer
	if err := json.Unmarshal(body, &layer); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if layer.Enabled {
		t.Error("expected organizations layer disabled")
	}

	_, body = doRequest(t, app, "GET", "/v1/sessions/"+id+"/markers", "")
	var page struct {
		Data []markerJSON `json:"data"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Type != domain.MarkerProduct {
		t.Errorf("expected only the product marker, got %+v", page.Data)
	}
}

func TestToggleLayer_Unknown(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	if code, _ := doRequest(t, app, "POST", "/v1/sessions/"+id+"/layers/events/toggle", ""); code != 404 {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestSessionLayers(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	code, body := doRequest(t, app, "GET", "/v1/sessions/"+id+"/layers", "")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var panel []usecases.LayerStatus
	if err := json.Unmarshal(body, &panel); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(panel) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(panel))
	}
	if panel[0].Count != 3 || panel[0].PlottedCount != 2 {
		t.Errorf("unexpected organization counts %+v", panel[0])
	}
	if panel[1].Count != 2 || panel[1].PlottedCount != 1 {
		t.Errorf("unexpected shop counts %+v", panel[1])
	}
}

func TestViewport(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	path := "/v1/sessions/" + id + "/viewport"

	if code, _ := doRequest(t, app, "PUT", path, `{}`); code != 400 {
		t.Errorf("expected 400 without zoom, got %d", code)
	}
	if code, _ := doRequest(t, app, "PUT", path, `{"zoom":-2}`); code != 400 {
		t.Errorf("expected 400 for negative zoom, got %d", code)
	}
	code, body := doRequest(t, app, "PUT", path, `{"zoom":3}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var snap usecases.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Zoom != 3 {
		t.Errorf("expected zoom 3, got %v", snap.Zoom)
	}
}

// ---- Interaction ----

func TestHoverAndLeave(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	if code, _ := doRequest(t, app, "PUT", "/v1/sessions/"+id+"/hover", `{"country":"France"}`); code != 204 {
		t.Fatalf("expected 204, got %d", code)
	}
	_, body := doRequest(t, app, "GET", "/v1/sessions/"+id, "")
	var props propsJSON
	if err := json.Unmarshal(body, &props); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if props.HoveredCountry != "France" {
		t.Errorf("expected France hovered, got %q", props.HoveredCountry)
	}

	if code, _ := doRequest(t, app, "DELETE", "/v1/sessions/"+id+"/hover", ""); code != 204 {
		t.Fatalf("expected 204, got %d", code)
	}
	_, body = doRequest(t, app, "GET", "/v1/sessions/"+id, "")
	props = propsJSON{}
	if err := json.Unmarshal(body, &props); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if props.HoveredCountry != "" {
		t.Errorf("expected no hover, got %q", props.HoveredCountry)
	}
}

func TestSelection(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	path := "/v1/sessions/" + id + "/selection"

	code, body := doRequest(t, app, "PUT", path, `{"marker_id":"shops:p1"}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	var detail domain.MarkerDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Title != "Tote Bag" || detail.Price == nil || *detail.Price != 12.5 {
		t.Errorf("unexpected detail %+v", detail)
	}

	// Berlin is (52.52, 13.405); jitter stays well inside the default radius.
	code, body = doRequest(t, app, "PUT", path, `{"lat":52.5,"lng":13.4}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	detail = domain.MarkerDetail{}
	if err := json.Unmarshal(body, &detail); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if detail.Title != "Berlin Greens" {
		t.Errorf("expected Berlin Greens, got %q", detail.Title)
	}

	if code, _ := doRequest(t, app, "PUT", path, `{"marker_id":"shops:nope"}`); code != 404 {
		t.Errorf("expected 404 for unknown marker, got %d", code)
	}
	if code, _ := doRequest(t, app, "PUT", path, `{"lat":95,"lng":0}`); code != 400 {
		t.Errorf("expected 400 for out-of-range point, got %d", code)
	}
	if code, _ := doRequest(t, app, "PUT", path, `{}`); code != 400 {
		t.Errorf("expected 400 for empty selection, got %d", code)
	}
	if code, _ := doRequest(t, app, "DELETE", path, ""); code != 204 {
		t.Errorf("expected 204 on close, got %d", code)
	}
}

// ---- Style ----

func TestPatchStyle(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	path := "/v1/sessions/" + id + "/style"

	_, body := doRequest(t, app, "GET", path, "")
	var before handler.StyleResponse
	if err := json.Unmarshal(body, &before); err != nil {
		t.Fatalf("decode: %v", err)
	}

	code, body := doRequest(t, app, "PATCH", path, `{"ocean_color":"#000000","atmosphere_intensity":4}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d: %s", code, body)
	}
	var after handler.StyleResponse
	if err := json.Unmarshal(body, &after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.Style.OceanColor != "#000000" {
		t.Errorf("expected ocean color updated, got %q", after.Style.OceanColor)
	}
	if after.Style.AtmosphereIntensity != 1 {
		t.Errorf("expected intensity clamped to 1, got %v", after.Style.AtmosphereIntensity)
	}
	if after.RenderKey == before.RenderKey {
		t.Error("expected render key to change")
	}
}

func TestPatchStyle_InvalidColor(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	code, body := doRequest(t, app, "PATCH", "/v1/sessions/"+id+"/style", `{"land_color":"green"}`)
	if code != 422 {
		t.Fatalf("expected 422, got %d", code)
	}
	var apiErr handler.APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if apiErr.Code != "invalid_style" {
		t.Errorf("expected invalid_style, got %q", apiErr.Code)
	}
}

func TestApplyPresetAndReset(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	base := "/v1/sessions/" + id + "/style"

	code, body := doRequest(t, app, "POST", base+"/preset/midnight", "")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var resp handler.StyleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Style.OceanColor != "#020617" || !resp.Style.ShowGrid {
		t.Errorf("expected midnight style, got %+v", resp.Style)
	}

	if code, _ := doRequest(t, app, "POST", base+"/preset/neon", ""); code != 404 {
		t.Errorf("expected 404 for unknown preset, got %d", code)
	}

	code, body = doRequest(t, app, "POST", base+"/reset", "")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	resp = handler.StyleResponse{}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Style.OceanColor != "#1e3a8a" {
		t.Errorf("expected default style, got %+v", resp.Style)
	}
}

func TestSaveStyle_RestoredOnNextMount(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	if code, _ := doRequest(t, app, "POST", "/v1/sessions/"+id+"/style/preset/sunset", ""); code != 200 {
		t.Fatalf("apply preset: %d", code)
	}
	if code, _ := doRequest(t, app, "POST", "/v1/sessions/"+id+"/style/save", ""); code != 204 {
		t.Fatalf("expected 204, got %d", code)
	}

	next := createSession(t, app)
	_, body := doRequest(t, app, "GET", "/v1/sessions/"+next+"/style", "")
	var resp handler.StyleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Style.OceanColor != "#7c2d12" {
		t.Errorf("expected saved sunset style, got %+v", resp.Style)
	}
}

// ---- GraphQL ----

func TestGraphQL_SessionQuery(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	payload, _ := json.Marshal(map[string]interface{}{
		"query":     `query($id: String!) { session(session: $id) { id zoom layers { id visibility } markers { id } } }`,
		"variables": map[string]interface{}{"id": id},
	})
	code, body := doRequest(t, app, "POST", "/graphql", string(payload))
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}

	var result struct {
		Data struct {
			Session struct {
				ID     string `json:"id"`
				Layers []struct {
					ID         string `json:"id"`
					Visibility string `json:"visibility"`
				} `json:"layers"`
				Markers []struct {
					ID string `json:"id"`
				} `json:"markers"`
			} `json:"session"`
		} `json:"data"`
		Errors []map[string]interface{} `json:"errors"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("graphql errors: %v", result.Errors)
	}
	if result.Data.Session.ID != id {
		t.Errorf("expected session %s, got %s", id, result.Data.Session.ID)
	}
	if len(result.Data.Session.Layers) != 2 || result.Data.Session.Layers[0].Visibility != "visible" {
		t.Errorf("unexpected layers %+v", result.Data.Session.Layers)
	}
	if len(result.Data.Session.Markers) != 3 {
		t.Errorf("expected 3 markers, got %d", len(result.Data.Session.Markers))
	}
}

func TestGraphQL_Layers(t *testing.T) {
	app := setupApp(makeDeps())
	code, body := doRequest(t, app, "POST", "/graphql", `{"query":"{ layers { id entity_type } presets { name } }"}`)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(string(body), `"organizations"`) || !strings.Contains(string(body), `"sunset"`) {
		t.Errorf("unexpected body %s", body)
	}
}

// ---- Health & WebSocket ----

func TestHealth(t *testing.T) {
	app := setupApp(makeDeps())
	createSession(t, app)
	code, body := doRequest(t, app, "GET", "/v1/health", "")
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("expected healthy, got %v", resp["status"])
	}
	if resp["sessions"] != float64(1) {
		t.Errorf("expected 1 session, got %v", resp["sessions"])
	}
}

func TestWebSocket_RequiresUpgrade(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	if code, _ := doRequest(t, app, "GET", "/ws?session="+id, ""); code != 426 {
		t.Fatalf("expected 426, got %d", code)
	}
}
