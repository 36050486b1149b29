package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/core/usecases"
)

// defaultSelectRadius is how far, in degrees of arc, a click may land from a
// marker and still select it.
const defaultSelectRadius = 2.0

type createSessionRequest struct {
	ClientID string  `json:"client_id"`
	Zoom     float64 `json:"zoom"`
}

type viewportRequest struct {
	Zoom *float64 `json:"zoom"`
}

type hoverRequest struct {
	Country string `json:"country"`
}

type selectionRequest struct {
	MarkerID string   `json:"marker_id"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Radius   float64  `json:"radius"`
}

// CountriesResponse lists loaded country polygon names.
type CountriesResponse struct {
	Loading bool     `json:"loading"`
	Count   int      `json:"count"`
	Names   []string `json:"names"`
}

// StyleResponse is the active style plus its render key.
type StyleResponse struct {
	Style     domain.StyleConfig `json:"style"`
	RenderKey string             `json:"render_key"`
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// lookupSession resolves the :id route parameter.
func lookupSession(c *fiber.Ctx, deps *Dependencies) (*usecases.Session, error) {
	return deps.Sessions.Get(c.Params("id"))
}

func polygons(deps *Dependencies) []domain.CountryPolygon {
	countries := deps.Sessions.Countries()
	if countries == nil {
		return nil
	}
	p, _ := countries.Polygons()
	return p
}

// ListLayersHandler returns the registered layer definitions.
func ListLayersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Sessions.Catalog().Layers())
	}
}

// ListPresetsHandler returns the named style presets.
func ListPresetsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Sessions.Catalog().Presets())
	}
}

// CountriesHandler reports which country polygons are loaded.
func CountriesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := CountriesResponse{Names: []string{}}
		if countries := deps.Sessions.Countries(); countries != nil {
			_, resp.Loading = countries.Polygons()
			resp.Names = countries.Names()
		}
		resp.Count = len(resp.Names)
		return c.JSON(resp)
	}
}

// CreateSessionHandler mounts a new globe session.
func CreateSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createSessionRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "invalid request body")
			}
		}
		if req.Zoom < 0 {
			return errBadRequest(c, "zoom must not be negative")
		}
		if len(req.ClientID) > 128 {
			return errBadRequest(c, "client_id too long (max 128 characters)")
		}

		s, err := deps.Sessions.Create(c.UserContext(), usecases.CreateOptions{
			ClientID: req.ClientID,
			Zoom:     req.Zoom,
			Token:    bearerToken(c),
		})
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Location("/v1/sessions/" + s.ID())
		return c.Status(fiber.StatusCreated).JSON(s.Snapshot())
	}
}

// GetSessionHandler returns the renderer props of a session.
func GetSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(s.Props(polygons(deps)))
	}
}

// DeleteSessionHandler unmounts a session.
func DeleteSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !deps.Sessions.Delete(c.Params("id")) {
			return errGone(c, "session not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SessionMarkersHandler returns the marker list, paginated.
func SessionMarkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		offset, limit := pageParams(c, 500, 2000)
		page, pg := paginate(s.Markers(), offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// SessionLayersHandler returns the layer panel with visibility reasons.
func SessionLayersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(s.LayerPanel())
	}
}

// ToggleLayerHandler flips one layer on or off.
func ToggleLayerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		layer, err := s.ToggleLayer(c.UserContext(), domain.LayerID(c.Params("layer")))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(layer)
	}
}

// ViewportHandler updates the zoom level.
func ViewportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		var req viewportRequest
		if err := c.BodyParser(&req); err != nil || req.Zoom == nil {
			return errBadRequest(c, "zoom is required")
		}
		if *req.Zoom < 0 {
			return errBadRequest(c, "zoom must not be negative")
		}
		s.SetZoom(c.UserContext(), *req.Zoom)
		return c.JSON(s.Snapshot())
	}
}

// AuthHandler re-verifies the bearer token against the backend.
func AuthHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		ok := deps.Sessions.Reauthenticate(c.UserContext(), s, bearerToken(c))
		return c.JSON(fiber.Map{"authenticated": ok})
	}
}

// RefreshHandler refetches the entity collections of a session.
func RefreshHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		deps.Sessions.Refresh(c.UserContext(), s)
		return c.JSON(s.Snapshot())
	}
}

// HoverHandler highlights a country polygon.
func HoverHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		var req hoverRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		s.HoverCountry(strings.TrimSpace(req.Country))
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// LeaveHandler clears the hover highlight.
func LeaveHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		s.LeaveCountry()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SelectHandler selects a marker by id, or the nearest marker to a point.
func SelectHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		var req selectionRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		var detail domain.MarkerDetail
		switch {
		case req.MarkerID != "":
			detail, err = s.SelectMarker(req.MarkerID)
		case req.Lat != nil && req.Lng != nil:
			point := domain.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
			if !point.Valid() {
				return errBadRequest(c, "lat must be within ±90 and lng within ±180")
			}
			radius := req.Radius
			if radius <= 0 || radius > 10 {
				radius = defaultSelectRadius
			}
			detail, err = s.SelectNear(point, radius)
		default:
			return errBadRequest(c, "marker_id or lat/lng is required")
		}
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(detail)
	}
}

// CloseSelectionHandler clears the selected marker.
func CloseSelectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		s.CloseSelection()
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetStyleHandler returns the active style.
func GetStyleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		style, key := s.Style()
		return c.JSON(StyleResponse{Style: style, RenderKey: key})
	}
}

// PatchStyleHandler merges a partial style change.
func PatchStyleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		var patch domain.StylePatch
		if err := c.BodyParser(&patch); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if _, err := s.UpdateStyle(c.UserContext(), patch); err != nil {
			return errFromDomain(c, err)
		}
		style, key := s.Style()
		return c.JSON(StyleResponse{Style: style, RenderKey: key})
	}
}

// ApplyPresetHandler replaces the style with a named preset.
func ApplyPresetHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		if _, err := s.ApplyPreset(c.UserContext(), c.Params("name")); err != nil {
			return errFromDomain(c, err)
		}
		style, key := s.Style()
		return c.JSON(StyleResponse{Style: style, RenderKey: key})
	}
}

// ResetStyleHandler restores the default preset.
func ResetStyleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		if _, err := s.ResetStyle(c.UserContext()); err != nil {
			return errFromDomain(c, err)
		}
		style, key := s.Style()
		return c.JSON(StyleResponse{Style: style, RenderKey: key})
	}
}

// SaveStyleHandler persists the active style for the session's client.
func SaveStyleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := lookupSession(c, deps)
		if err != nil {
			return errFromDomain(c, err)
		}
		if err := s.SaveStyle(c.UserContext()); err != nil {
			LoggerFromCtx(c.UserContext()).Error("save style failed", "session", s.ID(), "error", err)
			return errInternal(c, "could not save style")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
