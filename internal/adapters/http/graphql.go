package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/globeview/internal/catalog"
	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/core/usecases"
)

func layerMap(l domain.Layer) map[string]interface{} {
	return map[string]interface{}{
		"id":             string(l.ID),
		"name":           l.Name,
		"color":          l.Color,
		"icon":           l.Icon,
		"entity_type":    string(l.EntityType),
		"marker_size":    l.MarkerSize,
		"enabled":        l.Enabled,
		"requires_auth":  l.RequiresAuth,
		"min_zoom_level": l.MinZoomLevel,
		"count":          l.Count,
		"plotted_count":  l.PlottedCount,
	}
}

func styleMap(s domain.StyleConfig) map[string]interface{} {
	return map[string]interface{}{
		"ocean_color":          s.OceanColor,
		"land_color":           s.LandColor,
		"atmosphere_color":     s.AtmosphereColor,
		"atmosphere_intensity": s.AtmosphereIntensity,
		"show_grid":            s.ShowGrid,
	}
}

func markerMap(m domain.Marker) map[string]interface{} {
	return map[string]interface{}{
		"id":       m.ID,
		"lat":      m.Lat,
		"lng":      m.Lng,
		"size":     m.Size,
		"color":    m.Color,
		"label":    m.Label,
		"type":     string(m.Type),
		"layer_id": string(m.LayerID),
		"geohash":  m.Geohash,
	}
}

// buildSchema creates the GraphQL schema wired to the session manager.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	layerFields := graphql.Fields{
		"id":             &graphql.Field{Type: graphql.String},
		"name":           &graphql.Field{Type: graphql.String},
		"color":          &graphql.Field{Type: graphql.String},
		"icon":           &graphql.Field{Type: graphql.String},
		"entity_type":    &graphql.Field{Type: graphql.String},
		"marker_size":    &graphql.Field{Type: graphql.Float},
		"enabled":        &graphql.Field{Type: graphql.Boolean},
		"requires_auth":  &graphql.Field{Type: graphql.Boolean},
		"min_zoom_level": &graphql.Field{Type: graphql.Float},
		"count":          &graphql.Field{Type: graphql.Int},
		"plotted_count":  &graphql.Field{Type: graphql.Int},
	}
	layerType := graphql.NewObject(graphql.ObjectConfig{Name: "Layer", Fields: layerFields})

	statusFields := graphql.Fields{"visibility": &graphql.Field{Type: graphql.String}}
	for k, v := range layerFields {
		statusFields[k] = v
	}
	layerStatusType := graphql.NewObject(graphql.ObjectConfig{Name: "LayerStatus", Fields: statusFields})

	styleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Style",
		Fields: graphql.Fields{
			"ocean_color":          &graphql.Field{Type: graphql.String},
			"land_color":           &graphql.Field{Type: graphql.String},
			"atmosphere_color":     &graphql.Field{Type: graphql.String},
			"atmosphere_intensity": &graphql.Field{Type: graphql.Float},
			"show_grid":            &graphql.Field{Type: graphql.Boolean},
		},
	})

	presetType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Preset",
		Fields: graphql.Fields{
			"name":  &graphql.Field{Type: graphql.String},
			"style": &graphql.Field{Type: styleType},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Marker",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"lat":      &graphql.Field{Type: graphql.Float},
			"lng":      &graphql.Field{Type: graphql.Float},
			"size":     &graphql.Field{Type: graphql.Float},
			"color":    &graphql.Field{Type: graphql.String},
			"label":    &graphql.Field{Type: graphql.String},
			"type":     &graphql.Field{Type: graphql.String},
			"layer_id": &graphql.Field{Type: graphql.String},
			"geohash":  &graphql.Field{Type: graphql.String},
		},
	})

	detailType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MarkerDetail",
		Fields: graphql.Fields{
			"marker_id":   &graphql.Field{Type: graphql.String},
			"type":        &graphql.Field{Type: graphql.String},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: graphql.String},
			"price":       &graphql.Field{Type: graphql.Float},
		},
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Session",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"authenticated":   &graphql.Field{Type: graphql.Boolean},
			"zoom":            &graphql.Field{Type: graphql.Float},
			"render_key":      &graphql.Field{Type: graphql.String},
			"hovered_country": &graphql.Field{Type: graphql.String},
			"style":           &graphql.Field{Type: styleType},
			"layers":          &graphql.Field{Type: graphql.NewList(layerStatusType)},
			"markers":         &graphql.Field{Type: graphql.NewList(markerType)},
			"selected":        &graphql.Field{Type: detailType},
		},
	})

	sessionMap := func(s *usecases.Session) map[string]interface{} {
		snap, props := s.View(nil)

		layers := make([]map[string]interface{}, 0, len(snap.Layers))
		for _, ls := range snap.Layers {
			m := layerMap(ls.Layer)
			m["visibility"] = string(ls.Visibility)
			layers = append(layers, m)
		}
		markers := make([]map[string]interface{}, 0, len(props.Markers))
		for _, mk := range props.Markers {
			markers = append(markers, markerMap(mk))
		}

		out := map[string]interface{}{
			"id":              snap.ID,
			"authenticated":   snap.Authenticated,
			"zoom":            snap.Zoom,
			"render_key":      snap.RenderKey,
			"hovered_country": props.HoveredCountry,
			"style":           styleMap(snap.Style),
			"layers":          layers,
			"markers":         markers,
		}
		if d := props.Selected; d != nil {
			detail := map[string]interface{}{
				"marker_id":   d.MarkerID,
				"type":        string(d.Type),
				"title":       d.Title,
				"description": d.Description,
				"location":    d.Location,
			}
			if d.Price != nil {
				detail["price"] = *d.Price
			}
			out["selected"] = detail
		}
		return out
	}

	session := func(p graphql.ResolveParams) (*usecases.Session, error) {
		id, _ := p.Args["session"].(string)
		return deps.Sessions.Get(id)
	}
	sessionArg := graphql.FieldConfigArgument{
		"session": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"layers": &graphql.Field{
				Type:        graphql.NewList(layerType),
				Description: "Registered layer definitions",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var out []map[string]interface{}
					for _, l := range deps.Sessions.Catalog().Layers() {
						out = append(out, layerMap(l))
					}
					return out, nil
				},
			},
			"presets": &graphql.Field{
				Type:        graphql.NewList(presetType),
				Description: "Named style presets",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var out []map[string]interface{}
					for _, pr := range deps.Sessions.Catalog().Presets() {
						out = append(out, presetMap(pr))
					}
					return out, nil
				},
			},
			"countries": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "Names of the loaded country polygons",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c := deps.Sessions.Countries(); c != nil {
						return c.Names(), nil
					}
					return []string{}, nil
				},
			},
			"session": &graphql.Field{
				Type:        sessionType,
				Description: "One globe session",
				Args:        sessionArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := session(p)
					if err != nil {
						return nil, err
					}
					return sessionMap(s), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"toggleLayer": &graphql.Field{
				Type:        layerType,
				Description: "Flip a layer on or off",
				Args: graphql.FieldConfigArgument{
					"session": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"layer":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := session(p)
					if err != nil {
						return nil, err
					}
					l, err := s.ToggleLayer(p.Context, domain.LayerID(p.Args["layer"].(string)))
					if err != nil {
						return nil, err
					}
					return layerMap(l), nil
				},
			},
			"applyPreset": &graphql.Field{
				Type:        styleType,
				Description: "Replace the style with a named preset",
				Args: graphql.FieldConfigArgument{
					"session": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := session(p)
					if err != nil {
						return nil, err
					}
					st, err := s.ApplyPreset(p.Context, p.Args["name"].(string))
					if err != nil {
						return nil, err
					}
					return styleMap(st), nil
				},
			},
			"setZoom": &graphql.Field{
				Type:        graphql.Int,
				Description: "Set the zoom level; returns the new marker count",
				Args: graphql.FieldConfigArgument{
					"session": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"zoom":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s, err := session(p)
					if err != nil {
						return nil, err
					}
					zoom := p.Args["zoom"].(float64)
					if zoom < 0 {
						return nil, errors.New("zoom must not be negative")
					}
					s.SetZoom(p.Context, zoom)
					return s.Snapshot().MarkerCount, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func presetMap(p catalog.Preset) map[string]interface{} {
	return map[string]interface{}{"name": p.Name, "style": styleMap(p.Style)}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
