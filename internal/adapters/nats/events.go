package natsadapter

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/samirrijal/globeview/internal/core/domain"
)

// Subjects. Per-session subjects end in the session id so a relay can
// subscribe to "globe.*.<id>".
const (
	SubjectStyle          = "globe.style."
	SubjectLayers         = "globe.layers."
	SubjectMarkers        = "globe.markers."
	SubjectCatalogUpdated = "globe.catalog.updated"
)

// Event kinds carried in the envelope.
const (
	KindStyleChanged      = "style_changed"
	KindLayerToggled      = "layer_toggled"
	KindMarkersRecomputed = "markers_recomputed"
	KindCatalogUpdated    = "catalog_updated"
)

// SessionWildcard matches every per-session subject of sessionID.
func SessionWildcard(sessionID string) string {
	return "globe.*." + sessionID
}

// encodeEvent wraps payload in a protobuf Struct envelope.
func encodeEvent(kind string, payload map[string]any) ([]byte, error) {
	env, err := structpb.NewStruct(map[string]any{
		"kind":    kind,
		"at":      time.Now().UTC().Format(time.RFC3339Nano),
		"payload": payload,
	})
	if err != nil {
		return nil, fmt.Errorf("build %s envelope: %w", kind, err)
	}
	return proto.Marshal(env)
}

// DecodeEvent parses an envelope.
func DecodeEvent(data []byte) (*structpb.Struct, error) {
	var env structpb.Struct
	if err := proto.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

// EventJSON converts an envelope to JSON for WebSocket clients.
func EventJSON(data []byte) ([]byte, error) {
	env, err := DecodeEvent(data)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(env)
}

func stylePayload(sessionID, renderKey string, s domain.StyleConfig) map[string]any {
	return map[string]any{
		"session_id": sessionID,
		"render_key": renderKey,
		"style": map[string]any{
			"ocean_color":          s.OceanColor,
			"land_color":           s.LandColor,
			"atmosphere_color":     s.AtmosphereColor,
			"atmosphere_intensity": s.AtmosphereIntensity,
			"show_grid":            s.ShowGrid,
		},
	}
}

func layerPayload(sessionID string, l domain.Layer) map[string]any {
	return map[string]any{
		"session_id":    sessionID,
		"layer_id":      string(l.ID),
		"enabled":       l.Enabled,
		"count":         l.Count,
		"plotted_count": l.PlottedCount,
	}
}
