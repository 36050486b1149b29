package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/cespare/xxhash/v2"

	"github.com/samirrijal/globeview/internal/catalog"
	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/core/ports"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateStyle checks color syntax and the intensity range.
func ValidateStyle(s domain.StyleConfig) error {
	colors := []struct{ field, value string }{
		{"ocean_color", s.OceanColor},
		{"land_color", s.LandColor},
		{"atmosphere_color", s.AtmosphereColor},
	}
	for _, c := range colors {
		if !hexColor.MatchString(c.value) {
			return fmt.Errorf("%s %q is not a hex color: %w", c.field, c.value, domain.ErrInvalidStyle)
		}
	}
	if s.AtmosphereIntensity < 0 || s.AtmosphereIntensity > 1 {
		return fmt.Errorf("atmosphere_intensity %v outside [0,1]: %w", s.AtmosphereIntensity, domain.ErrInvalidStyle)
	}
	return nil
}

// RenderKey is a short digest of the color fields of s.
func RenderKey(s domain.StyleConfig) string {
	h := xxhash.Sum64String(s.OceanColor + "|" + s.LandColor + "|" + s.AtmosphereColor)
	return fmt.Sprintf("%016x", h)[:8]
}

// StyleStore holds the current StyleConfig of one client.
type StyleStore struct {
	presets *catalog.Catalog
	kv      ports.KeyValueStore
	key     string
	current domain.StyleConfig
}

// NewStyleStore starts from the default preset. kv may be nil, in which case
// Persist and LoadPersisted are no-ops.
func NewStyleStore(presets *catalog.Catalog, kv ports.KeyValueStore, key string) *StyleStore {
	return &StyleStore{
		presets: presets,
		kv:      kv,
		key:     key,
		current: presets.DefaultStyle(),
	}
}

// Current returns the active config.
func (s *StyleStore) Current() domain.StyleConfig {
	return s.current
}

// RenderKey returns the digest of the active config's colors.
func (s *StyleStore) RenderKey() string {
	return RenderKey(s.current)
}

// ApplyPreset replaces the whole config with a named preset.
func (s *StyleStore) ApplyPreset(name string) error {
	p, ok := s.presets.Preset(name)
	if !ok {
		return fmt.Errorf("preset %q: %w", name, domain.ErrUnknownPreset)
	}
	s.current = p
	return nil
}

// Reset applies the default preset.
func (s *StyleStore) Reset() {
	s.current = s.presets.DefaultStyle()
}

// Update merges a partial change. Intensity is clamped into [0,1]; any invalid
// color rejects the whole patch.
func (s *StyleStore) Update(p domain.StylePatch) error {
	next := s.current
	if p.OceanColor != nil {
		next.OceanColor = *p.OceanColor
	}
	if p.LandColor != nil {
		next.LandColor = *p.LandColor
	}
	if p.AtmosphereColor != nil {
		next.AtmosphereColor = *p.AtmosphereColor
	}
	if p.AtmosphereIntensity != nil {
		next.AtmosphereIntensity = clamp01(*p.AtmosphereIntensity)
	}
	if p.ShowGrid != nil {
		next.ShowGrid = *p.ShowGrid
	}
	if err := ValidateStyle(next); err != nil {
		return err
	}
	s.current = next
	return nil
}

// Persist writes the active config to durable storage.
func (s *StyleStore) Persist(ctx context.Context) error {
	if s.kv == nil {
		return nil
	}
	data, err := json.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("encode style: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist style: %w", err)
	}
	return nil
}

// LoadPersisted replaces the active config with the saved one. Missing or
// malformed values leave the default preset in place; it reports whether a
// saved value was applied.
func (s *StyleStore) LoadPersisted(ctx context.Context) bool {
	s.Reset()
	if s.kv == nil {
		return false
	}
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "load saved style failed", "key", s.key, "error", err)
		}
		return false
	}
	var saved domain.StyleConfig
	if err := json.Unmarshal(data, &saved); err != nil {
		slog.WarnContext(ctx, "saved style is malformed", "key", s.key, "error", err)
		return false
	}
	if err := ValidateStyle(saved); err != nil {
		slog.WarnContext(ctx, "saved style is invalid", "key", s.key, "error", err)
		return false
	}
	s.current = saved
	return true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
