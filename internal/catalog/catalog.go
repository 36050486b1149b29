// Package catalog holds the static layer and style-preset tables.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/samirrijal/globeview/internal/core/domain"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Preset is a named, complete StyleConfig.
type Preset struct {
	Name  string             `json:"name" yaml:"name"`
	Style domain.StyleConfig `json:"style" yaml:"style"`
}

type document struct {
	Layers        []domain.Layer `yaml:"layers"`
	DefaultPreset string         `yaml:"default_preset"`
	Presets       []Preset       `yaml:"presets"`
}

// Catalog is the parsed table. It is read-only once loaded; accessors return copies.
type Catalog struct {
	doc document
}

var builtin = mustParse(catalogYAML)

// Default returns the embedded catalog.
func Default() *Catalog { return builtin }

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := make(map[domain.LayerID]bool, len(doc.Layers))
	for _, l := range doc.Layers {
		if l.ID == "" {
			return nil, fmt.Errorf("parse catalog: layer without id")
		}
		if seen[l.ID] {
			return nil, fmt.Errorf("parse catalog: duplicate layer %q", l.ID)
		}
		seen[l.ID] = true
		if l.EntityType != domain.MarkerOrganization && l.EntityType != domain.MarkerProduct {
			return nil, fmt.Errorf("parse catalog: layer %q has unknown entity type %q", l.ID, l.EntityType)
		}
	}
	c := &Catalog{doc: doc}
	if _, ok := c.Preset(doc.DefaultPreset); !ok {
		return nil, fmt.Errorf("parse catalog: default preset %q not defined", doc.DefaultPreset)
	}
	return c, nil
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Layers returns the layer definitions in declaration order.
func (c *Catalog) Layers() []domain.Layer {
	out := make([]domain.Layer, len(c.doc.Layers))
	copy(out, c.doc.Layers)
	return out
}

// Layer looks up one layer definition.
func (c *Catalog) Layer(id domain.LayerID) (domain.Layer, bool) {
	for _, l := range c.doc.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return domain.Layer{}, false
}

// Presets returns the style presets in declaration order.
func (c *Catalog) Presets() []Preset {
	out := make([]Preset, len(c.doc.Presets))
	copy(out, c.doc.Presets)
	return out
}

// Preset looks up a style preset by name.
func (c *Catalog) Preset(name string) (domain.StyleConfig, bool) {
	for _, p := range c.doc.Presets {
		if p.Name == name {
			return p.Style, true
		}
	}
	return domain.StyleConfig{}, false
}

// DefaultStyle returns the style of the default preset.
func (c *Catalog) DefaultStyle() domain.StyleConfig {
	s, _ := c.Preset(c.doc.DefaultPreset)
	return s
}
