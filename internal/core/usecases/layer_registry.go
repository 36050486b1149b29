package usecases

import (
	"fmt"

	"github.com/samirrijal/globeview/internal/core/domain"
)

// LayerRegistry holds the layers of one globe session. Layers are registered
// once; afterwards only their enabled flag and counters change.
type LayerRegistry struct {
	layers []domain.Layer
	index  map[domain.LayerID]int
}

// LayerStatus is one row of the layer panel.
type LayerStatus struct {
	domain.Layer
	Visibility domain.Visibility `json:"visibility"`
}

// NewLayerRegistry registers the given definitions in order.
func NewLayerRegistry(defs []domain.Layer) *LayerRegistry {
	r := &LayerRegistry{
		layers: make([]domain.Layer, len(defs)),
		index:  make(map[domain.LayerID]int, len(defs)),
	}
	copy(r.layers, defs)
	for i, l := range r.layers {
		r.index[l.ID] = i
	}
	return r
}

// Layers returns a snapshot of every layer in registration order.
func (r *LayerRegistry) Layers() []domain.Layer {
	out := make([]domain.Layer, len(r.layers))
	copy(out, r.layers)
	return out
}

// Layer returns one layer.
func (r *LayerRegistry) Layer(id domain.LayerID) (domain.Layer, error) {
	i, ok := r.index[id]
	if !ok {
		return domain.Layer{}, fmt.Errorf("layer %q: %w", id, domain.ErrUnknownLayer)
	}
	return r.layers[i], nil
}

// Toggle flips the enabled flag of one layer and returns its new state.
func (r *LayerRegistry) Toggle(id domain.LayerID) (domain.Layer, error) {
	i, ok := r.index[id]
	if !ok {
		return domain.Layer{}, fmt.Errorf("toggle %q: %w", id, domain.ErrUnknownLayer)
	}
	r.layers[i].Enabled = !r.layers[i].Enabled
	return r.layers[i], nil
}

// SetCount records how many entities were fetched for a layer.
func (r *LayerRegistry) SetCount(id domain.LayerID, n int) error {
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("set count %q: %w", id, domain.ErrUnknownLayer)
	}
	r.layers[i].Count = n
	return nil
}

// SetPlottedCount records how many markers a layer actually produced.
func (r *LayerRegistry) SetPlottedCount(id domain.LayerID, n int) error {
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("set plotted count %q: %w", id, domain.ErrUnknownLayer)
	}
	r.layers[i].PlottedCount = n
	return nil
}

// Panel returns every layer with the reason it is or is not visible.
func (r *LayerRegistry) Panel(authenticated bool, zoom float64) []LayerStatus {
	out := make([]LayerStatus, len(r.layers))
	for i, l := range r.layers {
		out[i] = LayerStatus{Layer: l, Visibility: l.Visibility(authenticated, zoom)}
	}
	return out
}
