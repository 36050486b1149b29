package geospatial

import (
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/samirrijal/globeview/internal/core/domain"
)

// JitterRadius bounds the offset Jitter adds on each axis, in degrees.
const JitterRadius = 0.1

// Jitter offsets coord by a deterministic amount derived from seed, so markers
// sharing a base coordinate do not stack on one pixel. The low and high halves of
// the hash drive latitude and longitude independently.
func Jitter(coord domain.Coordinate, seed string) domain.Coordinate {
	h := xxhash.Sum64String(seed)
	latUnit := float64(uint32(h)) / math.MaxUint32
	lngUnit := float64(uint32(h>>32)) / math.MaxUint32

	return domain.Coordinate{
		Lat: coord.Lat + (latUnit*2-1)*JitterRadius,
		Lng: coord.Lng + (lngUnit*2-1)*JitterRadius,
	}.Clamp()
}
