//go:build !linux

package topology

import "errors"

// ErrPlacementUnsupported is returned for constrained placements on
// platforms without a NUMA memory policy call.
var ErrPlacementUnsupported = errors.New("NUMA placement is not supported on this platform")

func withPlacement(p Placement, fn func() error) error {
	if p.Constrained {
		return ErrPlacementUnsupported
	}
	return fn()
}

// PlacementSupported reports whether constrained placements can be applied.
func PlacementSupported() bool {
	return false
}
