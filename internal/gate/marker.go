package gate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Marker is a file whose existence tells a controller the process is primed.
// A Marker with an empty path does nothing.
type Marker struct {
	path string
}

// NewMarker returns a marker for path.
func NewMarker(path string) *Marker {
	return &Marker{path: path}
}

// Path returns the marker location.
func (m *Marker) Path() string {
	return m.path
}

// Create removes any stale marker and creates a fresh one.
func (m *Marker) Create() error {
	if m.path == "" {
		return nil
	}
	if err := m.Remove(); err != nil {
		return err
	}

	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create readiness marker: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to create readiness marker: %w", err)
	}
	return nil
}

// Remove deletes the marker. A missing marker is not an error.
func (m *Marker) Remove() error {
	if m.path == "" {
		return nil
	}
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove readiness marker: %w", err)
	}
	return nil
}
