// Package arena holds the memory region every trial access operates on.
package arena

import (
	"fmt"
	"io"
	"os"
)

// Size units.
const (
	MB int64 = 1 << 20
	GB int64 = 1 << 30
)

// EntropyPath is the default entropy source.
const EntropyPath = "/dev/urandom"

// Source opens the reader an arena is filled from.
type Source func() (io.ReadCloser, error)

// DevURandom opens EntropyPath.
func DevURandom() (io.ReadCloser, error) {
	return os.Open(EntropyPath)
}

// LoadError reports why an arena could not be fully populated. A trial
// never runs against a partial arena.
type LoadError struct {
	Op     string
	Loaded int64
	Size   int64
	Err    error
}

func (e *LoadError) Error() string {
	if e.Op == "open" {
		return fmt.Sprintf("failed to open entropy source: %v", e.Err)
	}
	return fmt.Sprintf("failed to load data into memory after %d of %d bytes: %v", e.Loaded, e.Size, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Arena is a contiguous byte region owned by one process.
type Arena struct {
	data []byte
}

type loadOptions struct {
	source Source
	chunk  int64
}

// Option configures Load.
type Option func(*loadOptions)

// WithSource replaces the entropy source.
func WithSource(src Source) Option {
	return func(o *loadOptions) {
		o.source = src
	}
}

// WithChunkSize changes the size of each read. Defaults to GB.
func WithChunkSize(n int64) Option {
	return func(o *loadOptions) {
		if n > 0 {
			o.chunk = n
		}
	}
}

// Load allocates size bytes and fills them from the entropy source in
// chunk-sized reads until the region is full.
func Load(size int64, opts ...Option) (*Arena, error) {
	o := loadOptions{source: DevURandom, chunk: GB}
	for _, opt := range opts {
		opt(&o)
	}

	if size <= 0 {
		return nil, &LoadError{Op: "alloc", Size: size, Err: fmt.Errorf("invalid arena size %d", size)}
	}

	src, err := o.source()
	if err != nil {
		return nil, &LoadError{Op: "open", Size: size, Err: err}
	}
	defer src.Close()

	data := make([]byte, size)
	var loaded int64
	for loaded < size {
		end := loaded + o.chunk
		if end > size {
			end = size
		}

		got, err := src.Read(data[loaded:end])
		if err != nil && err != io.EOF {
			return nil, &LoadError{Op: "read", Loaded: loaded, Size: size, Err: err}
		}
		if got <= 0 {
			return nil, &LoadError{Op: "read", Loaded: loaded, Size: size, Err: io.ErrUnexpectedEOF}
		}
		loaded += int64(got)
	}

	return &Arena{data: data}, nil
}

// New wraps an existing buffer.
func New(data []byte) *Arena {
	return &Arena{data: data}
}

// Bytes returns the backing region.
func (a *Arena) Bytes() []byte {
	return a.data
}

// Size returns the arena length in bytes.
func (a *Arena) Size() int64 {
	return int64(len(a.data))
}

// Release drops the reference to the backing region.
func (a *Arena) Release() {
	a.data = nil
}
