package arena

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader serves at most max bytes per Read, like /dev/urandom does
// for very large requests.
type chunkReader struct {
	src   io.Reader
	max   int
	reads int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	r.reads++
	if len(p) > r.max {
		p = p[:r.max]
	}
	return r.src.Read(p)
}

func (r *chunkReader) Close() error { return nil }

type failingReader struct {
	after int
	err   error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.after <= 0 {
		return 0, r.err
	}
	n := len(p)
	if n > r.after {
		n = r.after
	}
	r.after -= n
	return n, nil
}

func (r *failingReader) Close() error { return nil }

func TestLoad_FillsWholeArena(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 4096)
	reader := &chunkReader{src: bytes.NewReader(payload), max: 300}

	a, err := Load(4096,
		WithSource(func() (io.ReadCloser, error) { return reader, nil }),
		WithChunkSize(1024),
	)
	require.NoError(t, err)

	assert.Equal(t, int64(4096), a.Size())
	assert.Equal(t, payload, a.Bytes())
	// Short reads are retried until the arena is full.
	assert.Greater(t, reader.reads, 4096/1024)
}

func TestLoad_OpenFailure(t *testing.T) {
	_, err := Load(1024, WithSource(func() (io.ReadCloser, error) {
		return nil, errors.New("permission denied")
	}))
	require.Error(t, err)

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "open", lerr.Op)
	assert.Contains(t, err.Error(), "failed to open entropy source")
}

func TestLoad_ReadFailure(t *testing.T) {
	boom := errors.New("i/o error")
	_, err := Load(1024,
		WithSource(func() (io.ReadCloser, error) { return &failingReader{after: 512, err: boom}, nil }),
		WithChunkSize(256),
	)
	require.Error(t, err)

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "read", lerr.Op)
	assert.Equal(t, int64(512), lerr.Loaded)
	assert.ErrorIs(t, err, boom)
}

func TestLoad_ShortSource(t *testing.T) {
	_, err := Load(1024, WithSource(func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(make([]byte, 100))), nil
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestLoad_InvalidSize(t *testing.T) {
	_, err := Load(0)
	require.Error(t, err)
}

func TestLoad_DevURandom(t *testing.T) {
	a, err := Load(64 * 1024)
	if err != nil {
		t.Skipf("entropy source unavailable: %v", err)
	}
	assert.Equal(t, int64(64*1024), a.Size())
	assert.NotEqual(t, make([]byte, 64*1024), a.Bytes())

	a.Release()
	assert.Zero(t, a.Size())
}
