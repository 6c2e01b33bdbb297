package persistence

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/geoattr/archive"
	"github.com/hupe1980/geoattr/attribute"
	"github.com/hupe1980/geoattr/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManager(t *testing.T) *attribute.Manager {
	t.Helper()

	m := attribute.NewManager()
	m.Resize(4)

	pts, err := attribute.FindOrCreateVariable(m, "points", geom.Point3{})
	require.NoError(t, err)
	for i := range attribute.Index(4) {
		require.NoError(t, pts.SetValue(i, geom.Pt3(float64(i), 0, 1)))
	}
	colors, err := attribute.FindOrCreateSparse(m, "color", geom.RGB(255, 255, 255))
	require.NoError(t, err)
	require.NoError(t, colors.SetValue(2, geom.RGB(255, 0, 0)))
	_, err = attribute.FindOrCreateConstant(m, "weight", 0.5, attribute.Properties{Assignable: true, Transferable: true})
	require.NoError(t, err)
	return m
}

func assertSample(t *testing.T, m *attribute.Manager) {
	t.Helper()

	require.Equal(t, attribute.Index(4), m.NbElements())
	pts, err := attribute.FindAttribute[geom.Point3](m, "points")
	require.NoError(t, err)
	assert.Equal(t, geom.Pt3(3, 0, 1), pts.Value(3))

	colors, err := attribute.FindAttribute[geom.RGBColor](m, "color")
	require.NoError(t, err)
	assert.Equal(t, geom.RGB(255, 0, 0), colors.Value(2))
	assert.Equal(t, geom.RGB(255, 255, 255), colors.Value(1))

	weight, err := attribute.FindAttribute[float64](m, "weight")
	require.NoError(t, err)
	assert.Equal(t, 0.5, weight.Value(0))
	assert.False(t, weight.Properties().Interpolable)
}

func TestManagerFile_RoundTrip(t *testing.T) {
	types, err := DefaultTypes()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "vertices.gattr")

	for _, c := range []archive.Compression{archive.CompressionNone, archive.CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			require.NoError(t, SaveManagerFile(path, sampleManager(t), types, archive.FrameOptions{Compression: c}))

			m, err := LoadManagerFile(path, types)
			require.NoError(t, err)
			assertSample(t, m)
		})
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestManagerFile_Corruption(t *testing.T) {
	types, err := DefaultTypes()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "vertices.gattr")
	require.NoError(t, SaveManagerFile(path, sampleManager(t), types, archive.FrameOptions{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	m, err := LoadManagerFile(path, types)
	require.ErrorIs(t, err, archive.ErrCorruptData)
	assert.Nil(t, m)

	_, err = LoadManagerFile(filepath.Join(t.TempDir(), "missing"), types)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveToFile_FailureKeepsOriginal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	boom := errors.New("boom")
	err := SaveToFile(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
