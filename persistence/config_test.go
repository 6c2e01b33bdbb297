package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/geoattr/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
compression: zstd
summary_codec: cbor
limits:
  max_concurrent_io: 4
  io_bytes_per_sec: 1048576
backend:
  type: s3
  bucket: meshes
  prefix: prod/
  region: eu-central-1
  commit_table: geoattr-commits
`))
	require.NoError(t, err)

	assert.Equal(t, "zstd", cfg.Compression)
	assert.Equal(t, "cbor", cfg.SummaryCodec)
	assert.Equal(t, int64(4), cfg.Limits.MaxConcurrentIO)
	assert.Equal(t, BackendConfig{
		Type:        BackendS3,
		Bucket:      "meshes",
		Prefix:      "prod/",
		Region:      "eu-central-1",
		CommitTable: "geoattr-commits",
	}, cfg.Backend)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":           "compresion: lz4\n",
		"unknown compression":   "compression: brotli\n",
		"unknown codec":         "summary_codec: xml\n",
		"negative limit":        "limits:\n  memory_bytes: -1\n",
		"unknown backend":       "backend:\n  type: ftp\n",
		"local without root":    "backend:\n  type: local\n",
		"minio without host":    "backend:\n  type: minio\n  bucket: b\n",
		"commit table on local": "backend:\n  type: local\n  root: /tmp\n  commit_table: t\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestOpenStore_Local(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geoattr.yaml")
	root := filepath.Join(dir, "archives")
	require.NoError(t, os.WriteFile(path, []byte("compression: lz4\nbackend:\n  type: local\n  root: "+root+"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	ctx := context.Background()
	store, err := OpenStore(ctx, cfg)
	require.NoError(t, err)
	require.IsType(t, &blobstore.LocalStore{}, store.Blobs())

	_, err = store.Save(ctx, "bunny", sampleManager(t))
	require.NoError(t, err)

	reopened, err := OpenStore(ctx, cfg)
	require.NoError(t, err)
	m, err := reopened.Load(ctx, "bunny")
	require.NoError(t, err)
	assertSample(t, m)
}

func TestOpenStore_Memory(t *testing.T) {
	store, err := OpenStore(context.Background(), DefaultConfig())
	require.NoError(t, err)
	require.IsType(t, &blobstore.MemoryStore{}, store.Blobs())
}
