package geoattr

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/hupe1980/geoattr/attribute"
	"github.com/hupe1980/geoattr/blobstore"
	"github.com/hupe1980/geoattr/geom"
	"github.com/hupe1980/geoattr/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}
	managerMetrics := &attribute.BasicMetricsCollector{}

	repo, err := New(blobstore.NewMemoryStore(),
		WithMetricsCollector(metrics),
		WithManagerMetrics(managerMetrics),
		WithParallelism(2),
	)
	require.NoError(t, err)

	m := repo.NewManager()
	m.Resize(3)
	points, err := attribute.FindOrCreateVariable(m, "points", geom.Point3{})
	require.NoError(t, err)
	require.NoError(t, points.SetValue(2, geom.Pt3(1, 2, 3)))
	_, err = attribute.FindOrCreateSparse(m, "color", geom.RGB(255, 255, 255))
	require.NoError(t, err)

	summary, err := repo.Save(ctx, "scan/cloud", m)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), summary.NbElements)

	loaded, err := repo.Load(ctx, "scan/cloud")
	require.NoError(t, err)
	got, err := attribute.FindAttribute[geom.Point3](loaded, "points")
	require.NoError(t, err)
	assert.Equal(t, geom.Pt3(1, 2, 3), got.Value(2))

	loaded.Resize(10)

	names, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"scan/cloud"}, names)

	described, err := repo.Summary(ctx, "scan/cloud")
	require.NoError(t, err)
	assert.Equal(t, summary.ID, described.ID)

	require.NoError(t, repo.Delete(ctx, "scan/cloud"))

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.SaveCount)
	assert.Equal(t, int64(summary.StoredBytes), stats.SaveBytes)
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Equal(t, int64(1), stats.DeleteCount)
	assert.Zero(t, stats.LoadErrors)

	mstats := managerMetrics.GetStats()
	assert.Equal(t, int64(2), mstats.CreateCount)
	assert.Equal(t, int64(2), mstats.ResizeCount)
}

func TestRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}

	repo, err := New(blobstore.NewMemoryStore(), WithMetricsCollector(metrics))
	require.NoError(t, err)

	_, err = repo.Load(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, persistence.ErrArchiveNotFound)

	_, err = repo.Summary(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, int64(1), metrics.GetStats().LoadErrors)
}

func TestRepository_UnregisteredType(t *testing.T) {
	type custom struct{ A, B int }

	repo, err := New(blobstore.NewMemoryStore())
	require.NoError(t, err)

	m := repo.NewManager()
	_, err = attribute.FindOrCreateConstant(m, "custom", custom{A: 1})
	require.NoError(t, err)

	_, err = repo.Save(context.Background(), "x", m)
	require.ErrorIs(t, err, ErrUnregisteredType)
}

func TestRepository_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	repo, err := New(blobstore.NewMemoryStore(), WithLogger(logger))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = repo.Save(ctx, "logged", repo.NewManager())
	require.NoError(t, err)
	_, err = repo.Load(ctx, "nope")
	require.Error(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, "save completed"), out)
	assert.True(t, strings.Contains(out, "archive saved"), out)
	assert.True(t, strings.Contains(out, "load failed"), out)
}

func TestOpen(t *testing.T) {
	cfg, err := persistence.ParseConfig([]byte("compression: zstd\nsummary_codec: cbor\nbackend:\n  type: local\n  root: " + t.TempDir() + "\n"))
	require.NoError(t, err)

	ctx := context.Background()
	repo, err := Open(ctx, cfg)
	require.NoError(t, err)

	m := repo.NewManager()
	m.Resize(1)
	_, err = repo.Save(ctx, "a", m)
	require.NoError(t, err)

	summary, err := repo.Summary(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "zstd", summary.Compression)

	_, err = Open(ctx, persistence.Config{Compression: "lz4"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestOptions_NilFallbacks(t *testing.T) {
	o := applyOptions([]Option{nil, WithLogger(nil), WithMetricsCollector(nil)})
	assert.NotNil(t, o.logger)
	assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
	assert.Equal(t, 1, o.parallelism)
}
