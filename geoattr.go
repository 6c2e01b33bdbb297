package geoattr

import (
	"context"
	"time"

	"github.com/hupe1980/geoattr/archive"
	"github.com/hupe1980/geoattr/attribute"
	"github.com/hupe1980/geoattr/blobstore"
	"github.com/hupe1980/geoattr/persistence"
)

// Repository stores named attribute managers in a blob store.
// It is safe for concurrent use.
type Repository struct {
	store *persistence.Store
	opts  options
}

// New creates a Repository over blobs.
func New(blobs blobstore.BlobStore, optFns ...Option) (*Repository, error) {
	opts := applyOptions(optFns)

	storeOpts := append([]persistence.Option{persistence.WithLogger(opts.logger.Logger)}, opts.storeOptions...)
	store, err := persistence.NewStore(blobs, storeOpts...)
	if err != nil {
		return nil, err
	}
	return &Repository{store: store, opts: opts}, nil
}

// Open creates a Repository from a configuration, opening the backend it names.
func Open(ctx context.Context, cfg persistence.Config, optFns ...Option) (*Repository, error) {
	cfgOpts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	blobs, err := cfg.OpenBackend(ctx)
	if err != nil {
		return nil, err
	}
	return New(blobs, append([]Option{WithStoreOptions(cfgOpts...)}, optFns...)...)
}

// Store returns the underlying persistence store.
func (r *Repository) Store() *persistence.Store {
	return r.store
}

// Types returns the type registry used for archives.
func (r *Repository) Types() *archive.Context {
	return r.store.Types()
}

// NewManager creates an empty manager configured with the repository's logger,
// parallelism and manager metrics.
func (r *Repository) NewManager() *attribute.Manager {
	return attribute.NewManager(r.opts.managerOptions()...)
}

// Save stores m as the new current version of the named archive.
func (r *Repository) Save(ctx context.Context, name string, m *attribute.Manager) (persistence.Summary, error) {
	start := time.Now()
	summary, err := r.store.Save(ctx, name, m)
	d := time.Since(start)

	r.opts.metricsCollector.RecordSave(summary.StoredBytes, d, err)
	r.opts.logger.LogSave(ctx, name, summary.NbElements, summary.StoredBytes, d, err)
	return summary, translateError(err)
}

// Load returns the current version of the named archive.
func (r *Repository) Load(ctx context.Context, name string) (*attribute.Manager, error) {
	start := time.Now()
	m, err := r.store.Load(ctx, name, r.opts.managerOptions()...)
	d := time.Since(start)

	var elements uint32
	if m != nil {
		elements = m.NbElements()
	}
	r.opts.metricsCollector.RecordLoad(d, err)
	r.opts.logger.LogLoad(ctx, name, elements, d, err)
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

// Summary describes the current version of the named archive without loading it.
func (r *Repository) Summary(ctx context.Context, name string) (persistence.Summary, error) {
	summary, err := r.store.Summary(ctx, name)
	return summary, translateError(err)
}

// List returns the names of all stored archives.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	names, err := r.store.List(ctx)
	return names, translateError(err)
}

// Delete removes every version of the named archive.
func (r *Repository) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := r.store.Delete(ctx, name)

	r.opts.metricsCollector.RecordDelete(time.Since(start), err)
	r.opts.logger.LogDelete(ctx, name, err)
	return translateError(err)
}
