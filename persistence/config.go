package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/geoattr/archive"
	"github.com/hupe1980/geoattr/blobstore"
	minioblob "github.com/hupe1980/geoattr/blobstore/minio"
	s3blob "github.com/hupe1980/geoattr/blobstore/s3"
	"github.com/hupe1980/geoattr/codec"
	"github.com/hupe1980/geoattr/resource"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"
)

// Backend types understood by OpenBackend.
const (
	BackendMemory = "memory"
	BackendLocal  = "local"
	BackendS3     = "s3"
	BackendMinio  = "minio"
)

// Config describes a Store.
//
//	compression: zstd
//	summary_codec: cbor
//	limits:
//	  max_concurrent_io: 4
//	  io_bytes_per_sec: 67108864
//	backend:
//	  type: s3
//	  bucket: meshes
//	  prefix: prod/
//	  commit_table: geoattr-commits
type Config struct {
	Compression  string        `json:"compression" yaml:"compression"`
	SummaryCodec string        `json:"summary_codec" yaml:"summary_codec"`
	Limits       LimitsConfig  `json:"limits" yaml:"limits"`
	Backend      BackendConfig `json:"backend" yaml:"backend"`
}

// LimitsConfig maps onto resource.Config.
type LimitsConfig struct {
	MemoryBytes     int64 `json:"memory_bytes" yaml:"memory_bytes"`
	MaxConcurrentIO int64 `json:"max_concurrent_io" yaml:"max_concurrent_io"`
	IOBytesPerSec   int64 `json:"io_bytes_per_sec" yaml:"io_bytes_per_sec"`
}

// BackendConfig selects and configures the blob store.
type BackendConfig struct {
	Type string `json:"type" yaml:"type"`

	// Root is the directory of a local backend.
	Root string `json:"root" yaml:"root"`

	Bucket   string `json:"bucket" yaml:"bucket"`
	Prefix   string `json:"prefix" yaml:"prefix"`
	Region   string `json:"region" yaml:"region"`
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// AccessKey and SecretKey are static MinIO credentials.
	AccessKey string `json:"access_key" yaml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
	Secure    bool   `json:"secure" yaml:"secure"`

	// CommitTable enables DynamoDB-coordinated CURRENT pointers (s3 only).
	CommitTable string `json:"commit_table" yaml:"commit_table"`
}

// DefaultConfig returns an in-memory store configuration.
func DefaultConfig() Config {
	return Config{
		Compression:  archive.CompressionLZ4.String(),
		SummaryCodec: codec.Default.Name(),
		Backend:      BackendConfig{Type: BackendMemory},
	}
}

// ParseConfig decodes YAML over DefaultConfig. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// Validate checks that the config names known settings.
func (c Config) Validate() error {
	if _, err := archive.ParseCompression(c.Compression); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, ok := codec.ByName(c.SummaryCodec); !ok {
		return fmt.Errorf("%w: unknown summary codec %q", ErrInvalidConfig, c.SummaryCodec)
	}
	if c.Limits.MemoryBytes < 0 || c.Limits.MaxConcurrentIO < 0 || c.Limits.IOBytesPerSec < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidConfig)
	}

	b := c.Backend
	switch b.Type {
	case BackendMemory:
	case BackendLocal:
		if b.Root == "" {
			return fmt.Errorf("%w: local backend needs a root", ErrInvalidConfig)
		}
	case BackendS3:
		if b.Bucket == "" {
			return fmt.Errorf("%w: s3 backend needs a bucket", ErrInvalidConfig)
		}
	case BackendMinio:
		if b.Bucket == "" || b.Endpoint == "" {
			return fmt.Errorf("%w: minio backend needs a bucket and an endpoint", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, b.Type)
	}
	if b.CommitTable != "" && b.Type != BackendS3 {
		return fmt.Errorf("%w: commit_table requires the s3 backend", ErrInvalidConfig)
	}
	return nil
}

// Options converts the config into Store options.
func (c Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	compression, _ := archive.ParseCompression(c.Compression)
	summaryCodec, _ := codec.ByName(c.SummaryCodec)

	opts := []Option{
		WithCompression(compression),
		WithSummaryCodec(summaryCodec),
	}
	if c.Limits != (LimitsConfig{}) {
		opts = append(opts, WithController(resource.NewController(resource.Config{
			MemoryLimitBytes:   c.Limits.MemoryBytes,
			MaxConcurrentIO:    c.Limits.MaxConcurrentIO,
			IOLimitBytesPerSec: c.Limits.IOBytesPerSec,
		})))
	}
	return opts, nil
}

// OpenBackend builds the blob store the config names.
func (c Config) OpenBackend(ctx context.Context) (blobstore.BlobStore, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	b := c.Backend
	switch b.Type {
	case BackendLocal:
		if err := os.MkdirAll(b.Root, 0o755); err != nil {
			return nil, err
		}
		return blobstore.NewLocalStore(b.Root), nil
	case BackendMinio:
		client, err := minio.New(b.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(b.AccessKey, b.SecretKey, ""),
			Secure: b.Secure,
			Region: b.Region,
		})
		if err != nil {
			return nil, err
		}
		return minioblob.NewStore(client, b.Bucket, b.Prefix), nil
	case BackendS3:
		return openS3(ctx, b)
	default:
		return blobstore.NewMemoryStore(), nil
	}
}

func openS3(ctx context.Context, b BackendConfig) (blobstore.BlobStore, error) {
	var loadFns []func(*awsconfig.LoadOptions) error
	if b.Region != "" {
		loadFns = append(loadFns, awsconfig.WithRegion(b.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadFns...)
	if err != nil {
		return nil, err
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if b.Endpoint != "" {
			o.BaseEndpoint = aws.String(b.Endpoint)
			o.UsePathStyle = true
		}
	})
	store := s3blob.NewStore(client, b.Bucket, b.Prefix)
	if b.CommitTable == "" {
		return store, nil
	}

	baseURI := "s3://" + b.Bucket + "/" + b.Prefix
	return s3blob.NewDDBCommitStore(store, dynamodb.NewFromConfig(awsCfg), b.CommitTable, baseURI), nil
}

// OpenStore builds the backend and a Store over it. Extra options are applied
// after the config's own.
func OpenStore(ctx context.Context, c Config, extra ...Option) (*Store, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	blobs, err := c.OpenBackend(ctx)
	if err != nil {
		return nil, err
	}
	return NewStore(blobs, append(opts, extra...)...)
}
