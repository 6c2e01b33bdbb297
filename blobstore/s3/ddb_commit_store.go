package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/geoattr/blobstore"
)

// DDBCommitStore wraps a BlobStore and moves writes of CURRENT pointers into
// DynamoDB conditional writes, so concurrent savers of the same archive cannot
// silently overwrite each other.
//
// Every archive directory gets its own partition. Each pointer write inserts the
// next version and fails with ErrConcurrentModification if another writer took
// it first. Opening a pointer reads the newest version.
//
// Table schema:
//   - Partition key: base_uri (string)
//   - Sort key: version (number)
//
//	aws dynamodb create-table \
//	  --table-name geoattr-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitStore struct {
	blobs     blobstore.BlobStore
	ddbClient DDBClient
	tableName string
	baseURI   string
}

// DDBClient is the subset of the DynamoDB API the commit store uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// ErrConcurrentModification is returned when another writer committed the same
// version first.
var ErrConcurrentModification = errors.New("s3: concurrent modification detected")

// NewDDBCommitStore creates a commit store. baseURI (e.g. "s3://bucket/prefix")
// namespaces the partition keys.
func NewDDBCommitStore(blobs blobstore.BlobStore, ddbClient DDBClient, tableName, baseURI string) *DDBCommitStore {
	return &DDBCommitStore{
		blobs:     blobs,
		ddbClient: ddbClient,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

func isPointer(name string) bool {
	return path.Base(name) == blobstore.CurrentPointer
}

func (s *DDBCommitStore) partition(name string) string {
	return s.baseURI + "/" + path.Dir(name)
}

// Open reads pointers from DynamoDB and everything else from the wrapped store.
func (s *DDBCommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if !isPointer(name) {
		return s.blobs.Open(ctx, name)
	}

	version, target, err := s.latest(ctx, s.partition(name))
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, blobstore.ErrNotFound
	}
	return &pointerBlob{content: []byte(target)}, nil
}

// Put commits pointers through DynamoDB, then mirrors them into the wrapped
// store so List can see them.
func (s *DDBCommitStore) Put(ctx context.Context, name string, data []byte) error {
	if !isPointer(name) {
		return s.blobs.Put(ctx, name, data)
	}
	if err := s.commit(ctx, s.partition(name), string(data)); err != nil {
		return err
	}
	return s.blobs.Put(ctx, name, data)
}

// Create delegates to the wrapped store. Pointers must be written with Put.
func (s *DDBCommitStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if isPointer(name) {
		return nil, fmt.Errorf("%w: pointers are committed with Put: %q", blobstore.ErrInvalidName, name)
	}
	return s.blobs.Create(ctx, name)
}

// Delete removes the blob; deleting a pointer also drops its version history.
func (s *DDBCommitStore) Delete(ctx context.Context, name string) error {
	if isPointer(name) {
		if err := s.dropVersions(ctx, s.partition(name)); err != nil {
			return err
		}
	}
	return s.blobs.Delete(ctx, name)
}

// List delegates to the wrapped store.
func (s *DDBCommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.blobs.List(ctx, prefix)
}

func (s *DDBCommitStore) latest(ctx context.Context, partition string) (uint64, string, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: partition},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("s3: query commit table: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("s3: invalid version attribute in commit table")
	}
	targetAttr, ok := item["target"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("s3: invalid target attribute in commit table")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("s3: parse commit version: %w", err)
	}
	return version, targetAttr.Value, nil
}

func (s *DDBCommitStore) commit(ctx context.Context, partition, target string) error {
	current, _, err := s.latest(ctx, partition)
	if err != nil {
		return err
	}

	_, err = s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri": &types.AttributeValueMemberS{Value: partition},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(current+1, 10)},
			"target":   &types.AttributeValueMemberS{Value: target},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("s3: commit version: %w", err)
	}
	return nil
}

func (s *DDBCommitStore) dropVersions(ctx context.Context, partition string) error {
	for {
		version, _, err := s.latest(ctx, partition)
		if err != nil {
			return err
		}
		if version == 0 {
			return nil
		}
		_, err = s.ddbClient.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"base_uri": &types.AttributeValueMemberS{Value: partition},
				"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			},
		})
		if err != nil {
			return fmt.Errorf("s3: delete commit version: %w", err)
		}
	}
}

// pointerBlob serves a pointer's target from memory.
type pointerBlob struct {
	content []byte
}

func (b *pointerBlob) Close() error {
	return nil
}

func (b *pointerBlob) Size() int64 {
	return int64(len(b.content))
}

func (b *pointerBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b.content)) {
		return 0, io.EOF
	}
	n := copy(p, b.content[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *pointerBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	if off < 0 || off >= int64(len(b.content)) {
		return nil, io.EOF
	}
	end := min(off+length, int64(len(b.content)))
	return io.NopCloser(bytes.NewReader(b.content[off:end])), nil
}
