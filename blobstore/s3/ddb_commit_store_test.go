package s3

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/geoattr/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDDBClient is an in-memory commit table.
type mockDDBClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func itemKey(item map[string]types.AttributeValue) string {
	return item["base_uri"].(*types.AttributeValueMemberS).Value + ":" + item["version"].(*types.AttributeValueMemberN).Value
}

func itemVersion(item map[string]types.AttributeValue) uint64 {
	v, _ := strconv.ParseUint(item["version"].(*types.AttributeValueMemberN).Value, 10, 64)
	return v
}

func (m *mockDDBClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := itemKey(params.Item)
	if aws.ToString(params.ConditionExpression) == "attribute_not_exists(version)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uri := params.ExpressionAttributeValues[":uri"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["base_uri"].(*types.AttributeValueMemberS).Value == uri {
			items = append(items, item)
		}
	}
	slices.SortFunc(items, func(a, b map[string]types.AttributeValue) int {
		return int(itemVersion(b)) - int(itemVersion(a))
	})
	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

func (m *mockDDBClient) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, itemKey(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *mockDDBClient) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func readPointer(t *testing.T, store blobstore.BlobStore, name string) string {
	t.Helper()

	blob, err := store.Open(context.Background(), name)
	require.NoError(t, err)
	defer blob.Close()

	data, err := blobstore.ReadAll(context.Background(), blob)
	require.NoError(t, err)
	return string(data)
}

func TestDDBCommitStore_Commits(t *testing.T) {
	ctx := context.Background()
	store := NewDDBCommitStore(blobstore.NewMemoryStore(), newMockDDBClient(), "geoattr-commits", "s3://bucket/meshes")

	_, err := store.Open(ctx, "bunny/CURRENT")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.Put(ctx, "bunny/CURRENT", []byte(fmt.Sprintf("bunny/%05d.gattr", i))))
	}
	assert.Equal(t, "bunny/00003.gattr", readPointer(t, store, "bunny/CURRENT"))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"bunny/CURRENT"}, names)
}

func TestDDBCommitStore_PassThrough(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	store := NewDDBCommitStore(blobs, newMockDDBClient(), "t", "s3://b")

	require.NoError(t, store.Put(ctx, "bunny/a.gattr", []byte("payload")))
	assert.Equal(t, "payload", readPointer(t, blobs, "bunny/a.gattr"))

	_, err := store.Create(ctx, "bunny/CURRENT")
	require.ErrorIs(t, err, blobstore.ErrInvalidName)
}

func TestDDBCommitStore_ConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	store := NewDDBCommitStore(blobstore.NewMemoryStore(), newMockDDBClient(), "t", "s3://b")
	require.NoError(t, store.Put(ctx, "a/CURRENT", []byte("a/1")))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Put(ctx, "a/CURRENT", []byte(fmt.Sprintf("a/%d", i+2)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConcurrentModification):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Positive(t, successes)
}

func TestDDBCommitStore_IsolatedArchives(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	store := NewDDBCommitStore(blobstore.NewMemoryStore(), ddb, "t", "s3://b")
	other := NewDDBCommitStore(blobstore.NewMemoryStore(), ddb, "t", "s3://other")

	require.NoError(t, store.Put(ctx, "a/CURRENT", []byte("a/1")))
	require.NoError(t, store.Put(ctx, "b/CURRENT", []byte("b/1")))
	require.NoError(t, other.Put(ctx, "a/CURRENT", []byte("x/1")))

	assert.Equal(t, "a/1", readPointer(t, store, "a/CURRENT"))
	assert.Equal(t, "b/1", readPointer(t, store, "b/CURRENT"))
	assert.Equal(t, "x/1", readPointer(t, other, "a/CURRENT"))

	require.NoError(t, store.Put(ctx, "a/CURRENT", []byte("a/2")))
	require.NoError(t, store.Delete(ctx, "a/CURRENT"))
	_, err := store.Open(ctx, "a/CURRENT")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
	assert.Equal(t, 2, ddb.len())
}
