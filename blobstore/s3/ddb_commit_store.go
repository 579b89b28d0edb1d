package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/drometa/blobstore"
)

// DDBCommitStore wraps a blob store and keeps the CURRENT pointer in
// DynamoDB, where a conditional write gives the compare-and-swap S3 lacks.
// Every other blob is delegated to the wrapped store.
//
// Table schema:
//   - Partition key: base_uri (S)
//   - Sort key: version (N)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name drometa-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitStore struct {
	blobs     blobstore.BlobStore
	ddbClient DDBClient
	tableName string
	baseURI   string
}

var _ blobstore.BlobStore = (*DDBCommitStore)(nil)

// DDBClient is the subset of the DynamoDB API the commit store uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentModification is returned when another writer committed the
// same version first.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// NewDDBCommitStore creates a commit store. baseURI, typically
// "s3://bucket/prefix", is the partition key.
func NewDDBCommitStore(blobs blobstore.BlobStore, ddbClient DDBClient, tableName, baseURI string) *DDBCommitStore {
	return &DDBCommitStore{
		blobs:     blobs,
		ddbClient: ddbClient,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// Open serves CURRENT from the latest committed version.
func (s *DDBCommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if name != blobstore.CurrentName {
		return s.blobs.Open(ctx, name)
	}
	version, snapshot, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, blobstore.ErrNotFound
	}
	return &pointerBlob{content: []byte(snapshot)}, nil
}

// Put commits a new version when name is CURRENT.
func (s *DDBCommitStore) Put(ctx context.Context, name string, data []byte) error {
	if name == blobstore.CurrentName {
		return s.commit(ctx, string(data))
	}
	return s.blobs.Put(ctx, name, data)
}

// Create delegates to the wrapped store.
func (s *DDBCommitStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	return s.blobs.Create(ctx, name)
}

// Delete delegates to the wrapped store.
func (s *DDBCommitStore) Delete(ctx context.Context, name string) error {
	return s.blobs.Delete(ctx, name)
}

// List delegates to the wrapped store.
func (s *DDBCommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.blobs.List(ctx, prefix)
}

// Latest returns the newest committed version and the snapshot it points
// to. Version 0 means nothing was committed.
func (s *DDBCommitStore) Latest(ctx context.Context) (uint64, string, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.baseURI},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("query commits: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute")
	}
	snapshotAttr, ok := item["snapshot"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid snapshot attribute")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse version: %w", err)
	}
	return version, snapshotAttr.Value, nil
}

func (s *DDBCommitStore) commit(ctx context.Context, snapshot string) error {
	current, _, err := s.Latest(ctx)
	if err != nil {
		return err
	}

	_, err = s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri": &types.AttributeValueMemberS{Value: s.baseURI},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(current+1, 10)},
			"snapshot": &types.AttributeValueMemberS{Value: snapshot},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("commit version %d: %w", current+1, err)
	}
	return nil
}

// pointerBlob serves the CURRENT content from memory.
type pointerBlob struct {
	content []byte
}

func (b *pointerBlob) Close() error { return nil }

func (b *pointerBlob) Size() int64 { return int64(len(b.content)) }

func (b *pointerBlob) Bytes() ([]byte, error) { return b.content, nil }

func (b *pointerBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return bytes.NewReader(b.content).ReadAt(p, off)
}

func (b *pointerBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	size := int64(len(b.content))
	if off >= size {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return io.NopCloser(bytes.NewReader(b.content[off:min(off+length, size)])), nil
}
