package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/imrishuroy/go-storefront/internal/aws"
)

// snapshotRecord is the shape persisted in the snapshots DynamoDB table.
type snapshotRecord struct {
	SnapshotKey string    `dynamodbav:"snapshot_key"` // PK
	Blob        string    `dynamodbav:"blob"`
	UpdatedAt   time.Time `dynamodbav:"updated_at"`
}

// DynamoStore keeps the blob as one item in a DynamoDB table keyed by snapshot_key.
type DynamoStore struct {
	client    aws.DynamoDBAPI
	tableName string
	key       string
	nowFunc   func() time.Time
}

func NewDynamoStore(client aws.DynamoDBAPI, tableName, key string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		key:       key,
		nowFunc:   time.Now,
	}
}

func (s *DynamoStore) itemKey() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"snapshot_key": &types.AttributeValueMemberS{Value: s.key},
	}
}

func (s *DynamoStore) Load(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       s.itemKey(),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var rec snapshotRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("%w: unmarshal item: %v", ErrCorrupt, err)
	}
	return []byte(rec.Blob), nil
}

func (s *DynamoStore) Save(ctx context.Context, blob []byte) error {
	item, err := attributevalue.MarshalMap(snapshotRecord{
		SnapshotKey: s.key,
		Blob:        string(blob),
		UpdatedAt:   s.nowFunc(),
	})
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (s *DynamoStore) Delete(ctx context.Context) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key:       s.itemKey(),
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
