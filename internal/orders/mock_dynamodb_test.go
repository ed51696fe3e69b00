package orders

import (
	"context"
	"errors"
	"slices"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo stores order items keyed by order_id and understands the two
// condition expressions DynamoJournal issues.
type mockDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	err      error
	pageSize int // Query page size, 0 = unlimited
	queries  int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func orderKey(m map[string]types.AttributeValue) (string, error) {
	v, ok := m["order_id"].(*types.AttributeValueMemberS)
	if !ok {
		return "", errors.New("no order_id")
	}
	return v.Value, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	pk, err := orderKey(params.Item)
	if err != nil {
		return nil, err
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(order_id)" {
		if _, exists := m.items[pk]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[pk] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	pk, err := orderKey(params.Key)
	if err != nil {
		return nil, err
	}
	return &dyn.GetItemOutput{Item: m.items[pk]}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	pk, err := orderKey(params.Key)
	if err != nil {
		return nil, err
	}
	item, exists := m.items[pk]
	if !exists {
		return nil, &types.ConditionalCheckFailedException{}
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "#s = :expected" {
		curr, ok := item["status"].(*types.AttributeValueMemberS)
		expected := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberS).Value
		if !ok || curr.Value != expected {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	if v, ok := params.ExpressionAttributeValues[":new"]; ok {
		item["status"] = v
	}
	if v, ok := params.ExpressionAttributeValues[":ua"]; ok {
		item["updated_at"] = v
	}
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pk, err := orderKey(params.Key)
	if err != nil {
		return nil, err
	}
	delete(m.items, pk)
	return &dyn.DeleteItemOutput{}, nil
}

// Query supports the user index lookup: user_id = :uid, paged by order_id.
func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	if m.err != nil {
		return nil, m.err
	}
	uid := params.ExpressionAttributeValues[":uid"].(*types.AttributeValueMemberS).Value

	var keys []string
	for k, item := range m.items {
		if v, ok := item["user_id"].(*types.AttributeValueMemberS); ok && v.Value == uid {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	if params.ExclusiveStartKey != nil {
		after, err := orderKey(params.ExclusiveStartKey)
		if err != nil {
			return nil, err
		}
		i, _ := slices.BinarySearch(keys, after)
		for i < len(keys) && keys[i] <= after {
			i++
		}
		keys = keys[i:]
	}

	out := &dyn.QueryOutput{}
	for _, k := range keys {
		if m.pageSize > 0 && len(out.Items) == m.pageSize {
			out.LastEvaluatedKey = map[string]types.AttributeValue{
				"order_id": &types.AttributeValueMemberS{Value: mustOrderKey(out.Items[len(out.Items)-1])},
			}
			break
		}
		out.Items = append(out.Items, m.items[k])
	}
	return out, nil
}

func mustOrderKey(item map[string]types.AttributeValue) string {
	k, _ := orderKey(item)
	return k
}
