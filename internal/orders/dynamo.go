package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-storefront/internal/aws"
)

// orderRecord is the item stored in the Orders DynamoDB table. Amounts are
// kept as decimal strings and line items as a JSON document.
type orderRecord struct {
	OrderID         string          `dynamodbav:"order_id"` // PK
	UserID          string          `dynamodbav:"user_id"`
	Status          string          `dynamodbav:"status"` // pending | processing | shipped | delivered | cancelled
	TotalAmount     string          `dynamodbav:"total_amount"`
	ItemsJSON       string          `dynamodbav:"items_json"`
	ShippingAddress ShippingAddress `dynamodbav:"shipping_address"`
	PaymentMethod   PaymentMethod   `dynamodbav:"payment_method"`
	CreatedAt       time.Time       `dynamodbav:"created_at"`
	UpdatedAt       time.Time       `dynamodbav:"updated_at"`
}

// UserIndex is the global secondary index on user_id (sort key created_at)
// used to list a user's orders.
const UserIndex = "user_id-created_at-index"

// DynamoJournal mirrors orders into a DynamoDB table.
type DynamoJournal struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewDynamoJournal creates a journal over tableName.
func NewDynamoJournal(client aws.DynamoDBAPI, tableName string) *DynamoJournal {
	return &DynamoJournal{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

func toRecord(o Order, now time.Time) (orderRecord, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return orderRecord{}, fmt.Errorf("marshal items: %w", err)
	}
	return orderRecord{
		OrderID:         o.ID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		TotalAmount:     o.TotalAmount.String(),
		ItemsJSON:       string(items),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       now,
	}, nil
}

func (r orderRecord) toOrder() (Order, error) {
	total, err := decimal.NewFromString(r.TotalAmount)
	if err != nil {
		return Order{}, fmt.Errorf("parse total: %w", err)
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(r.ItemsJSON), &items); err != nil {
		return Order{}, fmt.Errorf("unmarshal items: %w", err)
	}
	return Order{
		ID:              r.OrderID,
		UserID:          r.UserID,
		Items:           items,
		TotalAmount:     total,
		Status:          Status(r.Status),
		CreatedAt:       r.CreatedAt,
		ShippingAddress: r.ShippingAddress,
		PaymentMethod:   r.PaymentMethod,
	}, nil
}

// Put writes a new order. Returns ErrDuplicateOrder if order_id already exists.
func (j *DynamoJournal) Put(ctx context.Context, o Order) error {
	rec, err := toRecord(o, j.nowFunc())
	if err != nil {
		return err
	}
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal order item: %w", err)
	}

	_, err = j.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &j.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Get fetches an order by order_id. Returns (nil, nil) if not found.
func (j *DynamoJournal) Get(ctx context.Context, orderID string) (*Order, error) {
	key := map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: orderID},
	}
	out, err := j.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &j.tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec orderRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	o, err := rec.toOrder()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UserOrders lists userID's orders oldest first through UserIndex.
func (j *DynamoJournal) UserOrders(ctx context.Context, userID string) ([]Order, error) {
	var out []Order
	var startKey map[string]types.AttributeValue
	for {
		page, err := j.client.Query(ctx, &dyn.QueryInput{
			TableName:              &j.tableName,
			IndexName:              awsString(UserIndex),
			KeyConditionExpression: awsString("user_id = :uid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: userID},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query user orders: %w", err)
		}
		for _, item := range page.Items {
			var rec orderRecord
			if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
				return nil, fmt.Errorf("unmarshal order: %w", err)
			}
			o, err := rec.toOrder()
			if err != nil {
				return nil, err
			}
			out = append(out, o)
		}
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		startKey = page.LastEvaluatedKey
	}
	slices.SortStableFunc(out, func(a, b Order) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

// UpdateStatus conditionally updates the order status from expected -> next.
// Returns nil on success, ErrStatusMismatch if condition failed.
func (j *DynamoJournal) UpdateStatus(ctx context.Context, orderID string, expected, next Status) error {
	now := j.nowFunc()
	input := &dyn.UpdateItemInput{
		TableName: &j.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:         awsString("SET #s = :new, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new":      &types.AttributeValueMemberS{Value: string(next)},
			":expected": &types.AttributeValueMemberS{Value: string(expected)},
			":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ConditionExpression: awsString("#s = :expected"),
	}

	_, err := j.client.UpdateItem(ctx, input)
	if err != nil {
		var sc *types.ConditionalCheckFailedException
		if errors.As(err, &sc) {
			return ErrStatusMismatch
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
