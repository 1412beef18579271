package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/sumitjhk/Pastebin-Lite/models"
)

// DynamoStore implements RecordStore using DynamoDB. Time expiry maps onto
// the table's TTL attribute (epoch seconds); the view decrement uses
// conditional writes, so it is atomic without any client-side locking.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// NewDynamoStore creates a new DynamoDB storage backend
func NewDynamoStore(tableName, region string) (*DynamoStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &DynamoStore{
		client:    dynamodb.NewFromConfig(cfg),
		tableName: tableName,
	}, nil
}

// Put saves the paste, setting the ttl attribute when an expiry exists.
func (d *DynamoStore) Put(ctx context.Context, paste *models.Paste) error {
	item := map[string]types.AttributeValue{
		"id":         &types.AttributeValueMemberS{Value: paste.ID},
		"content":    &types.AttributeValueMemberS{Value: paste.Content},
		"created_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(paste.CreatedAt, 10)},
	}
	if paste.ExpiresAt != nil {
		item["expires_at"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(*paste.ExpiresAt, 10)}
		// DynamoDB TTL works on epoch seconds; round up so native
		// reclamation never beats logical expiry.
		reclaim := (*paste.ExpiresAt + 999) / 1000
		item["ttl"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(reclaim, 10)}
	}
	if paste.MaxViews != nil {
		item["max_views"] = &types.AttributeValueMemberN{Value: strconv.Itoa(*paste.MaxViews)}
	}
	if paste.RemainingViews != nil {
		item["remaining_views"] = &types.AttributeValueMemberN{Value: strconv.Itoa(*paste.RemainingViews)}
	}

	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get retrieves a paste by its ID; a missing item is (nil, nil).
func (d *DynamoStore) Get(ctx context.Context, id string) (*models.Paste, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if result.Item == nil {
		return nil, nil
	}
	return itemToPaste(result.Item), nil
}

// Delete removes a paste; deleting an absent item is a no-op.
func (d *DynamoStore) Delete(ctx context.Context, id string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// DecrementViews implements ViewDecrementer with two conditional writes: a
// decrement guarded by remaining_views > 1, then a delete guarded by
// remaining_views <= 1. DynamoDB serializes the conditions, so concurrent
// callers can neither decrement past zero nor leave a zero-view item.
func (d *DynamoStore) DecrementViews(ctx context.Context, id string, _ int64) (int, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
	one := &types.AttributeValueMemberN{Value: "1"}

	out, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(d.tableName),
		Key:                 key,
		UpdateExpression:    aws.String("SET remaining_views = remaining_views - :one"),
		ConditionExpression: aws.String("remaining_views > :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": one,
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err == nil {
		if n, ok := out.Attributes["remaining_views"].(*types.AttributeValueMemberN); ok {
			if count, err := strconv.Atoi(n.Value); err == nil {
				return count, nil
			}
		}
		return 0, fmt.Errorf("%w: decrement returned no count", ErrUnavailable)
	}

	var condFailed *types.ConditionalCheckFailedException
	if !errors.As(err, &condFailed) {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// No views to spare: consume the last one if the item is view-tracked.
	_, err = d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(d.tableName),
		Key:                 key,
		ConditionExpression: aws.String("attribute_exists(remaining_views) AND remaining_views <= :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": one,
		},
	})
	if err != nil && !errors.As(err, &condFailed) {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return 0, ErrExhausted
}

// Ping verifies the table is reachable.
func (d *DynamoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.tableName),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close is a no-op for DynamoDB.
func (d *DynamoStore) Close() error {
	return nil
}

// itemToPaste converts a DynamoDB item to a Paste model
func itemToPaste(item map[string]types.AttributeValue) *models.Paste {
	paste := &models.Paste{}

	if id, ok := item["id"].(*types.AttributeValueMemberS); ok {
		paste.ID = id.Value
	}
	if content, ok := item["content"].(*types.AttributeValueMemberS); ok {
		paste.Content = content.Value
	}
	if createdAt, ok := item["created_at"].(*types.AttributeValueMemberN); ok {
		if ms, err := strconv.ParseInt(createdAt.Value, 10, 64); err == nil {
			paste.CreatedAt = ms
		}
	}
	if expiresAt, ok := item["expires_at"].(*types.AttributeValueMemberN); ok {
		if ms, err := strconv.ParseInt(expiresAt.Value, 10, 64); err == nil {
			paste.ExpiresAt = &ms
		}
	}
	if maxViews, ok := item["max_views"].(*types.AttributeValueMemberN); ok {
		if count, err := strconv.Atoi(maxViews.Value); err == nil {
			paste.MaxViews = &count
		}
	}
	if remaining, ok := item["remaining_views"].(*types.AttributeValueMemberN); ok {
		if count, err := strconv.Atoi(remaining.Value); err == nil {
			paste.RemainingViews = &count
		}
	}
	return paste
}
