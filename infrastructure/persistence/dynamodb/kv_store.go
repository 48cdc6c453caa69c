// Package dynamodb stores key-value blobs as items of a single DynamoDB
// table keyed by PK/SK.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "fillai-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// DefaultPartition groups every key of the single-user deployment.
const DefaultPartition = "FILLAI#default"

// API is the part of the DynamoDB client the store uses.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// throttlingCodes are the DynamoDB error codes worth retrying later.
var throttlingCodes = map[string]bool{
	"ProvisionedThroughputExceededException": true,
	"RequestLimitExceeded":                   true,
	"ThrottlingException":                    true,
}

// kvItem is the DynamoDB item structure for one key
type kvItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Value     string `dynamodbav:"Value"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

// KVStore implements ports.KeyValueStore on DynamoDB.
type KVStore struct {
	client    API
	tableName string
	partition string
	logger    *zap.Logger
}

// NewKVStore creates a store writing to tableName under DefaultPartition.
func NewKVStore(client API, tableName string, logger *zap.Logger) *KVStore {
	return &KVStore{
		client:    client,
		tableName: tableName,
		partition: DefaultPartition,
		logger:    logger,
	}
}

func (s *KVStore) key(k string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: s.partition},
		"SK": &types.AttributeValueMemberS{Value: k},
	}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            s.key(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, storageError("get", err)
	}
	if len(out.Item) == 0 {
		return nil, pkgerrors.NewNotFoundError("key " + key)
	}

	var item kvItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewStorageError("get", fmt.Errorf("failed to unmarshal item: %w", err))
	}
	return []byte(item.Value), nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	av, err := attributevalue.MarshalMap(kvItem{
		PK:        s.partition,
		SK:        key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return pkgerrors.NewStorageError("set", fmt.Errorf("failed to marshal item: %w", err))
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		s.logger.Error("Failed to put item", zap.String("key", key), zap.Error(err))
		return storageError("set", err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(key),
	}); err != nil {
		return storageError("delete", err)
	}
	return nil
}

// List queries the partition with begins_with on the sort key, following
// pagination to the end.
func (s *KVStore) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(s.partition)).
		And(expression.Key("SK").BeginsWith(prefix))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewStorageError("list", fmt.Errorf("failed to build key condition: %w", err))
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	out := make(map[string][]byte)
	pages := dynamodb.NewQueryPaginator(s.client, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, storageError("list", err)
		}
		var items []kvItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, pkgerrors.NewStorageError("list", fmt.Errorf("failed to unmarshal items: %w", err))
		}
		for _, it := range items {
			out[it.SK] = []byte(it.Value)
		}
	}
	return out, nil
}

// Close is a no-op; the SDK client has no resources to release.
func (s *KVStore) Close() error { return nil }

// storageError wraps an SDK failure. API errors carry their DynamoDB code;
// throttling is flagged as retryable.
func storageError(operation string, err error) error {
	appErr := pkgerrors.NewStorageError(operation, err)
	var ae smithy.APIError
	if errors.As(err, &ae) {
		appErr.WithCode(ae.ErrorCode())
		if throttlingCodes[ae.ErrorCode()] {
			appErr.WithDetail("retryable", true)
		}
	}
	return appErr
}
