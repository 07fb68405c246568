package dynamo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// KVStore implements kvstore.Store on a single DynamoDB table with native TTL.
// Rows: k (PK), v (string value), n (counter), expires_at (Unix seconds).
// DynamoDB TTL reaping is lazy (up to 48h), so every read re-checks expires_at
// and conditional writes treat an expired row as absent.
type KVStore struct {
	client    *dynamodb.Client
	tableName string

	// now is the clock; overridable in tests.
	now func() time.Time
}

func NewKVStore(client *dynamodb.Client, tableName string) *KVStore {
	return &KVStore{client: client, tableName: tableName, now: time.Now}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            strKey("k", key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", false, err
	}
	if out.Item == nil {
		return "", false, nil
	}
	if expired(out.Item, s.now()) {
		return "", false, nil
	}
	if v, ok := out.Item["v"].(*types.AttributeValueMemberS); ok {
		return v.Value, true, nil
	}
	if n, ok := out.Item["n"].(*types.AttributeValueMemberN); ok {
		return n.Value, true, nil
	}
	return "", false, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"k":          &types.AttributeValueMemberS{Value: key},
			"v":          &types.AttributeValueMemberS{Value: value},
			"expires_at": &types.AttributeValueMemberN{Value: unixStr(s.now().Add(ttl))},
		},
	})
	return err
}

func (s *KVStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"k":          &types.AttributeValueMemberS{Value: key},
			"v":          &types.AttributeValueMemberS{Value: value},
			"expires_at": &types.AttributeValueMemberN{Value: unixStr(s.now().Add(ttl))},
		},
		ConditionExpression: aws.String("attribute_not_exists(k) OR expires_at < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: unixStr(s.now())},
		},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *KVStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	// A row whose window has lapsed but that TTL has not reaped yet must not
	// carry its count into the new window: reset it first, tolerating the
	// condition failure when the row is still live.
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.tableName),
		Key:                 strKey("k", key),
		ConditionExpression: aws.String("attribute_exists(k) AND expires_at < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: unixStr(s.now())},
		},
	})
	var ccf *types.ConditionalCheckFailedException
	if err != nil && !errors.As(err, &ccf) {
		return 0, err
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.tableName),
		Key:              strKey("k", key),
		UpdateExpression: aws.String("ADD n :one SET expires_at = if_not_exists(expires_at, :exp)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":exp": &types.AttributeValueMemberN{Value: unixStr(s.now().Add(window))},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return 0, err
	}
	n, ok := out.Attributes["n"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("counter attribute missing after increment")
	}
	return strconv.ParseInt(n.Value, 10, 64)
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       strKey("k", key),
	})
	return err
}

func expired(item map[string]types.AttributeValue, now time.Time) bool {
	attr, ok := item["expires_at"].(*types.AttributeValueMemberN)
	if !ok {
		return false
	}
	exp, err := strconv.ParseInt(attr.Value, 10, 64)
	if err != nil {
		return false
	}
	return exp < now.Unix()
}

func unixStr(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
