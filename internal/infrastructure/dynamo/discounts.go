package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-commerce-api/internal/domain"
)

// DiscountRepo provides typed DynamoDB operations for the discount_codes table.
type DiscountRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDiscountRepo(client *dynamodb.Client, tableName string) *DiscountRepo {
	return &DiscountRepo{client: client, tableName: tableName}
}

func (r *DiscountRepo) Put(ctx context.Context, d *domain.DiscountCode) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal discount code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *DiscountRepo) Get(ctx context.Context, discountID string) (*domain.DiscountCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("discount_id", discountID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("discount code not found: %w", domain.ErrNotFound)
	}
	var d domain.DiscountCode
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DiscountRepo) GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("discount_code-index"),
		KeyConditionExpression:    aws.String("discount_code = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":c": &types.AttributeValueMemberS{Value: code}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("discount code not found: %w", domain.ErrNotFound)
	}
	var d domain.DiscountCode
	if err := attributevalue.UnmarshalMap(out.Items[0], &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DiscountRepo) ListBySeller(ctx context.Context, sellerID string) ([]domain.DiscountCode, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("seller_id-index"),
		KeyConditionExpression:    aws.String("seller_id = :s"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":s": &types.AttributeValueMemberS{Value: sellerID}},
	})
	if err != nil {
		return nil, err
	}
	var codes []domain.DiscountCode
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *DiscountRepo) Delete(ctx context.Context, discountID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("discount_id", discountID),
	})
	return err
}
