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

// ShopRepo provides typed DynamoDB operations for the shops table.
type ShopRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewShopRepo(client *dynamodb.Client, tableName string) *ShopRepo {
	return &ShopRepo{client: client, tableName: tableName}
}

func (r *ShopRepo) Put(ctx context.Context, s *domain.Shop) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal shop: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ShopRepo) Get(ctx context.Context, shopID string) (*domain.Shop, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("shop_id", shopID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("shop not found: %w", domain.ErrNotFound)
	}
	var s domain.Shop
	if err := attributevalue.UnmarshalMap(out.Item, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShopRepo) GetBySeller(ctx context.Context, sellerID string) (*domain.Shop, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("seller_id-index"),
		KeyConditionExpression:    aws.String("seller_id = :s"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":s": &types.AttributeValueMemberS{Value: sellerID}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("shop not found: %w", domain.ErrNotFound)
	}
	var s domain.Shop
	if err := attributevalue.UnmarshalMap(out.Items[0], &s); err != nil {
		return nil, err
	}
	return &s, nil
}
