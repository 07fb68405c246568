package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-commerce-api/internal/domain"
)

// siteConfigID is the partition key of the single site_config row.
const siteConfigID = "default"

// SiteConfigRepo reads and seeds the singleton category catalogue.
type SiteConfigRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSiteConfigRepo(client *dynamodb.Client, tableName string) *SiteConfigRepo {
	return &SiteConfigRepo{client: client, tableName: tableName}
}

func (r *SiteConfigRepo) Get(ctx context.Context) (*domain.SiteConfig, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("config_id", siteConfigID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("site config not found: %w", domain.ErrNotFound)
	}
	var c domain.SiteConfig
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Ensure writes cfg only when no config row exists yet, so a deployed
// catalogue is never overwritten by startup defaults.
func (r *SiteConfigRepo) Ensure(ctx context.Context, cfg *domain.SiteConfig) error {
	cfg.ConfigID = siteConfigID
	item, err := attributevalue.MarshalMap(cfg)
	if err != nil {
		return fmt.Errorf("marshal site config: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(config_id)"),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return nil
	}
	return err
}
