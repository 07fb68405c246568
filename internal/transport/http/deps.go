package http

import (
	"github.com/go-commerce-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-commerce-api/internal/infrastructure/jwt"
	s3infra "github.com/go-commerce-api/internal/infrastructure/s3"
	"github.com/go-commerce-api/internal/infrastructure/smtp"
	"github.com/go-commerce-api/internal/infrastructure/sns"
	"github.com/go-commerce-api/internal/kvstore"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo       *dynamo.UserRepo
	SellerRepo     *dynamo.SellerRepo
	ShopRepo       *dynamo.ShopRepo
	ProductRepo    *dynamo.ProductRepo
	DiscountRepo   *dynamo.DiscountRepo
	SiteConfigRepo *dynamo.SiteConfigRepo
	KV             kvstore.Store
	S3Store        *s3infra.Store
	Mailer         smtp.Mailer
	SMSSender      sns.SMSSender
	JWTProvider    *jwtinfra.Provider
}
