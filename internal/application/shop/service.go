package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/go-commerce-api/internal/domain"
	"github.com/go-commerce-api/internal/pkg/id"
)

type ShopStore interface {
	Put(ctx context.Context, s *domain.Shop) error
	Get(ctx context.Context, shopID string) (*domain.Shop, error)
	GetBySeller(ctx context.Context, sellerID string) (*domain.Shop, error)
}

type SellerStore interface {
	Get(ctx context.Context, sellerID string) (*domain.Seller, error)
	Update(ctx context.Context, sellerID string, updates map[string]interface{}) error
}

type Service interface {
	// Create registers the seller's shop. A seller owns at most one shop, so a
	// second create is a conflict.
	Create(ctx context.Context, sellerID string, req domain.CreateShopRequest) (*domain.Shop, error)
	Get(ctx context.Context, shopID string) (*domain.Shop, error)
	GetBySeller(ctx context.Context, sellerID string) (*domain.Shop, error)
}

type ServiceDeps struct {
	Shops   ShopStore
	Sellers SellerStore
}

type service struct {
	shops   ShopStore
	sellers SellerStore
}

func NewService(deps ServiceDeps) Service {
	return &service{shops: deps.Shops, sellers: deps.Sellers}
}

func (s *service) Create(ctx context.Context, sellerID string, req domain.CreateShopRequest) (*domain.Shop, error) {
	seller, err := s.sellers.Get(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.ShopID != "" {
		return nil, fmt.Errorf("seller already has a shop: %w", domain.ErrConflict)
	}

	now := time.Now().UTC()
	shop := &domain.Shop{
		ShopID:       id.New(),
		SellerID:     sellerID,
		Name:         req.Name,
		Bio:          req.Bio,
		Address:      req.Address,
		OpeningHours: req.OpeningHours,
		Website:      req.Website,
		Category:     req.Category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.shops.Put(ctx, shop); err != nil {
		return nil, err
	}
	if err := s.sellers.Update(ctx, sellerID, map[string]interface{}{"shop_id": shop.ShopID}); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *service) Get(ctx context.Context, shopID string) (*domain.Shop, error) {
	return s.shops.Get(ctx, shopID)
}

func (s *service) GetBySeller(ctx context.Context, sellerID string) (*domain.Shop, error) {
	return s.shops.GetBySeller(ctx, sellerID)
}
