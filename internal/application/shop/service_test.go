package shop

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-commerce-api/internal/domain"
)

type memShopStore struct {
	byID map[string]*domain.Shop
}

func (m *memShopStore) Put(_ context.Context, s *domain.Shop) error {
	cp := *s
	m.byID[s.ShopID] = &cp
	return nil
}

func (m *memShopStore) Get(_ context.Context, shopID string) (*domain.Shop, error) {
	s, ok := m.byID[shopID]
	if !ok {
		return nil, fmt.Errorf("shop not found: %w", domain.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (m *memShopStore) GetBySeller(_ context.Context, sellerID string) (*domain.Shop, error) {
	for _, s := range m.byID {
		if s.SellerID == sellerID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("shop not found: %w", domain.ErrNotFound)
}

type memSellerStore struct {
	byID map[string]*domain.Seller
}

func (m *memSellerStore) Get(_ context.Context, sellerID string) (*domain.Seller, error) {
	s, ok := m.byID[sellerID]
	if !ok {
		return nil, fmt.Errorf("seller not found: %w", domain.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (m *memSellerStore) Update(_ context.Context, sellerID string, updates map[string]interface{}) error {
	s, ok := m.byID[sellerID]
	if !ok {
		return fmt.Errorf("seller not found: %w", domain.ErrNotFound)
	}
	if v, ok := updates["shop_id"].(string); ok {
		s.ShopID = v
	}
	return nil
}

func sampleShop() domain.CreateShopRequest {
	return domain.CreateShopRequest{
		Name:         "Bea's Boards",
		Bio:          "Hand-built mechanical keyboards",
		Address:      "12 Maker St",
		OpeningHours: "Mon-Fri 9-18",
		Category:     "electronics",
	}
}

func TestCreateShop(t *testing.T) {
	shops := &memShopStore{byID: map[string]*domain.Shop{}}
	sellers := &memSellerStore{byID: map[string]*domain.Seller{
		"seller-1": {SellerID: "seller-1", Email: "bea@shop.example"},
	}}
	svc := NewService(ServiceDeps{Shops: shops, Sellers: sellers})
	ctx := context.Background()

	s, err := svc.Create(ctx, "seller-1", sampleShop())
	require.NoError(t, err)
	assert.Equal(t, "seller-1", s.SellerID)
	assert.NotEmpty(t, s.ShopID)

	// The seller row now points at the shop.
	assert.Equal(t, s.ShopID, sellers.byID["seller-1"].ShopID)

	got, err := svc.GetBySeller(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, s.ShopID, got.ShopID)
}

func TestCreateShop_OnePerSeller(t *testing.T) {
	shops := &memShopStore{byID: map[string]*domain.Shop{}}
	sellers := &memSellerStore{byID: map[string]*domain.Seller{
		"seller-1": {SellerID: "seller-1", Email: "bea@shop.example"},
	}}
	svc := NewService(ServiceDeps{Shops: shops, Sellers: sellers})
	ctx := context.Background()

	_, err := svc.Create(ctx, "seller-1", sampleShop())
	require.NoError(t, err)

	_, err = svc.Create(ctx, "seller-1", sampleShop())
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCreateShop_UnknownSeller(t *testing.T) {
	svc := NewService(ServiceDeps{
		Shops:   &memShopStore{byID: map[string]*domain.Shop{}},
		Sellers: &memSellerStore{byID: map[string]*domain.Seller{}},
	})

	_, err := svc.Create(context.Background(), "ghost", sampleShop())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
