package product

import (
	"context"
	"fmt"
	"time"

	"github.com/go-commerce-api/internal/domain"
	"github.com/go-commerce-api/internal/pkg/id"
)

type ProductStore interface {
	Put(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, productID string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListByShop(ctx context.Context, shopID string) ([]domain.Product, error)
	Update(ctx context.Context, productID string, updates map[string]interface{}) error
}

type DiscountStore interface {
	Put(ctx context.Context, d *domain.DiscountCode) error
	Get(ctx context.Context, discountID string) (*domain.DiscountCode, error)
	GetByCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	ListBySeller(ctx context.Context, sellerID string) ([]domain.DiscountCode, error)
	Delete(ctx context.Context, discountID string) error
}

type SellerStore interface {
	Get(ctx context.Context, sellerID string) (*domain.Seller, error)
}

type SiteConfigStore interface {
	Get(ctx context.Context) (*domain.SiteConfig, error)
}

type ImageStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service interface {
	// Categories returns the singleton category catalogue.
	Categories(ctx context.Context) (*domain.SiteConfig, error)

	CreateDiscountCode(ctx context.Context, sellerID string, req domain.CreateDiscountCodeRequest) (*domain.DiscountCode, error)
	ListDiscountCodes(ctx context.Context, sellerID string) ([]domain.DiscountCode, error)
	DeleteDiscountCode(ctx context.Context, sellerID, discountID string) error

	UploadImage(ctx context.Context, fileName, b64Data string) (*domain.ProductImage, error)
	DeleteImage(ctx context.Context, fileID string) error

	Create(ctx context.Context, sellerID string, req domain.CreateProductRequest) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	// ListShopProducts returns the seller's own catalogue, soft-deleted rows
	// included so the dashboard can offer restore.
	ListShopProducts(ctx context.Context, sellerID string) ([]domain.Product, error)

	// SoftDelete marks the product and schedules its purge one retention
	// window from now. Until then Restore can bring it back.
	SoftDelete(ctx context.Context, sellerID, productID string) (*domain.Product, error)
	Restore(ctx context.Context, sellerID, productID string) (*domain.Product, error)
}

type ServiceDeps struct {
	Products   ProductStore
	Discounts  DiscountStore
	Sellers    SellerStore
	SiteConfig SiteConfigStore
	Images     ImageStore
	Retention  time.Duration

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

type service struct {
	products   ProductStore
	discounts  DiscountStore
	sellers    SellerStore
	siteConfig SiteConfigStore
	images     ImageStore
	retention  time.Duration
	now        func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		products:   deps.Products,
		discounts:  deps.Discounts,
		sellers:    deps.Sellers,
		siteConfig: deps.SiteConfig,
		images:     deps.Images,
		retention:  deps.Retention,
		now:        now,
	}
}

func (s *service) Categories(ctx context.Context) (*domain.SiteConfig, error) {
	return s.siteConfig.Get(ctx)
}

func (s *service) CreateDiscountCode(ctx context.Context, sellerID string, req domain.CreateDiscountCodeRequest) (*domain.DiscountCode, error) {
	if _, err := s.discounts.GetByCode(ctx, req.DiscountCode); err == nil {
		return nil, fmt.Errorf("discount code already in use: %w", domain.ErrConflict)
	}
	now := s.now().UTC()
	d := &domain.DiscountCode{
		DiscountID:    id.New(),
		SellerID:      sellerID,
		PublicName:    req.PublicName,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		DiscountCode:  req.DiscountCode,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.discounts.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) ListDiscountCodes(ctx context.Context, sellerID string) ([]domain.DiscountCode, error) {
	return s.discounts.ListBySeller(ctx, sellerID)
}

func (s *service) DeleteDiscountCode(ctx context.Context, sellerID, discountID string) error {
	d, err := s.discounts.Get(ctx, discountID)
	if err != nil {
		return err
	}
	if d.SellerID != sellerID {
		return fmt.Errorf("discount code belongs to another seller: %w", domain.ErrForbidden)
	}
	return s.discounts.Delete(ctx, discountID)
}

func (s *service) UploadImage(ctx context.Context, fileName, b64Data string) (*domain.ProductImage, error) {
	if b64Data == "" {
		return nil, fmt.Errorf("image payload is empty: %w", domain.ErrBadRequest)
	}
	key := "products/" + id.New() + "-" + fileName
	url, err := s.images.UploadBase64(ctx, key, b64Data)
	if err != nil {
		return nil, err
	}
	return &domain.ProductImage{FileID: key, URL: url}, nil
}

func (s *service) DeleteImage(ctx context.Context, fileID string) error {
	if fileID == "" {
		return fmt.Errorf("file id is required: %w", domain.ErrBadRequest)
	}
	return s.images.Delete(ctx, fileID)
}

func (s *service) Create(ctx context.Context, sellerID string, req domain.CreateProductRequest) (*domain.Product, error) {
	seller, err := s.sellers.Get(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.ShopID == "" {
		return nil, fmt.Errorf("create a shop before listing products: %w", domain.ErrBadRequest)
	}
	if _, err := s.products.GetBySlug(ctx, req.Slug); err == nil {
		return nil, fmt.Errorf("slug already in use, choose a different one: %w", domain.ErrConflict)
	}

	now := s.now().UTC()
	p := &domain.Product{
		ProductID:           id.New(),
		ShopID:              seller.ShopID,
		Slug:                req.Slug,
		Title:               req.Title,
		ShortDescription:    req.ShortDescription,
		DetailedDescription: req.DetailedDescription,
		Category:            req.Category,
		SubCategory:         req.SubCategory,
		Tags:                req.Tags,
		Brand:               req.Brand,
		Colors:              req.Colors,
		Sizes:               req.Sizes,
		Stock:               req.Stock,
		SalePrice:           req.SalePrice,
		RegularPrice:        req.RegularPrice,
		DiscountCodeIDs:     req.DiscountCodeIDs,
		CashOnDelivery:      req.CashOnDelivery,
		Warranty:            req.Warranty,
		VideoURL:            req.VideoURL,
		CustomProperties:    req.CustomProperties,
		Images:              req.Images,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.products.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p.IsDeleted {
		return nil, fmt.Errorf("product not found: %w", domain.ErrNotFound)
	}
	return p, nil
}

func (s *service) ListShopProducts(ctx context.Context, sellerID string) ([]domain.Product, error) {
	seller, err := s.sellers.Get(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.ShopID == "" {
		return []domain.Product{}, nil
	}
	return s.products.ListByShop(ctx, seller.ShopID)
}

func (s *service) SoftDelete(ctx context.Context, sellerID, productID string) (*domain.Product, error) {
	p, err := s.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	if p.IsDeleted {
		return nil, fmt.Errorf("product is already scheduled for deletion: %w", domain.ErrBadRequest)
	}

	purgeAt := s.now().UTC().Add(s.retention)
	updates := map[string]interface{}{
		"is_deleted": true,
		"deleted_at": purgeAt.Format(time.RFC3339),
	}
	if err := s.products.Update(ctx, productID, updates); err != nil {
		return nil, err
	}
	p.IsDeleted = true
	p.DeletedAt = &purgeAt
	return p, nil
}

func (s *service) Restore(ctx context.Context, sellerID, productID string) (*domain.Product, error) {
	p, err := s.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsDeleted {
		return nil, fmt.Errorf("product is not scheduled for deletion: %w", domain.ErrBadRequest)
	}

	updates := map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
	}
	if err := s.products.Update(ctx, productID, updates); err != nil {
		return nil, err
	}
	p.IsDeleted = false
	p.DeletedAt = nil
	return p, nil
}

// ownedProduct loads the product and verifies it belongs to the seller's shop.
func (s *service) ownedProduct(ctx context.Context, sellerID, productID string) (*domain.Product, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	seller, err := s.sellers.Get(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.ShopID == "" || p.ShopID != seller.ShopID {
		return nil, fmt.Errorf("product belongs to another shop: %w", domain.ErrForbidden)
	}
	return p, nil
}
