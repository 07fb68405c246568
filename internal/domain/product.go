package domain

import "time"

// ProductImage references an uploaded object in the image store.
type ProductImage struct {
	FileID string `json:"file_id" dynamodbav:"file_id"`
	URL    string `json:"url" dynamodbav:"url"`
}

// Product belongs to a shop. Deletion is soft: DeleteProduct marks the row and
// schedules a purge timestamp; the hourly sweep removes rows whose timestamp
// has elapsed. Restore clears the mark before the sweep catches the row.
type Product struct {
	ProductID           string            `json:"id" dynamodbav:"product_id"`
	ShopID              string            `json:"shop_id" dynamodbav:"shop_id"`
	Slug                string            `json:"slug" dynamodbav:"slug"`
	Title               string            `json:"title" dynamodbav:"title"`
	ShortDescription    string            `json:"short_description" dynamodbav:"short_description"`
	DetailedDescription string            `json:"detailed_description,omitempty" dynamodbav:"detailed_description"`
	Category            string            `json:"category" dynamodbav:"category"`
	SubCategory         string            `json:"sub_category" dynamodbav:"sub_category"`
	Tags                []string          `json:"tags" dynamodbav:"tags"`
	Brand               string            `json:"brand,omitempty" dynamodbav:"brand"`
	Colors              []string          `json:"colors,omitempty" dynamodbav:"colors"`
	Sizes               []string          `json:"sizes,omitempty" dynamodbav:"sizes"`
	Stock               int               `json:"stock" dynamodbav:"stock"`
	SalePrice           float64           `json:"sale_price" dynamodbav:"sale_price"`
	RegularPrice        float64           `json:"regular_price" dynamodbav:"regular_price"`
	DiscountCodeIDs     []string          `json:"discount_codes,omitempty" dynamodbav:"discount_code_ids"`
	CashOnDelivery      bool              `json:"cash_on_delivery" dynamodbav:"cash_on_delivery"`
	Warranty            string            `json:"warranty,omitempty" dynamodbav:"warranty"`
	VideoURL            string            `json:"video_url,omitempty" dynamodbav:"video_url"`
	CustomProperties    map[string]string `json:"custom_properties,omitempty" dynamodbav:"custom_properties"`
	Images              []ProductImage    `json:"images" dynamodbav:"images"`
	IsDeleted           bool              `json:"is_deleted" dynamodbav:"is_deleted"`
	DeletedAt           *time.Time        `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt           time.Time         `json:"created" dynamodbav:"created_at"`
	UpdatedAt           time.Time         `json:"updated" dynamodbav:"updated_at"`
}

// CreateProductRequest carries the seller-supplied product payload.
type CreateProductRequest struct {
	Title               string            `json:"title" validate:"required"`
	Slug                string            `json:"slug" validate:"required"`
	ShortDescription    string            `json:"short_description" validate:"required"`
	DetailedDescription string            `json:"detailed_description"`
	Category            string            `json:"category" validate:"required"`
	SubCategory         string            `json:"sub_category" validate:"required"`
	Tags                []string          `json:"tags" validate:"required,min=1"`
	Brand               string            `json:"brand"`
	Colors              []string          `json:"colors"`
	Sizes               []string          `json:"sizes"`
	Stock               int               `json:"stock" validate:"required,gt=0"`
	SalePrice           float64           `json:"sale_price" validate:"required,gt=0"`
	RegularPrice        float64           `json:"regular_price" validate:"required,gt=0"`
	DiscountCodeIDs     []string          `json:"discount_codes"`
	CashOnDelivery      bool              `json:"cash_on_delivery"`
	Warranty            string            `json:"warranty"`
	VideoURL            string            `json:"video_url"`
	CustomProperties    map[string]string `json:"custom_properties"`
	Images              []ProductImage    `json:"images" validate:"required,min=1"`
}

// DiscountCode is seller-owned and applied to products by id reference.
type DiscountCode struct {
	DiscountID    string    `json:"id" dynamodbav:"discount_id"`
	SellerID      string    `json:"seller_id" dynamodbav:"seller_id"`
	PublicName    string    `json:"public_name" dynamodbav:"public_name"`
	DiscountType  string    `json:"discount_type" dynamodbav:"discount_type"` // "percentage" | "flat"
	DiscountValue float64   `json:"discount_value" dynamodbav:"discount_value"`
	DiscountCode  string    `json:"discount_code" dynamodbav:"discount_code"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

// CreateDiscountCodeRequest carries a new discount code definition.
type CreateDiscountCodeRequest struct {
	PublicName    string  `json:"public_name" validate:"required"`
	DiscountType  string  `json:"discount_type" validate:"required,oneof=percentage flat"`
	DiscountValue float64 `json:"discount_value" validate:"required,gt=0"`
	DiscountCode  string  `json:"discount_code" validate:"required"`
}

// SiteConfig is the singleton category catalogue served to both storefronts.
type SiteConfig struct {
	ConfigID      string              `json:"-" dynamodbav:"config_id"`
	Categories    []string            `json:"categories" dynamodbav:"categories"`
	SubCategories map[string][]string `json:"sub_categories" dynamodbav:"sub_categories"`
}
