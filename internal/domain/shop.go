package domain

import "time"

// Shop is the selling surface a seller manages. Products and discount codes
// hang off the shop and seller respectively.
type Shop struct {
	ShopID       string    `json:"id" dynamodbav:"shop_id"`
	SellerID     string    `json:"seller_id" dynamodbav:"seller_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Bio          string    `json:"bio" dynamodbav:"bio"`
	Address      string    `json:"address" dynamodbav:"address"`
	OpeningHours string    `json:"opening_hours" dynamodbav:"opening_hours"`
	Website      string    `json:"website,omitempty" dynamodbav:"website"`
	Category     string    `json:"category" dynamodbav:"category"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

// CreateShopRequest carries the seller-supplied shop profile.
type CreateShopRequest struct {
	Name         string `json:"name" validate:"required"`
	Bio          string `json:"bio" validate:"required"`
	Address      string `json:"address" validate:"required"`
	OpeningHours string `json:"opening_hours" validate:"required"`
	Website      string `json:"website" validate:"omitempty,url"`
	Category     string `json:"category" validate:"required"`
}
