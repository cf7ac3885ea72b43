package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryInput is the admin payload for a new category.
type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Type        string  `json:"type" validate:"required,oneof=IMPORTED_USED BRAND_NEW"`
	Image       *string `json:"image,omitempty" validate:"omitempty,url"`
}

// UpdateCategoryInput mutates an existing category; ID is required.
type UpdateCategoryInput struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required,min=1,max=120"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Type        string    `json:"type" validate:"required,oneof=IMPORTED_USED BRAND_NEW"`
	Image       *string   `json:"image,omitempty" validate:"omitempty,url"`
}

// PriceTierInput is one quantity break on a product.
type PriceTierInput struct {
	MinQty    int             `json:"minQty" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"required"`
}

// CreateProductInput is the admin payload for a new product.
type CreateProductInput struct {
	CategoryID  uuid.UUID        `json:"categoryId" validate:"required"`
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=10000"`
	Price       decimal.Decimal  `json:"price" validate:"required"`
	Dimensions  *string          `json:"dimensions,omitempty" validate:"omitempty,max=500"`
	Features    []string         `json:"features,omitempty" validate:"omitempty,dive,min=1,max=300"`
	Colors      []string         `json:"colors,omitempty" validate:"omitempty,dive,min=1,max=60"`
	Images      []string         `json:"images,omitempty" validate:"omitempty,dive,url"`
	PriceTiers  []PriceTierInput `json:"priceTiers,omitempty" validate:"omitempty,dive"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

// UpdateProductInput mutates an existing product; ID is required in the body.
type UpdateProductInput struct {
	ID          uuid.UUID        `json:"id" validate:"required"`
	CategoryID  uuid.UUID        `json:"categoryId" validate:"required"`
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=10000"`
	Price       decimal.Decimal  `json:"price" validate:"required"`
	Dimensions  *string          `json:"dimensions,omitempty" validate:"omitempty,max=500"`
	Features    []string         `json:"features,omitempty" validate:"omitempty,dive,min=1,max=300"`
	Colors      []string         `json:"colors,omitempty" validate:"omitempty,dive,min=1,max=60"`
	Images      []string         `json:"images,omitempty" validate:"omitempty,dive,url"`
	PriceTiers  []PriceTierInput `json:"priceTiers,omitempty" validate:"omitempty,dive"`
	IsActive    *bool            `json:"isActive,omitempty"`
}

// CategorySummary is a category plus its aggregate product count.
type CategorySummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Type         string    `json:"type"`
	Image        *string   `json:"image,omitempty"`
	ProductCount int64     `json:"productCount"`
	Products     any       `json:"products,omitempty"`
}

// SimilarQuery selects products sharing a category, excluding one id.
type SimilarQuery struct {
	CategoryID uuid.UUID
	ExcludeID  uuid.UUID
	Limit      int
}
