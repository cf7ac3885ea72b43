package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing. Orders copy a snapshot of it at purchase
// time, so later edits never alter historical orders.
type Product struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID  uuid.UUID          `gorm:"column:category_id;type:uuid;not null" json:"categoryId"`
	Name        string             `gorm:"column:name;not null" json:"name"`
	Description *string            `gorm:"column:description" json:"description,omitempty"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	Dimensions  *string            `gorm:"column:dimensions" json:"dimensions,omitempty"`
	Features    pq.StringArray     `gorm:"column:features;type:text[]" json:"features"`
	Colors      pq.StringArray     `gorm:"column:colors;type:text[]" json:"colors"`
	Images      pq.StringArray     `gorm:"column:images;type:text[]" json:"images"`
	IsActive    bool               `gorm:"column:is_active;not null;default:true" json:"isActive"`
	PriceTiers  []ProductPriceTier `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"priceTiers,omitempty"`
	Category    *Category          `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// ProductPriceTier is a quantity-based price break.
type ProductPriceTier struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"productId"`
	MinQty    int             `gorm:"column:min_qty;not null" json:"minQty"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
}
