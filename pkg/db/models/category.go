package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kavindu-dev/furnicraft-backend/pkg/enums"
)

// Category groups products for storefront segmentation.
type Category struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string             `gorm:"column:name;not null" json:"name"`
	Description *string            `gorm:"column:description" json:"description,omitempty"`
	Type        enums.CategoryType `gorm:"column:type;not null" json:"type"`
	Image       *string            `gorm:"column:image" json:"image,omitempty"`
	Products    []Product          `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
