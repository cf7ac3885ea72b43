package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kavindu-dev/furnicraft-backend/pkg/enums"
)

// Order is one customer purchase intent. Product fields are denormalized at
// checkout time; there is no live foreign key back to the catalog row.
type Order struct {
	ID uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	CustomerFirstName string  `gorm:"column:customer_first_name;not null" json:"customerFirstName"`
	CustomerLastName  string  `gorm:"column:customer_last_name;not null" json:"customerLastName"`
	Email             *string `gorm:"column:email" json:"email,omitempty"`
	Phone             string  `gorm:"column:phone;not null" json:"phone"`
	AddressLine1      string  `gorm:"column:address_line1;not null" json:"addressLine1"`
	AddressLine2      *string `gorm:"column:address_line2" json:"addressLine2,omitempty"`
	City              string  `gorm:"column:city;not null" json:"city"`
	Province          string  `gorm:"column:province;not null" json:"province"`

	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"productId"`
	ProductName  string          `gorm:"column:product_name;not null" json:"productName"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unitPrice"`
	Color        *string         `gorm:"column:color" json:"color,omitempty"`
	ProductImage *string         `gorm:"column:product_image" json:"productImage,omitempty"`
	CategoryName string          `gorm:"column:category_name;not null" json:"categoryName"`

	Quantity int             `gorm:"column:quantity;not null" json:"quantity"`
	Total    decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null" json:"total"`

	PaymentMethod    enums.PaymentMethod `gorm:"column:payment_method;not null;default:PAYHERE" json:"paymentMethod"`
	PaymentStatus    enums.PaymentStatus `gorm:"column:payment_status;not null;default:PENDING" json:"paymentStatus"`
	AmountPaid       decimal.Decimal     `gorm:"column:amount_paid;type:numeric(12,2);not null;default:0" json:"amountPaid"`
	PaymentDate      *time.Time          `gorm:"column:payment_date" json:"paymentDate,omitempty"`
	PayHerePaymentID *string             `gorm:"column:payhere_payment_id" json:"payherePaymentId,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
