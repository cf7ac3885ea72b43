package orders

import (
	"github.com/google/uuid"
)

// CreateOrderInput is the checkout form submission. Required fields mirror
// what the storefront collects before handing off to the gateway.
type CreateOrderInput struct {
	FirstName    string    `json:"firstName" validate:"required,min=1,max=100"`
	LastName     string    `json:"lastName" validate:"required,min=1,max=100"`
	Email        *string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string    `json:"phone" validate:"required,min=9,max=16"`
	AddressLine1 string    `json:"addressLine1" validate:"required,min=1,max=300"`
	AddressLine2 *string   `json:"addressLine2,omitempty" validate:"omitempty,max=300"`
	City         string    `json:"city" validate:"required,min=1,max=100"`
	Province     string    `json:"province" validate:"required,min=1,max=100"`
	ProductID    uuid.UUID `json:"productId" validate:"required"`
	Color        *string   `json:"color,omitempty" validate:"omitempty,max=60"`
	Quantity     int       `json:"quantity" validate:"omitempty,min=1,max=100"`
	PaymentMethod string   `json:"paymentMethod,omitempty" validate:"omitempty,oneof=PAYHERE CASH_ON_DELIVERY"`
}

// CreateOrderResult is returned to the storefront after a successful create.
type CreateOrderResult struct {
	OrderID string `json:"orderId"`
	Order   any    `json:"order"`
}
