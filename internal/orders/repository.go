package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kavindu-dev/furnicraft-backend/pkg/db/models"
	"github.com/kavindu-dev/furnicraft-backend/pkg/enums"
)

// Repository persists orders and applies payment-status mutations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new order row.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// ListAll returns every order, newest first. The admin console is the only
// consumer; there is deliberately no pagination at current volumes.
func (r *Repository) ListAll(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads a single order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Delete removes an order by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{}).Error
}

// PaymentUpdate is the single conditional field update applied by the
// gateway-notification handler. Applying the same update twice leaves the
// row unchanged.
type PaymentUpdate struct {
	Status      enums.PaymentStatus
	AmountPaid  decimal.Decimal
	PaymentDate *time.Time
	PaymentID   *string
}

// ApplyPaymentUpdate mutates the payment fields of one order keyed by id.
func (r *Repository) ApplyPaymentUpdate(ctx context.Context, orderID uuid.UUID, update PaymentUpdate) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"payment_status":     update.Status,
			"amount_paid":        update.AmountPaid,
			"payment_date":       update.PaymentDate,
			"payhere_payment_id": update.PaymentID,
		}).
		Error
}
