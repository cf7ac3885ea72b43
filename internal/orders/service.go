package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kavindu-dev/furnicraft-backend/internal/payhere"
	"github.com/kavindu-dev/furnicraft-backend/pkg/db/models"
	"github.com/kavindu-dev/furnicraft-backend/pkg/enums"
	pkgerrors "github.com/kavindu-dev/furnicraft-backend/pkg/errors"
	"github.com/kavindu-dev/furnicraft-backend/pkg/logger"
	"github.com/kavindu-dev/furnicraft-backend/pkg/metrics"
)

// productFinder is satisfied by the catalog repository.
type productFinder interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// smsSender is satisfied by the notify client. A nil sender disables SMS.
type smsSender interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

// replayGuard is satisfied by the payhere replay guard. A nil guard disables
// the redis short-circuit; the handler stays idempotent without it.
type replayGuard interface {
	CheckAndMark(ctx context.Context, paymentID, statusCode string) (bool, error)
	Delete(ctx context.Context, paymentID, statusCode string) error
}

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ApplyNotification(ctx context.Context, n payhere.Notification) error
}

type service struct {
	repo     *Repository
	products productFinder
	adapter  *payhere.Adapter
	guard    replayGuard
	sms      smsSender
	payments *metrics.PaymentMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// ServiceParams carries the order service dependencies.
type ServiceParams struct {
	Repo     *Repository
	Products productFinder
	Adapter  *payhere.Adapter
	Guard    replayGuard
	SMS      smsSender
	Payments *metrics.PaymentMetrics
	Logger   *logger.Logger
	Now      func() time.Time
}

// NewService builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if params.Adapter == nil {
		return nil, fmt.Errorf("payhere adapter required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		adapter:  params.Adapter,
		guard:    params.Guard,
		sms:      params.SMS,
		payments: params.Payments,
		logg:     params.Logger,
		now:      now,
	}, nil
}

// Create snapshots the product into a new PENDING order. The snapshot is
// frozen at purchase time: later catalog edits never alter it.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.products.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	if input.Color != nil && !containsColor(product.Colors, *input.Color) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product color")
	}

	method := enums.PaymentMethodPayHere
	if input.PaymentMethod != "" {
		parsed, err := enums.ParsePaymentMethod(input.PaymentMethod)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		method = parsed
	}

	unitPrice := tierUnitPrice(product, quantity)
	categoryName := ""
	if product.Category != nil {
		categoryName = product.Category.Name
	}

	order := &models.Order{
		ID:                uuid.New(),
		CustomerFirstName: input.FirstName,
		CustomerLastName:  input.LastName,
		Email:             input.Email,
		Phone:             input.Phone,
		AddressLine1:      input.AddressLine1,
		AddressLine2:      input.AddressLine2,
		City:              input.City,
		Province:          input.Province,
		ProductID:         product.ID,
		ProductName:       product.Name,
		UnitPrice:         unitPrice,
		Color:             input.Color,
		ProductImage:      firstImage(product),
		CategoryName:      categoryName,
		Quantity:          quantity,
		Total:             unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		PaymentMethod:     method,
		PaymentStatus:     enums.PaymentStatusPending,
		AmountPaid:        decimal.Zero,
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	if s.sms != nil {
		if err := s.sms.SendOrderConfirmation(ctx, created); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, created.ID.String()), "order confirmation sms failed: "+err.Error())
		}
	}

	return created, nil
}

func (s *service) List(ctx context.Context) ([]models.Order, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

// ApplyNotification authenticates and applies one gateway callback. It is
// idempotent under redelivery: PayHere retries notifications on its own
// schedule, so the same payload may arrive more than once.
func (s *service) ApplyNotification(ctx context.Context, n payhere.Notification) error {
	if err := s.adapter.Verify(n); err != nil {
		s.payments.IncRejected("verification")
		return err
	}

	status := payhere.MapStatusCode(n.StatusCode)

	amount, err := decimal.NewFromString(n.PayHereAmount)
	if err != nil {
		s.payments.IncRejected("malformed_amount")
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed notification amount")
	}

	orderID, err := uuid.Parse(n.OrderID)
	if err != nil {
		s.payments.IncRejected("malformed_order_id")
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed order id")
	}

	if s.guard != nil {
		seen, guardErr := s.guard.CheckAndMark(ctx, n.PaymentID, n.StatusCode)
		if guardErr != nil {
			// The guard is an optimization; the update below is idempotent.
			if s.logg != nil {
				s.logg.Warn(ctx, "notification replay guard unavailable: "+guardErr.Error())
			}
		} else if seen {
			if s.logg != nil {
				s.logg.Info(s.logg.WithOrderID(ctx, n.OrderID), "duplicate gateway notification ignored")
			}
			return nil
		}
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		s.unmark(ctx, n)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	// A PAID order is terminal. Out-of-order redelivery of an earlier
	// status must not claw back a completed payment.
	if order.PaymentStatus == enums.PaymentStatusPaid && status != enums.PaymentStatusPaid {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, n.OrderID),
				fmt.Sprintf("ignoring %s notification for already-paid order", status))
		}
		return nil
	}

	update := PaymentUpdate{Status: status, AmountPaid: decimal.Zero}
	if n.PaymentID != "" {
		paymentID := n.PaymentID
		update.PaymentID = &paymentID
	}
	if status == enums.PaymentStatusPaid {
		paidAt := s.now()
		update.AmountPaid = amount
		update.PaymentDate = &paidAt
	}

	if err := s.repo.ApplyPaymentUpdate(ctx, orderID, update); err != nil {
		s.unmark(ctx, n)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply payment update")
	}

	s.payments.IncProcessed(status.String())
	if s.logg != nil {
		fields := s.logg.WithFields(ctx, map[string]any{
			"order_id":       n.OrderID,
			"payment_status": status.String(),
		})
		s.logg.Info(fields, "gateway notification applied")
	}
	return nil
}

// unmark clears the replay-guard entry so the provider's retry can succeed.
func (s *service) unmark(ctx context.Context, n payhere.Notification) {
	if s.guard == nil {
		return
	}
	if err := s.guard.Delete(ctx, n.PaymentID, n.StatusCode); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "clearing replay guard failed: "+err.Error())
	}
}

// tierUnitPrice picks the deepest quantity break the order qualifies for.
func tierUnitPrice(product *models.Product, quantity int) decimal.Decimal {
	price := product.Price
	bestMin := 0
	for _, tier := range product.PriceTiers {
		if quantity >= tier.MinQty && tier.MinQty > bestMin {
			bestMin = tier.MinQty
			price = tier.UnitPrice
		}
	}
	return price
}

func containsColor(colors []string, color string) bool {
	for _, candidate := range colors {
		if candidate == color {
			return true
		}
	}
	return false
}

func firstImage(product *models.Product) *string {
	if len(product.Images) == 0 {
		return nil
	}
	image := product.Images[0]
	return &image
}
