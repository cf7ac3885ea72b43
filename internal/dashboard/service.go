package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kavindu-dev/furnicraft-backend/pkg/db/models"
	pkgerrors "github.com/kavindu-dev/furnicraft-backend/pkg/errors"
)

const (
	recentOrderCount  = 5
	topProductCount   = 5
	trailingMonths    = 6
	customerTupleExpr = "customer_first_name || ' ' || customer_last_name || '|' || phone"
)

// Stats is the full dashboard aggregate, recomputed fresh on every call.
type Stats struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalOrders    int64           `json:"totalOrders"`
	TotalProducts  int64           `json:"totalProducts"`
	TotalCustomers int64           `json:"totalCustomers"`

	RecentOrders []models.Order `json:"recentOrders"`

	MonthlyRevenue []MonthBucket `json:"monthlyRevenue"`
	TopProducts    []TopProduct  `json:"topProducts"`

	RevenueChangePct   float64 `json:"revenueChangePct"`
	OrdersChangePct    float64 `json:"ordersChangePct"`
	CustomersChangePct float64 `json:"customersChangePct"`
}

// MonthBucket is one calendar month of revenue.
type MonthBucket struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopProduct ranks a product by total quantity sold.
type TopProduct struct {
	ProductID     uuid.UUID `json:"productId"`
	ProductName   string    `json:"productName"`
	TotalQuantity int64     `json:"totalQuantity"`
	OrderCount    int64     `json:"orderCount"`
}

// Service recomputes storefront statistics from the full order history.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService builds the dashboard aggregator.
func NewService(db *gorm.DB, now func() time.Time) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{db: db, now: now}, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{TotalRevenue: decimal.Zero}

	if err := s.totals(ctx, stats); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dashboard totals")
	}
	if err := s.recentOrders(ctx, stats); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dashboard recent orders")
	}
	if err := s.monthlyRevenue(ctx, stats); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dashboard monthly revenue")
	}
	if err := s.topProducts(ctx, stats); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dashboard top products")
	}
	if err := s.monthOverMonth(ctx, stats); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dashboard month-over-month")
	}

	return stats, nil
}

func (s *service) totals(ctx context.Context, stats *Stats) error {
	var revenue decimal.NullDecimal
	if err := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("SUM(total)").
		Scan(&revenue).
		Error; err != nil {
		return err
	}
	if revenue.Valid {
		stats.TotalRevenue = revenue.Decimal
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return err
	}

	// Customers are a distinct name+phone tuple, not a normalized entity.
	return s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(DISTINCT " + customerTupleExpr + ")").
		Scan(&stats.TotalCustomers).
		Error
}

func (s *service) recentOrders(ctx context.Context, stats *Stats) error {
	return s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(recentOrderCount).
		Find(&stats.RecentOrders).
		Error
}

// monthlyRevenue buckets the trailing six calendar months, oldest first.
// Empty months are present with zero revenue.
func (s *service) monthlyRevenue(ctx context.Context, stats *Stats) error {
	now := s.now()
	windowStart := monthStart(now).AddDate(0, -(trailingMonths - 1), 0)

	var rows []models.Order
	if err := s.db.WithContext(ctx).
		Select("total", "created_at").
		Where("created_at >= ?", windowStart).
		Find(&rows).
		Error; err != nil {
		return err
	}

	buckets := make([]MonthBucket, 0, trailingMonths)
	for i := 0; i < trailingMonths; i++ {
		at := windowStart.AddDate(0, i, 0)
		buckets = append(buckets, MonthBucket{
			Year:    at.Year(),
			Month:   at.Month(),
			Revenue: decimal.Zero,
		})
	}
	for _, order := range rows {
		for i := range buckets {
			if order.CreatedAt.Year() == buckets[i].Year && order.CreatedAt.Month() == buckets[i].Month {
				buckets[i].Revenue = buckets[i].Revenue.Add(order.Total)
				break
			}
		}
	}

	stats.MonthlyRevenue = buckets
	return nil
}

func (s *service) topProducts(ctx context.Context, stats *Stats) error {
	return s.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("product_id, product_name, SUM(quantity) AS total_quantity, COUNT(*) AS order_count").
		Group("product_id, product_name").
		Order("total_quantity DESC").
		Limit(topProductCount).
		Scan(&stats.TopProducts).
		Error
}

func (s *service) monthOverMonth(ctx context.Context, stats *Stats) error {
	now := s.now()
	currentStart := monthStart(now)
	priorStart := currentStart.AddDate(0, -1, 0)

	current, err := s.windowAggregates(ctx, currentStart, now)
	if err != nil {
		return err
	}
	prior, err := s.windowAggregates(ctx, priorStart, currentStart)
	if err != nil {
		return err
	}

	stats.RevenueChangePct = percentChange(current.revenue, prior.revenue)
	stats.OrdersChangePct = percentChangeInt(current.orders, prior.orders)
	stats.CustomersChangePct = percentChangeInt(current.customers, prior.customers)
	return nil
}

type windowAggregates struct {
	revenue   decimal.Decimal
	orders    int64
	customers int64
}

func (s *service) windowAggregates(ctx context.Context, from, to time.Time) (windowAggregates, error) {
	agg := windowAggregates{revenue: decimal.Zero}
	window := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", from, to)

	var revenue decimal.NullDecimal
	if err := window.Session(&gorm.Session{}).Select("SUM(total)").Scan(&revenue).Error; err != nil {
		return agg, err
	}
	if revenue.Valid {
		agg.revenue = revenue.Decimal
	}

	if err := window.Session(&gorm.Session{}).Count(&agg.orders).Error; err != nil {
		return agg, err
	}

	err := window.Session(&gorm.Session{}).
		Select("COUNT(DISTINCT " + customerTupleExpr + ")").
		Scan(&agg.customers).
		Error
	return agg, err
}

// percentChange returns 0 when the prior denominator is zero; a fresh store
// must never report NaN or Inf.
func percentChange(current, prior decimal.Decimal) float64 {
	if prior.IsZero() {
		return 0
	}
	change, _ := current.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100)).Float64()
	return change
}

func percentChangeInt(current, prior int64) float64 {
	if prior == 0 {
		return 0
	}
	return (float64(current) - float64(prior)) / float64(prior) * 100
}

func monthStart(at time.Time) time.Time {
	return time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
}
