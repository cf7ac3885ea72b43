package dashboard

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kavindu-dev/furnicraft-backend/pkg/db/models"
	"github.com/kavindu-dev/furnicraft-backend/pkg/enums"
)

var statsNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  dimensions TEXT,
  features TEXT,
  colors TEXT,
  images TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_first_name TEXT NOT NULL,
  customer_last_name TEXT NOT NULL,
  email TEXT,
  phone TEXT NOT NULL,
  address_line1 TEXT NOT NULL,
  address_line2 TEXT,
  city TEXT NOT NULL,
  province TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  unit_price NUMERIC NOT NULL,
  color TEXT,
  product_image TEXT,
  category_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  total NUMERIC NOT NULL,
  payment_method TEXT NOT NULL DEFAULT 'PAYHERE',
  payment_status TEXT NOT NULL DEFAULT 'PENDING',
  amount_paid NUMERIC NOT NULL DEFAULT 0,
  payment_date DATETIME,
  payhere_payment_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, firstName, phone, productName string, total string, qty int, createdAt time.Time) {
	t.Helper()

	order := &models.Order{
		ID:                uuid.New(),
		CustomerFirstName: firstName,
		CustomerLastName:  "Perera",
		Phone:             phone,
		AddressLine1:      "12 Galle Road",
		City:              "Colombo",
		Province:          "Western",
		ProductID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(productName)),
		ProductName:       productName,
		UnitPrice:         decimal.RequireFromString(total),
		CategoryName:      "Living Room",
		Quantity:          qty,
		Total:             decimal.RequireFromString(total),
		PaymentMethod:     enums.PaymentMethodPayHere,
		PaymentStatus:     enums.PaymentStatusPending,
		AmountPaid:        decimal.Zero,
	}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("created_at", createdAt).Error)
}

func TestStatsOnEmptyStore(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc, err := NewService(db, func() time.Time { return statsNow })
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.True(t, stats.TotalRevenue.IsZero())
	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.TotalProducts)
	assert.Zero(t, stats.TotalCustomers)
	assert.Empty(t, stats.RecentOrders)
	assert.Empty(t, stats.TopProducts)

	// a fresh store reports zero change, never NaN
	assert.Zero(t, stats.RevenueChangePct)
	assert.Zero(t, stats.OrdersChangePct)
	assert.Zero(t, stats.CustomersChangePct)

	require.Len(t, stats.MonthlyRevenue, 6)
	assert.Equal(t, time.October, stats.MonthlyRevenue[0].Month)
	assert.Equal(t, 2025, stats.MonthlyRevenue[0].Year)
	assert.Equal(t, time.March, stats.MonthlyRevenue[5].Month)
	for _, bucket := range stats.MonthlyRevenue {
		assert.True(t, bucket.Revenue.IsZero())
	}
}

func TestStatsAggregatesTotalsAndCustomers(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc, err := NewService(db, func() time.Time { return statsNow })
	require.NoError(t, err)

	// same name+phone tuple twice counts as one customer
	seedOrder(t, db, "Nimal", "0771111111", "Teak Coffee Table", "45000.00", 1, statsNow.AddDate(0, 0, -1))
	seedOrder(t, db, "Nimal", "0771111111", "Rattan Armchair", "22000.00", 2, statsNow.AddDate(0, 0, -2))
	seedOrder(t, db, "Kumari", "0772222222", "Teak Coffee Table", "45000.00", 3, statsNow.AddDate(0, 0, -3))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("112000.00")),
		"got %s", stats.TotalRevenue)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.TotalCustomers)
	require.Len(t, stats.RecentOrders, 3)
	assert.Equal(t, "Teak Coffee Table", stats.RecentOrders[0].ProductName)

	require.NotEmpty(t, stats.TopProducts)
	assert.Equal(t, "Teak Coffee Table", stats.TopProducts[0].ProductName)
	assert.Equal(t, int64(4), stats.TopProducts[0].TotalQuantity)
	assert.Equal(t, int64(2), stats.TopProducts[0].OrderCount)
}

func TestStatsBucketsTrailingSixMonthsOldestFirst(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc, err := NewService(db, func() time.Time { return statsNow })
	require.NoError(t, err)

	seedOrder(t, db, "Nimal", "0771111111", "Teak Coffee Table", "10000.00", 1,
		time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC))
	seedOrder(t, db, "Kumari", "0772222222", "Rattan Armchair", "20000.00", 1,
		time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC))
	seedOrder(t, db, "Saman", "0773333333", "Mahogany Dining Set", "30000.00", 1,
		time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	// outside the window, must be ignored
	seedOrder(t, db, "Old", "0774444444", "Vintage Cabinet", "99999.00", 1,
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats.MonthlyRevenue, 6)
	assert.True(t, stats.MonthlyRevenue[0].Revenue.Equal(decimal.RequireFromString("10000.00"))) // Oct 2025
	assert.True(t, stats.MonthlyRevenue[1].Revenue.IsZero())                                     // Nov
	assert.True(t, stats.MonthlyRevenue[3].Revenue.Equal(decimal.RequireFromString("20000.00"))) // Jan 2026
	assert.True(t, stats.MonthlyRevenue[5].Revenue.Equal(decimal.RequireFromString("30000.00"))) // Mar 2026
}

func TestStatsMonthOverMonthChange(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc, err := NewService(db, func() time.Time { return statsNow })
	require.NoError(t, err)

	// February: one order, 10000
	seedOrder(t, db, "Nimal", "0771111111", "Teak Coffee Table", "10000.00", 1,
		time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))
	// March so far: two orders, 30000, two distinct customers
	seedOrder(t, db, "Kumari", "0772222222", "Rattan Armchair", "20000.00", 1,
		time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC))
	seedOrder(t, db, "Saman", "0773333333", "Mahogany Dining Set", "10000.00", 1,
		time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 200.0, stats.RevenueChangePct, 0.001)
	assert.InDelta(t, 100.0, stats.OrdersChangePct, 0.001)
	assert.InDelta(t, 100.0, stats.CustomersChangePct, 0.001)
}

func TestStatsZeroPriorMonthReportsZeroChange(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc, err := NewService(db, func() time.Time { return statsNow })
	require.NoError(t, err)

	seedOrder(t, db, "Kumari", "0772222222", "Rattan Armchair", "20000.00", 1,
		time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC))

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.RevenueChangePct)
	assert.Zero(t, stats.OrdersChangePct)
	assert.Zero(t, stats.CustomersChangePct)
}
