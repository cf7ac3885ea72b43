package orders

import (
	"context"
	"crypto/md5"
	"encoding/hex"
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

	"github.com/kavindu-dev/furnicraft-backend/internal/catalog"
	"github.com/kavindu-dev/furnicraft-backend/internal/payhere"
	"github.com/kavindu-dev/furnicraft-backend/pkg/config"
	"github.com/kavindu-dev/furnicraft-backend/pkg/db/models"
	"github.com/kavindu-dev/furnicraft-backend/pkg/enums"
	pkgerrors "github.com/kavindu-dev/furnicraft-backend/pkg/errors"
)

const (
	testMerchantID     = "1211149"
	testMerchantSecret = "test-merchant-secret"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  type TEXT NOT NULL,
  image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
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
		`CREATE TABLE IF NOT EXISTS product_price_tiers (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  min_qty INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL
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

type recordingSMS struct {
	orders []uuid.UUID
	err    error
}

func (r *recordingSMS) SendOrderConfirmation(_ context.Context, order *models.Order) error {
	r.orders = append(r.orders, order.ID)
	return r.err
}

type fakeGuard struct {
	seen    bool
	err     error
	marks   int
	deletes int
}

func (g *fakeGuard) CheckAndMark(context.Context, string, string) (bool, error) {
	g.marks++
	return g.seen, g.err
}

func (g *fakeGuard) Delete(context.Context, string, string) error {
	g.deletes++
	return nil
}

type fixture struct {
	db          *gorm.DB
	svc         Service
	repo        *Repository
	catalogRepo *catalog.Repository
	sms         *recordingSMS
	guard       *fakeGuard
}

func newFixture(t *testing.T, withGuard bool) *fixture {
	t.Helper()

	db := setupOrdersTestDB(t)

	adapter, err := payhere.NewAdapter(
		config.PayHereConfig{MerchantID: testMerchantID, MerchantSecret: testMerchantSecret, Currency: "LKR"},
		config.AppConfig{Env: "development", BaseURL: "https://shop.example.lk"},
	)
	require.NoError(t, err)

	f := &fixture{
		db:          db,
		repo:        NewRepository(db),
		catalogRepo: catalog.NewRepository(db),
		sms:         &recordingSMS{},
	}

	params := ServiceParams{
		Repo:     f.repo,
		Products: f.catalogRepo,
		Adapter:  adapter,
		SMS:      f.sms,
		Now:      func() time.Time { return fixedNow },
	}
	if withGuard {
		f.guard = &fakeGuard{}
		params.Guard = f.guard
	}

	svc, err := NewService(params)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func seedProduct(t *testing.T, f *fixture) *models.Product {
	t.Helper()

	category := &models.Category{
		ID:   uuid.New(),
		Name: "Living Room",
		Type: enums.CategoryTypeBrandNew,
	}
	require.NoError(t, f.db.Create(category).Error)

	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: category.ID,
		Name:       "Teak Coffee Table",
		Price:      decimal.RequireFromString("45000.00"),
		Colors:     []string{"natural", "walnut"},
		Images:     []string{"https://cdn.example.lk/p/teak-table.jpg"},
		IsActive:   true,
		PriceTiers: []models.ProductPriceTier{
			{ID: uuid.New(), MinQty: 3, UnitPrice: decimal.RequireFromString("42000.00")},
			{ID: uuid.New(), MinQty: 5, UnitPrice: decimal.RequireFromString("40000.00")},
		},
	}
	for i := range product.PriceTiers {
		product.PriceTiers[i].ProductID = product.ID
	}
	require.NoError(t, f.db.Create(product).Error)
	product.Category = category
	return product
}

func validCreateInput(productID uuid.UUID) CreateOrderInput {
	return CreateOrderInput{
		FirstName:    "Nimal",
		LastName:     "Perera",
		Phone:        "0771234567",
		AddressLine1: "12 Galle Road",
		City:         "Colombo",
		Province:     "Western",
		ProductID:    productID,
	}
}

func md5Upper(value string) string {
	sum := md5.Sum([]byte(value))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// signs a notification exactly the way the gateway does
func signedNotification(orderID, paymentID, amount, statusCode string) payhere.Notification {
	secretHash := md5Upper(testMerchantSecret)
	return payhere.Notification{
		MerchantID:      testMerchantID,
		OrderID:         orderID,
		PaymentID:       paymentID,
		PayHereAmount:   amount,
		PayHereCurrency: "LKR",
		StatusCode:      statusCode,
		MD5Sig:          md5Upper(testMerchantID + orderID + amount + "LKR" + statusCode + secretHash),
	}
}

func TestCreateSnapshotsProductAndDefaultsQuantity(t *testing.T) {
	f := newFixture(t, false)
	product := seedProduct(t, f)

	order, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)

	assert.Equal(t, 1, order.Quantity)
	assert.Equal(t, product.Name, order.ProductName)
	assert.Equal(t, "Living Room", order.CategoryName)
	require.NotNil(t, order.ProductImage)
	assert.Equal(t, "https://cdn.example.lk/p/teak-table.jpg", *order.ProductImage)
	assert.True(t, order.UnitPrice.Equal(decimal.RequireFromString("45000.00")))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("45000.00")))
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, enums.PaymentMethodPayHere, order.PaymentMethod)
	assert.True(t, order.AmountPaid.IsZero())
	assert.Equal(t, []uuid.UUID{order.ID}, f.sms.orders)
}

func TestCreateAppliesDeepestQualifyingTier(t *testing.T) {
	f := newFixture(t, false)
	product := seedProduct(t, f)

	input := validCreateInput(product.ID)
	input.Quantity = 6

	order, err := f.svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, order.UnitPrice.Equal(decimal.RequireFromString("40000.00")))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("240000.00")))
}

func TestCreateRejectsBadProductInput(t *testing.T) {
	f := newFixture(t, false)
	product := seedProduct(t, f)

	missing := validCreateInput(uuid.New())
	_, err := f.svc.Create(context.Background(), missing)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	badColor := validCreateInput(product.ID)
	color := "chartreuse"
	badColor.Color = &color
	_, err = f.svc.Create(context.Background(), badColor)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	require.NoError(t, f.db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error)
	_, err = f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateSurvivesSMSFailure(t *testing.T) {
	f := newFixture(t, false)
	product := seedProduct(t, f)
	f.sms.err = fmt.Errorf("provider timeout")

	order, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, order.ID)
}

func TestApplyNotificationPaidSettlesOrder(t *testing.T) {
	f := newFixture(t, false)
	product := seedProduct(t, f)
	order, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)

	n := signedNotification(order.ID.String(), "320025", "45000.00", "2")
	require.NoError(t, f.svc.ApplyNotification(context.Background(), n))

	stored, err := f.repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, stored.PaymentStatus)
	assert.True(t, stored.AmountPaid.Equal(decimal.RequireFromString("45000.00")))
	require.NotNil(t, stored.PaymentDate)
	assert.True(t, stored.PaymentDate.Equal(fixedNow))
	require.NotNil(t, stored.PayHerePaymentID)
	assert.Equal(t, "320025", *stored.PayHerePaymentID)
}

func TestApplyNotificationIsIdempotentUnderRedelivery(t *testing.T) {
	f := newFixture(t, false)
	product := seedProduct(t, f)
	order, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)

	n := signedNotification(order.ID.String(), "320025", "45000.00", "2")
	require.NoError(t, f.svc.ApplyNotification(context.Background(), n))
	require.NoError(t, f.svc.ApplyNotification(context.Background(), n))

	stored, err := f.repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, stored.PaymentStatus)
	assert.True(t, stored.AmountPaid.Equal(decimal.RequireFromString("45000.00")))
}

func TestApplyNotificationNeverClawsBackPaidOrder(t *testing.T) {
	f := newFixture(t, false)
	product := seedProduct(t, f)
	order, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)

	paid := signedNotification(order.ID.String(), "320025", "45000.00", "2")
	require.NoError(t, f.svc.ApplyNotification(context.Background(), paid))

	cancelled := signedNotification(order.ID.String(), "320025", "45000.00", "-1")
	require.NoError(t, f.svc.ApplyNotification(context.Background(), cancelled))

	stored, err := f.repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, stored.PaymentStatus)
	assert.True(t, stored.AmountPaid.Equal(decimal.RequireFromString("45000.00")))
	assert.NotNil(t, stored.PaymentDate)
}

func TestApplyNotificationFailureResetsPaymentFields(t *testing.T) {
	f := newFixture(t, false)
	product := seedProduct(t, f)
	order, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)

	failed := signedNotification(order.ID.String(), "320026", "45000.00", "-2")
	require.NoError(t, f.svc.ApplyNotification(context.Background(), failed))

	stored, err := f.repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusFailed, stored.PaymentStatus)
	assert.True(t, stored.AmountPaid.IsZero())
	assert.Nil(t, stored.PaymentDate)
	require.NotNil(t, stored.PayHerePaymentID)
	assert.Equal(t, "320026", *stored.PayHerePaymentID)
}

func TestApplyNotificationRejectsBadSignatureWithoutMutation(t *testing.T) {
	f := newFixture(t, false)
	product := seedProduct(t, f)
	order, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)

	n := signedNotification(order.ID.String(), "320025", "45000.00", "2")
	n.PayHereAmount = "1.00"
	err = f.svc.ApplyNotification(context.Background(), n)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeIntegrity, pkgerrors.As(err).Code())

	stored, err := f.repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPending, stored.PaymentStatus)
	assert.True(t, stored.AmountPaid.IsZero())
}

func TestApplyNotificationRejectsMalformedFields(t *testing.T) {
	f := newFixture(t, false)
	product := seedProduct(t, f)
	order, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)

	badAmount := signedNotification(order.ID.String(), "320025", "not-a-number", "2")
	err = f.svc.ApplyNotification(context.Background(), badAmount)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	badOrder := signedNotification("not-a-uuid", "320025", "45000.00", "2")
	err = f.svc.ApplyNotification(context.Background(), badOrder)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestApplyNotificationUnknownOrder(t *testing.T) {
	f := newFixture(t, false)
	seedProduct(t, f)

	n := signedNotification(uuid.NewString(), "320025", "45000.00", "2")
	err := f.svc.ApplyNotification(context.Background(), n)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestApplyNotificationGuardShortCircuitsDuplicates(t *testing.T) {
	f := newFixture(t, true)
	product := seedProduct(t, f)
	order, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)

	f.guard.seen = true
	n := signedNotification(order.ID.String(), "320025", "45000.00", "2")
	require.NoError(t, f.svc.ApplyNotification(context.Background(), n))

	stored, err := f.repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPending, stored.PaymentStatus)
	assert.Equal(t, 1, f.guard.marks)
}

func TestApplyNotificationGuardFailureIsSoft(t *testing.T) {
	f := newFixture(t, true)
	product := seedProduct(t, f)
	order, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)

	f.guard.err = fmt.Errorf("redis down")
	n := signedNotification(order.ID.String(), "320025", "45000.00", "2")
	require.NoError(t, f.svc.ApplyNotification(context.Background(), n))

	stored, err := f.repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, stored.PaymentStatus)
}

func TestApplyNotificationUnmarksGuardOnMissingOrder(t *testing.T) {
	f := newFixture(t, true)
	seedProduct(t, f)

	n := signedNotification(uuid.NewString(), "320025", "45000.00", "2")
	err := f.svc.ApplyNotification(context.Background(), n)
	require.Error(t, err)
	assert.Equal(t, 1, f.guard.deletes)
}

func TestListReturnsNewestFirst(t *testing.T) {
	f := newFixture(t, false)
	product := seedProduct(t, f)

	first, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&models.Order{}).Where("id = ?", first.ID).
		Update("created_at", fixedNow.Add(-time.Hour)).Error)

	second, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&models.Order{}).Where("id = ?", second.ID).
		Update("created_at", fixedNow).Error)

	rows, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t, false)
	product := seedProduct(t, f)

	order, err := f.svc.Create(context.Background(), validCreateInput(product.ID))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), order.ID))

	_, err = f.svc.Get(context.Background(), order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	err = f.svc.Delete(context.Background(), order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
