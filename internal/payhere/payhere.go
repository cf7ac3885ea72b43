package payhere

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kavindu-dev/furnicraft-backend/pkg/config"
	"github.com/kavindu-dev/furnicraft-backend/pkg/enums"
	pkgerrors "github.com/kavindu-dev/furnicraft-backend/pkg/errors"
)

const (
	sandboxCheckoutURL    = "https://sandbox.payhere.lk/pay/checkout"
	productionCheckoutURL = "https://www.payhere.lk/pay/checkout"
)

// Adapter builds outbound checkout payloads and verifies inbound
// notifications against the shared merchant secret. Pure computation; it
// never touches the store.
type Adapter struct {
	merchantID string
	secretHash string
	currency   string
	baseURL    string
	production bool
}

// NewAdapter precomputes the uppercased MD5 of the merchant secret, which is
// the inner term of every PayHere hash.
func NewAdapter(cfg config.PayHereConfig, app config.AppConfig) (*Adapter, error) {
	if cfg.MerchantID == "" {
		return nil, fmt.Errorf("payhere merchant id is required")
	}
	if cfg.MerchantSecret == "" {
		return nil, fmt.Errorf("payhere merchant secret is required")
	}
	return &Adapter{
		merchantID: cfg.MerchantID,
		secretHash: md5Upper(cfg.MerchantSecret),
		currency:   cfg.Currency,
		baseURL:    strings.TrimRight(app.BaseURL, "/"),
		production: app.IsProd(),
	}, nil
}

// CheckoutRequest carries the order fields the adapter signs.
type CheckoutRequest struct {
	OrderID   string
	Amount    decimal.Decimal
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	Items     string
}

// CheckoutPayload is the form payload the storefront posts to the gateway.
// Field names follow the PayHere checkout API.
type CheckoutPayload struct {
	MerchantID string `json:"merchant_id"`
	ReturnURL  string `json:"return_url"`
	CancelURL  string `json:"cancel_url"`
	NotifyURL  string `json:"notify_url"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	OrderID    string `json:"order_id"`
	Items      string `json:"items"`
	Currency   string `json:"currency"`
	Amount     string `json:"amount"`
	Hash       string `json:"hash"`
}

// CheckoutURL returns the gateway endpoint for the deployment environment.
func (a *Adapter) CheckoutURL() string {
	if a.production {
		return productionCheckoutURL
	}
	return sandboxCheckoutURL
}

// BuildCheckout signs a checkout request. The amount is formatted to exactly
// two decimal places before hashing; the gateway echoes the same string back.
func (a *Adapter) BuildCheckout(req CheckoutRequest) (*CheckoutPayload, error) {
	if strings.TrimSpace(req.OrderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	amount := req.Amount.StringFixed(2)
	hash := md5Upper(a.merchantID + req.OrderID + amount + a.currency + a.secretHash)

	return &CheckoutPayload{
		MerchantID: a.merchantID,
		ReturnURL:  a.baseURL + "/checkout/success",
		CancelURL:  a.baseURL + "/checkout/cancelled",
		NotifyURL:  a.baseURL + "/api/payhere/notify",
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		Country:    "Sri Lanka",
		OrderID:    req.OrderID,
		Items:      req.Items,
		Currency:   a.currency,
		Amount:     amount,
		Hash:       hash,
	}, nil
}

// Notification is the form-encoded payload PayHere posts to the notify URL.
type Notification struct {
	MerchantID      string
	OrderID         string
	PaymentID       string
	PayHereAmount   string
	PayHereCurrency string
	StatusCode      string
	MD5Sig          string
}

// Verify authenticates a notification. Fails closed; the first failing check
// wins. Only after Verify passes may the order be mutated.
func (a *Adapter) Verify(n Notification) error {
	if n.MerchantID != a.merchantID {
		return pkgerrors.New(pkgerrors.CodeIntegrity, "merchant id mismatch")
	}

	local := md5Upper(a.merchantID + n.OrderID + n.PayHereAmount + n.PayHereCurrency + n.StatusCode + a.secretHash)
	if local != strings.ToUpper(n.MD5Sig) {
		return pkgerrors.New(pkgerrors.CodeIntegrity, "invalid signature")
	}
	return nil
}

// MapStatusCode translates a PayHere status code into a payment status. The
// mapping is total: unrecognized codes become UNKNOWN.
func MapStatusCode(code string) enums.PaymentStatus {
	switch code {
	case "2":
		return enums.PaymentStatusPaid
	case "0":
		return enums.PaymentStatusPending
	case "-1":
		return enums.PaymentStatusCancelled
	case "-2":
		return enums.PaymentStatusFailed
	case "-3":
		return enums.PaymentStatusChargeback
	default:
		return enums.PaymentStatusUnknown
	}
}

func md5Upper(value string) string {
	sum := md5.Sum([]byte(value))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
