package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kavindu-dev/furnicraft-backend/pkg/config"
	"github.com/kavindu-dev/furnicraft-backend/pkg/db/models"
	"github.com/kavindu-dev/furnicraft-backend/pkg/logger"
)

const (
	sendEndpoint   = "https://app.notify.lk/api/v1/send"
	requestTimeout = 10 * time.Second
)

// Client sends SMS through the Notify.lk HTTP API. Delivery is best effort:
// failures are logged by callers, never surfaced to the customer.
type Client struct {
	cfg        config.NotifyConfig
	httpClient *http.Client
	logg       *logger.Logger
}

// NewClient builds an SMS client. A nil return means SMS is not configured
// and callers should skip sending.
func NewClient(cfg config.NotifyConfig, logg *logger.Logger) *Client {
	if !cfg.Enabled() {
		return nil
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		logg:       logg,
	}
}

// Send delivers one SMS to the given local phone number.
func (c *Client) Send(ctx context.Context, to, message string) error {
	if c == nil {
		return nil
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("recipient phone is required")
	}

	form := url.Values{}
	form.Set("user_id", c.cfg.UserID)
	form.Set("api_key", c.cfg.APIKey)
	form.Set("sender_id", c.cfg.SenderID)
	form.Set("to", normalizePhone(to))
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider returned status %d", resp.StatusCode)
	}
	return nil
}

// SendOrderConfirmation notifies the customer that the order was received.
func (c *Client) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	if c == nil || order == nil {
		return nil
	}
	message := fmt.Sprintf(
		"Hi %s, we received your order for %s (x%d), total LKR %s. We will contact you shortly.",
		order.CustomerFirstName,
		order.ProductName,
		order.Quantity,
		order.Total.StringFixed(2),
	)
	return c.Send(ctx, order.Phone, message)
}

// normalizePhone converts local 0XXXXXXXXX numbers to the 94 country prefix
// the provider expects.
func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	if strings.HasPrefix(phone, "+") {
		return phone[1:]
	}
	if strings.HasPrefix(phone, "0") && len(phone) == 10 {
		return "94" + phone[1:]
	}
	return phone
}
