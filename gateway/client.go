// Package gateway talks to the payment provider's checkout API. It covers
// the two calls the engine needs: creating a checkout session for a purchase
// and fetching the authoritative status of an existing session.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bolao/models"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// CheckoutParams describes a purchase to open a checkout session for.
// UnitAmount is the price per quota in centavos.
type CheckoutParams struct {
	PaymentID   string
	UserID      string
	ContestID   string
	Description string
	UnitAmount  int64
	Quantity    int64
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the provider's handle for a purchase in progress
type CheckoutSession struct {
	SessionID   string
	RedirectURL string
}

// SessionStatus is the authoritative payment state of a checkout session
type SessionStatus struct {
	PaymentStatus   models.GatewayStatus
	PaymentIntentID string
}

// Client is an HTTP client for the checkout API
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient creates a gateway client. The timeout bounds every call; a
// timed-out verification surfaces as retriable, never as a status change.
func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

// CreateCheckoutSession opens a checkout session and returns the URL the
// buyer must be redirected to
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("line_items[0][price_data][currency]", "brl")
	form.Set("line_items[0][price_data][product_data][name]", params.Description)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.UnitAmount, 10))
	form.Set("line_items[0][quantity]", strconv.FormatInt(params.Quantity, 10))
	form.Set("metadata[payment_id]", params.PaymentID)
	form.Set("metadata[contest_id]", params.ContestID)
	form.Set("metadata[user_id]", params.UserID)

	body, err := c.post(ctx, "/v1/checkout/sessions", form)
	if err != nil {
		return nil, err
	}

	sessionID := gjson.GetBytes(body, "id").String()
	redirectURL := gjson.GetBytes(body, "url").String()
	if sessionID == "" || redirectURL == "" {
		return nil, fmt.Errorf("gateway returned incomplete checkout session: %s", truncate(body))
	}

	log.WithFields(log.Fields{
		"sessionId": sessionID,
		"paymentId": params.PaymentID,
	}).Info("Checkout session created")

	return &CheckoutSession{
		SessionID:   sessionID,
		RedirectURL: redirectURL,
	}, nil
}

// GetSessionStatus fetches the authoritative status of a checkout session
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	body, err := c.get(ctx, "/v1/checkout/sessions/"+url.PathEscape(sessionID))
	if err != nil {
		return nil, err
	}

	status := &SessionStatus{
		PaymentIntentID: gjson.GetBytes(body, "payment_intent").String(),
	}

	// An expired session reports its lifecycle status separately from the
	// payment status
	if gjson.GetBytes(body, "status").String() == "expired" {
		status.PaymentStatus = models.GatewayStatusExpired
		return status, nil
	}

	switch gjson.GetBytes(body, "payment_status").String() {
	case "paid":
		status.PaymentStatus = models.GatewayStatusPaid
	default:
		status.PaymentStatus = models.GatewayStatusUnpaid
	}

	return status, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &models.GatewayUnavailableError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.GatewayUnavailableError{Err: err}
	}

	if resp.StatusCode >= 500 {
		return nil, &models.GatewayUnavailableError{
			Err: fmt.Errorf("gateway returned %d: %s", resp.StatusCode, truncate(body)),
		}
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("gateway rejected request with %d: %s", resp.StatusCode, truncate(body))
	}

	return body, nil
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
