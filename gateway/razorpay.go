package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.razorpay.com/v1"

var ErrNotConfigured = errors.New("payment gateway is not configured")

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay error: status=%d code=%s: %s", e.StatusCode, e.Code, e.Description)
}

type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string
	Timeout       time.Duration
}

type RazorpayClient struct {
	httpClient *http.Client
	cfg        Config
	logger     *slog.Logger
}

func NewRazorpayClient(cfg Config, logger *slog.Logger) *RazorpayClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &RazorpayClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 50,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		cfg:    cfg,
		logger: logger,
	}
}

func (c *RazorpayClient) KeyID() string {
	return c.cfg.KeyID
}

type rzpOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	body := map[string]interface{}{
		"amount":          toPaise(req.Amount),
		"currency":        currencyOrDefault(req.Currency),
		"receipt":         req.Receipt,
		"notes":           req.Notes,
		"payment_capture": 1,
	}

	var resp rzpOrder
	if err := c.do(ctx, http.MethodPost, "/orders", body, &resp); err != nil {
		return nil, err
	}
	return &Order{
		ID:       resp.ID,
		Amount:   fromPaise(resp.Amount),
		Currency: resp.Currency,
		Receipt:  resp.Receipt,
		Status:   resp.Status,
	}, nil
}

type rzpPaymentLink struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Status   string `json:"status"`
	ExpireBy int64  `json:"expire_by"`
}

func (c *RazorpayClient) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error) {
	body := map[string]interface{}{
		"amount":          toPaise(req.Amount),
		"currency":        currencyOrDefault(req.Currency),
		"accept_partial":  false,
		"expire_by":       req.ExpireBy.Unix(),
		"reference_id":    req.ReferenceID,
		"description":     req.Description,
		"customer":        req.Customer,
		"notify":          map[string]bool{"sms": true, "email": true},
		"reminder_enable": true,
		"notes":           req.Notes,
		"callback_url":    req.CallbackURL,
		"callback_method": "get",
	}

	var resp rzpPaymentLink
	if err := c.do(ctx, http.MethodPost, "/payment_links", body, &resp); err != nil {
		return nil, err
	}
	return &PaymentLink{
		ID:       resp.ID,
		ShortURL: resp.ShortURL,
		Status:   resp.Status,
		ExpireBy: time.Unix(resp.ExpireBy, 0).UTC(),
	}, nil
}

func (c *RazorpayClient) CancelPaymentLink(ctx context.Context, linkID string) error {
	return c.do(ctx, http.MethodPost, "/payment_links/"+linkID+"/cancel", nil, nil)
}

func (c *RazorpayClient) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &raw); err != nil {
		return nil, err
	}
	return decodePayment(raw)
}

func (c *RazorpayClient) CreateRefund(ctx context.Context, paymentID string, amount int64, notes map[string]string) (*Refund, error) {
	body := map[string]interface{}{
		"amount": toPaise(amount),
		"notes":  notes,
	}

	var resp Refund
	if err := c.do(ctx, http.MethodPost, "/payments/"+paymentID+"/refund", body, &resp); err != nil {
		return nil, err
	}
	resp.Amount = fromPaise(resp.Amount)
	return &resp, nil
}

func (c *RazorpayClient) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(c.cfg.KeySecret, orderID, paymentID, signature)
}

func (c *RazorpayClient) VerifyWebhookSignature(body []byte, signature string) bool {
	return VerifyWebhookSignature(c.cfg.WebhookSecret, body, signature)
}

func (c *RazorpayClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.cfg.KeyID == "" || c.cfg.KeySecret == "" {
		return ErrNotConfigured
	}
	url := c.cfg.BaseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		c.logger.Error("gateway request failed", "method", method, "path", path, "duration_ms", duration, "error", err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &payload) == nil {
			apiErr.Code = payload.Error.Code
			apiErr.Description = payload.Error.Description
		}
		c.logger.Error("gateway api error response",
			"status", resp.StatusCode, "method", method, "path", path, "duration_ms", duration, "code", apiErr.Code)
		return apiErr
	}

	c.logger.Debug("gateway request successful", "status", resp.StatusCode, "method", method, "path", path, "duration_ms", duration)

	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], respBody...)
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func decodePayment(raw json.RawMessage) (*Payment, error) {
	var p Payment
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to parse payment: %w", err)
	}
	p.Amount = fromPaise(p.Amount)
	p.Raw = raw
	return &p, nil
}

func currencyOrDefault(c string) string {
	if c == "" {
		return "INR"
	}
	return c
}
