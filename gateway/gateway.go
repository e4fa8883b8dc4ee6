// Package gateway talks to the Razorpay payment API. All amounts crossing
// this package boundary are whole rupees; conversion to paise happens here.
package gateway

//go:generate mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Gateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error)
	CancelPaymentLink(ctx context.Context, linkID string) error
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)
	CreateRefund(ctx context.Context, paymentID string, amount int64, notes map[string]string) (*Refund, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	VerifyWebhookSignature(body []byte, signature string) bool
}

type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type PaymentLinkRequest struct {
	Amount      int64
	Currency    string
	Description string
	ReferenceID string
	Customer    Customer
	Notes       map[string]string
	CallbackURL string
	ExpireBy    time.Time
}

type PaymentLink struct {
	ID       string    `json:"id"`
	ShortURL string    `json:"short_url"`
	Status   string    `json:"status"`
	ExpireBy time.Time `json:"expire_by"`
}

// Payment: платеж в терминах шлюза.
type Payment struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"order_id"`
	Amount           int64           `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	Method           string          `json:"method"`
	ErrorCode        string          `json:"error_code,omitempty"`
	ErrorDescription string          `json:"error_description,omitempty"`
	Notes            Notes           `json:"notes,omitempty"`
	Raw              json.RawMessage `json:"-"`
}

func (p *Payment) IsCaptured() bool {
	return p.Status == "captured"
}

// Notes: произвольные пометки платежа. Пустые notes приходят от API как [].
type Notes map[string]string

func (n *Notes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] == '[' || bytes.Equal(trimmed, []byte("null")) {
		*n = Notes{}
		return nil
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	out := make(Notes, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	*n = out
	return nil
}

const RefundStatusProcessed = "processed"

type Refund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

// toPaise and fromPaise convert between rupees and the gateway's minor unit.
func toPaise(rupees int64) int64 {
	return rupees * 100
}

func fromPaise(paise int64) int64 {
	return paise / 100
}
