package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventOrderPaid       = "order.paid"
	EventRefundCreated   = "refund.created"
	EventRefundProcessed = "refund.processed"
)

var ErrMalformedWebhook = errors.New("malformed webhook payload")

type WebhookEvent struct {
	Event   string
	Payment *Payment
	Order   *Order
	Refund  *Refund
}

type webhookBody struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity json.RawMessage `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity rzpOrder `json:"entity"`
		} `json:"order"`
		Refund *struct {
			Entity Refund `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
}

// ParseWebhookEvent decodes a webhook body. Entities absent from the payload stay nil.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
	}
	if wb.Event == "" {
		return nil, fmt.Errorf("%w: missing event", ErrMalformedWebhook)
	}

	ev := &WebhookEvent{Event: wb.Event}
	if wb.Payload.Payment != nil && len(wb.Payload.Payment.Entity) > 0 {
		p, err := decodePayment(wb.Payload.Payment.Entity)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedWebhook, err)
		}
		ev.Payment = p
	}
	if wb.Payload.Order != nil {
		o := wb.Payload.Order.Entity
		ev.Order = &Order{ID: o.ID, Amount: fromPaise(o.Amount), Currency: o.Currency, Receipt: o.Receipt, Status: o.Status}
	}
	if wb.Payload.Refund != nil {
		r := wb.Payload.Refund.Entity
		r.Amount = fromPaise(r.Amount)
		ev.Refund = &r
	}
	return ev, nil
}
