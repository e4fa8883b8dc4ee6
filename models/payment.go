package models

import (
	"encoding/json"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusCreated   PaymentStatus = "created"
	PaymentStatusAttempted PaymentStatus = "attempted"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodNetBanking   PaymentMethod = "netbanking"
	PaymentMethodWallet       PaymentMethod = "wallet"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// ParsePaymentMethod maps a gateway method name onto a known method,
// falling back to upi.
func ParsePaymentMethod(s string) PaymentMethod {
	switch m := PaymentMethod(s); m {
	case PaymentMethodUPI, PaymentMethodCard, PaymentMethodNetBanking,
		PaymentMethodWallet, PaymentMethodCash, PaymentMethodBankTransfer:
		return m
	default:
		return PaymentMethodUPI
	}
}

type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
)

type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusProcessed RefundStatus = "processed"
	RefundStatusFailed    RefundStatus = "failed"
)

type RefundDetails struct {
	GatewayRefundID string       `json:"gateway_refund_id,omitempty"`
	Amount          int64        `json:"amount"`
	Status          RefundStatus `json:"status"`
	Reason          string       `json:"reason,omitempty"`
	RefundedBy      string       `json:"refunded_by,omitempty"`
	RefundedAt      *time.Time   `json:"refunded_at,omitempty"`
}

type TimelineEntry struct {
	Status    PaymentStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Notes     string        `json:"notes,omitempty"`
}

type VerificationDetails struct {
	Signature  string     `json:"signature,omitempty"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

type PaymentMetadata struct {
	UserAgent     string `json:"user_agent,omitempty"`
	IPAddress     string `json:"ip_address,omitempty"`
	MarkedBy      string `json:"marked_by,omitempty"`
	Notes         string `json:"notes,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
	ErrorCode     string `json:"error_code,omitempty"`
}

// Payment: попытка оплаты одного игрока за один матч.
type Payment struct {
	ID               string              `json:"payment_id"`
	MatchID          string              `json:"match_id"`
	UserID           string              `json:"user_id"`
	Amount           int64               `json:"amount"`
	Currency         Currency            `json:"currency"`
	Method           PaymentMethod       `json:"method"`
	Status           PaymentStatus       `json:"status"`
	GatewayOrderID   *string             `json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string             `json:"gateway_payment_id,omitempty"`
	PaymentLinkID    string              `json:"payment_link_id,omitempty"`
	PaymentLinkURL   string              `json:"payment_link_url,omitempty"`
	GatewayResponse  json.RawMessage     `json:"gateway_response,omitempty"`
	Refund           *RefundDetails      `json:"refund,omitempty"`
	Timeline         []TimelineEntry     `json:"timeline"`
	Verification     VerificationDetails `json:"verification"`
	Metadata         PaymentMetadata     `json:"metadata"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// SetStatus changes the status and appends a timeline entry. It is a no-op
// when the status does not change.
func (p *Payment) SetStatus(status PaymentStatus, at time.Time, notes string) {
	if p.Status == status && len(p.Timeline) > 0 {
		return
	}
	p.Status = status
	if notes == "" {
		notes = "Status changed to " + string(status)
	}
	p.Timeline = append(p.Timeline, TimelineEntry{Status: status, Timestamp: at, Notes: notes})
}

// MarkPaid records a successful capture. Returns false when the payment was
// already paid or refunded under the same gateway reference.
func (p *Payment) MarkPaid(gatewayPaymentID, signature string, response json.RawMessage, at time.Time) bool {
	settled := p.Status == PaymentStatusPaid || p.Status == PaymentStatusRefunded
	if settled && p.GatewayPaymentID != nil && *p.GatewayPaymentID == gatewayPaymentID {
		return false
	}
	if gatewayPaymentID != "" {
		id := gatewayPaymentID
		p.GatewayPaymentID = &id
	}
	if len(response) > 0 {
		p.GatewayResponse = response
	}
	p.Verification.Verified = true
	p.Verification.VerifiedAt = &at
	if signature != "" {
		p.Verification.Signature = signature
	}
	p.SetStatus(PaymentStatusPaid, at, "")
	return true
}

func (p *Payment) MarkFailed(reason, code string, at time.Time) {
	p.Metadata.FailureReason = reason
	p.Metadata.ErrorCode = code
	p.SetStatus(PaymentStatusFailed, at, reason)
}

// PaymentWithMatch: платеж с краткой информацией о матче для истории пользователя.
type PaymentWithMatch struct {
	*Payment
	MatchTitle    string    `json:"match_title"`
	MatchDateTime time.Time `json:"match_date_time"`
	VenueName     string    `json:"venue_name"`
}

// PaymentWithUser: платеж с данными игрока для организатора.
type PaymentWithUser struct {
	*Payment
	UserName           string  `json:"user_name"`
	UserEmail          string  `json:"user_email"`
	UserProfilePicture *string `json:"user_profile_picture,omitempty"`
}
