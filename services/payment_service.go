package services

//go:generate mockgen -source=payment_service.go -destination=mocks/mock_payment_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Faaz345/playsplit/apperr"
	"github.com/Faaz345/playsplit/clock"
	"github.com/Faaz345/playsplit/gateway"
	"github.com/Faaz345/playsplit/lifecycle"
	"github.com/Faaz345/playsplit/models"
	"github.com/Faaz345/playsplit/realtime"
	"github.com/Faaz345/playsplit/redisstore"
	"github.com/Faaz345/playsplit/repositories"
	"github.com/Faaz345/playsplit/utils"
)

const (
	paymentLinkTTL    = 24 * time.Hour
	stalePaymentAge   = 24 * time.Hour
	webhookDedupTTL   = 24 * time.Hour
	maxUserPayments   = 50
	cashPaymentNotice = "Manually marked as cash payment"
)

type PaymentService interface {
	CreatePaymentLink(ctx context.Context, user *models.User, input CreatePaymentInput) (*PaymentLinkResult, error)
	CreateOrder(ctx context.Context, user *models.User, input CreatePaymentInput) (*OrderResult, error)
	VerifyPayment(ctx context.Context, user *models.User, input VerifyPaymentInput) (*models.Payment, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) (*WebhookResult, error)
	MarkCashPayment(ctx context.Context, admin *models.User, input CashPaymentInput) (*models.Payment, error)
	GetMatchPayments(ctx context.Context, actor *models.User, matchID string) ([]*models.PaymentWithUser, error)
	GetUserPayments(ctx context.Context, user *models.User, limit int) ([]*models.PaymentWithMatch, error)
	RefundPayment(ctx context.Context, admin *models.User, input RefundInput) (*RefundResult, error)
	ExpireStalePayments(ctx context.Context) (int64, error)
}

// IdempotencyStore хранит ключи уже обработанных вебхуков.
type IdempotencyStore interface {
	CheckAndSetIdempotency(ctx context.Context, key string, ttl time.Duration) ([]byte, error)
	MarkIdempotencyComplete(ctx context.Context, key string, response []byte, ttl time.Duration) error
	MarkIdempotencyFailed(ctx context.Context, key string) error
}

// ClientInfo is filled by the HTTP layer, never by the request body.
type ClientInfo struct {
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

type CreatePaymentInput struct {
	MatchID string `json:"match_id" validate:"required"`
	ClientInfo
}

type VerifyPaymentInput struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// CashPaymentInput: отметка оплаты наличными. Amount 0 означает
// "полная доля игрока".
type CashPaymentInput struct {
	MatchID string `json:"match_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
	Amount  int64  `json:"amount" validate:"gte=0"`
	Notes   string `json:"notes" validate:"max=500"`
}

type RefundInput struct {
	PaymentID string `json:"payment_id" validate:"required"`
	Amount    *int64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Reason    string `json:"reason" validate:"required,max=500"`
}

type PaymentLinkResult struct {
	PaymentID   string    `json:"payment_id"`
	PaymentLink string    `json:"payment_link"`
	Amount      int64     `json:"amount"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type OrderResult struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	KeyID     string `json:"key_id"`
}

type RefundResult struct {
	RefundID string              `json:"refund_id"`
	Amount   int64               `json:"amount"`
	Status   models.RefundStatus `json:"status"`
}

type WebhookResult struct {
	Event     string `json:"event"`
	Processed bool   `json:"processed"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
	matchRepo   repositories.MatchRepository
	userRepo    repositories.UserRepository
	matches     MatchService
	gateway     gateway.Gateway
	idempotency IdempotencyStore
	broadcaster realtime.Broadcaster
	clock       clock.Clock
	logger      *slog.Logger
	clientURL   string
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	matches MatchService,
	gw gateway.Gateway,
	idempotency IdempotencyStore,
	broadcaster realtime.Broadcaster,
	clk clock.Clock,
	logger *slog.Logger,
	clientURL string,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		matchRepo:   matchRepo,
		userRepo:    userRepo,
		matches:     matches,
		gateway:     gw,
		idempotency: idempotency,
		broadcaster: broadcaster,
		clock:       clk,
		logger:      logger,
		clientURL:   strings.TrimRight(clientURL, "/"),
	}
}

func (s *paymentService) CreatePaymentLink(ctx context.Context, user *models.User, input CreatePaymentInput) (*PaymentLinkResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	m, payment, err := s.openPayment(ctx, user, input)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	link, err := s.gateway.CreatePaymentLink(ctx, gateway.PaymentLinkRequest{
		Amount:      payment.Amount,
		Currency:    string(payment.Currency),
		Description: fmt.Sprintf("Payment for %s", m.Title),
		ReferenceID: payment.ID,
		Customer: gateway.Customer{
			Name:    user.Name,
			Email:   user.Email,
			Contact: derefString(user.Phone),
		},
		Notes:       paymentNotes(payment),
		CallbackURL: fmt.Sprintf("%s/match/%s/payment-success", s.clientURL, m.MatchID),
		ExpireBy:    now.Add(paymentLinkTTL),
	})
	if err != nil {
		return nil, gatewayError(err, "create payment link")
	}

	payment.PaymentLinkID = link.ID
	payment.PaymentLinkURL = link.ShortURL
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, handlePaymentRepoError(err, "save payment link")
	}

	s.logger.InfoContext(ctx, "payment link created",
		slog.String("payment_id", payment.ID),
		slog.String("match_id", m.MatchID),
		slog.Int64("amount", payment.Amount))

	return &PaymentLinkResult{
		PaymentID:   payment.ID,
		PaymentLink: link.ShortURL,
		Amount:      payment.Amount,
		ExpiresAt:   link.ExpireBy,
	}, nil
}

func (s *paymentService) CreateOrder(ctx context.Context, user *models.User, input CreatePaymentInput) (*OrderResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	m, payment, err := s.openPayment(ctx, user, input)
	if err != nil {
		return nil, err
	}

	order, err := s.gateway.CreateOrder(ctx, gateway.OrderRequest{
		Amount:   payment.Amount,
		Currency: string(payment.Currency),
		Receipt:  utils.PaymentReceipt(m.MatchID, user.ID),
		Notes:    paymentNotes(payment),
	})
	if err != nil {
		return nil, gatewayError(err, "create order")
	}

	payment.GatewayOrderID = &order.ID
	payment.SetStatus(models.PaymentStatusAttempted, s.clock.Now(), "Checkout order created")
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, handlePaymentRepoError(err, "save order")
	}

	return &OrderResult{
		PaymentID: payment.ID,
		OrderID:   order.ID,
		Amount:    payment.Amount,
		Currency:  order.Currency,
		KeyID:     s.gateway.KeyID(),
	}, nil
}

// openPayment checks that user owes money for the match and returns the
// payment record to collect it with, reusing an unfinished one.
func (s *paymentService) openPayment(ctx context.Context, user *models.User, input CreatePaymentInput) (*models.Match, *models.Payment, error) {
	m, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return nil, nil, handleMatchRepoError(err, "get match")
	}

	idx := m.FindPlayer(user.ID)
	if idx < 0 || m.Players[idx].Status != models.ParticipationJoined {
		return nil, nil, ErrNotMatchPlayer
	}
	player := m.Players[idx]
	if player.PaymentStatus == models.PlayerPaymentPaid {
		return nil, nil, ErrPaymentCompleted
	}
	if player.AmountToPay <= 0 {
		return nil, nil, ErrNothingToPay
	}

	payment, err := s.paymentRepo.GetOpenByMatchAndUser(ctx, m.MatchID, user.ID)
	switch {
	case err == nil:
		// доля могла измениться после пересчета стоимости
		if payment.Amount != player.AmountToPay {
			payment.Amount = player.AmountToPay
			if err := s.paymentRepo.Update(ctx, payment); err != nil {
				return nil, nil, handlePaymentRepoError(err, "update payment amount")
			}
		}
		return m, payment, nil
	case !errors.Is(err, repositories.ErrPaymentNotFound):
		return nil, nil, handlePaymentRepoError(err, "get payment")
	}

	payment = &models.Payment{
		ID:       utils.NewPaymentID(),
		MatchID:  m.MatchID,
		UserID:   user.ID,
		Amount:   player.AmountToPay,
		Currency: models.CurrencyINR,
		Method:   user.Preferences.PreferredPaymentMethod,
		Metadata: models.PaymentMetadata{
			UserAgent: input.UserAgent,
			IPAddress: input.IPAddress,
		},
	}
	if payment.Method == "" || payment.Method == models.PaymentMethodCash {
		payment.Method = models.PaymentMethodUPI
	}
	payment.SetStatus(models.PaymentStatusCreated, s.clock.Now(), "Payment created")

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, nil, handlePaymentRepoError(err, "create payment")
	}
	return m, payment, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, user *models.User, input VerifyPaymentInput) (*models.Payment, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !s.gateway.VerifyPaymentSignature(input.OrderID, input.PaymentID, input.Signature) {
		s.logger.WarnContext(ctx, "invalid payment signature",
			slog.String("order_id", input.OrderID),
			slog.String("user_id", user.ID))
		return nil, ErrInvalidSignature
	}

	payment, err := s.paymentRepo.GetByGatewayOrderID(ctx, input.OrderID)
	if err != nil {
		return nil, handlePaymentRepoError(err, "get payment")
	}
	if payment.UserID != user.ID && !user.IsAdmin() {
		return nil, ErrForbidden
	}

	gp, err := s.gateway.FetchPayment(ctx, input.PaymentID)
	if err != nil {
		return nil, gatewayError(err, "fetch payment")
	}
	if !gp.IsCaptured() && gp.Status != "authorized" {
		return nil, ErrPaymentNotCaptured
	}

	if err := s.settle(ctx, payment, gp, input.Signature); err != nil {
		return nil, err
	}
	return payment, nil
}

// settle records a captured gateway payment on both the payment record and
// the match roster. Safe to call again for the same capture.
func (s *paymentService) settle(ctx context.Context, payment *models.Payment, gp *gateway.Payment, signature string) error {
	if payment.Status == models.PaymentStatusRefunded {
		s.logger.InfoContext(ctx, "capture ignored for refunded payment",
			slog.String("payment_id", payment.ID),
			slog.String("gateway_payment_id", gp.ID))
		return nil
	}

	now := s.clock.Now()
	method := models.ParsePaymentMethod(gp.Method)

	if payment.MarkPaid(gp.ID, signature, gp.Raw, now) {
		payment.Method = method
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			return handlePaymentRepoError(err, "mark payment paid")
		}
		if err := s.userRepo.IncrementStats(ctx, payment.UserID, repositories.StatsDelta{TotalPaid: payment.Amount}); err != nil {
			s.logger.WarnContext(ctx, "failed to update total paid", slog.String("user_id", payment.UserID), slog.Any("error", err))
		}
	}

	_, changed, err := s.matches.UpdatePlayerPayment(ctx, payment.MatchID, payment.UserID, lifecycle.PaymentUpdate{
		Status:    models.PlayerPaymentPaid,
		Amount:    payment.Amount,
		Method:    method,
		PaymentID: gp.ID,
	})
	if errors.Is(err, lifecycle.ErrPlayerNotFound) {
		// игрок успел выйти из матча; деньги остаются в платеже
		s.logger.WarnContext(ctx, "captured payment for a player no longer in the match",
			slog.String("payment_id", payment.ID),
			slog.String("match_id", payment.MatchID))
		return nil
	}
	if err != nil {
		return err
	}

	if changed {
		s.broadcast(ctx, payment.MatchID, realtime.EventPaymentCompleted, map[string]interface{}{
			"user_id": payment.UserID,
			"amount":  payment.Amount,
			"method":  method,
		})
	}
	s.logger.InfoContext(ctx, "payment settled",
		slog.String("payment_id", payment.ID),
		slog.String("gateway_payment_id", gp.ID),
		slog.Bool("roster_changed", changed))
	return nil
}

// HandleWebhook verifies and applies a gateway event. Business failures are
// acknowledged as not processed; infrastructure failures are returned so the
// gateway redelivers the event.
func (s *paymentService) HandleWebhook(ctx context.Context, body []byte, signature string) (*WebhookResult, error) {
	if signature == "" || !s.gateway.VerifyWebhookSignature(body, signature) {
		return nil, ErrInvalidWebhook
	}

	ev, err := gateway.ParseWebhookEvent(body)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindValidation, "Malformed webhook payload")
	}
	result := &WebhookResult{Event: ev.Event}

	key := webhookKey(ev)
	if s.idempotency != nil && key != "" {
		stored, err := s.idempotency.CheckAndSetIdempotency(ctx, key, webhookDedupTTL)
		switch {
		case errors.Is(err, redisstore.ErrKeyExists):
			result.Duplicate = true
			return result, nil
		case err != nil:
			// без Redis продолжаем: повтор все равно идемпотентен на уровне записей
			s.logger.WarnContext(ctx, "webhook idempotency check failed", slog.String("key", key), slog.Any("error", err))
			key = ""
		case stored != nil:
			result.Duplicate = true
			return result, nil
		}
	}

	if err := s.dispatchWebhook(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "webhook processing failed",
			slog.String("event", ev.Event),
			slog.Any("error", err))
		if s.idempotency != nil && key != "" {
			if err := s.idempotency.MarkIdempotencyFailed(ctx, key); err != nil {
				s.logger.WarnContext(ctx, "failed to release webhook key", slog.String("key", key), slog.Any("error", err))
			}
		}
		if apperr.KindOf(err) == apperr.KindInfrastructure {
			return nil, apperr.Infrastructure(err, "Failed to process webhook")
		}
		return result, nil
	}

	result.Processed = true
	if s.idempotency != nil && key != "" {
		if err := s.idempotency.MarkIdempotencyComplete(ctx, key, []byte(ev.Event), webhookDedupTTL); err != nil {
			s.logger.WarnContext(ctx, "failed to store webhook key", slog.String("key", key), slog.Any("error", err))
		}
	}
	s.logger.InfoContext(ctx, "webhook processed", slog.String("event", ev.Event))
	return result, nil
}

func (s *paymentService) dispatchWebhook(ctx context.Context, ev *gateway.WebhookEvent) error {
	switch ev.Event {
	case gateway.EventPaymentCaptured, gateway.EventOrderPaid:
		if ev.Payment == nil {
			s.logger.InfoContext(ctx, "webhook without payment entity", slog.String("event", ev.Event))
			return nil
		}
		payment, err := s.findGatewayPayment(ctx, ev.Payment)
		if err != nil {
			return s.skipUnknownPayment(ctx, ev, err)
		}
		return s.settle(ctx, payment, ev.Payment, "")

	case gateway.EventPaymentFailed:
		if ev.Payment == nil {
			return nil
		}
		payment, err := s.findGatewayPayment(ctx, ev.Payment)
		if err != nil {
			return s.skipUnknownPayment(ctx, ev, err)
		}
		return s.recordFailure(ctx, payment, ev.Payment)

	case gateway.EventRefundCreated, gateway.EventRefundProcessed:
		if ev.Refund == nil {
			return nil
		}
		payment, err := s.paymentRepo.GetByGatewayPaymentID(ctx, ev.Refund.PaymentID)
		if err != nil {
			return s.skipUnknownPayment(ctx, ev, err)
		}
		return s.recordRefund(ctx, payment, ev.Refund, ev.Event == gateway.EventRefundProcessed)

	default:
		s.logger.InfoContext(ctx, "unhandled webhook event", slog.String("event", ev.Event))
		return nil
	}
}

func (s *paymentService) skipUnknownPayment(ctx context.Context, ev *gateway.WebhookEvent, err error) error {
	if errors.Is(err, repositories.ErrPaymentNotFound) {
		s.logger.WarnContext(ctx, "payment record not found for webhook", slog.String("event", ev.Event))
		return nil
	}
	return err
}

// findGatewayPayment looks the payment up by gateway payment id, then by
// order id, then by our own id carried in the notes.
func (s *paymentService) findGatewayPayment(ctx context.Context, gp *gateway.Payment) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByGatewayPaymentID(ctx, gp.ID)
	if err == nil || !errors.Is(err, repositories.ErrPaymentNotFound) {
		return payment, err
	}
	if gp.OrderID != "" {
		payment, err = s.paymentRepo.GetByGatewayOrderID(ctx, gp.OrderID)
		if err == nil || !errors.Is(err, repositories.ErrPaymentNotFound) {
			return payment, err
		}
	}
	if id := gp.Notes["payment_id"]; id != "" {
		return s.paymentRepo.GetByID(ctx, id)
	}
	return nil, repositories.ErrPaymentNotFound
}

func (s *paymentService) recordFailure(ctx context.Context, payment *models.Payment, gp *gateway.Payment) error {
	if payment.Status == models.PaymentStatusPaid || payment.Status == models.PaymentStatusRefunded {
		return nil
	}
	if payment.GatewayPaymentID == nil && gp.ID != "" {
		id := gp.ID
		payment.GatewayPaymentID = &id
	}
	if len(gp.Raw) > 0 {
		payment.GatewayResponse = gp.Raw
	}
	payment.MarkFailed(gp.ErrorDescription, gp.ErrorCode, s.clock.Now())
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return handlePaymentRepoError(err, "mark payment failed")
	}

	s.broadcast(ctx, payment.MatchID, realtime.EventPaymentFailed, map[string]interface{}{
		"user_id":    payment.UserID,
		"payment_id": gp.ID,
		"error":      gp.ErrorDescription,
	})
	return nil
}

func (s *paymentService) recordRefund(ctx context.Context, payment *models.Payment, refund *gateway.Refund, processed bool) error {
	now := s.clock.Now()
	if payment.Refund == nil {
		payment.Refund = &models.RefundDetails{RefundedAt: &now}
	}
	payment.Refund.GatewayRefundID = refund.ID
	payment.Refund.Amount = refund.Amount
	payment.Refund.Status = models.RefundStatusPending
	if processed {
		payment.Refund.Status = models.RefundStatusProcessed
		payment.SetStatus(models.PaymentStatusRefunded, now, "Refund processed")
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return handlePaymentRepoError(err, "record refund")
	}

	if processed {
		_, _, err := s.matches.UpdatePlayerPayment(ctx, payment.MatchID, payment.UserID, lifecycle.PaymentUpdate{
			Status:    models.PlayerPaymentRefunded,
			PaymentID: derefString(payment.GatewayPaymentID),
		})
		if err != nil && !errors.Is(err, lifecycle.ErrPlayerNotFound) {
			return err
		}
	}

	s.broadcast(ctx, payment.MatchID, realtime.EventRefundUpdated, map[string]interface{}{
		"user_id":   payment.UserID,
		"refund_id": refund.ID,
		"amount":    refund.Amount,
		"status":    payment.Refund.Status,
	})
	return nil
}

func (s *paymentService) MarkCashPayment(ctx context.Context, admin *models.User, input CashPaymentInput) (*models.Payment, error) {
	if !admin.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	m, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return nil, handleMatchRepoError(err, "get match")
	}
	idx := m.FindPlayer(input.UserID)
	if idx < 0 {
		return nil, lifecycle.ErrPlayerNotFound
	}
	if m.Players[idx].PaymentStatus == models.PlayerPaymentPaid {
		return nil, ErrPaymentCompleted
	}

	amount := input.Amount
	if amount == 0 {
		amount = m.Players[idx].AmountToPay
	}
	notes := utils.SanitizeText(input.Notes)
	if notes == "" {
		notes = cashPaymentNotice
	}

	payment, err := s.paymentRepo.GetOpenByMatchAndUser(ctx, m.MatchID, input.UserID)
	isNew := errors.Is(err, repositories.ErrPaymentNotFound)
	if err != nil && !isNew {
		return nil, handlePaymentRepoError(err, "get payment")
	}
	if isNew {
		payment = &models.Payment{
			ID:       utils.NewCashPaymentID(),
			MatchID:  m.MatchID,
			UserID:   input.UserID,
			Currency: models.CurrencyINR,
		}
	}

	now := s.clock.Now()
	payment.Amount = amount
	payment.Method = models.PaymentMethodCash
	payment.Metadata.MarkedBy = admin.ID
	payment.Metadata.Notes = notes
	payment.Verification.Verified = true
	payment.Verification.VerifiedAt = &now
	payment.SetStatus(models.PaymentStatusPaid, now, notes)

	if isNew {
		err = s.paymentRepo.Create(ctx, payment)
	} else {
		err = s.paymentRepo.Update(ctx, payment)
	}
	if err != nil {
		return nil, handlePaymentRepoError(err, "save cash payment")
	}

	_, changed, err := s.matches.UpdatePlayerPayment(ctx, m.MatchID, input.UserID, lifecycle.PaymentUpdate{
		Status:    models.PlayerPaymentPaid,
		Amount:    amount,
		Method:    models.PaymentMethodCash,
		PaymentID: payment.ID,
	})
	if err != nil {
		return nil, err
	}

	if changed {
		if err := s.userRepo.IncrementStats(ctx, input.UserID, repositories.StatsDelta{TotalPaid: amount}); err != nil {
			s.logger.WarnContext(ctx, "failed to update total paid", slog.String("user_id", input.UserID), slog.Any("error", err))
		}
		s.broadcast(ctx, m.MatchID, realtime.EventPaymentCompleted, map[string]interface{}{
			"user_id": input.UserID,
			"amount":  amount,
			"method":  models.PaymentMethodCash,
		})
	}
	s.logger.InfoContext(ctx, "cash payment marked",
		slog.String("payment_id", payment.ID),
		slog.String("match_id", m.MatchID),
		slog.String("marked_by", admin.ID))
	return payment, nil
}

func (s *paymentService) GetMatchPayments(ctx context.Context, actor *models.User, matchID string) ([]*models.PaymentWithUser, error) {
	m, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleMatchRepoError(err, "get match")
	}
	if !lifecycle.CanManage(m, lifecycle.ActorFromUser(actor)) {
		return nil, ErrForbidden
	}

	payments, err := s.paymentRepo.ListByMatch(ctx, m.MatchID)
	if err != nil {
		return nil, handlePaymentRepoError(err, "list match payments")
	}
	if payments == nil {
		return []*models.PaymentWithUser{}, nil
	}
	return payments, nil
}

func (s *paymentService) GetUserPayments(ctx context.Context, user *models.User, limit int) ([]*models.PaymentWithMatch, error) {
	_, limit, _ = normalizePage(1, limit, maxUserPayments)
	payments, err := s.paymentRepo.ListByUser(ctx, user.ID, limit)
	if err != nil {
		return nil, handlePaymentRepoError(err, "list user payments")
	}
	if payments == nil {
		return []*models.PaymentWithMatch{}, nil
	}
	return payments, nil
}

func (s *paymentService) RefundPayment(ctx context.Context, admin *models.User, input RefundInput) (*RefundResult, error) {
	if !admin.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetByID(ctx, input.PaymentID)
	if err != nil {
		return nil, handlePaymentRepoError(err, "get payment")
	}
	if payment.Status != models.PaymentStatusPaid {
		return nil, ErrRefundNotPaid
	}
	if payment.Method == models.PaymentMethodCash || payment.GatewayPaymentID == nil {
		return nil, ErrRefundCash
	}

	amount := payment.Amount
	if input.Amount != nil {
		amount = *input.Amount
	}
	if amount > payment.Amount {
		return nil, ErrRefundTooLarge
	}

	reason := utils.SanitizeText(input.Reason)
	refund, err := s.gateway.CreateRefund(ctx, *payment.GatewayPaymentID, amount, map[string]string{
		"reason":     reason,
		"payment_id": payment.ID,
	})
	if err != nil {
		return nil, gatewayError(err, "initiate refund")
	}

	now := s.clock.Now()
	payment.Refund = &models.RefundDetails{
		GatewayRefundID: refund.ID,
		Amount:          amount,
		Status:          models.RefundStatusPending,
		Reason:          reason,
		RefundedBy:      admin.ID,
		RefundedAt:      &now,
	}
	if refund.Status == gateway.RefundStatusProcessed {
		// шлюз вернул деньги сразу: обновляем и платеж, и состав матча
		if err := s.recordRefund(ctx, payment, refund, true); err != nil {
			return nil, err
		}
	} else if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, handlePaymentRepoError(err, "save refund")
	}

	s.logger.InfoContext(ctx, "refund initiated",
		slog.String("payment_id", payment.ID),
		slog.String("refund_id", refund.ID),
		slog.Int64("amount", amount))

	return &RefundResult{RefundID: refund.ID, Amount: amount, Status: payment.Refund.Status}, nil
}

// ExpireStalePayments cancels created payments nobody completed within a day.
func (s *paymentService) ExpireStalePayments(ctx context.Context) (int64, error) {
	now := s.clock.Now()
	n, err := s.paymentRepo.ExpireStale(ctx, now.Add(-stalePaymentAge), now)
	if err != nil {
		return 0, handlePaymentRepoError(err, "expire stale payments")
	}
	return n, nil
}

func (s *paymentService) broadcast(ctx context.Context, matchID, event string, payload map[string]interface{}) {
	if s.broadcaster == nil {
		return
	}
	payload["match_id"] = matchID
	s.broadcaster.Broadcast(ctx, utils.MatchTopic(matchID), event, payload)
}

func paymentNotes(p *models.Payment) map[string]string {
	return map[string]string{
		"match_id":   p.MatchID,
		"user_id":    p.UserID,
		"type":       "match_payment",
		"payment_id": p.ID,
	}
}

// webhookKey identifies one delivery of one event for one entity.
func webhookKey(ev *gateway.WebhookEvent) string {
	switch {
	case ev.Refund != nil && ev.Refund.ID != "":
		return "webhook:" + ev.Event + ":" + ev.Refund.ID
	case ev.Payment != nil && ev.Payment.ID != "":
		return "webhook:" + ev.Event + ":" + ev.Payment.ID
	case ev.Order != nil && ev.Order.ID != "":
		return "webhook:" + ev.Event + ":" + ev.Order.ID
	default:
		return ""
	}
}

func gatewayError(err error, action string) error {
	if errors.Is(err, gateway.ErrNotConfigured) {
		return ErrGatewayDisabled
	}
	return apperr.Payment(err, "Failed to "+action)
}
