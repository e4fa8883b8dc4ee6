package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Faaz345/playsplit/apperr"
	clockmocks "github.com/Faaz345/playsplit/clock/mocks"
	"github.com/Faaz345/playsplit/gateway"
	gatewaymocks "github.com/Faaz345/playsplit/gateway/mocks"
	"github.com/Faaz345/playsplit/lifecycle"
	"github.com/Faaz345/playsplit/models"
	"github.com/Faaz345/playsplit/realtime"
	realtimemocks "github.com/Faaz345/playsplit/realtime/mocks"
	"github.com/Faaz345/playsplit/redisstore"
	"github.com/Faaz345/playsplit/repositories"
	repomocks "github.com/Faaz345/playsplit/repositories/mocks"
	"github.com/Faaz345/playsplit/services"
	"github.com/Faaz345/playsplit/services/mocks"
	"github.com/Faaz345/playsplit/utils"
)

const capturedWebhook = `{
	"event": "payment.captured",
	"payload": {
		"payment": {
			"entity": {
				"id": "pay_gw_1",
				"order_id": "order_1",
				"amount": 12000,
				"currency": "INR",
				"status": "captured",
				"method": "upi",
				"notes": {"payment_id": "pay_local_1"}
			}
		}
	}
}`

type PaymentServiceTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	paymentRepo *repomocks.MockPaymentRepository
	matchRepo   *repomocks.MockMatchRepository
	userRepo    *repomocks.MockUserRepository
	matches     *mocks.MockMatchService
	gateway     *gatewaymocks.MockGateway
	idempotency *mocks.MockIdempotencyStore
	broadcaster *realtimemocks.MockBroadcaster
	now         time.Time
	player      *models.User
	admin       *models.User
	service     services.PaymentService
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.paymentRepo = repomocks.NewMockPaymentRepository(s.ctrl)
	s.matchRepo = repomocks.NewMockMatchRepository(s.ctrl)
	s.userRepo = repomocks.NewMockUserRepository(s.ctrl)
	s.matches = mocks.NewMockMatchService(s.ctrl)
	s.gateway = gatewaymocks.NewMockGateway(s.ctrl)
	s.idempotency = mocks.NewMockIdempotencyStore(s.ctrl)
	s.broadcaster = realtimemocks.NewMockBroadcaster(s.ctrl)

	s.now = time.Date(2025, 6, 14, 21, 0, 0, 0, time.UTC)
	clk := clockmocks.NewMockClock(s.ctrl)
	clk.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	s.player = &models.User{ID: "user-player", Name: "Asha", Email: "asha@example.com", IsActive: true}
	s.admin = &models.User{ID: "user-admin", Name: "Admin", Role: models.RoleAdmin, IsActive: true}

	s.service = services.NewPaymentService(
		s.paymentRepo, s.matchRepo, s.userRepo, s.matches, s.gateway,
		s.idempotency, s.broadcaster, clk, discardLogger(), testClientURL+"/",
	)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (s *PaymentServiceTestSuite) completedMatch(joined ...string) *models.Match {
	m := &models.Match{
		MatchID:     "AB12CD34",
		Title:       "Sunday Kickabout",
		OrganizerID: "user-organizer",
		DateTime:    s.now.Add(-2 * time.Hour),
		Duration:    90,
		MaxPlayers:  10,
		TotalCost:   1200,
		Status:      models.MatchStatusOpen,
	}
	lifecycle.Reprice(m)
	for _, id := range joined {
		s.Require().NoError(lifecycle.Join(m, id, s.now.Add(-3*time.Hour)))
	}
	m.Status = models.MatchStatusCompleted
	return m
}

func (s *PaymentServiceTestSuite) attemptedPayment() *models.Payment {
	orderID := "order_1"
	p := &models.Payment{
		ID:             "pay_local_1",
		MatchID:        "AB12CD34",
		UserID:         s.player.ID,
		Amount:         120,
		Currency:       models.CurrencyINR,
		Method:         models.PaymentMethodUPI,
		GatewayOrderID: &orderID,
	}
	p.SetStatus(models.PaymentStatusAttempted, s.now.Add(-time.Minute), "")
	return p
}

func (s *PaymentServiceTestSuite) paidPayment(method models.PaymentMethod) *models.Payment {
	p := s.attemptedPayment()
	p.Method = method
	if method != models.PaymentMethodCash {
		p.MarkPaid("pay_gw_1", "", nil, s.now.Add(-time.Hour))
	} else {
		p.SetStatus(models.PaymentStatusPaid, s.now.Add(-time.Hour), "cash")
	}
	return p
}

func (s *PaymentServiceTestSuite) TestCreatePaymentLinkForNewPayment() {
	ctx := context.Background()
	s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(s.completedMatch(s.player.ID), nil)
	s.paymentRepo.EXPECT().GetOpenByMatchAndUser(ctx, "AB12CD34", s.player.ID).Return(nil, repositories.ErrPaymentNotFound)
	s.paymentRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p *models.Payment) error {
		s.True(strings.HasPrefix(p.ID, "pay_"))
		s.Equal(int64(120), p.Amount)
		s.Equal(models.PaymentStatusCreated, p.Status)
		s.Equal("10.0.0.1", p.Metadata.IPAddress)
		return nil
	})
	s.gateway.EXPECT().CreatePaymentLink(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, req gateway.PaymentLinkRequest) (*gateway.PaymentLink, error) {
		s.Equal(int64(120), req.Amount)
		s.Equal("match_payment", req.Notes["type"])
		s.Equal(s.player.ID, req.Notes["user_id"])
		s.Equal(testClientURL+"/match/AB12CD34/payment-success", req.CallbackURL)
		s.True(req.ExpireBy.Equal(s.now.Add(24 * time.Hour)))
		return &gateway.PaymentLink{ID: "plink_1", ShortURL: "https://rzp.io/i/abc", ExpireBy: req.ExpireBy}, nil
	})
	s.paymentRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	res, err := s.service.CreatePaymentLink(ctx, s.player, services.CreatePaymentInput{
		MatchID:    "AB12CD34",
		ClientInfo: services.ClientInfo{IPAddress: "10.0.0.1"},
	})
	s.Require().NoError(err)
	s.Equal("https://rzp.io/i/abc", res.PaymentLink)
	s.Equal(int64(120), res.Amount)
}

func (s *PaymentServiceTestSuite) TestCreatePaymentLinkGuards() {
	ctx := context.Background()

	s.Run("not in match", func() {
		s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(s.completedMatch("someone-else"), nil)
		_, err := s.service.CreatePaymentLink(ctx, s.player, services.CreatePaymentInput{MatchID: "AB12CD34"})
		s.ErrorIs(err, services.ErrNotMatchPlayer)
	})

	s.Run("already paid", func() {
		m := s.completedMatch(s.player.ID)
		_, err := lifecycle.UpdatePaymentStatus(m, s.player.ID, lifecycle.PaymentUpdate{Status: models.PlayerPaymentPaid, PaymentID: "pay_gw_1"}, s.now)
		s.Require().NoError(err)
		s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(m, nil)

		_, err = s.service.CreatePaymentLink(ctx, s.player, services.CreatePaymentInput{MatchID: "AB12CD34"})
		s.ErrorIs(err, services.ErrPaymentCompleted)
	})

	s.Run("gateway not configured", func() {
		s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(s.completedMatch(s.player.ID), nil)
		s.paymentRepo.EXPECT().GetOpenByMatchAndUser(ctx, "AB12CD34", s.player.ID).Return(s.attemptedPayment(), nil)
		s.gateway.EXPECT().CreatePaymentLink(ctx, gomock.Any()).Return(nil, gateway.ErrNotConfigured)

		_, err := s.service.CreatePaymentLink(ctx, s.player, services.CreatePaymentInput{MatchID: "AB12CD34"})
		s.ErrorIs(err, services.ErrGatewayDisabled)
	})
}

func (s *PaymentServiceTestSuite) TestCreateOrderMovesPaymentToAttempted() {
	ctx := context.Background()
	existing := s.attemptedPayment()
	existing.Status = models.PaymentStatusCreated
	existing.Amount = 100

	s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(s.completedMatch(s.player.ID), nil)
	s.paymentRepo.EXPECT().GetOpenByMatchAndUser(ctx, "AB12CD34", s.player.ID).Return(existing, nil)
	// сумма синхронизируется с долей игрока
	s.paymentRepo.EXPECT().Update(ctx, existing).Return(nil).Times(2)
	s.gateway.EXPECT().CreateOrder(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
		s.Equal(utils.PaymentReceipt("AB12CD34", s.player.ID), req.Receipt)
		return &gateway.Order{ID: "order_9", Amount: req.Amount, Currency: "INR"}, nil
	})
	s.gateway.EXPECT().KeyID().Return("rzp_test_key")

	res, err := s.service.CreateOrder(ctx, s.player, services.CreatePaymentInput{MatchID: "AB12CD34"})
	s.Require().NoError(err)
	s.Equal("order_9", res.OrderID)
	s.Equal(int64(120), res.Amount)
	s.Equal("rzp_test_key", res.KeyID)
	s.Equal(models.PaymentStatusAttempted, existing.Status)
}

func (s *PaymentServiceTestSuite) TestVerifyPaymentRejectsBadSignature() {
	s.gateway.EXPECT().VerifyPaymentSignature("order_1", "pay_gw_1", "bad").Return(false)

	_, err := s.service.VerifyPayment(context.Background(), s.player, services.VerifyPaymentInput{
		OrderID: "order_1", PaymentID: "pay_gw_1", Signature: "bad",
	})
	s.ErrorIs(err, services.ErrInvalidSignature)
	s.Equal(apperr.KindPayment, apperr.KindOf(err))
}

func (s *PaymentServiceTestSuite) TestVerifyPaymentSettles() {
	ctx := context.Background()
	payment := s.attemptedPayment()

	s.gateway.EXPECT().VerifyPaymentSignature("order_1", "pay_gw_1", "sig").Return(true)
	s.paymentRepo.EXPECT().GetByGatewayOrderID(ctx, "order_1").Return(payment, nil)
	s.gateway.EXPECT().FetchPayment(ctx, "pay_gw_1").Return(&gateway.Payment{
		ID: "pay_gw_1", OrderID: "order_1", Amount: 120, Status: "captured", Method: "card",
	}, nil)
	s.paymentRepo.EXPECT().Update(ctx, payment).Return(nil)
	s.userRepo.EXPECT().IncrementStats(ctx, s.player.ID, repositories.StatsDelta{TotalPaid: 120}).Return(nil)
	s.matches.EXPECT().UpdatePlayerPayment(ctx, "AB12CD34", s.player.ID, lifecycle.PaymentUpdate{
		Status:    models.PlayerPaymentPaid,
		Amount:    120,
		Method:    models.PaymentMethodCard,
		PaymentID: "pay_gw_1",
	}).Return(&models.Match{MatchID: "AB12CD34"}, true, nil)
	s.broadcaster.EXPECT().Broadcast(ctx, utils.MatchTopic("AB12CD34"), realtime.EventPaymentCompleted, gomock.Any())

	got, err := s.service.VerifyPayment(ctx, s.player, services.VerifyPaymentInput{
		OrderID: "order_1", PaymentID: "pay_gw_1", Signature: "sig",
	})
	s.Require().NoError(err)
	s.Equal(models.PaymentStatusPaid, got.Status)
	s.True(got.Verification.Verified)
	s.Equal("sig", got.Verification.Signature)
}

func (s *PaymentServiceTestSuite) TestVerifyPaymentOfAnotherUserIsForbidden() {
	ctx := context.Background()
	payment := s.attemptedPayment()
	payment.UserID = "someone-else"

	s.gateway.EXPECT().VerifyPaymentSignature(gomock.Any(), gomock.Any(), gomock.Any()).Return(true)
	s.paymentRepo.EXPECT().GetByGatewayOrderID(ctx, "order_1").Return(payment, nil)

	_, err := s.service.VerifyPayment(ctx, s.player, services.VerifyPaymentInput{
		OrderID: "order_1", PaymentID: "pay_gw_1", Signature: "sig",
	})
	s.ErrorIs(err, services.ErrForbidden)
}

func (s *PaymentServiceTestSuite) TestWebhookRejectsBadSignature() {
	s.gateway.EXPECT().VerifyWebhookSignature([]byte(capturedWebhook), "bad").Return(false)

	_, err := s.service.HandleWebhook(context.Background(), []byte(capturedWebhook), "bad")
	s.ErrorIs(err, services.ErrInvalidWebhook)
}

func (s *PaymentServiceTestSuite) TestWebhookDuplicateDeliveryIsSkipped() {
	ctx := context.Background()
	s.gateway.EXPECT().VerifyWebhookSignature(gomock.Any(), "sig").Return(true).Times(2)

	s.idempotency.EXPECT().
		CheckAndSetIdempotency(ctx, "webhook:payment.captured:pay_gw_1", gomock.Any()).
		Return([]byte("payment.captured"), nil)
	res, err := s.service.HandleWebhook(ctx, []byte(capturedWebhook), "sig")
	s.Require().NoError(err)
	s.True(res.Duplicate)
	s.False(res.Processed)

	s.idempotency.EXPECT().
		CheckAndSetIdempotency(ctx, "webhook:payment.captured:pay_gw_1", gomock.Any()).
		Return(nil, redisstore.ErrKeyExists)
	res, err = s.service.HandleWebhook(ctx, []byte(capturedWebhook), "sig")
	s.Require().NoError(err)
	s.True(res.Duplicate)
}

func (s *PaymentServiceTestSuite) TestWebhookCapturedSettlesByOrderID() {
	ctx := context.Background()
	payment := s.attemptedPayment()
	key := "webhook:payment.captured:pay_gw_1"

	s.gateway.EXPECT().VerifyWebhookSignature(gomock.Any(), "sig").Return(true)
	s.idempotency.EXPECT().CheckAndSetIdempotency(ctx, key, gomock.Any()).Return(nil, nil)
	s.paymentRepo.EXPECT().GetByGatewayPaymentID(ctx, "pay_gw_1").Return(nil, repositories.ErrPaymentNotFound)
	s.paymentRepo.EXPECT().GetByGatewayOrderID(ctx, "order_1").Return(payment, nil)
	s.paymentRepo.EXPECT().Update(ctx, payment).Return(nil)
	s.userRepo.EXPECT().IncrementStats(ctx, s.player.ID, gomock.Any()).Return(nil)
	s.matches.EXPECT().UpdatePlayerPayment(ctx, "AB12CD34", s.player.ID, gomock.Any()).Return(nil, true, nil)
	s.broadcaster.EXPECT().Broadcast(ctx, gomock.Any(), realtime.EventPaymentCompleted, gomock.Any())
	s.idempotency.EXPECT().MarkIdempotencyComplete(ctx, key, []byte("payment.captured"), gomock.Any()).Return(nil)

	res, err := s.service.HandleWebhook(ctx, []byte(capturedWebhook), "sig")
	s.Require().NoError(err)
	s.True(res.Processed)
	s.Equal(models.PaymentStatusPaid, payment.Status)
	s.Equal(int64(120), payment.Amount)
}

func (s *PaymentServiceTestSuite) TestWebhookForDepartedPlayerIsAcknowledged() {
	ctx := context.Background()
	payment := s.attemptedPayment()

	s.gateway.EXPECT().VerifyWebhookSignature(gomock.Any(), "sig").Return(true)
	s.idempotency.EXPECT().CheckAndSetIdempotency(ctx, gomock.Any(), gomock.Any()).Return(nil, nil)
	s.paymentRepo.EXPECT().GetByGatewayPaymentID(ctx, "pay_gw_1").Return(payment, nil)
	s.paymentRepo.EXPECT().Update(ctx, payment).Return(nil)
	s.userRepo.EXPECT().IncrementStats(ctx, s.player.ID, gomock.Any()).Return(nil)
	s.matches.EXPECT().UpdatePlayerPayment(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, false, lifecycle.ErrPlayerNotFound)
	s.idempotency.EXPECT().MarkIdempotencyComplete(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := s.service.HandleWebhook(ctx, []byte(capturedWebhook), "sig")
	s.Require().NoError(err)
	s.True(res.Processed)
}

func (s *PaymentServiceTestSuite) TestWebhookFailureReleasesKey() {
	ctx := context.Background()
	key := "webhook:payment.captured:pay_gw_1"

	s.gateway.EXPECT().VerifyWebhookSignature(gomock.Any(), "sig").Return(true)
	s.idempotency.EXPECT().CheckAndSetIdempotency(ctx, key, gomock.Any()).Return(nil, nil)
	s.paymentRepo.EXPECT().GetByGatewayPaymentID(ctx, "pay_gw_1").Return(nil, errors.New("connection reset"))
	s.idempotency.EXPECT().MarkIdempotencyFailed(ctx, key).Return(nil)

	res, err := s.service.HandleWebhook(ctx, []byte(capturedWebhook), "sig")
	s.Require().Error(err)
	s.Nil(res)
	s.Equal(apperr.KindInfrastructure, apperr.KindOf(err))
}

func (s *PaymentServiceTestSuite) TestWebhookBusinessFailureIsAcknowledged() {
	ctx := context.Background()
	payment := s.paidPayment(models.PaymentMethodUPI)
	key := "webhook:payment.captured:pay_gw_1"

	s.gateway.EXPECT().VerifyWebhookSignature(gomock.Any(), "sig").Return(true)
	s.idempotency.EXPECT().CheckAndSetIdempotency(ctx, key, gomock.Any()).Return(nil, nil)
	s.paymentRepo.EXPECT().GetByGatewayPaymentID(ctx, "pay_gw_1").Return(payment, nil)
	s.matches.EXPECT().UpdatePlayerPayment(ctx, "AB12CD34", s.player.ID, gomock.Any()).Return(nil, false, lifecycle.ErrAlreadyPaid)
	s.idempotency.EXPECT().MarkIdempotencyFailed(ctx, key).Return(nil)

	res, err := s.service.HandleWebhook(ctx, []byte(capturedWebhook), "sig")
	s.Require().NoError(err)
	s.False(res.Processed)
	s.False(res.Duplicate)
}

func (s *PaymentServiceTestSuite) TestWebhookCaptureAfterRefundIsIgnored() {
	ctx := context.Background()
	payment := s.paidPayment(models.PaymentMethodUPI)
	payment.SetStatus(models.PaymentStatusRefunded, s.now.Add(-30*time.Minute), "Refund processed")
	key := "webhook:payment.captured:pay_gw_1"

	s.gateway.EXPECT().VerifyWebhookSignature(gomock.Any(), "sig").Return(true)
	s.idempotency.EXPECT().CheckAndSetIdempotency(ctx, key, gomock.Any()).Return(nil, nil)
	s.paymentRepo.EXPECT().GetByGatewayPaymentID(ctx, "pay_gw_1").Return(payment, nil)
	s.idempotency.EXPECT().MarkIdempotencyComplete(ctx, key, gomock.Any(), gomock.Any()).Return(nil)

	res, err := s.service.HandleWebhook(ctx, []byte(capturedWebhook), "sig")
	s.Require().NoError(err)
	s.True(res.Processed)
	s.Equal(models.PaymentStatusRefunded, payment.Status)
}

func (s *PaymentServiceTestSuite) TestWebhookMalformedBody() {
	body := []byte(`{"payload": {}}`)
	s.gateway.EXPECT().VerifyWebhookSignature(body, "sig").Return(true)

	_, err := s.service.HandleWebhook(context.Background(), body, "sig")
	s.Equal(apperr.KindValidation, apperr.KindOf(err))
}

func (s *PaymentServiceTestSuite) TestMarkCashPayment() {
	ctx := context.Background()

	s.Run("requires admin", func() {
		_, err := s.service.MarkCashPayment(ctx, s.player, services.CashPaymentInput{MatchID: "AB12CD34", UserID: s.player.ID})
		s.ErrorIs(err, services.ErrAdminRequired)
	})

	s.Run("records full share", func() {
		s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(s.completedMatch(s.player.ID), nil)
		s.paymentRepo.EXPECT().GetOpenByMatchAndUser(ctx, "AB12CD34", s.player.ID).Return(nil, repositories.ErrPaymentNotFound)
		s.paymentRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		s.matches.EXPECT().UpdatePlayerPayment(ctx, "AB12CD34", s.player.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, u lifecycle.PaymentUpdate) (*models.Match, bool, error) {
				s.Equal(models.PaymentMethodCash, u.Method)
				s.Equal(int64(120), u.Amount)
				s.True(strings.HasPrefix(u.PaymentID, "cash_"))
				return nil, true, nil
			})
		s.userRepo.EXPECT().IncrementStats(ctx, s.player.ID, repositories.StatsDelta{TotalPaid: 120}).Return(nil)
		s.broadcaster.EXPECT().Broadcast(ctx, gomock.Any(), realtime.EventPaymentCompleted, gomock.Any())

		p, err := s.service.MarkCashPayment(ctx, s.admin, services.CashPaymentInput{MatchID: "AB12CD34", UserID: s.player.ID})
		s.Require().NoError(err)
		s.Equal(models.PaymentStatusPaid, p.Status)
		s.Equal(s.admin.ID, p.Metadata.MarkedBy)
		s.Equal("Manually marked as cash payment", p.Metadata.Notes)
	})

	s.Run("repeated marking counts once", func() {
		s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(s.completedMatch(s.player.ID), nil)
		s.paymentRepo.EXPECT().GetOpenByMatchAndUser(ctx, "AB12CD34", s.player.ID).Return(nil, repositories.ErrPaymentNotFound)
		s.paymentRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		s.matches.EXPECT().UpdatePlayerPayment(ctx, "AB12CD34", s.player.ID, gomock.Any()).Return(nil, false, nil)

		_, err := s.service.MarkCashPayment(ctx, s.admin, services.CashPaymentInput{MatchID: "AB12CD34", UserID: s.player.ID})
		s.Require().NoError(err)
	})
}

func (s *PaymentServiceTestSuite) TestRefundRules() {
	ctx := context.Background()

	s.Run("only paid payments", func() {
		s.paymentRepo.EXPECT().GetByID(ctx, "pay_local_1").Return(s.attemptedPayment(), nil)
		_, err := s.service.RefundPayment(ctx, s.admin, services.RefundInput{PaymentID: "pay_local_1", Reason: "rain"})
		s.ErrorIs(err, services.ErrRefundNotPaid)
	})

	s.Run("never cash", func() {
		s.paymentRepo.EXPECT().GetByID(ctx, "pay_local_1").Return(s.paidPayment(models.PaymentMethodCash), nil)
		_, err := s.service.RefundPayment(ctx, s.admin, services.RefundInput{PaymentID: "pay_local_1", Reason: "rain"})
		s.ErrorIs(err, services.ErrRefundCash)
	})

	s.Run("not more than paid", func() {
		s.paymentRepo.EXPECT().GetByID(ctx, "pay_local_1").Return(s.paidPayment(models.PaymentMethodUPI), nil)
		amount := int64(500)
		_, err := s.service.RefundPayment(ctx, s.admin, services.RefundInput{PaymentID: "pay_local_1", Amount: &amount, Reason: "rain"})
		s.ErrorIs(err, services.ErrRefundTooLarge)
	})

	s.Run("pending until processed", func() {
		payment := s.paidPayment(models.PaymentMethodUPI)
		s.paymentRepo.EXPECT().GetByID(ctx, "pay_local_1").Return(payment, nil)
		s.gateway.EXPECT().CreateRefund(ctx, "pay_gw_1", int64(120), gomock.Any()).
			Return(&gateway.Refund{ID: "rfnd_1", PaymentID: "pay_gw_1", Amount: 120, Status: "pending"}, nil)
		s.paymentRepo.EXPECT().Update(ctx, payment).Return(nil)

		res, err := s.service.RefundPayment(ctx, s.admin, services.RefundInput{PaymentID: "pay_local_1", Reason: "rain"})
		s.Require().NoError(err)
		s.Equal(models.RefundStatusPending, res.Status)
		s.Equal(models.PaymentStatusPaid, payment.Status)
		s.Equal(s.admin.ID, payment.Refund.RefundedBy)
	})

	s.Run("processed immediately updates roster", func() {
		payment := s.paidPayment(models.PaymentMethodUPI)
		s.paymentRepo.EXPECT().GetByID(ctx, "pay_local_1").Return(payment, nil)
		s.gateway.EXPECT().CreateRefund(ctx, "pay_gw_1", int64(120), gomock.Any()).
			Return(&gateway.Refund{ID: "rfnd_2", PaymentID: "pay_gw_1", Amount: 120, Status: gateway.RefundStatusProcessed}, nil)
		s.paymentRepo.EXPECT().Update(ctx, payment).Return(nil)
		s.matches.EXPECT().UpdatePlayerPayment(ctx, "AB12CD34", s.player.ID, lifecycle.PaymentUpdate{
			Status:    models.PlayerPaymentRefunded,
			PaymentID: "pay_gw_1",
		}).Return(nil, true, nil)
		s.broadcaster.EXPECT().Broadcast(ctx, utils.MatchTopic("AB12CD34"), realtime.EventRefundUpdated, gomock.Any())

		res, err := s.service.RefundPayment(ctx, s.admin, services.RefundInput{PaymentID: "pay_local_1", Reason: "rain"})
		s.Require().NoError(err)
		s.Equal(models.RefundStatusProcessed, res.Status)
		s.Equal(models.PaymentStatusRefunded, payment.Status)
		s.Equal(s.admin.ID, payment.Refund.RefundedBy)
		s.Equal("rain", payment.Refund.Reason)
	})

	s.Run("requires admin", func() {
		_, err := s.service.RefundPayment(ctx, s.player, services.RefundInput{PaymentID: "pay_local_1", Reason: "rain"})
		s.ErrorIs(err, services.ErrAdminRequired)
	})
}

func (s *PaymentServiceTestSuite) TestExpireStalePayments() {
	ctx := context.Background()
	s.paymentRepo.EXPECT().ExpireStale(ctx, s.now.Add(-24*time.Hour), s.now).Return(int64(3), nil)

	n, err := s.service.ExpireStalePayments(ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), n)
}
