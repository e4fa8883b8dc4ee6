package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	"github.com/Faaz345/playsplit/models"
)

type PaymentRepositoryTestSuite struct {
	suite.Suite
	db   *sql.DB
	mock sqlmock.Sqlmock
	repo PaymentRepository
	ctx  context.Context
	now  time.Time
}

func (s *PaymentRepositoryTestSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.db = db
	s.mock = mock
	s.repo = NewPostgresPaymentRepository(db)
	s.ctx = context.Background()
	s.now = time.Date(2025, 5, 10, 18, 0, 0, 0, time.UTC)
}

func (s *PaymentRepositoryTestSuite) TearDownTest() {
	s.Require().NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func TestPaymentRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentRepositoryTestSuite))
}

var paymentColumnNames = []string{
	"id", "match_id", "user_id", "amount", "currency", "method", "status",
	"gateway_order_id", "gateway_payment_id", "payment_link_id", "payment_link_url",
	"gateway_response", "refund", "timeline", "verification", "metadata", "created_at", "updated_at",
}

func (s *PaymentRepositoryTestSuite) paymentRow(extra ...string) *sqlmock.Rows {
	return sqlmock.NewRows(append(append([]string{}, paymentColumnNames...), extra...))
}

func (s *PaymentRepositoryTestSuite) TestCreateDuplicateOrder() {
	orderID := "order_1"
	p := &models.Payment{
		ID: "pay_1", MatchID: "AB12CD34", UserID: "u1", Amount: 250,
		Currency: models.CurrencyINR, Method: models.PaymentMethodUPI, Status: models.PaymentStatusCreated,
		GatewayOrderID: &orderID,
	}

	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "payments_gateway_order_id_key"})

	err := s.repo.Create(s.ctx, p)
	s.True(errors.Is(err, ErrPaymentDuplicate))
	s.NotNil(p.Timeline)
}

func (s *PaymentRepositoryTestSuite) TestGetByGatewayOrderIDDecodesJSONColumns() {
	timeline := []byte(`[{"status":"created","timestamp":"2025-05-10T18:00:00Z"}]`)
	verification := []byte(`{"verified":false}`)
	metadata := []byte(`{"marked_by":"u2"}`)

	s.mock.ExpectQuery(regexp.QuoteMeta("WHERE p.gateway_order_id = $1")).
		WithArgs("order_1").
		WillReturnRows(s.paymentRow().AddRow(
			"pay_1", "AB12CD34", "u1", int64(250), "INR", "upi", "created",
			"order_1", nil, nil, nil,
			nil, nil, timeline, verification, metadata, s.now, s.now,
		))

	p, err := s.repo.GetByGatewayOrderID(s.ctx, "order_1")
	s.Require().NoError(err)
	s.Equal(models.PaymentStatusCreated, p.Status)
	s.Require().NotNil(p.GatewayOrderID)
	s.Equal("order_1", *p.GatewayOrderID)
	s.Nil(p.GatewayPaymentID)
	s.Nil(p.Refund)
	s.Len(p.Timeline, 1)
	s.Equal("u2", p.Metadata.MarkedBy)
}

func (s *PaymentRepositoryTestSuite) TestGetByIDNotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
		WithArgs("pay_x").
		WillReturnError(sql.ErrNoRows)

	_, err := s.repo.GetByID(s.ctx, "pay_x")
	s.ErrorIs(err, ErrPaymentNotFound)
}

func (s *PaymentRepositoryTestSuite) TestListReturnsWindowTotal() {
	status := models.PaymentStatusPaid
	s.mock.ExpectQuery(regexp.QuoteMeta("WHERE p.status = $1 ORDER BY p.created_at DESC LIMIT $2")).
		WithArgs(status, 10).
		WillReturnRows(s.paymentRow("name", "email", "profile_picture", "count").AddRow(
			"pay_1", "AB12CD34", "u1", int64(250), "INR", "card", "paid",
			"order_1", "gw_1", nil, nil,
			nil, nil, []byte(`[]`), []byte(`{"verified":true}`), []byte(`{}`), s.now, s.now,
			"Asha", "asha@example.com", nil, 31,
		))

	items, total, err := s.repo.List(s.ctx, ListPaymentsFilter{Status: &status, Limit: 10})
	s.Require().NoError(err)
	s.Equal(31, total)
	s.Require().Len(items, 1)
	s.Equal("Asha", items[0].UserName)
	s.Nil(items[0].UserProfilePicture)
	s.True(items[0].Verification.Verified)
}

func (s *PaymentRepositoryTestSuite) TestExpireStale() {
	cutoff := s.now.Add(-24 * time.Hour)
	s.mock.ExpectExec(regexp.QuoteMeta("SET status = 'cancelled'")).
		WithArgs(sqlmock.AnyArg(), cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.repo.ExpireStale(s.ctx, cutoff, s.now)
	s.Require().NoError(err)
	s.Equal(int64(3), n)
}

func (s *PaymentRepositoryTestSuite) TestSumPaidForUser() {
	user := "u1"
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'paid' AND user_id = $1")).
		WithArgs(user).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(1250)))

	sum, err := s.repo.SumPaid(s.ctx, &user, nil)
	s.Require().NoError(err)
	s.Equal(int64(1250), sum)
}
