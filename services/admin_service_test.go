package services_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/Faaz345/playsplit/apperr"
	clockmocks "github.com/Faaz345/playsplit/clock/mocks"
	"github.com/Faaz345/playsplit/models"
	"github.com/Faaz345/playsplit/repositories"
	repomocks "github.com/Faaz345/playsplit/repositories/mocks"
	"github.com/Faaz345/playsplit/services"
	"github.com/Faaz345/playsplit/services/mocks"
)

type AdminServiceTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	userRepo    *repomocks.MockUserRepository
	matchRepo   *repomocks.MockMatchRepository
	paymentRepo *repomocks.MockPaymentRepository
	matches     *mocks.MockMatchService
	now         time.Time
	admin       *models.User
	service     services.AdminService
}

func (s *AdminServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.userRepo = repomocks.NewMockUserRepository(s.ctrl)
	s.matchRepo = repomocks.NewMockMatchRepository(s.ctrl)
	s.paymentRepo = repomocks.NewMockPaymentRepository(s.ctrl)
	s.matches = mocks.NewMockMatchService(s.ctrl)

	s.now = time.Date(2025, 6, 14, 9, 30, 0, 0, time.UTC)
	clk := clockmocks.NewMockClock(s.ctrl)
	clk.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	s.admin = &models.User{ID: "admin-1", Role: models.RoleAdmin, IsActive: true}
	s.service = services.NewAdminService(s.userRepo, s.matchRepo, s.paymentRepo, s.matches, clk, discardLogger(), testClientURL)
}

func TestAdminServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceTestSuite))
}

func (s *AdminServiceTestSuite) TestGetDashboard() {
	monthStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s.userRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(42, nil)
	s.matchRepo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f repositories.ListMatchesFilter) (int, error) {
		switch len(f.Statuses) {
		case 0:
			return 30, nil
		case 2:
			return 5, nil
		default:
			return 20, nil
		}
	}).Times(3)
	s.paymentRepo.EXPECT().SumPaid(gomock.Any(), nil, &monthStart).Return(int64(15000), nil)
	s.paymentRepo.EXPECT().CountByStatus(gomock.Any()).Return(map[models.PaymentStatus]int{models.PaymentStatusPaid: 12}, nil)
	s.matchRepo.EXPECT().List(gomock.Any(), repositories.ListMatchesFilter{Limit: 5}).Return(nil, nil)
	s.userRepo.EXPECT().List(gomock.Any(), repositories.ListUsersFilter{Limit: 5}).Return(nil, 0, nil)

	stats, err := s.service.GetDashboard(context.Background())
	s.Require().NoError(err)
	s.Equal(42, stats.ActiveUsers)
	s.Equal(30, stats.MatchesTotal)
	s.Equal(5, stats.ActiveMatches)
	s.Equal(20, stats.CompletedMatches)
	s.Equal(int64(15000), stats.RevenueThisMonth)
	s.Equal(12, stats.PaymentsByStatus[models.PaymentStatusPaid])
	s.NotNil(stats.RecentMatches)
	s.NotNil(stats.RecentUsers)
}

func (s *AdminServiceTestSuite) TestUpdateUser() {
	ctx := context.Background()
	role := "admin"

	_, err := s.service.UpdateUser(ctx, s.admin, s.admin.ID, services.AdminUpdateUserInput{Role: &role})
	s.ErrorIs(err, services.ErrCannotDemoteSelf)

	_, err = s.service.UpdateUser(ctx, s.admin, "user-2", services.AdminUpdateUserInput{})
	s.Equal(apperr.KindValidation, apperr.KindOf(err))

	target := &models.User{ID: "user-2", Role: models.RolePlayer, IsActive: true}
	inactive := false
	s.userRepo.EXPECT().GetByID(ctx, "user-2").Return(target, nil)
	s.userRepo.EXPECT().Update(ctx, target).Return(nil)

	got, err := s.service.UpdateUser(ctx, s.admin, "user-2", services.AdminUpdateUserInput{Role: &role, IsActive: &inactive})
	s.Require().NoError(err)
	s.Equal(models.RoleAdmin, got.Role)
	s.False(got.IsActive)
}

func (s *AdminServiceTestSuite) TestListPaymentsAppliesFilters() {
	ctx := context.Background()
	s.paymentRepo.EXPECT().List(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, f repositories.ListPaymentsFilter) ([]*models.PaymentWithUser, int, error) {
		s.Equal(models.PaymentStatusPaid, *f.Status)
		s.Equal("AB12CD34", *f.MatchID)
		s.Nil(f.UserID)
		s.Equal(25, f.Limit)
		s.Equal(25, f.Offset)
		return nil, 30, nil
	})

	payments, page, err := s.service.ListPayments(ctx, services.AdminPaymentsInput{
		Status: "paid", MatchID: "AB12CD34", Page: 2, Limit: 25,
	})
	s.Require().NoError(err)
	s.Empty(payments)
	s.False(page.HasNext)
	s.True(page.HasPrev)
	s.Equal(2, page.TotalPages)
}

func (s *AdminServiceTestSuite) TestForceCancelDelegatesToMatchService() {
	ctx := context.Background()
	view := &models.MatchView{Match: &models.Match{MatchID: "AB12CD34", Status: models.MatchStatusCancelled}}
	s.matches.EXPECT().CancelMatch(ctx, s.admin, "AB12CD34").Return(view, nil)

	got, err := s.service.ForceCancelMatch(ctx, s.admin, "AB12CD34")
	s.Require().NoError(err)
	s.Equal(models.MatchStatusCancelled, got.Status)

	_, err = s.service.ForceCancelMatch(ctx, &models.User{ID: "user-2"}, "AB12CD34")
	s.ErrorIs(err, services.ErrAdminRequired)
}

func (s *AdminServiceTestSuite) TestExportPaymentsWritesWorkbook() {
	ctx := context.Background()
	gwID := "pay_gw_1"
	rows := []*models.PaymentWithUser{
		{
			Payment: &models.Payment{
				ID: "pay_1", MatchID: "AB12CD34", Amount: 120, Currency: models.CurrencyINR,
				Method: models.PaymentMethodUPI, Status: models.PaymentStatusPaid, GatewayPaymentID: &gwID,
				CreatedAt: s.now, UpdatedAt: s.now,
			},
			UserName:  "Asha",
			UserEmail: "asha@example.com",
		},
	}
	s.paymentRepo.EXPECT().List(ctx, gomock.Any()).Return(rows, 1, nil)

	var buf bytes.Buffer
	n, err := s.service.ExportPayments(ctx, services.AdminPaymentsInput{}, &buf)
	s.Require().NoError(err)
	s.Equal(1, n)

	f, err := excelize.OpenReader(&buf)
	s.Require().NoError(err)
	defer f.Close()

	header, err := f.GetCellValue("Payments", "A1")
	s.Require().NoError(err)
	s.Equal("Payment ID", header)
	player, err := f.GetCellValue("Payments", "C2")
	s.Require().NoError(err)
	s.Equal("Asha", player)
	gateway, err := f.GetCellValue("Payments", "I2")
	s.Require().NoError(err)
	s.Equal("pay_gw_1", gateway)
}

func (s *AdminServiceTestSuite) TestGetAnalytics() {
	since := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
	s.paymentRepo.EXPECT().DailyRevenue(gomock.Any(), since).Return([]models.DailyAmount{
		{Day: since, Amount: 500, Count: 2},
		{Day: since.AddDate(0, 0, 1), Amount: 700, Count: 3},
	}, nil)
	s.matchRepo.EXPECT().DailyCreated(gomock.Any(), since).Return(nil, nil)
	s.userRepo.EXPECT().DailySignups(gomock.Any(), since).Return(nil, nil)

	out, err := s.service.GetAnalytics(context.Background(), 7)
	s.Require().NoError(err)
	s.Equal(7, out.Days)
	s.Equal(int64(1200), out.TotalRevenue)
	s.NotNil(out.Matches)
	s.NotNil(out.Signups)
}

func (s *AdminServiceTestSuite) TestGetAnalyticsPropagatesFailure() {
	s.paymentRepo.EXPECT().DailyRevenue(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
	s.matchRepo.EXPECT().DailyCreated(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	s.userRepo.EXPECT().DailySignups(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	_, err := s.service.GetAnalytics(context.Background(), 0)
	s.Equal(apperr.KindInfrastructure, apperr.KindOf(err))
}
