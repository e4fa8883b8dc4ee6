package services

//go:generate mockgen -source=admin_service.go -destination=mocks/mock_admin_service.go -package=mocks

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Faaz345/playsplit/apperr"
	"github.com/Faaz345/playsplit/clock"
	"github.com/Faaz345/playsplit/models"
	"github.com/Faaz345/playsplit/repositories"
)

const (
	dashboardRecentLimit = 5
	defaultAnalyticsDays = 30
	maxAnalyticsDays     = 365
	maxExportRows        = 10000
	exportSheet          = "Payments"
)

type AdminService interface {
	GetDashboard(ctx context.Context) (*models.DashboardStats, error)
	ListUsers(ctx context.Context, input AdminUsersInput) ([]*models.User, models.Page, error)
	UpdateUser(ctx context.Context, admin *models.User, userID string, input AdminUpdateUserInput) (*models.User, error)
	ListMatches(ctx context.Context, input AdminMatchesInput) ([]models.MatchView, models.Page, error)
	ForceCancelMatch(ctx context.Context, admin *models.User, matchID string) (*models.MatchView, error)
	ListPayments(ctx context.Context, input AdminPaymentsInput) ([]*models.PaymentWithUser, models.Page, error)
	// ExportPayments пишет xlsx в w и возвращает число выгруженных платежей.
	ExportPayments(ctx context.Context, input AdminPaymentsInput, w io.Writer) (int, error)
	GetAnalytics(ctx context.Context, days int) (*models.Analytics, error)
}

type AdminUsersInput struct {
	Search   string `json:"search" validate:"max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=player admin"`
	IsActive *bool  `json:"is_active"`
	Page     int    `json:"page" validate:"gte=0"`
	Limit    int    `json:"limit" validate:"gte=0,max=100"`
}

type AdminUpdateUserInput struct {
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=player admin"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type AdminMatchesInput struct {
	Status   string     `json:"status" validate:"omitempty,oneof=draft open started pending-details completed cancelled"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Page     int        `json:"page" validate:"gte=0"`
	Limit    int        `json:"limit" validate:"gte=0,max=100"`
}

type AdminPaymentsInput struct {
	Status   string     `json:"status" validate:"omitempty,oneof=created attempted paid failed cancelled refunded"`
	MatchID  string     `json:"match_id"`
	UserID   string     `json:"user_id"`
	DateFrom *time.Time `json:"date_from"`
	DateTo   *time.Time `json:"date_to"`
	Page     int        `json:"page" validate:"gte=0"`
	Limit    int        `json:"limit" validate:"gte=0,max=100"`
}

func (in AdminPaymentsInput) filter() repositories.ListPaymentsFilter {
	f := repositories.ListPaymentsFilter{DateFrom: in.DateFrom, DateTo: in.DateTo}
	if in.Status != "" {
		status := models.PaymentStatus(in.Status)
		f.Status = &status
	}
	if in.MatchID != "" {
		f.MatchID = &in.MatchID
	}
	if in.UserID != "" {
		f.UserID = &in.UserID
	}
	return f
}

type adminService struct {
	userRepo     repositories.UserRepository
	matchRepo    repositories.MatchRepository
	paymentRepo  repositories.PaymentRepository
	matchService MatchService
	clock        clock.Clock
	logger       *slog.Logger
	clientURL    string
}

func NewAdminService(
	userRepo repositories.UserRepository,
	matchRepo repositories.MatchRepository,
	paymentRepo repositories.PaymentRepository,
	matchService MatchService,
	clk clock.Clock,
	logger *slog.Logger,
	clientURL string,
) AdminService {
	return &adminService{
		userRepo:     userRepo,
		matchRepo:    matchRepo,
		paymentRepo:  paymentRepo,
		matchService: matchService,
		clock:        clk,
		logger:       logger,
		clientURL:    clientURL,
	}
}

func (s *adminService) GetDashboard(ctx context.Context) (*models.DashboardStats, error) {
	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	active := true
	stats := &models.DashboardStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.ActiveUsers, err = s.userRepo.Count(gctx, repositories.ListUsersFilter{IsActive: &active})
		return err
	})
	g.Go(func() (err error) {
		stats.MatchesTotal, err = s.matchRepo.Count(gctx, repositories.ListMatchesFilter{})
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveMatches, err = s.matchRepo.Count(gctx, repositories.ListMatchesFilter{
			Statuses: []models.MatchStatus{models.MatchStatusOpen, models.MatchStatusStarted},
		})
		return err
	})
	g.Go(func() (err error) {
		stats.CompletedMatches, err = s.matchRepo.Count(gctx, repositories.ListMatchesFilter{
			Statuses: []models.MatchStatus{models.MatchStatusCompleted},
		})
		return err
	})
	g.Go(func() (err error) {
		stats.RevenueThisMonth, err = s.paymentRepo.SumPaid(gctx, nil, &monthStart)
		return err
	})
	g.Go(func() (err error) {
		stats.PaymentsByStatus, err = s.paymentRepo.CountByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentMatches, err = s.matchRepo.List(gctx, repositories.ListMatchesFilter{Limit: dashboardRecentLimit})
		return err
	})
	g.Go(func() (err error) {
		stats.RecentUsers, _, err = s.userRepo.List(gctx, repositories.ListUsersFilter{Limit: dashboardRecentLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Infrastructure(err, "Failed to load dashboard")
	}

	if stats.PaymentsByStatus == nil {
		stats.PaymentsByStatus = map[models.PaymentStatus]int{}
	}
	if stats.RecentMatches == nil {
		stats.RecentMatches = []*models.Match{}
	}
	if stats.RecentUsers == nil {
		stats.RecentUsers = []*models.User{}
	}
	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, input AdminUsersInput) ([]*models.User, models.Page, error) {
	if err := validateInput(input); err != nil {
		return nil, models.Page{}, err
	}
	page, limit, offset := normalizePage(input.Page, input.Limit, maxPageLimit)

	filter := repositories.ListUsersFilter{
		IsActive: input.IsActive,
		Search:   input.Search,
		Limit:    limit,
		Offset:   offset,
	}
	if input.Role != "" {
		role := models.UserRole(input.Role)
		filter.Role = &role
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, models.Page{}, handleUserRepoError(err, "list users")
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, models.NewPage(page, limit, total), nil
}

func (s *adminService) UpdateUser(ctx context.Context, admin *models.User, userID string, input AdminUpdateUserInput) (*models.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Role == nil && input.IsActive == nil {
		return nil, apperr.Validation("Nothing to update", map[string]string{
			"role":      "role or is_active is required",
			"is_active": "role or is_active is required",
		})
	}
	if admin.ID == userID {
		return nil, ErrCannotDemoteSelf
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, handleUserRepoError(err, "get user")
	}
	if input.Role != nil {
		user.Role = models.UserRole(*input.Role)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, handleUserRepoError(err, "update user")
	}

	s.logger.InfoContext(ctx, "user updated by admin",
		slog.String("admin_id", admin.ID),
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
		slog.Bool("is_active", user.IsActive))
	return user, nil
}

func (s *adminService) ListMatches(ctx context.Context, input AdminMatchesInput) ([]models.MatchView, models.Page, error) {
	if err := validateInput(input); err != nil {
		return nil, models.Page{}, err
	}
	page, limit, offset := normalizePage(input.Page, input.Limit, maxPageLimit)

	filter := repositories.ListMatchesFilter{DateFrom: input.DateFrom, DateTo: input.DateTo}
	if input.Status != "" {
		filter.Statuses = []models.MatchStatus{models.MatchStatus(input.Status)}
	}
	total, err := s.matchRepo.Count(ctx, filter)
	if err != nil {
		return nil, models.Page{}, handleMatchRepoError(err, "count matches")
	}
	filter.Limit = limit
	filter.Offset = offset
	matches, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return nil, models.Page{}, handleMatchRepoError(err, "list matches")
	}
	return models.NewMatchViews(matches, s.clock.Now(), s.clientURL), models.NewPage(page, limit, total), nil
}

// ForceCancelMatch отменяет матч от имени администратора.
func (s *adminService) ForceCancelMatch(ctx context.Context, admin *models.User, matchID string) (*models.MatchView, error) {
	if !admin.IsAdmin() {
		return nil, ErrAdminRequired
	}
	view, err := s.matchService.CancelMatch(ctx, admin, matchID)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "match cancelled by admin",
		slog.String("admin_id", admin.ID),
		slog.String("match_id", matchID))
	return view, nil
}

func (s *adminService) ListPayments(ctx context.Context, input AdminPaymentsInput) ([]*models.PaymentWithUser, models.Page, error) {
	if err := validateInput(input); err != nil {
		return nil, models.Page{}, err
	}
	page, limit, offset := normalizePage(input.Page, input.Limit, maxPageLimit)

	filter := input.filter()
	filter.Limit = limit
	filter.Offset = offset
	payments, total, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, models.Page{}, handlePaymentRepoError(err, "list payments")
	}
	if payments == nil {
		payments = []*models.PaymentWithUser{}
	}
	return payments, models.NewPage(page, limit, total), nil
}

var exportHeader = []interface{}{
	"Payment ID", "Match ID", "Player", "Email", "Amount (INR)", "Currency",
	"Method", "Status", "Gateway Payment ID", "Created At", "Updated At",
}

func (s *adminService) ExportPayments(ctx context.Context, input AdminPaymentsInput, w io.Writer) (int, error) {
	if err := validateInput(input); err != nil {
		return 0, err
	}
	filter := input.filter()
	filter.Limit = maxExportRows
	payments, _, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return 0, handlePaymentRepoError(err, "list payments for export")
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WarnContext(ctx, "failed to close export workbook", slog.Any("error", err))
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, apperr.Infrastructure(err, "Failed to build export")
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return 0, apperr.Infrastructure(err, "Failed to build export")
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(exportSheet, "A1", "K1", style)
	}
	_ = f.SetColWidth(exportSheet, "A", "K", 20)

	for i, p := range payments {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, apperr.Infrastructure(err, "Failed to build export")
		}
		row := []interface{}{
			p.ID, p.MatchID, p.UserName, p.UserEmail, p.Amount, string(p.Currency),
			string(p.Method), string(p.Status), derefString(p.GatewayPaymentID),
			p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return 0, apperr.Infrastructure(err, "Failed to build export")
		}
	}

	if err := f.Write(w); err != nil {
		return 0, apperr.Infrastructure(err, "Failed to write export")
	}
	return len(payments), nil
}

// GetAnalytics собирает дневные ряды за последние days дней.
func (s *adminService) GetAnalytics(ctx context.Context, days int) (*models.Analytics, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if days > maxAnalyticsDays {
		days = maxAnalyticsDays
	}
	now := s.clock.Now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))

	out := &models.Analytics{Days: days}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Revenue, err = s.paymentRepo.DailyRevenue(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		out.Matches, err = s.matchRepo.DailyCreated(gctx, since)
		return err
	})
	g.Go(func() (err error) {
		out.Signups, err = s.userRepo.DailySignups(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Infrastructure(err, "Failed to load analytics")
	}

	for _, d := range out.Revenue {
		out.TotalRevenue += d.Amount
	}
	if out.Revenue == nil {
		out.Revenue = []models.DailyAmount{}
	}
	if out.Matches == nil {
		out.Matches = []models.DailyAmount{}
	}
	if out.Signups == nil {
		out.Signups = []models.DailyAmount{}
	}
	return out, nil
}
