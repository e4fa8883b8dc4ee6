package services

//go:generate mockgen -source=user_service.go -destination=mocks/mock_user_service.go -package=mocks

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Faaz345/playsplit/apperr"
	"github.com/Faaz345/playsplit/clock"
	"github.com/Faaz345/playsplit/models"
	"github.com/Faaz345/playsplit/repositories"
)

const (
	maxUserMatchesLimit = 50
	maxSearchLimit      = 20
	recentPaymentsLimit = 5
	minSearchLength     = 2
)

// Фильтры "моих матчей".
const (
	MyMatchesUpcoming  = "upcoming"
	MyMatchesCompleted = "completed"
	MyMatchesCancelled = "cancelled"
)

type UserService interface {
	GetMyMatches(ctx context.Context, user *models.User, input MyMatchesInput) ([]UserMatchView, models.Page, error)
	GetMyPayments(ctx context.Context, user *models.User, input MyPaymentsInput) ([]*models.PaymentWithUser, models.Page, error)
	GetMyStats(ctx context.Context, user *models.User) (*models.UserStatsSummary, error)
	GetPublicProfile(ctx context.Context, userID string) (*models.PublicProfile, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]models.PublicProfile, error)
}

type MyMatchesInput struct {
	Status string `json:"status" validate:"omitempty,oneof=upcoming completed cancelled"`
	Page   int    `json:"page" validate:"gte=0"`
	Limit  int    `json:"limit" validate:"gte=0,max=50"`
}

type MyPaymentsInput struct {
	Status string `json:"status" validate:"omitempty,oneof=created attempted paid failed cancelled refunded"`
	Page   int    `json:"page" validate:"gte=0"`
	Limit  int    `json:"limit" validate:"gte=0,max=50"`
}

// UserMatchView: матч с ролью и долей текущего пользователя.
type UserMatchView struct {
	models.MatchView
	UserRole          string                      `json:"user_role"`
	UserPaymentStatus *models.PlayerPaymentStatus `json:"user_payment_status"`
	UserAmountToPay   *int64                      `json:"user_amount_to_pay"`
}

type userService struct {
	userRepo    repositories.UserRepository
	matchRepo   repositories.MatchRepository
	paymentRepo repositories.PaymentRepository
	clock       clock.Clock
	logger      *slog.Logger
	clientURL   string
}

func NewUserService(
	userRepo repositories.UserRepository,
	matchRepo repositories.MatchRepository,
	paymentRepo repositories.PaymentRepository,
	clk clock.Clock,
	logger *slog.Logger,
	clientURL string,
) UserService {
	return &userService{
		userRepo:    userRepo,
		matchRepo:   matchRepo,
		paymentRepo: paymentRepo,
		clock:       clk,
		logger:      logger,
		clientURL:   clientURL,
	}
}

func (s *userService) GetMyMatches(ctx context.Context, user *models.User, input MyMatchesInput) ([]UserMatchView, models.Page, error) {
	if err := validateInput(input); err != nil {
		return nil, models.Page{}, err
	}
	if input.Limit == 0 {
		input.Limit = 20
	}
	page, limit, offset := normalizePage(input.Page, input.Limit, maxUserMatchesLimit)
	now := s.clock.Now()

	filter := repositories.ListMatchesFilter{InvolvingUserID: &user.ID}
	switch input.Status {
	case MyMatchesUpcoming:
		filter.Statuses = []models.MatchStatus{models.MatchStatusOpen, models.MatchStatusStarted}
		filter.DateFrom = &now
	case MyMatchesCompleted:
		filter.Statuses = []models.MatchStatus{models.MatchStatusCompleted}
	case MyMatchesCancelled:
		filter.Statuses = []models.MatchStatus{models.MatchStatusCancelled}
	}

	total, err := s.matchRepo.Count(ctx, filter)
	if err != nil {
		return nil, models.Page{}, handleMatchRepoError(err, "count user matches")
	}
	filter.Limit = limit
	filter.Offset = offset
	matches, err := s.matchRepo.List(ctx, filter)
	if err != nil {
		return nil, models.Page{}, handleMatchRepoError(err, "list user matches")
	}

	views := make([]UserMatchView, 0, len(matches))
	for _, m := range matches {
		v := UserMatchView{MatchView: models.NewMatchView(m, now, s.clientURL), UserRole: "player"}
		if m.IsOrganizer(user.ID) {
			v.UserRole = "organizer"
		}
		if idx := m.FindPlayer(user.ID); idx >= 0 {
			status := m.Players[idx].PaymentStatus
			amount := m.Players[idx].AmountToPay
			v.UserPaymentStatus = &status
			v.UserAmountToPay = &amount
		}
		views = append(views, v)
	}
	return views, models.NewPage(page, limit, total), nil
}

func (s *userService) GetMyPayments(ctx context.Context, user *models.User, input MyPaymentsInput) ([]*models.PaymentWithUser, models.Page, error) {
	if err := validateInput(input); err != nil {
		return nil, models.Page{}, err
	}
	if input.Limit == 0 {
		input.Limit = 20
	}
	page, limit, offset := normalizePage(input.Page, input.Limit, maxUserMatchesLimit)

	filter := repositories.ListPaymentsFilter{UserID: &user.ID, Limit: limit, Offset: offset}
	if input.Status != "" {
		status := models.PaymentStatus(input.Status)
		filter.Status = &status
	}
	payments, total, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, models.Page{}, handlePaymentRepoError(err, "list user payments")
	}
	if payments == nil {
		payments = []*models.PaymentWithUser{}
	}
	return payments, models.NewPage(page, limit, total), nil
}

// GetMyStats считает статистику параллельно и сохраняет пересчитанные
// счетчики в профиль.
func (s *userService) GetMyStats(ctx context.Context, user *models.User) (*models.UserStatsSummary, error) {
	now := s.clock.Now()
	var (
		played, organized, upcoming int
		totalPaid                   int64
		recent                      []*models.PaymentWithMatch
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		played, err = s.matchRepo.Count(gctx, repositories.ListMatchesFilter{
			PlayerID: &user.ID,
			Statuses: []models.MatchStatus{models.MatchStatusCompleted},
		})
		return err
	})
	g.Go(func() error {
		var err error
		organized, err = s.matchRepo.Count(gctx, repositories.ListMatchesFilter{
			OrganizerID: &user.ID,
			Statuses:    []models.MatchStatus{models.MatchStatusCompleted},
		})
		return err
	})
	g.Go(func() error {
		var err error
		upcoming, err = s.matchRepo.Count(gctx, repositories.ListMatchesFilter{
			InvolvingUserID: &user.ID,
			Statuses:        []models.MatchStatus{models.MatchStatusOpen, models.MatchStatusStarted},
			DateFrom:        &now,
		})
		return err
	})
	g.Go(func() error {
		var err error
		totalPaid, err = s.paymentRepo.SumPaid(gctx, &user.ID, nil)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.paymentRepo.ListByUser(gctx, user.ID, recentPaymentsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Infrastructure(err, "Failed to load user stats")
	}
	if recent == nil {
		recent = []*models.PaymentWithMatch{}
	}

	user.Stats.MatchesPlayed = played
	user.Stats.MatchesOrganized = organized
	user.Stats.TotalPaid = totalPaid
	if err := s.userRepo.SaveStats(ctx, user.ID, user.Stats); err != nil {
		s.logger.WarnContext(ctx, "failed to refresh stored user stats",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	return &models.UserStatsSummary{
		Matches: models.MatchCounts{
			Played:    played,
			Organized: organized,
			Upcoming:  upcoming,
		},
		Payments: models.PaymentSummary{
			TotalPaid: totalPaid,
			Recent:    recent,
		},
		AverageRating: user.Stats.AverageRating,
		Profile:       user,
	}, nil
}

func (s *userService) GetPublicProfile(ctx context.Context, userID string) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, handleUserRepoError(err, "get user")
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}
	profile := user.Public()
	return &profile, nil
}

func (s *userService) SearchUsers(ctx context.Context, query string, limit int) ([]models.PublicProfile, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSearchLength {
		return nil, apperr.Validation("Search query must be at least 2 characters", map[string]string{
			"q": "must be at least 2 characters",
		})
	}
	_, limit, _ = normalizePage(1, limit, maxSearchLimit)

	active := true
	users, _, err := s.userRepo.List(ctx, repositories.ListUsersFilter{
		IsActive: &active,
		Search:   query,
		Limit:    limit,
	})
	if err != nil {
		return nil, handleUserRepoError(err, "search users")
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Public())
	}
	return profiles, nil
}
