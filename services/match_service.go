package services

//go:generate mockgen -source=match_service.go -destination=mocks/mock_match_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Faaz345/playsplit/apperr"
	"github.com/Faaz345/playsplit/clock"
	"github.com/Faaz345/playsplit/lifecycle"
	"github.com/Faaz345/playsplit/models"
	"github.com/Faaz345/playsplit/realtime"
	"github.com/Faaz345/playsplit/repositories"
	"github.com/Faaz345/playsplit/utils"
)

// maxUpdateAttempts ограничивает число повторов load-mutate-save при
// конфликте версий.
const maxUpdateAttempts = 3

// errSkipSave tells mutate that the mutation was a no-op and nothing must be written.
var errSkipSave = errors.New("no changes to save")

type MatchService interface {
	CreateRegularMatch(ctx context.Context, organizer *models.User, input RegularMatchInput) (*models.MatchView, error)
	CreateQuickMatch(ctx context.Context, organizer *models.User, input QuickMatchInput) (*models.MatchView, error)
	GetMatch(ctx context.Context, matchID string) (*models.MatchView, error)
	ListUpcoming(ctx context.Context, page, limit int) ([]models.MatchView, models.Page, error)
	UpdateMatch(ctx context.Context, actor *models.User, matchID string, input UpdateMatchInput) (*models.MatchView, error)
	PublishMatch(ctx context.Context, actor *models.User, matchID string) (*models.MatchView, error)
	JoinMatch(ctx context.Context, user *models.User, matchID string) (*models.MatchView, error)
	LeaveMatch(ctx context.Context, user *models.User, matchID string) (*models.MatchView, error)
	StartMatch(ctx context.Context, actor *models.User, matchID string) (*models.MatchView, error)
	CompleteMatch(ctx context.Context, actor *models.User, matchID string) (*models.MatchView, error)
	CompleteQuickMatchDetails(ctx context.Context, actor *models.User, matchID string, input CompleteDetailsInput) (*models.MatchView, error)
	CancelMatch(ctx context.Context, actor *models.User, matchID string) (*models.MatchView, error)
	UpdatePlayerPayment(ctx context.Context, matchID, userID string, update lifecycle.PaymentUpdate) (*models.Match, bool, error)
	SendPaymentReminders(ctx context.Context) (int, error)
}

type VenueInput struct {
	Name        string              `json:"name" validate:"required,max=200"`
	Address     string              `json:"address" validate:"required,max=500"`
	Coordinates *models.Coordinates `json:"coordinates,omitempty"`
}

func (v VenueInput) toModel() models.Venue {
	return models.Venue{
		Name:        utils.SanitizeText(v.Name),
		Address:     utils.SanitizeText(v.Address),
		Coordinates: v.Coordinates,
	}
}

// RegularMatchInput: обычный матч, запланированный заранее.
type RegularMatchInput struct {
	Title       string             `json:"title" validate:"required,min=3,max=100"`
	Description string             `json:"description" validate:"max=500"`
	Venue       VenueInput         `json:"venue"`
	DateTime    time.Time          `json:"date_time" validate:"required"`
	Duration    int                `json:"duration" validate:"required,min=30,max=300"`
	MaxPlayers  int                `json:"max_players" validate:"required,min=6,max=22"`
	TotalCost   int64              `json:"total_cost" validate:"gte=0"`
	TurfType    models.TurfType    `json:"turf_type" validate:"required,oneof=full half 7v7 5v5"`
	Status      models.MatchStatus `json:"status" validate:"omitempty,oneof=draft open"`
}

// QuickMatchInput: матч, который начинается сразу; стоимость задается
// после игры через CompleteQuickMatchDetails.
type QuickMatchInput struct {
	Title       string          `json:"title" validate:"max=100"`
	Description string          `json:"description" validate:"max=500"`
	Venue       *VenueInput     `json:"venue,omitempty"`
	DateTime    *time.Time      `json:"date_time,omitempty"`
	Duration    int             `json:"duration" validate:"omitempty,min=1,max=600"`
	MaxPlayers  int             `json:"max_players" validate:"omitempty,min=6,max=1000"`
	TotalCost   int64           `json:"total_cost" validate:"gte=0"`
	TurfType    models.TurfType `json:"turf_type" validate:"omitempty,oneof=full half 7v7 5v5"`
}

type UpdateMatchInput struct {
	Title       *string          `json:"title,omitempty" validate:"omitempty,min=3,max=100"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Venue       *VenueInput      `json:"venue,omitempty"`
	DateTime    *time.Time       `json:"date_time,omitempty"`
	Duration    *int             `json:"duration,omitempty" validate:"omitempty,min=30,max=300"`
	MaxPlayers  *int             `json:"max_players,omitempty" validate:"omitempty,min=6,max=1000"`
	TotalCost   *int64           `json:"total_cost,omitempty" validate:"omitempty,gte=0"`
	TurfType    *models.TurfType `json:"turf_type,omitempty" validate:"omitempty,oneof=full half 7v7 5v5"`
}

type CompleteDetailsInput struct {
	Title         string     `json:"title" validate:"required,max=100"`
	Description   string     `json:"description" validate:"max=500"`
	Venue         VenueInput `json:"venue"`
	TotalCost     int64      `json:"total_cost" validate:"gte=0"`
	Duration      int        `json:"duration" validate:"omitempty,min=30"`
	ActualPlayers int        `json:"actual_players" validate:"omitempty,min=1"`
}

type matchService struct {
	matchRepo   repositories.MatchRepository
	userRepo    repositories.UserRepository
	broadcaster realtime.Broadcaster
	clock       clock.Clock
	logger      *slog.Logger
	clientURL   string
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	broadcaster realtime.Broadcaster,
	clk clock.Clock,
	logger *slog.Logger,
	clientURL string,
) MatchService {
	return &matchService{
		matchRepo:   matchRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
		clock:       clk,
		logger:      logger,
		clientURL:   clientURL,
	}
}

func (s *matchService) CreateRegularMatch(ctx context.Context, organizer *models.User, input RegularMatchInput) (*models.MatchView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.MatchStatusOpen
	}

	m := &models.Match{
		Title:       utils.SanitizeText(input.Title),
		Description: utils.SanitizeText(input.Description),
		OrganizerID: organizer.ID,
		Venue:       input.Venue.toModel(),
		DateTime:    input.DateTime.UTC(),
		Duration:    input.Duration,
		MaxPlayers:  input.MaxPlayers,
		TotalCost:   input.TotalCost,
		TurfType:    input.TurfType,
		Status:      status,
		Players:     []models.PlayerParticipation{},
	}
	lifecycle.Reprice(m)

	if err := s.create(ctx, m, false); err != nil {
		return nil, err
	}
	s.bumpStats(ctx, []string{organizer.ID}, repositories.StatsDelta{MatchesOrganized: 1})

	s.logger.InfoContext(ctx, "match created",
		slog.String("match_id", m.MatchID),
		slog.String("organizer_id", organizer.ID),
		slog.Bool("quick", false))
	return s.view(m), nil
}

func (s *matchService) CreateQuickMatch(ctx context.Context, organizer *models.User, input QuickMatchInput) (*models.MatchView, error) {
	// Пустая площадка означает "еще не известна".
	if input.Venue != nil && strings.TrimSpace(input.Venue.Name) == "" && strings.TrimSpace(input.Venue.Address) == "" {
		input.Venue = nil
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	dateTime := s.clock.Now()
	if input.DateTime != nil {
		dateTime = input.DateTime.UTC()
	}
	venue := models.Venue{Name: models.DefaultVenueName, Address: models.DefaultVenueAddress}
	if input.Venue != nil {
		venue = input.Venue.toModel()
	}
	duration := input.Duration
	if duration == 0 {
		duration = models.DefaultMatchDuration
	}
	maxPlayers := input.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = models.DefaultQuickMaxPlayers
	}
	turf := input.TurfType
	if turf == "" {
		turf = models.TurfFull
	}
	title := utils.SanitizeText(input.Title)

	m := &models.Match{
		Title:        title,
		Description:  utils.SanitizeText(input.Description),
		OrganizerID:  organizer.ID,
		Venue:        venue,
		DateTime:     dateTime,
		Duration:     duration,
		MaxPlayers:   maxPlayers,
		TotalCost:    input.TotalCost,
		TurfType:     turf,
		Status:       models.MatchStatusStarted,
		IsQuickMatch: true,
		Players:      []models.PlayerParticipation{},
	}
	lifecycle.Reprice(m)

	if err := s.create(ctx, m, title == ""); err != nil {
		return nil, err
	}
	s.bumpStats(ctx, []string{organizer.ID}, repositories.StatsDelta{MatchesOrganized: 1})

	s.logger.InfoContext(ctx, "match created",
		slog.String("match_id", m.MatchID),
		slog.String("organizer_id", organizer.ID),
		slog.Bool("quick", true))
	return s.view(m), nil
}

// create allocates a match code and inserts m, retrying on a code collision.
func (s *matchService) create(ctx context.Context, m *models.Match, titleFromID bool) error {
	var err error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		m.MatchID = utils.NewMatchID()
		if titleFromID {
			m.Title = "Quick Match " + m.MatchID
		}
		err = s.matchRepo.Create(ctx, m)
		if !errors.Is(err, repositories.ErrMatchIDConflict) {
			break
		}
	}
	return handleMatchRepoError(err, "create match")
}

func (s *matchService) GetMatch(ctx context.Context, matchID string) (*models.MatchView, error) {
	m, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleMatchRepoError(err, "get match")
	}
	return s.view(m), nil
}

// ListUpcoming returns open and started matches that have not begun yet, soonest first.
func (s *matchService) ListUpcoming(ctx context.Context, page, limit int) ([]models.MatchView, models.Page, error) {
	page, limit, offset := normalizePage(page, limit, maxPageLimit)
	now := s.clock.Now()

	filter := repositories.ListMatchesFilter{
		Statuses:      []models.MatchStatus{models.MatchStatusOpen, models.MatchStatusStarted},
		DateFrom:      &now,
		SortAscending: true,
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
	return models.NewMatchViews(matches, now, s.clientURL), models.NewPage(page, limit, total), nil
}

func (s *matchService) UpdateMatch(ctx context.Context, actor *models.User, matchID string, input UpdateMatchInput) (*models.MatchView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	changes := lifecycle.Changes{
		Title:       utils.SanitizeTextPtr(input.Title),
		Description: utils.SanitizeTextPtr(input.Description),
		Duration:    input.Duration,
		MaxPlayers:  input.MaxPlayers,
		TotalCost:   input.TotalCost,
		TurfType:    input.TurfType,
	}
	if input.Venue != nil {
		venue := input.Venue.toModel()
		changes.Venue = &venue
	}
	if input.DateTime != nil {
		dt := input.DateTime.UTC()
		changes.DateTime = &dt
	}

	m, err := s.mutate(ctx, matchID, func(m *models.Match) error {
		if changes.MaxPlayers != nil && !m.IsQuickMatch && *changes.MaxPlayers > models.MaxRegularPlayers {
			return apperr.Validation("Validation failed", map[string]string{
				"max_players": fmt.Sprintf("must be between %d and %d for regular matches", models.MinRegularPlayers, models.MaxRegularPlayers),
			})
		}
		return lifecycle.Update(m, lifecycle.ActorFromUser(actor), changes)
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ctx, m, realtime.EventMatchUpdated, map[string]interface{}{
		"cost_per_player": m.CostPerPlayer,
		"max_players":     m.MaxPlayers,
		"date_time":       m.DateTime,
	})
	return s.view(m), nil
}

func (s *matchService) PublishMatch(ctx context.Context, actor *models.User, matchID string) (*models.MatchView, error) {
	m, err := s.mutate(ctx, matchID, func(m *models.Match) error {
		return lifecycle.Publish(m, lifecycle.ActorFromUser(actor))
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(ctx, m, realtime.EventMatchUpdated, map[string]interface{}{"status": m.Status})
	return s.view(m), nil
}

func (s *matchService) JoinMatch(ctx context.Context, user *models.User, matchID string) (*models.MatchView, error) {
	now := s.clock.Now()
	m, err := s.mutate(ctx, matchID, func(m *models.Match) error {
		return lifecycle.Join(m, user.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ctx, m, realtime.EventPlayerJoined, map[string]interface{}{
		"player": map[string]interface{}{
			"id":              user.ID,
			"name":            user.Name,
			"profile_picture": user.ProfilePicture,
		},
		"available_spots": m.AvailableSpots(),
	})
	return s.view(m), nil
}

func (s *matchService) LeaveMatch(ctx context.Context, user *models.User, matchID string) (*models.MatchView, error) {
	now := s.clock.Now()
	m, err := s.mutate(ctx, matchID, func(m *models.Match) error {
		return lifecycle.Leave(m, user.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ctx, m, realtime.EventPlayerLeft, map[string]interface{}{
		"user_id":         user.ID,
		"available_spots": m.AvailableSpots(),
	})
	return s.view(m), nil
}

func (s *matchService) StartMatch(ctx context.Context, actor *models.User, matchID string) (*models.MatchView, error) {
	m, err := s.mutate(ctx, matchID, func(m *models.Match) error {
		return lifecycle.Start(m, lifecycle.ActorFromUser(actor))
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(ctx, m, realtime.EventMatchStarted, map[string]interface{}{
		"message": "The match has started! Payments are now open.",
	})
	return s.view(m), nil
}

// CompleteMatch finishes a started match. Quick matches stop at
// pending-details until the organizer supplies the final cost.
func (s *matchService) CompleteMatch(ctx context.Context, actor *models.User, matchID string) (*models.MatchView, error) {
	now := s.clock.Now()
	m, err := s.mutate(ctx, matchID, func(m *models.Match) error {
		return lifecycle.Complete(m, lifecycle.ActorFromUser(actor), now)
	})
	if err != nil {
		return nil, err
	}

	message := "The match has ended. Thanks for playing!"
	if m.IsQuickMatch {
		message = "Match ended! The organizer will now set the final details and costs."
	} else {
		s.bumpStats(ctx, joinedUserIDs(m), repositories.StatsDelta{MatchesPlayed: 1})
	}
	s.broadcast(ctx, m, realtime.EventMatchCompleted, map[string]interface{}{
		"status":  m.Status,
		"message": message,
	})
	return s.view(m), nil
}

func (s *matchService) CompleteQuickMatchDetails(ctx context.Context, actor *models.User, matchID string, input CompleteDetailsInput) (*models.MatchView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	details := lifecycle.Details{
		Title:         utils.SanitizeText(input.Title),
		Description:   utils.SanitizeText(input.Description),
		Venue:         input.Venue.toModel(),
		TotalCost:     input.TotalCost,
		Duration:      input.Duration,
		ActualPlayers: input.ActualPlayers,
	}
	now := s.clock.Now()
	m, err := s.mutate(ctx, matchID, func(m *models.Match) error {
		return lifecycle.CompleteDetails(m, lifecycle.ActorFromUser(actor), details, now)
	})
	if err != nil {
		return nil, err
	}

	s.bumpStats(ctx, joinedUserIDs(m), repositories.StatsDelta{MatchesPlayed: 1})
	s.broadcast(ctx, m, realtime.EventPaymentRequested, map[string]interface{}{
		"cost_per_player": m.CostPerPlayer,
		"message":         fmt.Sprintf("Match details completed! Payment of ₹%d is now due.", m.CostPerPlayer),
	})
	return s.view(m), nil
}

func (s *matchService) CancelMatch(ctx context.Context, actor *models.User, matchID string) (*models.MatchView, error) {
	m, err := s.mutate(ctx, matchID, func(m *models.Match) error {
		return lifecycle.Cancel(m, lifecycle.ActorFromUser(actor))
	})
	if err != nil {
		return nil, err
	}
	s.broadcast(ctx, m, realtime.EventMatchCancelled, map[string]interface{}{
		"message": "This match has been cancelled by the organizer.",
	})
	return s.view(m), nil
}

// UpdatePlayerPayment applies a payment outcome to the roster. The bool is
// false when the same outcome had already been recorded.
func (s *matchService) UpdatePlayerPayment(ctx context.Context, matchID, userID string, update lifecycle.PaymentUpdate) (*models.Match, bool, error) {
	now := s.clock.Now()
	changed := false
	m, err := s.mutate(ctx, matchID, func(m *models.Match) error {
		c, err := lifecycle.UpdatePaymentStatus(m, userID, update, now)
		if err != nil {
			return err
		}
		changed = c
		if !c {
			return errSkipSave
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return m, changed, nil
}

// SendPaymentReminders pings every completed match that still has joined
// players owing money. Returns the number of matches notified.
func (s *matchService) SendPaymentReminders(ctx context.Context) (int, error) {
	matches, err := s.matchRepo.List(ctx, repositories.ListMatchesFilter{
		Statuses:            []models.MatchStatus{models.MatchStatusCompleted},
		PendingPaymentsOnly: true,
	})
	if err != nil {
		return 0, handleMatchRepoError(err, "list matches with pending payments")
	}

	sent := 0
	for _, m := range matches {
		pending := lifecycle.PendingPlayers(m)
		if len(pending) == 0 {
			continue
		}
		userIDs := make([]string, 0, len(pending))
		for _, p := range pending {
			userIDs = append(userIDs, p.UserID)
		}
		s.broadcast(ctx, m, realtime.EventPaymentReminder, map[string]interface{}{
			"pending_user_ids": userIDs,
			"amount":           m.CostPerPlayer,
			"message":          fmt.Sprintf("Reminder: ₹%d is still due for %s.", m.CostPerPlayer, m.Title),
		})
		sent++
	}
	return sent, nil
}

// mutate runs load-mutate-save and retries the whole cycle when another
// writer bumped the version in between.
func (s *matchService) mutate(ctx context.Context, matchID string, fn func(m *models.Match) error) (*models.Match, error) {
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		m, err := s.matchRepo.GetByID(ctx, matchID)
		if err != nil {
			return nil, handleMatchRepoError(err, "load match")
		}

		if err := fn(m); err != nil {
			if errors.Is(err, errSkipSave) {
				return m, nil
			}
			return nil, err
		}

		err = s.matchRepo.Update(ctx, m)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, repositories.ErrMatchVersionConflict) {
			return nil, handleMatchRepoError(err, "save match")
		}
		s.logger.WarnContext(ctx, "match version conflict, retrying",
			slog.String("match_id", matchID),
			slog.Int("attempt", attempt))
	}
	return nil, ErrConcurrentUpdate
}

func (s *matchService) broadcast(ctx context.Context, m *models.Match, event string, payload map[string]interface{}) {
	if s.broadcaster == nil {
		return
	}
	payload["match_id"] = m.MatchID
	s.broadcaster.Broadcast(ctx, utils.MatchTopic(m.MatchID), event, payload)
}

// bumpStats обновляет счетчики после коммита; ошибки только логируются.
func (s *matchService) bumpStats(ctx context.Context, userIDs []string, delta repositories.StatsDelta) {
	for _, id := range userIDs {
		if err := s.userRepo.IncrementStats(ctx, id, delta); err != nil {
			s.logger.WarnContext(ctx, "failed to update user stats",
				slog.String("user_id", id),
				slog.Any("error", err))
		}
	}
}

func (s *matchService) view(m *models.Match) *models.MatchView {
	v := models.NewMatchView(m, s.clock.Now(), s.clientURL)
	return &v
}

func joinedUserIDs(m *models.Match) []string {
	joined := m.JoinedPlayers()
	ids := make([]string, 0, len(joined))
	for _, p := range joined {
		ids = append(ids, p.UserID)
	}
	return ids
}
