package services_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Faaz345/playsplit/apperr"
	clockmocks "github.com/Faaz345/playsplit/clock/mocks"
	"github.com/Faaz345/playsplit/lifecycle"
	"github.com/Faaz345/playsplit/models"
	"github.com/Faaz345/playsplit/realtime"
	realtimemocks "github.com/Faaz345/playsplit/realtime/mocks"
	"github.com/Faaz345/playsplit/repositories"
	repomocks "github.com/Faaz345/playsplit/repositories/mocks"
	"github.com/Faaz345/playsplit/services"
	"github.com/Faaz345/playsplit/utils"
)

const testClientURL = "https://playsplit.test"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MatchServiceTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	matchRepo   *repomocks.MockMatchRepository
	userRepo    *repomocks.MockUserRepository
	broadcaster *realtimemocks.MockBroadcaster
	now         time.Time
	organizer   *models.User
	player      *models.User
	service     services.MatchService
}

func (s *MatchServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.matchRepo = repomocks.NewMockMatchRepository(s.ctrl)
	s.userRepo = repomocks.NewMockUserRepository(s.ctrl)
	s.broadcaster = realtimemocks.NewMockBroadcaster(s.ctrl)

	s.now = time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)
	clk := clockmocks.NewMockClock(s.ctrl)
	clk.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	s.organizer = &models.User{ID: "user-organizer", Name: "Ravi", Role: models.RolePlayer, IsActive: true}
	s.player = &models.User{ID: "user-player", Name: "Asha", Role: models.RolePlayer, IsActive: true}

	s.service = services.NewMatchService(s.matchRepo, s.userRepo, s.broadcaster, clk, discardLogger(), testClientURL)
}

func TestMatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MatchServiceTestSuite))
}

// openMatch returns a fresh aggregate each call, as the repository would.
func (s *MatchServiceTestSuite) openMatch(joined ...string) *models.Match {
	m := &models.Match{
		MatchID:     "AB12CD34",
		Title:       "Sunday Kickabout",
		OrganizerID: s.organizer.ID,
		Venue:       models.Venue{Name: "Arena", Address: "MG Road"},
		DateTime:    s.now.Add(24 * time.Hour),
		Duration:    90,
		MaxPlayers:  10,
		TotalCost:   1200,
		TurfType:    models.TurfFull,
		Status:      models.MatchStatusOpen,
		Version:     3,
	}
	lifecycle.Reprice(m)
	for _, id := range joined {
		s.Require().NoError(lifecycle.Join(m, id, s.now.Add(-time.Hour)))
	}
	return m
}

func (s *MatchServiceTestSuite) regularInput() services.RegularMatchInput {
	return services.RegularMatchInput{
		Title:      "Sunday Kickabout",
		Venue:      services.VenueInput{Name: "Arena", Address: "MG Road"},
		DateTime:   s.now.Add(48 * time.Hour),
		Duration:   90,
		MaxPlayers: 10,
		TotalCost:  1000,
		TurfType:   models.TurfFull,
	}
}

func (s *MatchServiceTestSuite) TestCreateRegularMatch() {
	ctx := context.Background()
	var created *models.Match
	s.matchRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, m *models.Match) error {
		created = m
		return nil
	})
	s.userRepo.EXPECT().IncrementStats(ctx, s.organizer.ID, repositories.StatsDelta{MatchesOrganized: 1}).Return(nil)

	view, err := s.service.CreateRegularMatch(ctx, s.organizer, s.regularInput())
	s.Require().NoError(err)
	s.Require().NotNil(created)

	s.Equal(models.MatchStatusOpen, view.Status)
	s.Equal(int64(100), view.CostPerPlayer)
	s.Equal(s.organizer.ID, view.OrganizerID)
	s.Len(view.MatchID, 8)
	s.Equal(10, view.AvailableSpots)
	s.Equal(testClientURL+"/match/"+view.MatchID, view.ShareLink)
}

func (s *MatchServiceTestSuite) TestCreateRegularMatchRejectsInvalidInput() {
	input := s.regularInput()
	input.Title = "ab"
	input.MaxPlayers = 30

	_, err := s.service.CreateRegularMatch(context.Background(), s.organizer, input)
	s.Require().Error(err)

	appErr, ok := apperr.As(err)
	s.Require().True(ok)
	s.Equal(apperr.KindValidation, appErr.Kind)
	s.Contains(appErr.Fields, "title")
	s.Contains(appErr.Fields, "max_players")
}

func (s *MatchServiceTestSuite) TestCreateRetriesOnMatchIDCollision() {
	ctx := context.Background()
	gomock.InOrder(
		s.matchRepo.EXPECT().Create(ctx, gomock.Any()).Return(repositories.ErrMatchIDConflict),
		s.matchRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil),
	)
	s.userRepo.EXPECT().IncrementStats(ctx, s.organizer.ID, gomock.Any()).Return(nil)

	_, err := s.service.CreateRegularMatch(ctx, s.organizer, s.regularInput())
	s.Require().NoError(err)
}

func (s *MatchServiceTestSuite) TestCreateQuickMatchDefaults() {
	ctx := context.Background()
	s.matchRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	s.userRepo.EXPECT().IncrementStats(ctx, s.organizer.ID, gomock.Any()).Return(nil)

	view, err := s.service.CreateQuickMatch(ctx, s.organizer, services.QuickMatchInput{
		Venue: &services.VenueInput{},
	})
	s.Require().NoError(err)

	s.True(view.IsQuickMatch)
	s.Equal(models.MatchStatusStarted, view.Status)
	s.Equal("Quick Match "+view.MatchID, view.Title)
	s.Equal(models.DefaultVenueName, view.Venue.Name)
	s.Equal(models.DefaultVenueAddress, view.Venue.Address)
	s.Equal(models.DefaultQuickMaxPlayers, view.MaxPlayers)
	s.Equal(models.DefaultMatchDuration, view.Duration)
	s.Equal(int64(0), view.CostPerPlayer)
	s.True(view.DateTime.Equal(s.now))
}

func (s *MatchServiceTestSuite) TestCreateQuickMatchPartialVenueFails() {
	_, err := s.service.CreateQuickMatch(context.Background(), s.organizer, services.QuickMatchInput{
		Venue: &services.VenueInput{Name: "Arena"},
	})
	s.Equal(apperr.KindValidation, apperr.KindOf(err))
}

func (s *MatchServiceTestSuite) TestJoinMatchBroadcastsToRoom() {
	ctx := context.Background()
	s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(s.openMatch(), nil)
	s.matchRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
	s.broadcaster.EXPECT().
		Broadcast(ctx, utils.MatchTopic("AB12CD34"), realtime.EventPlayerJoined, gomock.Any()).
		Do(func(_ context.Context, _, _ string, payload interface{}) {
			body := payload.(map[string]interface{})
			s.Equal(9, body["available_spots"])
			s.Equal("AB12CD34", body["match_id"])
		})

	view, err := s.service.JoinMatch(ctx, s.player, "AB12CD34")
	s.Require().NoError(err)
	s.Equal(1, view.JoinedPlayers)
	s.Equal(int64(120), view.Players[0].AmountToPay)
}

func (s *MatchServiceTestSuite) TestJoinMatchRetriesOnVersionConflict() {
	ctx := context.Background()
	s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").DoAndReturn(func(context.Context, string) (*models.Match, error) {
		return s.openMatch(), nil
	}).Times(2)
	gomock.InOrder(
		s.matchRepo.EXPECT().Update(ctx, gomock.Any()).Return(repositories.ErrMatchVersionConflict),
		s.matchRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil),
	)
	s.broadcaster.EXPECT().Broadcast(ctx, gomock.Any(), realtime.EventPlayerJoined, gomock.Any())

	_, err := s.service.JoinMatch(ctx, s.player, "AB12CD34")
	s.Require().NoError(err)
}

func (s *MatchServiceTestSuite) TestJoinMatchGivesUpAfterRepeatedConflicts() {
	ctx := context.Background()
	s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").DoAndReturn(func(context.Context, string) (*models.Match, error) {
		return s.openMatch(), nil
	}).Times(3)
	s.matchRepo.EXPECT().Update(ctx, gomock.Any()).Return(repositories.ErrMatchVersionConflict).Times(3)

	_, err := s.service.JoinMatch(ctx, s.player, "AB12CD34")
	s.ErrorIs(err, services.ErrConcurrentUpdate)
	s.Equal(apperr.KindConflict, apperr.KindOf(err))
}

func (s *MatchServiceTestSuite) TestJoinFullMatchDoesNotWrite() {
	ctx := context.Background()
	full := s.openMatch()
	full.MaxPlayers = 6
	lifecycle.Reprice(full)
	for i := 0; i < 6; i++ {
		s.Require().NoError(lifecycle.Join(full, "p"+strings.Repeat("x", i), s.now))
	}
	s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(full, nil)

	_, err := s.service.JoinMatch(ctx, s.player, "AB12CD34")
	s.ErrorIs(err, lifecycle.ErrMatchFull)
}

func (s *MatchServiceTestSuite) TestGetMatchNotFound() {
	ctx := context.Background()
	s.matchRepo.EXPECT().GetByID(ctx, "NOPE0000").Return(nil, repositories.ErrMatchNotFound)

	_, err := s.service.GetMatch(ctx, "NOPE0000")
	s.ErrorIs(err, services.ErrMatchNotFound)
}

func (s *MatchServiceTestSuite) TestCompleteRegularMatchCountsPlayedMatches() {
	ctx := context.Background()
	started := s.openMatch("p1", "p2")
	started.Status = models.MatchStatusStarted
	s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(started, nil)
	s.matchRepo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
	s.userRepo.EXPECT().IncrementStats(ctx, "p1", repositories.StatsDelta{MatchesPlayed: 1}).Return(nil)
	s.userRepo.EXPECT().IncrementStats(ctx, "p2", repositories.StatsDelta{MatchesPlayed: 1}).Return(repositories.ErrUserNotFound)
	s.broadcaster.EXPECT().Broadcast(ctx, gomock.Any(), realtime.EventMatchCompleted, gomock.Any())

	view, err := s.service.CompleteMatch(ctx, s.organizer, "AB12CD34")
	s.Require().NoError(err)
	s.Equal(models.MatchStatusCompleted, view.Status)
}

func (s *MatchServiceTestSuite) TestStrangerCannotStart() {
	ctx := context.Background()
	s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(s.openMatch(), nil)

	_, err := s.service.StartMatch(ctx, s.player, "AB12CD34")
	s.ErrorIs(err, lifecycle.ErrNotOrganizer)
}

func (s *MatchServiceTestSuite) TestUpdateMatchCapsRegularCapacity() {
	ctx := context.Background()
	s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(s.openMatch(), nil)
	capacity := 40

	_, err := s.service.UpdateMatch(ctx, s.organizer, "AB12CD34", services.UpdateMatchInput{MaxPlayers: &capacity})
	s.Equal(apperr.KindValidation, apperr.KindOf(err))
}

func (s *MatchServiceTestSuite) TestUpdatePlayerPaymentSkipsNoopWrite() {
	ctx := context.Background()
	m := s.openMatch(s.player.ID)
	update := lifecycle.PaymentUpdate{Status: models.PlayerPaymentPaid, PaymentID: "pay_1", Method: models.PaymentMethodUPI}
	_, err := lifecycle.UpdatePaymentStatus(m, s.player.ID, update, s.now)
	s.Require().NoError(err)
	s.matchRepo.EXPECT().GetByID(ctx, "AB12CD34").Return(m, nil)

	_, changed, err := s.service.UpdatePlayerPayment(ctx, "AB12CD34", s.player.ID, update)
	s.Require().NoError(err)
	s.False(changed)
}

func (s *MatchServiceTestSuite) TestSendPaymentReminders() {
	ctx := context.Background()
	owing := s.openMatch("p1", "p2")
	owing.Status = models.MatchStatusCompleted
	_, err := lifecycle.UpdatePaymentStatus(owing, "p1", lifecycle.PaymentUpdate{Status: models.PlayerPaymentPaid, PaymentID: "pay_1"}, s.now)
	s.Require().NoError(err)

	settled := s.openMatch()
	settled.MatchID = "ZZ99ZZ99"
	settled.Status = models.MatchStatusCompleted

	s.matchRepo.EXPECT().List(ctx, gomock.Any()).Return([]*models.Match{owing, settled}, nil)
	s.broadcaster.EXPECT().
		Broadcast(ctx, utils.MatchTopic("AB12CD34"), realtime.EventPaymentReminder, gomock.Any()).
		Do(func(_ context.Context, _, _ string, payload interface{}) {
			body := payload.(map[string]interface{})
			s.Equal([]string{"p2"}, body["pending_user_ids"])
		})

	sent, err := s.service.SendPaymentReminders(ctx)
	s.Require().NoError(err)
	s.Equal(1, sent)
}
