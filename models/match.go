package models

import (
	"fmt"
	"strings"
	"time"
)

// MatchStatus представляет статусы матча.
type MatchStatus string

const (
	MatchStatusDraft          MatchStatus = "draft"
	MatchStatusOpen           MatchStatus = "open"
	MatchStatusStarted        MatchStatus = "started"
	MatchStatusPendingDetails MatchStatus = "pending-details"
	MatchStatusCompleted      MatchStatus = "completed"
	MatchStatusCancelled      MatchStatus = "cancelled"
)

func (s MatchStatus) IsTerminal() bool {
	return s == MatchStatusCompleted || s == MatchStatusCancelled
}

type TurfType string

const (
	TurfFull TurfType = "full"
	TurfHalf TurfType = "half"
	Turf7v7  TurfType = "7v7"
	Turf5v5  TurfType = "5v5"
)

type ParticipationStatus string

const (
	ParticipationJoined   ParticipationStatus = "joined"
	ParticipationOptedOut ParticipationStatus = "opted-out"
	ParticipationRemoved  ParticipationStatus = "removed"
)

type PlayerPaymentStatus string

const (
	PlayerPaymentPending  PlayerPaymentStatus = "pending"
	PlayerPaymentPaid     PlayerPaymentStatus = "paid"
	PlayerPaymentFailed   PlayerPaymentStatus = "failed"
	PlayerPaymentRefunded PlayerPaymentStatus = "refunded"
)

const (
	DefaultMatchDuration   = 90
	MinRegularPlayers      = 6
	MaxRegularPlayers      = 22
	MaxQuickMatchPlayers   = 1000
	DefaultQuickMaxPlayers = 100
	DefaultVenueName       = "TBD"
	DefaultVenueAddress    = "To be determined"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Venue struct {
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type QuickMatchData struct {
	ActualEndTime  *time.Time `json:"actual_end_time,omitempty"`
	ActualDuration int        `json:"actual_duration,omitempty"`
}

// PlayerParticipation: запись об участии игрока в матче.
type PlayerParticipation struct {
	UserID        string              `json:"user_id"`
	JoinedAt      time.Time           `json:"joined_at"`
	Status        ParticipationStatus `json:"status"`
	PaymentStatus PlayerPaymentStatus `json:"payment_status"`
	PaymentMethod PaymentMethod       `json:"payment_method,omitempty"`
	AmountToPay   int64               `json:"amount_to_pay"`
	PaidAmount    int64               `json:"paid_amount"`
	PaymentID     string              `json:"payment_id,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	LeftEarly     bool                `json:"left_early"`
	LeftAt        *time.Time          `json:"left_at,omitempty"`
}

// Match: агрегат матча. Состав игроков хранится вместе с матчем и
// сохраняется одной записью.
type Match struct {
	MatchID            string                `json:"match_id"`
	Title              string                `json:"title"`
	Description        string                `json:"description,omitempty"`
	OrganizerID        string                `json:"organizer_id"`
	Venue              Venue                 `json:"venue"`
	DateTime           time.Time             `json:"date_time"`
	Duration           int                   `json:"duration"`
	MaxPlayers         int                   `json:"max_players"`
	TotalCost          int64                 `json:"total_cost"`
	CostPerPlayer      int64                 `json:"cost_per_player"`
	TurfType           TurfType              `json:"turf_type"`
	Status             MatchStatus           `json:"status"`
	IsQuickMatch       bool                  `json:"is_quick_match"`
	QuickMatchData     QuickMatchData        `json:"quick_match_data"`
	DetailsCompletedAt *time.Time            `json:"details_completed_at,omitempty"`
	Players            []PlayerParticipation `json:"players"`
	Version            int64                 `json:"version"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

// FindPlayer returns the index of userID's participation record or -1.
func (m *Match) FindPlayer(userID string) int {
	for i := range m.Players {
		if m.Players[i].UserID == userID {
			return i
		}
	}
	return -1
}

func (m *Match) JoinedPlayers() []PlayerParticipation {
	joined := make([]PlayerParticipation, 0, len(m.Players))
	for _, p := range m.Players {
		if p.Status == ParticipationJoined {
			joined = append(joined, p)
		}
	}
	return joined
}

func (m *Match) JoinedCount() int {
	n := 0
	for _, p := range m.Players {
		if p.Status == ParticipationJoined {
			n++
		}
	}
	return n
}

func (m *Match) PaidPlayers() []PlayerParticipation {
	paid := make([]PlayerParticipation, 0)
	for _, p := range m.Players {
		if p.PaymentStatus == PlayerPaymentPaid {
			paid = append(paid, p)
		}
	}
	return paid
}

func (m *Match) AvailableSpots() int {
	return m.MaxPlayers - m.JoinedCount()
}

func (m *Match) TotalCollected() int64 {
	var sum int64
	for _, p := range m.Players {
		if p.PaymentStatus == PlayerPaymentPaid {
			sum += p.PaidAmount
		}
	}
	return sum
}

func (m *Match) ShareLink(clientURL string) string {
	return fmt.Sprintf("%s/match/%s", strings.TrimRight(clientURL, "/"), m.MatchID)
}

func (m *Match) IsUpcoming(now time.Time) bool {
	return now.Before(m.DateTime)
}

func (m *Match) IsLive(now time.Time) bool {
	end := m.DateTime.Add(time.Duration(m.Duration) * time.Minute)
	return !now.Before(m.DateTime) && !now.After(end)
}

// IsOrganizer reports whether userID owns the match.
func (m *Match) IsOrganizer(userID string) bool {
	return m.OrganizerID == userID
}

// MatchView: матч с вычисляемыми полями для ответа API.
type MatchView struct {
	*Match
	JoinedPlayers  int    `json:"joined_players"`
	PaidPlayers    int    `json:"paid_players"`
	AvailableSpots int    `json:"available_spots"`
	TotalCollected int64  `json:"total_collected"`
	ShareLink      string `json:"share_link"`
	IsUpcoming     bool   `json:"is_upcoming"`
	IsLive         bool   `json:"is_live"`
}

func NewMatchView(m *Match, now time.Time, clientURL string) MatchView {
	return MatchView{
		Match:          m,
		JoinedPlayers:  m.JoinedCount(),
		PaidPlayers:    len(m.PaidPlayers()),
		AvailableSpots: m.AvailableSpots(),
		TotalCollected: m.TotalCollected(),
		ShareLink:      m.ShareLink(clientURL),
		IsUpcoming:     m.IsUpcoming(now),
		IsLive:         m.IsLive(now),
	}
}

func NewMatchViews(matches []*Match, now time.Time, clientURL string) []MatchView {
	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		views = append(views, NewMatchView(m, now, clientURL))
	}
	return views
}
