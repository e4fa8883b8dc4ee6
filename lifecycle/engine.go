// Package lifecycle holds the match state machine, roster mutations and
// cost splitting. Every function mutates the given match in memory only;
// callers persist the aggregate in a single write.
package lifecycle

import (
	"math"
	"time"

	"github.com/Faaz345/playsplit/models"
)

// Actor is the user attempting an organizer-level transition.
type Actor struct {
	UserID  string
	IsAdmin bool
}

func ActorFromUser(u *models.User) Actor {
	return Actor{UserID: u.ID, IsAdmin: u.IsAdmin()}
}

type Trigger string

const (
	TriggerPublish         Trigger = "publish"
	TriggerStart           Trigger = "start"
	TriggerComplete        Trigger = "complete"
	TriggerCompleteDetails Trigger = "complete-details"
	TriggerCancel          Trigger = "cancel"
)

var allowedFrom = map[Trigger]map[models.MatchStatus]bool{
	TriggerPublish:         {models.MatchStatusDraft: true},
	TriggerStart:           {models.MatchStatusOpen: true},
	TriggerComplete:        {models.MatchStatusStarted: true},
	TriggerCompleteDetails: {models.MatchStatusPendingDetails: true},
	TriggerCancel:          {models.MatchStatusOpen: true, models.MatchStatusStarted: true},
}

// CanTrigger reports whether trigger is legal from status.
func CanTrigger(status models.MatchStatus, trigger Trigger) bool {
	return allowedFrom[trigger][status]
}

// CanManage reports whether actor may run organizer-level operations on m.
func CanManage(m *models.Match, actor Actor) bool {
	return actor.IsAdmin || (actor.UserID != "" && m.IsOrganizer(actor.UserID))
}

// CostPerPlayer is ceil(totalCost / capacity). A non-positive capacity
// yields zero.
func CostPerPlayer(totalCost int64, capacity int) int64 {
	if capacity <= 0 || totalCost <= 0 {
		return 0
	}
	c := int64(capacity)
	return (totalCost + c - 1) / c
}

// Reprice recomputes the per-player cost and keeps every pending player's
// amount in sync with it.
func Reprice(m *models.Match) {
	m.CostPerPlayer = CostPerPlayer(m.TotalCost, m.MaxPlayers)
	for i := range m.Players {
		if m.Players[i].PaymentStatus == models.PlayerPaymentPending {
			m.Players[i].AmountToPay = m.CostPerPlayer
		}
	}
}

func guard(m *models.Match, actor Actor, trigger Trigger, wrongState error) error {
	if !CanManage(m, actor) {
		return ErrNotOrganizer
	}
	if !CanTrigger(m.Status, trigger) {
		return wrongState
	}
	return nil
}

func Publish(m *models.Match, actor Actor) error {
	if err := guard(m, actor, TriggerPublish, ErrCannotPublish); err != nil {
		return err
	}
	m.Status = models.MatchStatusOpen
	return nil
}

func Start(m *models.Match, actor Actor) error {
	if err := guard(m, actor, TriggerStart, ErrCannotStart); err != nil {
		return err
	}
	m.Status = models.MatchStatusStarted
	return nil
}

// Complete ends a started match. Quick matches move to pending-details and
// record when play actually ended.
func Complete(m *models.Match, actor Actor, now time.Time) error {
	if err := guard(m, actor, TriggerComplete, ErrCannotComplete); err != nil {
		return err
	}
	if !m.IsQuickMatch {
		m.Status = models.MatchStatusCompleted
		return nil
	}

	end := now
	m.QuickMatchData.ActualEndTime = &end
	m.QuickMatchData.ActualDuration = int(math.Max(0, math.Round(now.Sub(m.DateTime).Minutes())))
	m.Status = models.MatchStatusPendingDetails
	return nil
}

func Cancel(m *models.Match, actor Actor) error {
	if err := guard(m, actor, TriggerCancel, ErrCannotCancel); err != nil {
		return err
	}
	m.Status = models.MatchStatusCancelled
	return nil
}

// Details are the final facts of a quick match supplied after play.
type Details struct {
	Title       string
	Description string
	Venue       models.Venue
	TotalCost   int64
	// Duration and ActualPlayers fall back to defaults when zero.
	Duration      int
	ActualPlayers int
}

// CompleteDetails fixes the real cost of a quick match and re-opens
// collection: every joined player owes the new share again.
func CompleteDetails(m *models.Match, actor Actor, d Details, now time.Time) error {
	if !CanManage(m, actor) {
		return ErrNotOrganizer
	}
	if !m.IsQuickMatch || !CanTrigger(m.Status, TriggerCompleteDetails) {
		return ErrNotPendingDetails
	}

	joined := m.JoinedCount()
	players := d.ActualPlayers
	if players == 0 {
		players = joined
	}
	if players <= 0 {
		return ErrNoPlayers
	}
	if players < joined {
		return ErrCapacityTooSmall
	}

	duration := d.Duration
	if duration == 0 {
		duration = m.QuickMatchData.ActualDuration
	}
	if duration == 0 {
		duration = models.DefaultMatchDuration
	}

	m.Title = d.Title
	m.Description = d.Description
	m.Venue = d.Venue
	m.TotalCost = d.TotalCost
	m.Duration = duration
	m.MaxPlayers = players
	m.CostPerPlayer = CostPerPlayer(d.TotalCost, players)

	for i := range m.Players {
		if m.Players[i].Status == models.ParticipationJoined {
			m.Players[i].AmountToPay = m.CostPerPlayer
			m.Players[i].PaymentStatus = models.PlayerPaymentPending
		}
	}

	completedAt := now
	m.DetailsCompletedAt = &completedAt
	m.Status = models.MatchStatusCompleted
	return nil
}

// Changes are organizer edits to a match that has not started. Nil fields
// are left untouched.
type Changes struct {
	Title       *string
	Description *string
	Venue       *models.Venue
	DateTime    *time.Time
	Duration    *int
	MaxPlayers  *int
	TotalCost   *int64
	TurfType    *models.TurfType
}

func Update(m *models.Match, actor Actor, c Changes) error {
	if !CanManage(m, actor) {
		return ErrNotOrganizer
	}
	if m.Status != models.MatchStatusDraft && m.Status != models.MatchStatusOpen {
		return ErrNotEditable
	}
	if c.MaxPlayers != nil && *c.MaxPlayers < m.JoinedCount() {
		return ErrCapacityTooSmall
	}

	if c.Title != nil {
		m.Title = *c.Title
	}
	if c.Description != nil {
		m.Description = *c.Description
	}
	if c.Venue != nil {
		m.Venue = *c.Venue
	}
	if c.DateTime != nil {
		m.DateTime = *c.DateTime
	}
	if c.Duration != nil {
		m.Duration = *c.Duration
	}
	if c.TurfType != nil {
		m.TurfType = *c.TurfType
	}

	repriced := false
	if c.MaxPlayers != nil && *c.MaxPlayers != m.MaxPlayers {
		m.MaxPlayers = *c.MaxPlayers
		repriced = true
	}
	if c.TotalCost != nil && *c.TotalCost != m.TotalCost {
		m.TotalCost = *c.TotalCost
		repriced = true
	}
	if repriced {
		Reprice(m)
	}
	return nil
}
