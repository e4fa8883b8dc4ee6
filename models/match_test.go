package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchVirtualFields(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	m := &Match{
		MatchID:    "ZX81AB12",
		DateTime:   start,
		Duration:   90,
		MaxPlayers: 10,
		Players: []PlayerParticipation{
			{UserID: "a", Status: ParticipationJoined, PaymentStatus: PlayerPaymentPaid, PaidAmount: 100},
			{UserID: "b", Status: ParticipationJoined, PaymentStatus: PlayerPaymentPending},
			{UserID: "c", Status: ParticipationRemoved, PaymentStatus: PlayerPaymentPaid, PaidAmount: 80},
		},
	}

	view := NewMatchView(m, start.Add(30*time.Minute), "https://playsplit.app/")

	assert.Equal(t, 2, view.JoinedPlayers)
	assert.Equal(t, 2, view.PaidPlayers)
	assert.Equal(t, 8, view.AvailableSpots)
	assert.Equal(t, int64(180), view.TotalCollected)
	assert.Equal(t, "https://playsplit.app/match/ZX81AB12", view.ShareLink)
	assert.False(t, view.IsUpcoming)
	assert.True(t, view.IsLive)

	assert.True(t, m.IsUpcoming(start.Add(-time.Minute)))
	assert.False(t, m.IsLive(start.Add(91*time.Minute)))
	assert.Equal(t, 1, m.FindPlayer("b"))
	assert.Equal(t, -1, m.FindPlayer("zzz"))
}

func TestPaymentMarkPaidIsIdempotent(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p := &Payment{ID: "pay_1", Amount: 100}
	p.SetStatus(PaymentStatusCreated, now, "")

	assert.True(t, p.MarkPaid("gw_1", "sig", nil, now))
	assert.False(t, p.MarkPaid("gw_1", "sig", nil, now.Add(time.Minute)))

	assert.Equal(t, PaymentStatusPaid, p.Status)
	assert.Len(t, p.Timeline, 2)
	assert.True(t, p.Verification.Verified)
}

func TestPaymentMarkPaidAfterRefund(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p := &Payment{ID: "pay_1", Amount: 100}
	p.SetStatus(PaymentStatusCreated, now, "")
	assert.True(t, p.MarkPaid("gw_1", "", nil, now))
	p.SetStatus(PaymentStatusRefunded, now.Add(time.Hour), "Refund processed")

	assert.False(t, p.MarkPaid("gw_1", "", nil, now.Add(2*time.Hour)))
	assert.Equal(t, PaymentStatusRefunded, p.Status)
	assert.Len(t, p.Timeline, 3)
}

func TestNewPage(t *testing.T) {
	p := NewPage(2, 20, 45)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	last := NewPage(3, 20, 45)
	assert.False(t, last.HasNext)
}
