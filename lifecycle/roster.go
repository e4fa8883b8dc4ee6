package lifecycle

import (
	"time"

	"github.com/Faaz345/playsplit/models"
)

// Join adds userID to the roster. A previous opted-out or removed record is
// reactivated instead of duplicated.
func Join(m *models.Match, userID string, now time.Time) error {
	if m.Status != models.MatchStatusOpen {
		return ErrMatchNotOpen
	}

	idx := m.FindPlayer(userID)
	if idx >= 0 && m.Players[idx].Status == models.ParticipationJoined {
		return ErrAlreadyJoined
	}
	if m.JoinedCount() >= m.MaxPlayers {
		return ErrMatchFull
	}

	if idx >= 0 {
		p := &m.Players[idx]
		p.Status = models.ParticipationJoined
		p.JoinedAt = now
		p.LeftEarly = false
		p.LeftAt = nil
		if p.PaymentStatus == models.PlayerPaymentPending {
			p.AmountToPay = m.CostPerPlayer
		}
		return nil
	}

	m.Players = append(m.Players, models.PlayerParticipation{
		UserID:        userID,
		JoinedAt:      now,
		Status:        models.ParticipationJoined,
		PaymentStatus: models.PlayerPaymentPending,
		AmountToPay:   m.CostPerPlayer,
	})
	return nil
}

// Leave takes userID off the roster. Paid records are kept and marked as
// removed so the money trail survives.
func Leave(m *models.Match, userID string, now time.Time) error {
	if m.Status.IsTerminal() {
		return ErrCannotLeave
	}

	idx := m.FindPlayer(userID)
	if idx < 0 || m.Players[idx].Status != models.ParticipationJoined {
		return ErrPlayerNotFound
	}

	if m.Players[idx].PaymentStatus == models.PlayerPaymentPaid {
		leftAt := now
		m.Players[idx].Status = models.ParticipationRemoved
		m.Players[idx].LeftEarly = true
		m.Players[idx].LeftAt = &leftAt
		return nil
	}

	m.Players = append(m.Players[:idx], m.Players[idx+1:]...)
	return nil
}

// PaymentUpdate carries the optional facts of a payment status change.
type PaymentUpdate struct {
	Status    models.PlayerPaymentStatus
	Amount    int64
	Method    models.PaymentMethod
	PaymentID string
}

// UpdatePaymentStatus applies u to userID's record. It reports false when
// the update was already applied with the same payment reference.
func UpdatePaymentStatus(m *models.Match, userID string, u PaymentUpdate, now time.Time) (bool, error) {
	idx := m.FindPlayer(userID)
	if idx < 0 {
		return false, ErrPlayerNotFound
	}
	p := &m.Players[idx]

	// повторное подтверждение уже возвращенного платежа
	if u.Status == models.PlayerPaymentPaid && p.PaymentStatus == models.PlayerPaymentRefunded && p.PaymentID == u.PaymentID {
		return false, nil
	}
	if u.Status == models.PlayerPaymentPaid && p.PaymentStatus == models.PlayerPaymentPaid {
		if p.PaymentID == u.PaymentID {
			return false, nil
		}
		return false, ErrAlreadyPaid
	}
	if u.Status == p.PaymentStatus && u.Status != models.PlayerPaymentPaid {
		return false, nil
	}

	p.PaymentStatus = u.Status
	if u.Status == models.PlayerPaymentPaid {
		amount := u.Amount
		if amount == 0 {
			amount = p.AmountToPay
		}
		paidAt := now
		p.PaidAmount = amount
		p.PaymentMethod = u.Method
		p.PaymentID = u.PaymentID
		p.PaidAt = &paidAt
	}
	return true, nil
}

// PendingPlayers returns the joined players who still owe money.
func PendingPlayers(m *models.Match) []models.PlayerParticipation {
	var pending []models.PlayerParticipation
	for _, p := range m.Players {
		if p.Status == models.ParticipationJoined && p.PaymentStatus == models.PlayerPaymentPending && p.AmountToPay > 0 {
			pending = append(pending, p)
		}
	}
	return pending
}
