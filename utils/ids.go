package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const matchIDLength = 8

// NewMatchID возвращает короткий код матча, например "3F9A1C2B".
func NewMatchID() string {
	return strings.ToUpper(uuid.NewString()[:matchIDLength])
}

func NewPaymentID() string {
	return "pay_" + uuid.NewString()
}

func NewCashPaymentID() string {
	return "cash_" + uuid.NewString()
}

func NewUserID() string {
	return uuid.NewString()
}

// MatchTopic is the broadcast room for a match.
func MatchTopic(matchID string) string {
	return "match-" + matchID
}

// PaymentReceipt builds the gateway receipt reference for a player's share.
func PaymentReceipt(matchID, userID string) string {
	return fmt.Sprintf("match_%s_user_%s", matchID, userID)
}
