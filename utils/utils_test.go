package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMatchID(t *testing.T) {
	id := NewMatchID()
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{8}$`), id)
	assert.NotEqual(t, id, NewMatchID())
}

func TestPaymentIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewPaymentID(), "pay_"))
	assert.True(t, strings.HasPrefix(NewCashPaymentID(), "cash_"))
	assert.Equal(t, "match_AB12CD34_user_u1", PaymentReceipt("AB12CD34", "u1"))
	assert.Equal(t, "match-AB12CD34", MatchTopic("AB12CD34"))
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  Sunday League  ", want: "Sunday League"},
		{in: "<script>alert(1)</script>Turf", want: "Turf"},
		{in: "<b>Five</b> & Dime", want: "Five & Dime"},
		{in: "nul\x00byte", want: "nulbyte"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeText(tt.in))
	}

	assert.Nil(t, SanitizeTextPtr(nil))
	long := strings.Repeat("a", 1500)
	assert.Len(t, SanitizeText(long), 1000)
}
