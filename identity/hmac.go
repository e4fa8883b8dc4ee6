package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Faaz345/playsplit/clock"
)

type devClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	Phone   string `json:"phone_number,omitempty"`
	jwt.RegisteredClaims
}

// HMACVerifier принимает HS256-токены, подписанные JWT_SECRET_KEY (локальная разработка и тесты).
type HMACVerifier struct {
	secret []byte
	clock  clock.Clock
}

func NewHMACVerifier(secret string, clk clock.Clock) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret), clock: clk}
}

func (v *HMACVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	claims := &devClaims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.ExpiresAt == nil || !claims.VerifyExpiresAt(v.clock.Now(), true) {
		return nil, ErrTokenExpired
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, errors.New("missing subject"))
	}

	return &Claims{
		UID:      claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Picture:  claims.Picture,
		Phone:    claims.Phone,
		Provider: "password",
	}, nil
}

// Issue signs a development token for uid. Used by tests and local tooling.
func (v *HMACVerifier) Issue(uid, email, name string, ttl time.Duration) (string, error) {
	now := v.clock.Now()
	claims := devClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
