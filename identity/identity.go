// Package identity verifies bearer tokens issued by the identity provider.
package identity

//go:generate mockgen -source=identity.go -destination=mocks/mock_verifier.go -package=mocks

import (
	"context"
	"errors"
)

var (
	ErrTokenMissing = errors.New("token is missing")
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

// Claims: проверенные данные о пользователе из токена.
type Claims struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
	Phone         string
	Provider      string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}
