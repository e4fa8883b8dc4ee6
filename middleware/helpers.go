package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/Faaz345/playsplit/apperr"
	"github.com/Faaz345/playsplit/identity"
	"github.com/Faaz345/playsplit/models"
)

type contextKey string

const (
	userContextKey   contextKey = "user"
	claimsContextKey contextKey = "claims"
)

// WithUser кладет пользователя в контекст. Используется Authenticate и тестами хендлеров.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func withClaims(ctx context.Context, claims *identity.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// UserFromContext возвращает аутентифицированного пользователя или nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

func ClaimsFromContext(ctx context.Context) *identity.Claims {
	claims, _ := ctx.Value(claimsContextKey).(*identity.Claims)
	return claims
}

// clientIP берет адрес без порта. RemoteAddr уже переписан chi RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Success: false, Message: message})
}

// writeAuthError отвечает 401 или 403 в зависимости от вида ошибки.
func writeAuthError(w http.ResponseWriter, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}
	switch appErr.Kind {
	case apperr.KindAuthentication:
		writeError(w, http.StatusUnauthorized, appErr.Message)
	case apperr.KindAuthorization:
		writeError(w, http.StatusForbidden, appErr.Message)
	default:
		writeError(w, http.StatusInternalServerError, "Authentication failed")
	}
}
