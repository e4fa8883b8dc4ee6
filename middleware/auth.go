package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Faaz345/playsplit/apperr"
	"github.com/Faaz345/playsplit/identity"
	"github.com/Faaz345/playsplit/models"
)

// Authenticator: часть AuthService, нужная middleware.
type Authenticator interface {
	VerifyToken(ctx context.Context, token string) (*identity.Claims, error)
	CurrentUser(ctx context.Context, claims *identity.Claims) (*models.User, error)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func resolveUser(ctx context.Context, auth Authenticator, token string) (*identity.Claims, *models.User, error) {
	claims, err := auth.VerifyToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	user, err := auth.CurrentUser(ctx, claims)
	if err != nil {
		return nil, nil, err
	}
	return claims, user, nil
}

// Authenticate требует валидный Bearer токен зарегистрированного активного пользователя.
func Authenticate(auth Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// пользователь уже определен OptionalAuth выше по цепочке
			if UserFromContext(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}
			claims, user, err := resolveUser(r.Context(), auth, bearerToken(r))
			if err != nil {
				if apperr.KindOf(err) == apperr.KindInfrastructure {
					logger.ErrorContext(r.Context(), "authentication failed", slog.Any("error", err))
				}
				writeAuthError(w, err)
				return
			}

			ctx := withClaims(WithUser(r.Context(), user), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth пропускает запрос без пользователя, если токена нет или он не подходит.
func OptionalAuth(auth Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, user, err := resolveUser(r.Context(), auth, token)
			if err != nil {
				logger.DebugContext(r.Context(), "optional auth ignored token", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			ctx := withClaims(WithUser(r.Context(), user), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin ставится после Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if user.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
