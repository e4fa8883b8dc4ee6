package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Faaz345/playsplit/redisstore"
)

type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (*redisstore.RateLimitResult, error)
}

type RateLimitRule struct {
	Name   string
	Limit  int64
	Window time.Duration
}

// RateLimit считает запросы по пользователю, а без него по IP.
// Без Redis (limiter == nil) и при его ошибках запросы пропускаются.
func RateLimit(limiter RateLimiter, rule RateLimitRule, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil || rule.Limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := "ip:" + clientIP(r)
			if user := UserFromContext(r.Context()); user != nil {
				subject = "user:" + user.ID
			}

			result, err := limiter.CheckRateLimit(r.Context(), rule.Name+":"+subject, rule.Limit, rule.Window)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable",
					slog.String("rule", rule.Name),
					slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				retryAfter := int(math.Ceil(time.Until(result.ResetAt).Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				h.Set("Retry-After", strconv.Itoa(retryAfter))
				logger.InfoContext(r.Context(), "rate limit exceeded",
					slog.String("rule", rule.Name),
					slog.String("subject", subject))
				writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
