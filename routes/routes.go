package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Faaz345/playsplit/docs" // swagger spec
	"github.com/Faaz345/playsplit/handlers"
	"github.com/Faaz345/playsplit/middleware"
)

const requestTimeout = 30 * time.Second

type Handlers struct {
	Auth      *handlers.AuthHandler
	Match     *handlers.MatchHandler
	Payment   *handlers.PaymentHandler
	User      *handlers.UserHandler
	Admin     *handlers.AdminHandler
	WebSocket *handlers.WebSocketHandler
	Health    *handlers.HealthHandler
}

type Options struct {
	Authenticator  middleware.Authenticator
	Limiter        middleware.RateLimiter // nil выключает лимиты
	GlobalLimit    middleware.RateLimitRule
	AllowedOrigins []string
	Logger         *slog.Logger
}

var (
	registerLimit = middleware.RateLimitRule{Name: "register", Limit: 5, Window: 15 * time.Minute}
	loginLimit    = middleware.RateLimitRule{Name: "login", Limit: 10, Window: 15 * time.Minute}
)

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Razorpay-Signature"},
		ExposedHeaders:   []string{"Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.Authenticator, opts.Logger)
	limit := func(rule middleware.RateLimitRule) func(http.Handler) http.Handler {
		return middleware.RateLimit(opts.Limiter, rule, opts.Logger)
	}

	router.Get("/health", h.Health.Health)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/matches/{matchID}", h.WebSocket.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(requestTimeout))

		// вебхук аутентифицируется подписью и не попадает под лимиты по IP
		r.Post("/payments/webhook", h.Payment.Webhook)

		r.Group(func(r chi.Router) {
			// пользователь определяется до глобального лимита, чтобы считать по нему, а не по IP
			r.Use(middleware.OptionalAuth(opts.Authenticator, opts.Logger))
			r.Use(limit(opts.GlobalLimit))

			r.Route("/auth", func(r chi.Router) {
				r.With(limit(registerLimit)).Post("/register", h.Auth.Register)
				r.With(limit(loginLimit)).Post("/login", h.Auth.Login)

				r.Group(func(r chi.Router) {
					r.Use(authenticate)
					r.Get("/profile", h.Auth.GetProfile)
					r.Put("/profile", h.Auth.UpdateProfile)
					r.Post("/profile/avatar", h.Auth.UploadAvatar)
					r.Post("/refresh", h.Auth.Refresh)
					r.Post("/logout", h.Auth.Logout)
					r.Delete("/account", h.Auth.DeleteAccount)
				})
			})

			r.Route("/matches", func(r chi.Router) {
				// Публичные маршруты
				r.Get("/", h.Match.ListMatches)
				r.Get("/{matchID}", h.Match.GetMatch)

				r.Group(func(r chi.Router) {
					r.Use(authenticate)
					r.Post("/", h.Match.CreateMatch)
					r.Put("/{matchID}", h.Match.UpdateMatch)
					r.Delete("/{matchID}", h.Match.CancelMatch)
					r.Post("/{matchID}/publish", h.Match.PublishMatch)
					r.Post("/{matchID}/join", h.Match.JoinMatch)
					r.Post("/{matchID}/leave", h.Match.LeaveMatch)
					r.Post("/{matchID}/start", h.Match.StartMatch)
					r.Post("/{matchID}/complete", h.Match.CompleteMatch)
					r.Post("/{matchID}/complete-details", h.Match.CompleteDetails)
				})
			})

			r.Route("/payments", func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/create-payment-link", h.Payment.CreatePaymentLink)
				r.Post("/create-order", h.Payment.CreateOrder)
				r.Post("/verify", h.Payment.VerifyPayment)
				r.Get("/match/{matchID}", h.Payment.MatchPayments)
				r.Get("/user", h.Payment.UserPayments)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/mark-cash-payment", h.Payment.MarkCashPayment)
					r.Post("/refund", h.Payment.RefundPayment)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/{userID}/public", h.User.PublicProfile)

				r.Group(func(r chi.Router) {
					r.Use(authenticate)
					r.Get("/matches", h.User.MyMatches)
					r.Get("/payments", h.User.MyPayments)
					r.Get("/stats", h.User.MyStats)
					r.Get("/search", h.User.Search)
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(authenticate)
				r.Use(middleware.RequireAdmin)

				r.Get("/dashboard", h.Admin.Dashboard)
				r.Get("/analytics", h.Admin.Analytics)
				r.Get("/users", h.Admin.ListUsers)
				r.Put("/users/{userID}", h.Admin.UpdateUser)
				r.Get("/matches", h.Admin.ListMatches)
				r.Delete("/matches/{matchID}", h.Admin.CancelMatch)
				r.Get("/payments", h.Admin.ListPayments)
				r.Get("/payments/export", h.Admin.ExportPayments)
			})
		})
	})
}
