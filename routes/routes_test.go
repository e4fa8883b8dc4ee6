package routes

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/Faaz345/playsplit/handlers"
	"github.com/Faaz345/playsplit/identity"
	"github.com/Faaz345/playsplit/models"
	"github.com/Faaz345/playsplit/realtime"
	"github.com/Faaz345/playsplit/services"
	"github.com/Faaz345/playsplit/services/mocks"
)

type testRouter struct {
	router   chi.Router
	auth     *mocks.MockAuthService
	matches  *mocks.MockMatchService
	payments *mocks.MockPaymentService
	admin    *mocks.MockAdminService
}

func newTestRouter(t *testing.T) *testRouter {
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tr := &testRouter{
		router:   chi.NewRouter(),
		auth:     mocks.NewMockAuthService(ctrl),
		matches:  mocks.NewMockMatchService(ctrl),
		payments: mocks.NewMockPaymentService(ctrl),
		admin:    mocks.NewMockAdminService(ctrl),
	}
	users := mocks.NewMockUserService(ctrl)

	SetupRoutes(tr.router, Handlers{
		Auth:      handlers.NewAuthHandler(tr.auth),
		Match:     handlers.NewMatchHandler(tr.matches),
		Payment:   handlers.NewPaymentHandler(tr.payments),
		User:      handlers.NewUserHandler(users),
		Admin:     handlers.NewAdminHandler(tr.admin),
		WebSocket: handlers.NewWebSocketHandler(realtime.NewHub(logger), tr.matches, nil, logger),
		Health: handlers.NewHealthHandler("test", map[string]handlers.HealthCheck{
			"database": func(context.Context) error { return nil },
		}),
	}, Options{
		Authenticator:  tr.auth,
		AllowedOrigins: []string{"https://playsplit.test"},
		Logger:         logger,
	})
	return tr
}

func (tr *testRouter) serve(method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	tr.router.ServeHTTP(rec, req)
	return rec
}

func (tr *testRouter) signIn(token string, user *models.User) {
	claims := &identity.Claims{UID: "fb-" + user.ID}
	tr.auth.EXPECT().VerifyToken(gomock.Any(), token).Return(claims, nil).AnyTimes()
	tr.auth.EXPECT().CurrentUser(gomock.Any(), claims).Return(user, nil).AnyTimes()
}

func TestPublicRoutes(t *testing.T) {
	tr := newTestRouter(t)

	assert.Equal(t, http.StatusOK, tr.serve(http.MethodGet, "/health", "", nil).Code)

	tr.matches.EXPECT().ListUpcoming(gomock.Any(), 1, 0).Return(nil, models.Page{CurrentPage: 1}, nil)
	assert.Equal(t, http.StatusOK, tr.serve(http.MethodGet, "/api/matches", "", nil).Code)

	assert.Equal(t, http.StatusNotFound, tr.serve(http.MethodGet, "/api/nowhere", "", nil).Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	tr := newTestRouter(t)
	tr.auth.EXPECT().VerifyToken(gomock.Any(), "").Return(nil, services.ErrInvalidToken).AnyTimes()

	for _, target := range []string{"/api/users/stats", "/api/admin/dashboard", "/api/auth/profile"} {
		rec := tr.serve(http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestAdminRoutesRejectPlayers(t *testing.T) {
	tr := newTestRouter(t)
	tr.signIn("player-token", &models.User{ID: "user-1", Role: models.RolePlayer, IsActive: true})
	tr.signIn("admin-token", &models.User{ID: "admin-1", Role: models.RoleAdmin, IsActive: true})

	assert.Equal(t, http.StatusForbidden, tr.serve(http.MethodGet, "/api/admin/dashboard", "player-token", nil).Code)
	assert.Equal(t, http.StatusForbidden, tr.serve(http.MethodPost, "/api/payments/refund", "player-token", bytes.NewBufferString(`{}`)).Code)

	tr.admin.EXPECT().GetDashboard(gomock.Any()).Return(&models.DashboardStats{}, nil)
	assert.Equal(t, http.StatusOK, tr.serve(http.MethodGet, "/api/admin/dashboard", "admin-token", nil).Code)
}

func TestWebhookSkipsAuthentication(t *testing.T) {
	tr := newTestRouter(t)
	tr.payments.EXPECT().HandleWebhook(gomock.Any(), []byte(`{}`), "sig").
		Return(&services.WebhookResult{Event: "payment.captured", Processed: true}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewBufferString(`{}`))
	req.Header.Set("X-Razorpay-Signature", "sig")
	rec := httptest.NewRecorder()
	tr.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	tr := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/matches", nil)
	req.Header.Set("Origin", "https://playsplit.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	tr.router.ServeHTTP(rec, req)

	assert.Equal(t, "https://playsplit.test", rec.Header().Get("Access-Control-Allow-Origin"))
}
