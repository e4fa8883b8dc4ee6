package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/Faaz345/playsplit/models"
)

var userColumnNames = []string{
	"id", "firebase_uid", "name", "email", "phone", "profile_picture", "role", "auth_provider", "is_active",
	"preferences", "matches_played", "matches_organized", "total_paid", "average_rating", "last_login", "created_at", "updated_at",
}

func newUserRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresUserRepository(db), mock
}

func TestUserRepositoryGetByFirebaseUID(t *testing.T) {
	repo, mock := newUserRepo(t)
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE firebase_uid = $1")).
		WithArgs("fb-1").
		WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(
			"u1", "fb-1", "Ravi", "ravi@example.com", nil, "https://cdn/avatar.png", "player", "google", true,
			[]byte(`{"notifications":{"email":false,"push":true}}`), 4, 1, int64(900), 4.5, nil, now, now,
		))

	u, err := repo.GetByFirebaseUID(context.Background(), "fb-1")
	require.NoError(t, err)
	require.Equal(t, "Ravi", u.Name)
	require.Nil(t, u.Phone)
	require.NotNil(t, u.ProfilePicture)
	require.False(t, u.Preferences.Notifications.Email)
	// отсутствующее поле берется из значений по умолчанию
	require.Equal(t, models.PaymentMethodUPI, u.Preferences.PreferredPaymentMethod)
	require.Equal(t, 4, u.Stats.MatchesPlayed)
	require.Nil(t, u.LastLogin)
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepositoryCreateEmailConflict(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "users_email_key"})

	err := repo.Create(context.Background(), &models.User{ID: "u1", Email: "dup@example.com"})
	require.ErrorIs(t, err, ErrUserEmailConflict)
}

func TestUserRepositoryIncrementStatsMissingUser(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("matches_played = matches_played + $1")).
		WithArgs(1, 0, int64(0), "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.IncrementStats(context.Background(), "ghost", StatsDelta{MatchesPlayed: 1})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepositorySearchFilter(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (name ILIKE $1 OR email ILIKE $1) ORDER BY created_at DESC LIMIT $2")).
		WithArgs("%ravi%", 5).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, userColumnNames...), "count")))

	users, total, err := repo.List(context.Background(), ListUsersFilter{Search: "ravi", Limit: 5})
	require.NoError(t, err)
	require.Empty(t, users)
	require.Equal(t, 0, total)
}

func TestUserRepositorySaveStats(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("matches_played = $1")).
		WithArgs(3, 1, int64(750), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveStats(context.Background(), "u1", models.UserStats{MatchesPlayed: 3, MatchesOrganized: 1, TotalPaid: 750})
	require.NoError(t, err)
}
