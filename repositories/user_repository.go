package repositories

//go:generate mockgen -source=user_repository.go -destination=mocks/mock_user_repository.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Faaz345/playsplit/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserEmailConflict    = errors.New("user email conflict")
	ErrUserFirebaseConflict = errors.New("user firebase uid conflict")
)

type ListUsersFilter struct {
	Role     *models.UserRole
	IsActive *bool
	// Search ищет по имени и email (ILIKE).
	Search string
	Since  *time.Time
	Limit  int
	Offset int
}

// StatsDelta is added to the counters stored on the user row.
type StatsDelta struct {
	MatchesPlayed    int
	MatchesOrganized int
	TotalPaid        int64
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	IncrementStats(ctx context.Context, id string, delta StatsDelta) error
	// SaveStats overwrites the stored counters with recomputed values.
	SaveStats(ctx context.Context, id string, stats models.UserStats) error
	List(ctx context.Context, filter ListUsersFilter) ([]*models.User, int, error)
	Count(ctx context.Context, filter ListUsersFilter) (int, error)
	DailySignups(ctx context.Context, since time.Time) ([]models.DailyAmount, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, firebase_uid, name, email, phone, profile_picture, role, auth_provider, is_active,
	preferences, matches_played, matches_organized, total_paid, average_rating, last_login, created_at, updated_at`

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	prefs, err := marshalJSON(user.Preferences)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, firebase_uid, name, email, phone, profile_picture, role, auth_provider, is_active, preferences, last_login)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		user.ID,
		user.FirebaseUID,
		user.Name,
		user.Email,
		user.Phone,
		user.ProfilePicture,
		user.Role,
		user.AuthProvider,
		user.IsActive,
		prefs,
		user.LastLogin,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return r.handleUserError(err)
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *postgresUserRepository) GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE firebase_uid = $1`, uid)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	prefs, err := marshalJSON(user.Preferences)
	if err != nil {
		return err
	}

	query := `
		UPDATE users SET
			name = $1,
			email = $2,
			phone = $3,
			profile_picture = $4,
			role = $5,
			is_active = $6,
			preferences = $7,
			updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	err = r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.Phone,
		user.ProfilePicture,
		user.Role,
		user.IsActive,
		prefs,
		user.ID,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return r.handleUserError(err)
}

func (r *postgresUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) IncrementStats(ctx context.Context, id string, delta StatsDelta) error {
	query := `
		UPDATE users SET
			matches_played = matches_played + $1,
			matches_organized = matches_organized + $2,
			total_paid = total_paid + $3,
			updated_at = NOW()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, delta.MatchesPlayed, delta.MatchesOrganized, delta.TotalPaid, id)
	if err != nil {
		return fmt.Errorf("failed to increment user stats: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) SaveStats(ctx context.Context, id string, stats models.UserStats) error {
	query := `
		UPDATE users SET
			matches_played = $1,
			matches_organized = $2,
			total_paid = $3,
			updated_at = NOW()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, stats.MatchesPlayed, stats.MatchesOrganized, stats.TotalPaid, id)
	if err != nil {
		return fmt.Errorf("failed to save user stats: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) List(ctx context.Context, filter ListUsersFilter) ([]*models.User, int, error) {
	b := buildUserFilter(filter)
	query := `SELECT ` + userColumns + `, COUNT(*) OVER() FROM users` + b.where() +
		` ORDER BY created_at DESC` + b.paginate(filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	total := 0
	users := make([]*models.User, 0)
	for rows.Next() {
		u, scanErr := scanUser(rows, &total)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *postgresUserRepository) Count(ctx context.Context, filter ListUsersFilter) (int, error) {
	b := buildUserFilter(filter)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+b.where(), b.args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresUserRepository) DailySignups(ctx context.Context, since time.Time) ([]models.DailyAmount, error) {
	query := `
		SELECT date_trunc('day', created_at) AS day, COUNT(*), 0::bigint
		FROM users
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day`
	return queryDailyAmounts(ctx, r.db, query, since)
}

func buildUserFilter(filter ListUsersFilter) *filterBuilder {
	b := &filterBuilder{}
	if filter.Role != nil {
		b.add("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		b.add("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		b.add("(name ILIKE ? OR email ILIKE ?)", "%"+filter.Search+"%")
	}
	if filter.Since != nil {
		b.add("created_at >= ?", *filter.Since)
	}
	return b
}

func (r *postgresUserRepository) scanOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}

func scanUser(row rowScanner, extra ...interface{}) (*models.User, error) {
	var (
		u       models.User
		phone   sql.NullString
		picture sql.NullString
		prefs   []byte
		login   sql.NullTime
	)
	dest := []interface{}{
		&u.ID, &u.FirebaseUID, &u.Name, &u.Email, &phone, &picture, &u.Role, &u.AuthProvider, &u.IsActive,
		&prefs, &u.Stats.MatchesPlayed, &u.Stats.MatchesOrganized, &u.Stats.TotalPaid, &u.Stats.AverageRating,
		&login, &u.CreatedAt, &u.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if phone.Valid {
		u.Phone = &phone.String
	}
	if picture.Valid {
		u.ProfilePicture = &picture.String
	}
	if login.Valid {
		u.LastLogin = &login.Time
	}
	u.Preferences = models.DefaultUserPreferences()
	if err := unmarshalJSON(prefs, &u.Preferences); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresUserRepository) handleUserError(err error) error {
	if err == nil {
		return nil
	}
	code, constraint := pqErrorCode(err)
	if code == pqUniqueViolation {
		switch constraint {
		case "users_email_key":
			return ErrUserEmailConflict
		case "users_firebase_uid_key":
			return ErrUserFirebaseConflict
		}
	}
	return err
}
