package repositories

//go:generate mockgen -source=match_repository.go -destination=mocks/mock_match_repository.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Faaz345/playsplit/models"
)

var (
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchIDConflict      = errors.New("match id already exists")
	ErrMatchVersionConflict = errors.New("match was modified concurrently")
	ErrMatchInvalidOrg      = errors.New("invalid organizer reference")
)

type ListMatchesFilter struct {
	Statuses    []models.MatchStatus
	OrganizerID *string
	// PlayerID matches rosters where the user is currently joined.
	PlayerID *string
	// InvolvingUserID matches organizer or joined player.
	InvolvingUserID     *string
	DateFrom            *time.Time
	DateTo              *time.Time
	PendingPaymentsOnly bool
	SortAscending       bool
	Limit               int
	Offset              int
}

type MatchRepository interface {
	Create(ctx context.Context, m *models.Match) error
	GetByID(ctx context.Context, matchID string) (*models.Match, error)
	// Update writes m only if the stored version still equals m.Version.
	Update(ctx context.Context, m *models.Match) error
	List(ctx context.Context, filter ListMatchesFilter) ([]*models.Match, error)
	Count(ctx context.Context, filter ListMatchesFilter) (int, error)
	DailyCreated(ctx context.Context, since time.Time) ([]models.DailyAmount, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, m *models.Match) error {
	m.Version = 1
	doc, err := marshalJSON(m)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO matches (match_id, organizer_id, status, date_time, is_quick_match, document, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		m.MatchID, m.OrganizerID, m.Status, m.DateTime, m.IsQuickMatch, doc, m.Version,
	).Scan(&m.CreatedAt, &m.UpdatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, matchID string) (*models.Match, error) {
	query := `SELECT document, version, created_at, updated_at FROM matches WHERE match_id = $1`

	m, err := scanMatch(r.db.QueryRowContext(ctx, query, matchID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, m *models.Match) error {
	expected := m.Version
	m.Version = expected + 1
	doc, err := marshalJSON(m)
	if err != nil {
		m.Version = expected
		return err
	}

	query := `
		UPDATE matches
		SET document = $1, status = $2, date_time = $3, version = version + 1, updated_at = NOW()
		WHERE match_id = $4 AND version = $5
		RETURNING updated_at`

	err = r.db.QueryRowContext(ctx, query, doc, m.Status, m.DateTime, m.MatchID, expected).Scan(&m.UpdatedAt)
	if err == nil {
		return nil
	}
	m.Version = expected
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM matches WHERE match_id = $1)`, m.MatchID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check match existence: %w", err)
	}
	if !exists {
		return ErrMatchNotFound
	}
	return ErrMatchVersionConflict
}

func (r *postgresMatchRepository) List(ctx context.Context, filter ListMatchesFilter) ([]*models.Match, error) {
	b := buildMatchFilter(filter)
	order := " ORDER BY date_time DESC, created_at DESC"
	if filter.SortAscending {
		order = " ORDER BY date_time ASC, created_at ASC"
	}
	query := `SELECT document, version, created_at, updated_at FROM matches` + b.where() + order + b.paginate(filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) Count(ctx context.Context, filter ListMatchesFilter) (int, error) {
	b := buildMatchFilter(filter)
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`+b.where(), b.args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresMatchRepository) DailyCreated(ctx context.Context, since time.Time) ([]models.DailyAmount, error) {
	query := `
		SELECT date_trunc('day', created_at) AS day, COUNT(*), COALESCE(SUM((document->>'total_cost')::bigint), 0)
		FROM matches
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day`
	return queryDailyAmounts(ctx, r.db, query, since)
}

func buildMatchFilter(filter ListMatchesFilter) *filterBuilder {
	b := &filterBuilder{}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		b.add("status = ANY(?)", pq.Array(statuses))
	}
	if filter.OrganizerID != nil {
		b.add("organizer_id = ?", *filter.OrganizerID)
	}
	if filter.PlayerID != nil {
		b.add(`document->'players' @> jsonb_build_array(jsonb_build_object('user_id', ?::text, 'status', 'joined'))`, *filter.PlayerID)
	}
	if filter.InvolvingUserID != nil {
		b.add(`(organizer_id::text = ? OR document->'players' @> jsonb_build_array(jsonb_build_object('user_id', ?::text, 'status', 'joined')))`, *filter.InvolvingUserID)
	}
	if filter.DateFrom != nil {
		b.add("date_time >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		b.add("date_time <= ?", *filter.DateTo)
	}
	if filter.PendingPaymentsOnly {
		b.addRaw(`document->'players' @> '[{"status": "joined", "payment_status": "pending"}]'::jsonb`)
	}
	return b
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var (
		doc       []byte
		version   int64
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&doc, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	m := &models.Match{}
	if err := unmarshalJSON(doc, m); err != nil {
		return nil, err
	}
	m.Version = version
	m.CreatedAt = createdAt
	m.UpdatedAt = updatedAt
	if m.Players == nil {
		m.Players = []models.PlayerParticipation{}
	}
	return m, nil
}

func queryDailyAmounts(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]models.DailyAmount, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]models.DailyAmount, 0)
	for rows.Next() {
		var d models.DailyAmount
		if err := rows.Scan(&d.Day, &d.Count, &d.Amount); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	code, constraint := pqErrorCode(err)
	switch code {
	case pqUniqueViolation:
		if constraint == "matches_pkey" {
			return ErrMatchIDConflict
		}
	case pqForeignKeyViolation:
		if constraint == "matches_organizer_id_fkey" {
			return ErrMatchInvalidOrg
		}
	}
	return err
}
