package repositories

//go:generate mockgen -source=payment_repository.go -destination=mocks/mock_payment_repository.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Faaz345/playsplit/models"
)

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrPaymentDuplicate = errors.New("payment with this gateway reference already exists")
	ErrPaymentInvalidFK = errors.New("invalid match or user reference for payment")
)

type ListPaymentsFilter struct {
	Status   *models.PaymentStatus
	MatchID  *string
	UserID   *string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	Update(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByGatewayOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*models.Payment, error)
	// GetOpenByMatchAndUser returns the latest created/attempted payment, if any.
	GetOpenByMatchAndUser(ctx context.Context, matchID, userID string) (*models.Payment, error)
	ListByMatch(ctx context.Context, matchID string) ([]*models.PaymentWithUser, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.PaymentWithMatch, error)
	List(ctx context.Context, filter ListPaymentsFilter) ([]*models.PaymentWithUser, int, error)
	SumPaid(ctx context.Context, userID *string, since *time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[models.PaymentStatus]int, error)
	DailyRevenue(ctx context.Context, since time.Time) ([]models.DailyAmount, error)
	// ExpireStale cancels created payments older than cutoff and returns how many were touched.
	ExpireStale(ctx context.Context, cutoff, now time.Time) (int64, error)
}

type postgresPaymentRepository struct {
	db *sql.DB
}

func NewPostgresPaymentRepository(db *sql.DB) PaymentRepository {
	return &postgresPaymentRepository{db: db}
}

const paymentColumns = `p.id, p.match_id, p.user_id, p.amount, p.currency, p.method, p.status,
	p.gateway_order_id, p.gateway_payment_id, p.payment_link_id, p.payment_link_url,
	p.gateway_response, p.refund, p.timeline, p.verification, p.metadata, p.created_at, p.updated_at`

type paymentJSONColumns struct {
	response     []byte
	refund       []byte
	timeline     []byte
	verification []byte
	metadata     []byte
}

func encodePaymentColumns(p *models.Payment) (*paymentJSONColumns, error) {
	var (
		cols = &paymentJSONColumns{}
		err  error
	)
	if len(p.GatewayResponse) > 0 {
		cols.response = p.GatewayResponse
	}
	if p.Refund != nil {
		if cols.refund, err = marshalJSON(p.Refund); err != nil {
			return nil, err
		}
	}
	if p.Timeline == nil {
		p.Timeline = []models.TimelineEntry{}
	}
	if cols.timeline, err = marshalJSON(p.Timeline); err != nil {
		return nil, err
	}
	if cols.verification, err = marshalJSON(p.Verification); err != nil {
		return nil, err
	}
	if cols.metadata, err = marshalJSON(p.Metadata); err != nil {
		return nil, err
	}
	return cols, nil
}

func (r *postgresPaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	cols, err := encodePaymentColumns(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payments (id, match_id, user_id, amount, currency, method, status,
			gateway_order_id, gateway_payment_id, payment_link_id, payment_link_url,
			gateway_response, refund, timeline, verification, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		p.ID, p.MatchID, p.UserID, p.Amount, p.Currency, p.Method, p.Status,
		p.GatewayOrderID, p.GatewayPaymentID, nullString(p.PaymentLinkID), nullString(p.PaymentLinkURL),
		cols.response, cols.refund, cols.timeline, cols.verification, cols.metadata,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	return r.handlePaymentError(err)
}

func (r *postgresPaymentRepository) Update(ctx context.Context, p *models.Payment) error {
	cols, err := encodePaymentColumns(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE payments
		SET amount = $1, method = $2, status = $3, gateway_order_id = $4, gateway_payment_id = $5,
			payment_link_id = $6, payment_link_url = $7, gateway_response = $8, refund = $9,
			timeline = $10, verification = $11, metadata = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at`

	err = r.db.QueryRowContext(ctx, query,
		p.Amount, p.Method, p.Status, p.GatewayOrderID, p.GatewayPaymentID,
		nullString(p.PaymentLinkID), nullString(p.PaymentLinkURL), cols.response, cols.refund,
		cols.timeline, cols.verification, cols.metadata, p.ID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPaymentNotFound
	}
	return r.handlePaymentError(err)
}

func (r *postgresPaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments p WHERE p.id = $1`, id)
}

func (r *postgresPaymentRepository) GetByGatewayOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments p WHERE p.gateway_order_id = $1`, orderID)
}

func (r *postgresPaymentRepository) GetByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*models.Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments p WHERE p.gateway_payment_id = $1`, gatewayPaymentID)
}

func (r *postgresPaymentRepository) GetOpenByMatchAndUser(ctx context.Context, matchID, userID string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p
		WHERE p.match_id = $1 AND p.user_id = $2 AND p.status IN ('created', 'attempted')
		ORDER BY p.created_at DESC LIMIT 1`
	return r.getOne(ctx, query, matchID, userID)
}

func (r *postgresPaymentRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPaymentRepository) ListByMatch(ctx context.Context, matchID string) ([]*models.PaymentWithUser, error) {
	query := `
		SELECT ` + paymentColumns + `, u.name, u.email, u.profile_picture
		FROM payments p
		JOIN users u ON u.id = p.user_id
		WHERE p.match_id = $1
		ORDER BY p.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*models.PaymentWithUser, 0)
	for rows.Next() {
		item, _, scanErr := scanPaymentWithUser(rows, false)
		if scanErr != nil {
			return nil, scanErr
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *postgresPaymentRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.PaymentWithMatch, error) {
	b := &filterBuilder{}
	b.add("p.user_id = ?", userID)
	query := `
		SELECT ` + paymentColumns + `,
			COALESCE(m.document->>'title', ''), m.date_time, COALESCE(m.document->'venue'->>'name', '')
		FROM payments p
		JOIN matches m ON m.match_id = p.match_id` + b.where() + `
		ORDER BY p.created_at DESC` + b.paginate(limit, 0)

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*models.PaymentWithMatch, 0)
	for rows.Next() {
		item := &models.PaymentWithMatch{}
		var extra = []interface{}{&item.MatchTitle, &item.MatchDateTime, &item.VenueName}
		p, scanErr := scanPaymentWith(rows, extra...)
		if scanErr != nil {
			return nil, scanErr
		}
		item.Payment = p
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *postgresPaymentRepository) List(ctx context.Context, filter ListPaymentsFilter) ([]*models.PaymentWithUser, int, error) {
	b := &filterBuilder{}
	if filter.Status != nil {
		b.add("p.status = ?", *filter.Status)
	}
	if filter.MatchID != nil {
		b.add("p.match_id = ?", *filter.MatchID)
	}
	if filter.UserID != nil {
		b.add("p.user_id = ?", *filter.UserID)
	}
	if filter.DateFrom != nil {
		b.add("p.created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		b.add("p.created_at <= ?", *filter.DateTo)
	}

	query := `
		SELECT ` + paymentColumns + `, u.name, u.email, u.profile_picture, COUNT(*) OVER()
		FROM payments p
		JOIN users u ON u.id = p.user_id` + b.where() + `
		ORDER BY p.created_at DESC` + b.paginate(filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	total := 0
	result := make([]*models.PaymentWithUser, 0)
	for rows.Next() {
		item, n, scanErr := scanPaymentWithUser(rows, true)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		total = n
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresPaymentRepository) SumPaid(ctx context.Context, userID *string, since *time.Time) (int64, error) {
	b := &filterBuilder{}
	b.addRaw("status = 'paid'")
	if userID != nil {
		b.add("user_id = ?", *userID)
	}
	if since != nil {
		b.add("updated_at >= ?", *since)
	}

	var sum int64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments`+b.where(), b.args...).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *postgresPaymentRepository) CountByStatus(ctx context.Context) (map[models.PaymentStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM payments GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.PaymentStatus]int)
	for rows.Next() {
		var (
			status models.PaymentStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *postgresPaymentRepository) DailyRevenue(ctx context.Context, since time.Time) ([]models.DailyAmount, error) {
	query := `
		SELECT date_trunc('day', updated_at) AS day, COUNT(*), COALESCE(SUM(amount), 0)
		FROM payments
		WHERE status = 'paid' AND updated_at >= $1
		GROUP BY day
		ORDER BY day`
	return queryDailyAmounts(ctx, r.db, query, since)
}

func (r *postgresPaymentRepository) ExpireStale(ctx context.Context, cutoff, now time.Time) (int64, error) {
	entry, err := marshalJSON([]models.TimelineEntry{{
		Status:    models.PaymentStatusCancelled,
		Timestamp: now,
		Notes:     "Payment expired",
	}})
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE payments
		SET status = 'cancelled', timeline = COALESCE(timeline, '[]'::jsonb) || $1::jsonb, updated_at = NOW()
		WHERE status = 'created' AND created_at < $2`

	result, err := r.db.ExecContext(ctx, query, entry, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale payments: %w", err)
	}
	return result.RowsAffected()
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	return scanPaymentWith(row)
}

// scanPaymentWith сканирует колонки платежа и дополнительные колонки extra после них.
func scanPaymentWith(row rowScanner, extra ...interface{}) (*models.Payment, error) {
	var (
		p                                              models.Payment
		linkID, linkURL                                sql.NullString
		response, refund, timeline, verification, meta []byte
	)
	dest := []interface{}{
		&p.ID, &p.MatchID, &p.UserID, &p.Amount, &p.Currency, &p.Method, &p.Status,
		&p.GatewayOrderID, &p.GatewayPaymentID, &linkID, &linkURL,
		&response, &refund, &timeline, &verification, &meta, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	p.PaymentLinkID = linkID.String
	p.PaymentLinkURL = linkURL.String
	if len(response) > 0 {
		p.GatewayResponse = response
	}
	if len(refund) > 0 {
		p.Refund = &models.RefundDetails{}
		if err := unmarshalJSON(refund, p.Refund); err != nil {
			return nil, err
		}
	}
	if err := unmarshalJSON(timeline, &p.Timeline); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(verification, &p.Verification); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(meta, &p.Metadata); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPaymentWithUser(row rowScanner, withTotal bool) (*models.PaymentWithUser, int, error) {
	item := &models.PaymentWithUser{}
	var (
		picture sql.NullString
		total   int
	)
	extra := []interface{}{&item.UserName, &item.UserEmail, &picture}
	if withTotal {
		extra = append(extra, &total)
	}
	p, err := scanPaymentWith(row, extra...)
	if err != nil {
		return nil, 0, err
	}
	item.Payment = p
	if picture.Valid {
		item.UserProfilePicture = &picture.String
	}
	return item, total, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *postgresPaymentRepository) handlePaymentError(err error) error {
	if err == nil {
		return nil
	}
	code, constraint := pqErrorCode(err)
	switch code {
	case pqUniqueViolation:
		return fmt.Errorf("%w (%s)", ErrPaymentDuplicate, constraint)
	case pqForeignKeyViolation:
		return ErrPaymentInvalidFK
	}
	return err
}
