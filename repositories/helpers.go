package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// pqErrorCode returns the Postgres error code and constraint of err, if any.
func pqErrorCode(err error) (code, constraint string) {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}

// filterBuilder накапливает условия WHERE с позиционными параметрами $1, $2, ...
type filterBuilder struct {
	clauses []string
	args    []interface{}
}

// add appends a clause where every "?" is replaced by the next placeholder
// bound to arg.
func (b *filterBuilder) add(clause string, arg interface{}) {
	b.args = append(b.args, arg)
	b.clauses = append(b.clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(b.args))))
}

func (b *filterBuilder) addRaw(clause string) {
	b.clauses = append(b.clauses, clause)
}

func (b *filterBuilder) where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.clauses, " AND ")
}

// paginate appends LIMIT/OFFSET placeholders.
func (b *filterBuilder) paginate(limit, offset int) string {
	s := ""
	if limit > 0 {
		b.args = append(b.args, limit)
		s += fmt.Sprintf(" LIMIT $%d", len(b.args))
	}
	if offset > 0 {
		b.args = append(b.args, offset)
		s += fmt.Sprintf(" OFFSET $%d", len(b.args))
	}
	return s
}

func marshalJSON(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return data, nil
}

func unmarshalJSON(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode json column: %w", err)
	}
	return nil
}
