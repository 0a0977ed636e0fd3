// Package records holds what the detection and claim repositories share:
// the prefixed sequence ids, the JSONB list codec and unique-violation
// detection.
package records

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// FormatID renders n as prefix plus at least two zero-padded digits:
// FormatID("FGD", 7) == "FGD07", FormatID("FGD", 123) == "FGD123".
func FormatID(prefix string, n int64) string {
	return fmt.Sprintf("%s%02d", prefix, n)
}

// ParseID is the inverse of FormatID.
func ParseID(prefix, id string) (int64, error) {
	digits, ok := strings.CutPrefix(id, prefix)
	if !ok || digits == "" {
		return 0, fmt.Errorf("id %q does not start with %q", id, prefix)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("id %q has no numeric suffix", id)
	}
	return n, nil
}

// NextID draws the next value of sequence and formats it with prefix.
func NextID(ctx context.Context, db dbx.DBTX, sequence, prefix string) (string, error) {
	var n int64
	if err := db.QueryRowContext(ctx, `SELECT nextval($1::regclass)`, sequence).Scan(&n); err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return FormatID(prefix, n), nil
}

// CompactSequence rewinds sequence so that the next id follows the highest
// id still present in table (or starts over at 1 when the table is empty).
// It is not atomic with the delete that precedes it; a concurrent insert can
// make the rewind stale, and a resulting id clash surfaces as a duplicate.
func CompactSequence(ctx context.Context, db dbx.DBTX, table, sequence, prefix string) error {
	query := fmt.Sprintf(
		`SELECT setval($1::regclass,
			COALESCE(MAX(CAST(SUBSTRING(id FROM %d) AS BIGINT)), 1),
			MAX(id) IS NOT NULL)
		 FROM %s`, len(prefix)+1, table)

	var n int64
	if err := db.QueryRowContext(ctx, query, sequence).Scan(&n); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// jsonList adapts a typed slice to a JSONB column in both directions.
type jsonList[T any] struct {
	v *[]T
}

// JSONList wraps dst so it can be passed as a query argument (encoded as a
// JSON array, nil becoming []) or as a Scan destination (decoded in place).
func JSONList[T any](dst *[]T) interface {
	driver.Valuer
	Scan(src any) error
} {
	return jsonList[T]{v: dst}
}

func (l jsonList[T]) Value() (driver.Value, error) {
	if l.v == nil || *l.v == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(*l.v)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return b, nil
}

func (l jsonList[T]) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l.v = []T{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("decode list: unsupported source type %T", src)
	}

	out := []T{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode list: %w", err)
	}
	*l.v = out
	return nil
}
