// Package claims stores claim-verification results in PostgreSQL.
package claims

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/common"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/dbx"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/records"
)

const (
	table    = "claims"
	sequence = "claim_id_seq"
)

type Repository = records.Repository[*models.Claim]

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectClaim = `SELECT id, user_id, query, claims, ratings, links, language, date FROM claims`

func (r *PostgresRepository) NextID(ctx context.Context) (string, error) {
	return records.NextID(ctx, r.db, sequence, models.ClaimIDPrefix)
}

func (r *PostgresRepository) Exists(ctx context.Context, c *models.Claim) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM claims WHERE user_id = $1 AND query = $2)`,
		c.UserID, c.Query).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Claim) (*models.Claim, error) {
	query :=
		`INSERT INTO claims (id, user_id, query, claims, ratings, links, language, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.Query,
		records.JSONList(&c.Claims), records.JSONList(&c.Ratings), records.JSONList(&c.Links),
		c.Language, c.Date)
	if err != nil {
		if records.IsUniqueViolation(err) {
			return nil, common.ErrDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func scan(s interface{ Scan(dest ...any) error }) (*models.Claim, error) {
	c := &models.Claim{}
	err := s.Scan(&c.ID, &c.UserID, &c.Query,
		records.JSONList(&c.Claims), records.JSONList(&c.Ratings), records.JSONList(&c.Links),
		&c.Language, &c.Date)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.Claim, error) {
	rows, err := r.db.QueryContext(ctx,
		selectClaim+` WHERE ($1 = '' OR user_id = $1) ORDER BY date DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Claim, 0)
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (*models.Claim, error) {
	c, err := scan(r.db.QueryRowContext(ctx,
		selectClaim+` WHERE id = $1 AND ($2 = '' OR user_id = $2)`, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM claims WHERE id = $1 AND ($2 = '' OR user_id = $2)`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM claims WHERE user_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) CompactSequence(ctx context.Context) error {
	return records.CompactSequence(ctx, r.db, table, sequence, models.ClaimIDPrefix)
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM claims`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
