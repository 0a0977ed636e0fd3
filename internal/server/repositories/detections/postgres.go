// Package detections stores fake-news analysis results in PostgreSQL.
package detections

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
	table    = "detections"
	sequence = "detection_id_seq"
)

type Repository = records.Repository[*models.Detection]

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectDetection = `SELECT id, user_id, title, content, models, confidence,
	true_predictions, fake_predictions, predictions, final_prediction, date
	FROM detections`

func (r *PostgresRepository) NextID(ctx context.Context) (string, error) {
	return records.NextID(ctx, r.db, sequence, models.DetectionIDPrefix)
}

func (r *PostgresRepository) Exists(ctx context.Context, d *models.Detection) (bool, error) {
	query :=
		`SELECT EXISTS (
			SELECT 1 FROM detections WHERE user_id = $1 AND title = $2 AND content = $3
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, d.UserID, d.Title, d.Content).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.Detection) (*models.Detection, error) {
	query :=
		`INSERT INTO detections (id, user_id, title, content, models, confidence,
			true_predictions, fake_predictions, predictions, final_prediction, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 `

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.UserID, d.Title, d.Content,
		records.JSONList(&d.Models), d.Confidence,
		records.JSONList(&d.TruePredictions), records.JSONList(&d.FakePredictions),
		records.JSONList(&d.Predictions), d.FinalPrediction, d.Date)
	if err != nil {
		if records.IsUniqueViolation(err) {
			return nil, common.ErrDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return d, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Detection, error) {
	d := &models.Detection{}
	err := s.Scan(&d.ID, &d.UserID, &d.Title, &d.Content,
		records.JSONList(&d.Models), &d.Confidence,
		records.JSONList(&d.TruePredictions), records.JSONList(&d.FakePredictions),
		records.JSONList(&d.Predictions), &d.FinalPrediction, &d.Date)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.Detection, error) {
	rows, err := r.db.QueryContext(ctx,
		selectDetection+` WHERE ($1 = '' OR user_id = $1) ORDER BY date DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Detection, 0)
	for rows.Next() {
		d, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, ownerID string) (*models.Detection, error) {
	row := r.db.QueryRowContext(ctx,
		selectDetection+` WHERE id = $1 AND ($2 = '' OR user_id = $2)`, id, ownerID)

	d, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM detections WHERE id = $1 AND ($2 = '' OR user_id = $2)`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM detections WHERE user_id = $1`, ownerID)
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
	return records.CompactSequence(ctx, r.db, table, sequence, models.DetectionIDPrefix)
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM detections`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
