package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/common"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/dbx"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/logging"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/records"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/repomanager"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/users"
)

// RecordService implements create/list/get/delete for one owned collection.
// Non-admin callers only ever see their own rows; a row owned by someone
// else is reported as ErrNotFound.
type RecordService[R models.Record] struct {
	db    *sql.DB
	repo  func(dbx.DBTX) records.Repository[R]
	users func(dbx.DBTX) users.Repository
	kind  string
	log   logging.Logger
}

type (
	DetectionService = RecordService[*models.Detection]
	ClaimService     = RecordService[*models.Claim]
)

func NewDetectionService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *DetectionService {
	return &DetectionService{db: db, repo: m.Detections, users: m.Users, kind: "detection", log: log}
}

func NewClaimService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *ClaimService {
	return &ClaimService{db: db, repo: m.Claims, users: m.Users, kind: "claim", log: log}
}

// Create stores rec under the caller's ownership. Whatever owner or id the
// payload carried is overwritten. A caller whose account no longer exists
// gets ErrUnauthorized, even while its token is still valid.
func (s *RecordService[R]) Create(ctx context.Context, caller models.Caller, rec R) (R, error) {
	var zero R
	rec.SetOwnerID(caller.ID)
	if err := rec.Validate(); err != nil {
		return zero, err
	}

	if _, err := s.users(s.db).FindByID(ctx, caller.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return zero, fmt.Errorf("account %s no longer exists: %w", caller.ID, common.ErrUnauthorized)
		}
		return zero, err
	}

	repo := s.repo(s.db)
	exists, err := repo.Exists(ctx, rec)
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, common.ErrDuplicate
	}

	id, err := repo.NextID(ctx)
	if err != nil {
		return zero, err
	}
	rec.SetRecordID(id)

	created, err := repo.Create(ctx, rec)
	if err != nil {
		return zero, err
	}

	s.log.Debug(ctx, s.kind+" created", "id", id, "user_id", caller.ID)
	return created, nil
}

// List returns rows newest first.
func (s *RecordService[R]) List(ctx context.Context, caller models.Caller) ([]R, error) {
	return s.repo(s.db).List(ctx, caller.OwnerScope())
}

func (s *RecordService[R]) Get(ctx context.Context, caller models.Caller, id string) (R, error) {
	return s.repo(s.db).Get(ctx, id, caller.OwnerScope())
}

// Delete removes the row and then rewinds the id sequence; a failed rewind
// is logged and does not fail the delete.
func (s *RecordService[R]) Delete(ctx context.Context, caller models.Caller, id string) error {
	repo := s.repo(s.db)
	if err := repo.Delete(ctx, id, caller.OwnerScope()); err != nil {
		return err
	}

	if err := repo.CompactSequence(ctx); err != nil {
		s.log.Warn(ctx, "id sequence compaction failed", "kind", s.kind, "error", err)
	}
	return nil
}

func (s *RecordService[R]) Count(ctx context.Context) (int64, error) {
	return s.repo(s.db).Count(ctx)
}
