package services

import (
	"context"
	"database/sql"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/common"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/repomanager"
)

// Overview is the admin dashboard summary.
type Overview struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	TotalUsers      int64  `json:"totalUsers"`
	TotalDetections int64  `json:"totalDetections"`
	TotalClaims     int64  `json:"totalClaims"`
}

type AdminService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager) *AdminService {
	return &AdminService{db: db, repomanager: m}
}

// Overview counts plain users (admins excluded), detections and claims.
func (s *AdminService) Overview(ctx context.Context, caller models.Caller) (*Overview, error) {
	if !caller.IsAdmin() {
		return nil, common.ErrForbidden
	}

	users := s.repomanager.Users(s.db)
	self, err := users.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}

	out := &Overview{Username: self.Username, Email: self.Email}
	if out.TotalUsers, err = users.CountByRole(ctx, models.RoleUser); err != nil {
		return nil, err
	}
	if out.TotalDetections, err = s.repomanager.Detections(s.db).Count(ctx); err != nil {
		return nil, err
	}
	if out.TotalClaims, err = s.repomanager.Claims(s.db).Count(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
