// Package memory implements the repositories over process memory. It backs
// service and HTTP tests; the DBTX handles passed to its factories are
// ignored, so a rolled-back transaction does not undo its writes.
package memory

import (
	"context"
	"database/sql"
	"sync"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/dbx"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/claims"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/detections"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/users"
)

// Manager satisfies repomanager.RepositoryManager.
type Manager struct {
	users      *UserRepository
	detections *RecordRepository[*models.Detection]
	claims     *RecordRepository[*models.Claim]
}

func NewManager() *Manager {
	return &Manager{
		users: NewUserRepository(),
		detections: NewRecordRepository(models.DetectionIDPrefix,
			func(a, b *models.Detection) bool { return a.Title == b.Title && a.Content == b.Content },
			func(d *models.Detection) int64 { return d.Date.UnixNano() }),
		claims: NewRecordRepository(models.ClaimIDPrefix,
			func(a, b *models.Claim) bool { return a.Query == b.Query },
			func(c *models.Claim) int64 { return c.Date.UnixNano() }),
	}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *Manager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *Manager) Detections(dbx.DBTX) detections.Repository { return m.detections }

func (m *Manager) Claims(dbx.DBTX) claims.Repository { return m.claims }

type lockable struct {
	mu sync.RWMutex
}
