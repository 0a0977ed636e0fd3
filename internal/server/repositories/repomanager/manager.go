package repomanager

import (
	"context"
	"database/sql"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/dbx"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/claims"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/detections"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// path works on the pool and inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Detections(db dbx.DBTX) detections.Repository
	Claims(db dbx.DBTX) claims.Repository
}
