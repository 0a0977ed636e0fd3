package records

import (
	"context"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
)

// Repository is the storage contract shared by both owned collections.
// An empty ownerID scopes a read or delete to every owner.
type Repository[R models.Record] interface {
	NextID(ctx context.Context) (string, error)
	// Exists reports whether rec's owner already has a row with the same
	// dedup key.
	Exists(ctx context.Context, rec R) (bool, error)
	Create(ctx context.Context, rec R) (R, error)
	List(ctx context.Context, ownerID string) ([]R, error)
	Get(ctx context.Context, id, ownerID string) (R, error)
	Delete(ctx context.Context, id, ownerID string) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	CompactSequence(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
