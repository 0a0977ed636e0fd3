package users

import (
	"context"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
)

// Repository is the Credential Store.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, username, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastAccess(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	// List returns users ordered by username; an empty role means every role.
	List(ctx context.Context, role string) ([]*models.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}
