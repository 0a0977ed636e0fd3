package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/common"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
	"github.com/google/uuid"
)

type UserRepository struct {
	lockable
	rows map[string]models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{rows: make(map[string]models.User)}
}

func (r *UserRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.rows {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return nil, common.ErrConflict
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	r.rows[user.ID] = *user
	return user, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.rows {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) update(id string, fn func(u *models.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	if err := fn(&u); err != nil {
		return err
	}
	r.rows[id] = u
	return nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, id, username, email string) error {
	return r.update(id, func(u *models.User) error {
		if r.emailTaken(email, id) {
			return common.ErrConflict
		}
		u.Username, u.Email = username, email
		return nil
	})
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return r.update(id, func(u *models.User) error {
		u.PasswordHash = passwordHash
		return nil
	})
}

func (r *UserRepository) UpdateLastAccess(_ context.Context, id string) error {
	return r.update(id, func(u *models.User) error {
		now := time.Now().UTC()
		u.LastAccess = &now
		return nil
	})
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *UserRepository) List(_ context.Context, role string) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0, len(r.rows))
	for _, u := range r.rows {
		if role == "" || u.Role == role {
			u := u
			result = append(result, &u)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Username != result[j].Username {
			return result[i].Username < result[j].Username
		}
		return result[i].Email < result[j].Email
	})
	return result, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	list, _ := r.List(ctx, role)
	return int64(len(list)), nil
}
