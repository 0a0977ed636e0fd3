// Package services contains server-side business logic. This file implements
// UserService: registration, login, self-service profile operations and the
// admin user management that cascades into the record stores.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/common"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/dbx"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/logging"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/auth"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/config"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/repomanager"
)

// LoginLimiter throttles login attempts per key.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	authority   *auth.Authority
	bcryptCost  int
	limiter     LoginLimiter
	log         logging.Logger
}

// NewUserService constructs a UserService. The session authority is shared
// with the HTTP guard so that issued tokens verify with the same secret.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, authority *auth.Authority, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		authority:   authority,
		bcryptCost:  cfg.BcryptCost,
		log:         log,
	}
}

// SetLoginLimiter enables login throttling; nil disables it.
func (s *UserService) SetLoginLimiter(l LoginLimiter) {
	s.limiter = l
}

// Register creates a plain user and returns a session token for it. An empty
// username defaults to the local part of the email.
func (s *UserService) Register(ctx context.Context, username, email, password string) (string, *models.User, error) {
	user, err := s.create(ctx, username, email, password, models.RoleUser)
	if err != nil {
		return "", nil, err
	}

	token, err := s.authority.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return token, user, nil
}

// CreateAdmin creates an account with the admin role. It is not reachable
// over HTTP.
func (s *UserService) CreateAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	user, err := s.create(ctx, username, email, password, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "admin created", "user_id", user.ID)
	return user, nil
}

func (s *UserService) create(ctx context.Context, username, email, password, role string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrValidation)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash, Role: role}
	return s.repomanager.Users(s.db).Create(ctx, user)
}

// Login verifies the password for email and returns a session token carrying
// the user's stored role. Unknown emails yield ErrNotFound, wrong passwords
// ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", fmt.Errorf("email and password are required: %w", common.ErrValidation)
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, email)
		if err != nil {
			s.log.Warn(ctx, "login limiter unavailable", "error", err)
		} else if !ok {
			return "", common.ErrTooManyAttempts
		}
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", common.ErrInvalidCredentials
	}

	if err := repo.UpdateLastAccess(ctx, user.ID); err != nil {
		return "", err
	}

	token, err := s.authority.Issue(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, fmt.Errorf("email is required: %w", common.ErrValidation)
	}

	_, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Profile returns the caller's own account. Admins use the admin overview
// instead.
func (s *UserService) Profile(ctx context.Context, caller models.Caller) (*models.User, error) {
	if caller.IsAdmin() {
		return nil, common.ErrForbidden
	}
	return s.repomanager.Users(s.db).FindByID(ctx, caller.ID)
}

// UpdateProfile changes the caller's username and/or email; an empty value
// keeps the current one.
func (s *UserService) UpdateProfile(ctx context.Context, caller models.Caller, username, email string) (*models.User, error) {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" && email == "" {
		return nil, fmt.Errorf("username or email is required: %w", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if username != "" {
		user.Username = username
	}
	if email != "" {
		user.Email = email
	}

	if err := repo.UpdateProfile(ctx, user.ID, user.Username, user.Email); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ResetPassword(ctx context.Context, caller models.Caller, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("old and new passwords are required: %w", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByID(ctx, caller.ID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return common.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return repo.UpdatePassword(ctx, user.ID, hash)
}

// DeleteAccount removes the caller and everything the caller owns.
func (s *UserService) DeleteAccount(ctx context.Context, caller models.Caller) error {
	return s.deleteWithRecords(ctx, caller.ID)
}

// ListUsers returns every account, optionally filtered by role. Admin only.
func (s *UserService) ListUsers(ctx context.Context, caller models.Caller, role string) ([]*models.User, error) {
	if !caller.IsAdmin() {
		return nil, common.ErrForbidden
	}
	if role != "" && !models.ValidRole(role) {
		return nil, fmt.Errorf("unknown role %q: %w", role, common.ErrValidation)
	}
	return s.repomanager.Users(s.db).List(ctx, role)
}

// DeleteUser removes another account and its records. Admin only; admins
// remove their own account through DeleteAccount.
func (s *UserService) DeleteUser(ctx context.Context, caller models.Caller, targetID string) error {
	if !caller.IsAdmin() || targetID == caller.ID {
		return common.ErrForbidden
	}
	return s.deleteWithRecords(ctx, targetID)
}

// deleteWithRecords removes the user row first and then both owned
// collections, all in one transaction. A missing user aborts before any
// record is touched.
func (s *UserService) deleteWithRecords(ctx context.Context, userID string) error {
	var detections, claims int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			return err
		}

		var err error
		if detections, err = s.repomanager.Detections(tx).DeleteByOwner(ctx, userID); err != nil {
			return fmt.Errorf("delete detections: %w", err)
		}
		if claims, err = s.repomanager.Claims(tx).DeleteByOwner(ctx, userID); err != nil {
			return fmt.Errorf("delete claims: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "user deleted", "user_id", userID, "detections", detections, "claims", claims)
	return nil
}
