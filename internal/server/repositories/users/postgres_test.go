package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/common"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aliceID = "5f0c6a8e-3b1d-4c52-9a7e-2d4b8f1e6c30"

var userColumns = []string{"id", "username", "email", "password_hash", "role", "last_access"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*username,\s*email,\s*password_hash,\s*role\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`
	mock.ExpectExec(q).
		WithArgs(sqlmock.AnyArg(), "alice", "alice@example.com", "hash", models.RoleUser).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), &models.User{
		Username: "alice", Email: "alice@example.com", PasswordHash: "hash",
	})
	require.NoError(t, err)

	_, perr := uuid.Parse(got.ID)
	assert.NoError(t, perr)
	assert.Equal(t, models.RoleUser, got.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{ID: aliceID, Email: "alice@example.com"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "alice@example.com"})
	assert.ErrorContains(t, err, "db error: db down")
	assert.NotErrorIs(t, err, common.ErrConflict)
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	seen := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*username,\s*email,\s*password_hash,\s*role,\s*last_access\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(aliceID, "alice", "alice@example.com", "hash", "user", seen))

	got, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, aliceID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	require.NotNil(t, got.LastAccess)
	assert.True(t, seen.Equal(*got.LastAccess))
}

func TestFindByEmail_NeverLoggedIn(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM users WHERE email`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(aliceID, "alice", "alice@example.com", "hash", "user", nil))

	got, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Nil(t, got.LastAccess)
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM users WHERE email`).WithArgs("ghost@example.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFindByID_NotUUID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.FindByID(context.Background(), "FGD07")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM users WHERE id`).WithArgs(aliceID).WillReturnError(errors.New("db err"))

	_, err := repo.FindByID(context.Background(), aliceID)
	assert.ErrorContains(t, err, "db error: db err")
}

func TestUpdateProfile(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `UPDATE users SET username = \$2, email = \$3 WHERE id = \$1`
	mock.ExpectExec(q).WithArgs(aliceID, "al", "al@example.com").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs(aliceID, "al", "bob@example.com").WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectExec(q).WithArgs(aliceID, "al", "al@example.com").WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	require.NoError(t, repo.UpdateProfile(ctx, aliceID, "al", "al@example.com"))
	assert.ErrorIs(t, repo.UpdateProfile(ctx, aliceID, "al", "bob@example.com"), common.ErrConflict)
	assert.ErrorIs(t, repo.UpdateProfile(ctx, aliceID, "al", "al@example.com"), common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordAndLastAccess(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET password_hash = \$2 WHERE id = \$1`).
		WithArgs(aliceID, "newhash").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET last_access = now\(\) WHERE id = \$1`).
		WithArgs(aliceID).WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, repo.UpdatePassword(ctx, aliceID, "newhash"))
	require.NoError(t, repo.UpdateLastAccess(ctx, aliceID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).WithArgs(aliceID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).WithArgs(aliceID).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).WithArgs(aliceID).WillReturnError(errors.New("db down"))

	ctx := context.Background()
	require.NoError(t, repo.Delete(ctx, aliceID))
	assert.ErrorIs(t, repo.Delete(ctx, aliceID), common.ErrNotFound)
	assert.ErrorContains(t, repo.Delete(ctx, aliceID), "db error: db down")
	assert.ErrorIs(t, repo.Delete(ctx, "not-a-uuid"), common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM users WHERE \(\$1 = '' OR role = \$1\) ORDER BY username, email`).
		WithArgs("user").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(aliceID, "alice", "alice@example.com", "h1", "user", nil).
			AddRow(uuid.NewString(), "bob", "bob@example.com", "h2", "user", time.Now()))

	got, err := repo.List(context.Background(), "user")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Username)
	assert.Nil(t, got[0].LastAccess)
	assert.NotNil(t, got[1].LastAccess)
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM users`).WithArgs("").WillReturnRows(sqlmock.NewRows(userColumns))

	got, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCountByRole(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE \(\$1 = '' OR role = \$1\)`).
		WithArgs("user").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WithArgs("admin").
		WillReturnError(errors.New("db down"))

	n, err := repo.CountByRole(context.Background(), "user")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	_, err = repo.CountByRole(context.Background(), "admin")
	assert.ErrorContains(t, err, "db error")
}
