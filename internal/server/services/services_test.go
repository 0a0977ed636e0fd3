package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/dbx"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/logging"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/auth"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/config"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/models"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/claims"
	"github.com/SergioCuencaNunez/fact-guard-sub000/internal/server/repositories/memory"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fixture struct {
	db        *sql.DB
	mock      sqlmock.Sqlmock
	rm        *memory.Manager
	authority *auth.Authority
	users     *UserService
	dets      *DetectionService
	claims    *ClaimService
	admin     *AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{BcryptCost: bcrypt.MinCost, AccessTokenValidityDuration: time.Hour}
	rm := memory.NewManager()
	authority := auth.NewAuthority([]byte("k"), cfg.AccessTokenValidityDuration)
	log := logging.Discard()

	return &fixture{
		db:        db,
		mock:      mock,
		rm:        rm,
		authority: authority,
		users:     NewUserService(db, rm, cfg, authority, log),
		dets:      NewDetectionService(db, rm, log),
		claims:    NewClaimService(db, rm, log),
		admin:     NewAdminService(db, rm),
	}
}

// register creates a user and returns the caller identity its token carries.
func (f *fixture) register(t *testing.T, email, password string) models.Caller {
	t.Helper()
	token, _, err := f.users.Register(context.Background(), "", email, password)
	require.NoError(t, err)
	caller, err := f.authority.Verify(token)
	require.NoError(t, err)
	return caller
}

func (f *fixture) registerAdmin(t *testing.T, email string) models.Caller {
	t.Helper()
	u, err := f.users.CreateAdmin(context.Background(), "root", email, "pw")
	require.NoError(t, err)
	return models.Caller{ID: u.ID, Role: u.Role}
}

func newDetection(title, content string) *models.Detection {
	return &models.Detection{
		Title:           title,
		Content:         content,
		Models:          []string{"bert"},
		TruePredictions: []float64{0.8},
		FakePredictions: []float64{0.2},
		Predictions:     []string{"True"},
		FinalPrediction: "True",
		Date:            time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newClaim(query string, entries int) *models.Claim {
	c := &models.Claim{Query: query, Language: "en", Date: time.Now(),
		Claims: []string{}, Ratings: []string{}, Links: []string{}}
	for i := 0; i < entries; i++ {
		c.Claims = append(c.Claims, "claim")
		c.Ratings = append(c.Ratings, "False")
		c.Links = append(c.Links, "https://example.org")
	}
	return c
}

// failingClaims wraps the in-memory manager with a claims repository whose
// DeleteByOwner fails.
type failingClaims struct {
	*memory.Manager
}

type brokenClaimsRepo struct {
	claims.Repository
}

func (brokenClaimsRepo) DeleteByOwner(context.Context, string) (int64, error) {
	return 0, errBoom{}
}

func (m failingClaims) Claims(db dbx.DBTX) claims.Repository {
	return brokenClaimsRepo{m.Manager.Claims(db)}
}
