package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	refreshtokensrepo "github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

var errBoom = errors.New("boom")

// --- in-memory repositories ---

type fakeUsersRepo struct {
	mu      sync.Mutex
	byID    map[string]models.User
	byEmail map[string]string

	getErr    error
	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]models.User{}, byEmail: map[string]string{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, fmt.Errorf("db error: %w", common.ErrorAlreadyExists)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now()
	f.byID[u.ID] = *u
	f.byEmail[u.Email] = u.ID
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	id, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := f.byID[id]
	return &u, nil
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

type fakeRefreshRepo struct {
	mu      sync.Mutex
	byToken map[string]models.RefreshToken

	createErr error
	findErr   error
	delErr    error
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{byToken: map[string]models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, t *models.RefreshToken) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byToken[t.Token]; ok {
		return nil, errors.New("refresh token collision")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now()
	f.byToken[t.Token] = *t
	return t, nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	t, ok := f.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (f *fakeRefreshRepo) DeleteByID(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	for k, t := range f.byToken {
		if t.ID == id {
			delete(f.byToken, k)
		}
	}
	return nil
}

func (f *fakeRefreshRepo) DeleteByToken(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.byToken, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	for k, t := range f.byToken {
		if t.UserID == userID {
			delete(f.byToken, k)
		}
	}
	return nil
}

func (f *fakeRefreshRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byToken)
}

func (f *fakeRefreshRepo) put(t models.RefreshToken) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byToken[t.Token] = t
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

// --- harness ---

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTxDB returns an in-memory database used only for BEGIN/COMMIT; the
// fake repositories ignore the handle they are bound to.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testConfig(rotate bool) *config.Config {
	return &config.Config{
		AccessTokenSecret:            "access-secret",
		RefreshTokenSecret:           "refresh-secret",
		AccessTokenValidityDuration:  15 * time.Minute,
		RefreshTokenValidityDuration: 7 * 24 * time.Hour,
		RotateRefreshTokens:          rotate,
		BcryptCost:                   bcrypt.MinCost,
	}
}

type harness struct {
	svc   *UserService
	rm    *fakeRepoManager
	codec *auth.TokenCodec
	clock *testClock
}

func newHarnessWithDB(t *testing.T, db *sql.DB, rotate bool) *harness {
	t.Helper()
	cfg := testConfig(rotate)
	clock := &testClock{now: time.Now()}
	codec := auth.NewTokenCodec(cfg).WithClock(clock.Now)
	rm := &fakeRepoManager{u: newFakeUsersRepo(), r: newFakeRefreshRepo()}
	svc := NewUserService(db, rm, auth.NewBcryptHasher(cfg.BcryptCost), codec, cfg, logging.NewNopLogger())
	return &harness{svc: svc, rm: rm, codec: codec, clock: clock}
}

func newHarness(t *testing.T, rotate bool) *harness {
	t.Helper()
	return newHarnessWithDB(t, newTxDB(t), rotate)
}

func (h *harness) signup(t *testing.T, email string) *Session {
	t.Helper()
	sess, err := h.svc.Signup(context.Background(), SignupInput{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
	})
	require.NoError(t, err)
	return sess
}
