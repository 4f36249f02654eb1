package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Signup(ctx context.Context, in services.SignupInput) (*services.Session, error) {
	args := m.Called(ctx, in)
	sess, _ := args.Get(0).(*services.Session)
	return sess, args.Error(1)
}

func (m *mockUserService) Signin(ctx context.Context, in services.SigninInput) (*services.Session, error) {
	args := m.Called(ctx, in)
	sess, _ := args.Get(0).(*services.Session)
	return sess, args.Error(1)
}

func (m *mockUserService) Refresh(ctx context.Context, token string) (*services.RefreshResult, error) {
	args := m.Called(ctx, token)
	res, _ := args.Get(0).(*services.RefreshResult)
	return res, args.Error(1)
}

func (m *mockUserService) Signout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockUserService) SignoutAll(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AccessTokenSecret = "access-secret"
	cfg.RefreshTokenSecret = "refresh-secret"
	cfg.BcryptCost = bcrypt.MinCost
	cfg.RateLimitEnabled = false
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, us UserService, lim Limiters) (*Server, *auth.TokenCodec) {
	t.Helper()
	codec := auth.NewTokenCodec(cfg)
	return NewServer(cfg, logging.NewNopLogger(), us, codec, lim), codec
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, m := range mutate {
		m(req)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(c) }
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	return nil
}
