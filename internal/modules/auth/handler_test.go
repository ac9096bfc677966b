package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eyxpoliba/emotion-core/internal/config"
	"github.com/eyxpoliba/emotion-core/internal/models"
	jwtpkg "github.com/eyxpoliba/emotion-core/internal/pkg/jwt"
	"github.com/eyxpoliba/emotion-core/internal/pkg/revocation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	jwtpkg.SetSecret("test-secret")
}

type fakeRegistrar struct {
	user *models.UserModel
	err  error
}

func (f *fakeRegistrar) Login(ctx context.Context, dto *LoginDTO) (*models.UserModel, error) {
	return f.user, f.err
}

func (f *fakeRegistrar) GoogleLogin(ctx context.Context, identity *GoogleIdentity, dto *GoogleLoginDTO) (*models.UserModel, error) {
	return f.user, f.err
}

type fakeVerifier struct {
	identity *GoogleIdentity
	err      error
}

func (f *fakeVerifier) Verify(ctx context.Context, credential string) (*GoogleIdentity, error) {
	return f.identity, f.err
}

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	return f.revoked[token], nil
}

func (f *fakeRevocations) Revoke(ctx context.Context, token string, revokedOn time.Time) error {
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = map[string]bool{}
	}
	if f.revoked[token] {
		return revocation.ErrAlreadyRevoked
	}
	f.revoked[token] = true
	return nil
}

type fakeImages struct{ names []string }

func (f *fakeImages) RandomImageNames(ctx context.Context, n int) ([]string, error) {
	return f.names, nil
}

func newAuthRouter(t *testing.T, transport string, store *fakeRevocations) *gin.Engine {
	t.Helper()
	h := NewHandler(
		&fakeRegistrar{user: &models.UserModel{ID: 7, Nickname: "alice"}},
		&fakeVerifier{identity: &GoogleIdentity{Subject: "g-1", Email: "alice@example.com", Name: "Alice", EmailVerified: true}},
		store,
		&fakeImages{names: []string{"a.jpg", "b.jpg"}},
		transport,
		zap.NewNop(),
	)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func postJSON(r *gin.Engine, path, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginDeliversCookies(t *testing.T) {
	r := newAuthRouter(t, config.TransportCookie, &fakeRevocations{})

	w := postJSON(r, "/api/login", `{"nickname":"alice","age":30}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":7`)
	assert.Contains(t, w.Body.String(), `"a.jpg"`)
	assert.NotContains(t, w.Body.String(), "accessToken")

	cookies := w.Result().Cookies()
	var access, refresh *http.Cookie
	for _, c := range cookies {
		switch c.Name {
		case "accessToken":
			access = c
		case "refreshToken":
			refresh = c
		}
	}
	require.NotNil(t, access, "access token cookie must be set")
	require.NotNil(t, refresh, "refresh token cookie must be set")
	assert.Equal(t, "/", access.Path)
	assert.Equal(t, int(jwtpkg.AccessTTL().Seconds()), access.MaxAge)
	assert.Equal(t, int(jwtpkg.RefreshTTL().Seconds()), refresh.MaxAge)
	assert.NotEmpty(t, access.Value)
	assert.NotEmpty(t, refresh.Value)
}

func TestLoginDeliversBodyTokensUnderHeaderTransport(t *testing.T) {
	r := newAuthRouter(t, config.TransportHeader, &fakeRevocations{})

	w := postJSON(r, "/api/login", `{"nickname":"alice"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"accessToken"`)
	assert.Contains(t, w.Body.String(), `"refreshToken"`)
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginRequiresNickname(t *testing.T) {
	r := newAuthRouter(t, config.TransportHeader, &fakeRevocations{})

	w := postJSON(r, "/api/login", `{"age":30}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGoogleLogin(t *testing.T) {
	r := newAuthRouter(t, config.TransportHeader, &fakeRevocations{})

	w := postJSON(r, "/api/google-login", `{"credential":"token-from-google"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":7`)
}

func TestGoogleLoginRejectsBadCredential(t *testing.T) {
	h := NewHandler(
		&fakeRegistrar{},
		&fakeVerifier{err: ErrInvalidCredential},
		&fakeRevocations{},
		&fakeImages{},
		config.TransportHeader,
		zap.NewNop(),
	)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))

	w := postJSON(r, "/api/google-login", `{"credential":"bogus"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid Google credential"}`, w.Body.String())
}

func TestLogoutWithoutToken(t *testing.T) {
	r := newAuthRouter(t, config.TransportHeader, &fakeRevocations{})

	w := postJSON(r, "/api/logout", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"JWT token is required"}`, w.Body.String())
}

func TestLogoutThenSecondLogout(t *testing.T) {
	store := &fakeRevocations{}
	r := newAuthRouter(t, config.TransportHeader, store)

	token, err := jwtpkg.Sign("alice", 7, true)
	require.NoError(t, err)
	withToken := func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := postJSON(r, "/api/logout", "", withToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"logout successful"}`, w.Body.String())
	assert.True(t, store.revoked[token])

	w = postJSON(r, "/api/logout", "", withToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Already logged out"}`, w.Body.String())
}

func TestLogoutClearsCookies(t *testing.T) {
	store := &fakeRevocations{}
	r := newAuthRouter(t, config.TransportCookie, store)

	token, err := jwtpkg.Sign("alice", 7, true)
	require.NoError(t, err)

	w := postJSON(r, "/api/logout", "", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	})
	require.Equal(t, http.StatusOK, w.Code)

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "accessToken" && c.MaxAge <= 0 && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared, "access token cookie must be cleared")
}
