package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-commerce-api/internal/application/auth"
	"github.com/go-commerce-api/internal/domain"
	jwtinfra "github.com/go-commerce-api/internal/infrastructure/jwt"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) RegisterUser(ctx context.Context, req domain.RegisterUserRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthSvc) VerifyUser(ctx context.Context, req domain.VerifyUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) LoginUser(ctx context.Context, req domain.LoginRequest) (*domain.User, auth.TokenPair, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Get(1).(auth.TokenPair), args.Error(2)
	}
	return nil, auth.TokenPair{}, args.Error(2)
}

func (m *mockAuthSvc) RegisterSeller(ctx context.Context, req domain.RegisterSellerRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthSvc) VerifySeller(ctx context.Context, req domain.VerifySellerRequest) (*domain.Seller, error) {
	args := m.Called(ctx, req)
	if s, _ := args.Get(0).(*domain.Seller); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) LoginSeller(ctx context.Context, req domain.LoginRequest) (*domain.Seller, auth.TokenPair, error) {
	args := m.Called(ctx, req)
	if s, _ := args.Get(0).(*domain.Seller); s != nil {
		return s, args.Get(1).(auth.TokenPair), args.Error(2)
	}
	return nil, auth.TokenPair{}, args.Error(2)
}

func (m *mockAuthSvc) Refresh(ctx context.Context, refreshToken string) (string, *jwtinfra.Claims, error) {
	args := m.Called(ctx, refreshToken)
	if c, _ := args.Get(1).(*jwtinfra.Claims); c != nil {
		return args.String(0), c, args.Error(2)
	}
	return "", nil, args.Error(2)
}

func (m *mockAuthSvc) GetIdentity(ctx context.Context, role domain.Role, identityID string) (domain.Identity, error) {
	args := m.Called(ctx, role, identityID)
	if i, _ := args.Get(0).(domain.Identity); i != nil {
		return i, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) ForgotPassword(ctx context.Context, role domain.Role, req domain.ForgotPasswordRequest) error {
	return m.Called(ctx, role, req).Error(0)
}

func (m *mockAuthSvc) VerifyForgotPassword(ctx context.Context, role domain.Role, req domain.VerifyForgotPasswordRequest) error {
	return m.Called(ctx, role, req).Error(0)
}

func (m *mockAuthSvc) ResetPassword(ctx context.Context, role domain.Role, req domain.ResetPasswordRequest) error {
	return m.Called(ctx, role, req).Error(0)
}

// --- helpers ---

func newAuthHandler(svc auth.Service) *AuthHandler {
	return NewAuthHandler(svc, 15*time.Minute, 7*24*time.Hour)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func cookieByName(t *testing.T, rr *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// --- tests ---

func TestLoginUser_SetsCookiesAndClearsSellerSession(t *testing.T) {
	svc := &mockAuthSvc{}
	u := &domain.User{UserID: "u1", Email: "ana@example.com"}
	svc.On("LoginUser", mock.Anything, mock.Anything).
		Return(u, auth.TokenPair{Access: "acc", Refresh: "ref"}, nil)

	h := newAuthHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login-user",
		jsonBody(t, domain.LoginRequest{Email: "ana@example.com", Password: "correct-horse1"}))
	rr := httptest.NewRecorder()
	h.LoginUser(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	access := cookieByName(t, rr, userAccessCookie)
	require.NotNil(t, access)
	assert.Equal(t, "acc", access.Value)
	assert.True(t, access.HttpOnly)

	refresh := cookieByName(t, rr, userRefreshCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "ref", refresh.Value)

	// The opposite role's cookies are expired by the same response.
	sellerAccess := cookieByName(t, rr, sellerAccessCookie)
	require.NotNil(t, sellerAccess)
	assert.Empty(t, sellerAccess.Value)
	assert.Negative(t, sellerAccess.MaxAge)
}

func TestLoginUser_BadCredentials(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("LoginUser", mock.Anything, mock.Anything).
		Return(nil, auth.TokenPair{}, domain.ErrUnauthorized)

	h := newAuthHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login-user",
		jsonBody(t, domain.LoginRequest{Email: "ana@example.com", Password: "wrong-password"}))
	rr := httptest.NewRecorder()
	h.LoginUser(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, cookieByName(t, rr, userAccessCookie))
}

func TestLoginUser_InvalidBody(t *testing.T) {
	svc := &mockAuthSvc{}
	h := newAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login-user",
		bytes.NewReader([]byte(`{"email":"not-an-email"}`)))
	rr := httptest.NewRecorder()
	h.LoginUser(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "LoginUser")
}

func TestRegisterUser_RateLimitedMapsTo429(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("RegisterUser", mock.Anything, mock.Anything).Return(domain.ErrRateLimited)

	h := newAuthHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/user-registration",
		jsonBody(t, domain.RegisterUserRequest{Name: "Ana", Email: "ana@example.com"}))
	rr := httptest.NewRecorder()
	h.RegisterUser(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestRefresh_FromSellerCookie(t *testing.T) {
	svc := &mockAuthSvc{}
	claims := &jwtinfra.Claims{ID: "s1", Role: domain.RoleSeller}
	svc.On("Refresh", mock.Anything, "old-refresh").Return("new-access", claims, nil)

	h := newAuthHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: sellerRefreshCookie, Value: "old-refresh"})
	rr := httptest.NewRecorder()
	h.Refresh(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	access := cookieByName(t, rr, sellerAccessCookie)
	require.NotNil(t, access)
	assert.Equal(t, "new-access", access.Value)
	// The refresh cookie is left alone: no rotation.
	assert.Nil(t, cookieByName(t, rr, sellerRefreshCookie))
}

func TestRefresh_MissingToken(t *testing.T) {
	svc := &mockAuthSvc{}
	h := newAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh-token", bytes.NewReader([]byte("{}")))
	rr := httptest.NewRecorder()
	h.Refresh(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	svc.AssertNotCalled(t, "Refresh")
}

func TestLogoutSeller_ClearsSellerCookiesOnly(t *testing.T) {
	svc := &mockAuthSvc{}
	h := newAuthHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout-seller", nil)
	rr := httptest.NewRecorder()
	h.LogoutSeller(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	access := cookieByName(t, rr, sellerAccessCookie)
	require.NotNil(t, access)
	assert.Negative(t, access.MaxAge)

	assert.Nil(t, cookieByName(t, rr, userAccessCookie))
}
