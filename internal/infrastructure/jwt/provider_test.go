package jwtinfra

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-commerce-api/internal/config"
	"github.com/go-commerce-api/internal/domain"
)

func newProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{
		AccessTokenSecret:   "provider-test-access-secret",
		RefreshTokenSecret:  "provider-test-refresh-secret",
		AccessTokenTTLMin:   15,
		RefreshTokenTTLDays: 7,
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_RequiresSecrets(t *testing.T) {
	_, err := NewProvider(&config.Config{AccessTokenSecret: "only-one"})
	assert.Error(t, err)
}

func TestIssuePairRoundTrip(t *testing.T) {
	p := newProvider(t)

	access, refresh, err := p.IssuePair("u1", domain.RoleUser)
	require.NoError(t, err)

	ac, err := p.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, "u1", ac.ID)
	assert.Equal(t, domain.RoleUser, ac.Role)

	rc, err := p.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, "u1", rc.ID)
	assert.Equal(t, domain.RoleUser, rc.Role)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	p := newProvider(t)

	access, refresh, err := p.IssuePair("u1", domain.RoleSeller)
	require.NoError(t, err)

	_, err = p.VerifyAccess(refresh)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = p.VerifyRefresh(access)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	p := newProvider(t)
	other, err := NewProvider(&config.Config{
		AccessTokenSecret:   "some-other-access-secret",
		RefreshTokenSecret:  "some-other-refresh-secret",
		AccessTokenTTLMin:   15,
		RefreshTokenTTLDays: 7,
	})
	require.NoError(t, err)

	token, err := other.SignAccess("u1", domain.RoleUser)
	require.NoError(t, err)

	_, err = p.VerifyAccess(token)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerifyRejectsExpiredRefreshToken(t *testing.T) {
	p := newProvider(t)

	claims := Claims{
		ID:   "u1",
		Role: domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-8 * 24 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("provider-test-refresh-secret"))
	require.NoError(t, err)

	_, err = p.VerifyRefresh(token)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	p := newProvider(t)

	_, err := p.VerifyAccess("not.a.token")
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
