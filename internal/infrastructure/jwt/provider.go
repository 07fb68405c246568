package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-commerce-api/internal/config"
	"github.com/go-commerce-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the token payload: identity id and role, nothing else.
// Tokens are never persisted server-side; validity is signature + expiry.
type Claims struct {
	ID   string      `json:"id"`
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Provider signs and verifies the HS256 access/refresh token pair. The two
// token kinds use separate secrets so a leaked access secret cannot mint
// refresh credentials.
type Provider struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be set")
	}
	return &Provider{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     time.Duration(cfg.AccessTokenTTLMin) * time.Minute,
		refreshTTL:    time.Duration(cfg.RefreshTokenTTLDays) * 24 * time.Hour,
	}, nil
}

// IssuePair mints an access and a refresh token for the identity.
func (p *Provider) IssuePair(id string, role domain.Role) (access, refresh string, err error) {
	access, err = p.sign(id, role, p.accessSecret, p.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = p.sign(id, role, p.refreshSecret, p.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// SignAccess mints a fresh access token only; used by the refresh flow, which
// deliberately does not rotate the refresh token.
func (p *Provider) SignAccess(id string, role domain.Role) (string, error) {
	return p.sign(id, role, p.accessSecret, p.accessTTL)
}

func (p *Provider) VerifyAccess(token string) (*Claims, error) {
	return p.verify(token, p.accessSecret)
}

func (p *Provider) VerifyRefresh(token string) (*Claims, error) {
	return p.verify(token, p.refreshSecret)
}

func (p *Provider) sign(id string, role domain.Role, secret []byte, ttl time.Duration) (string, error) {
	claims := Claims{
		ID:   id,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (p *Provider) verify(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("unknown role in token: %w", domain.ErrUnauthorized)
	}
	return claims, nil
}
