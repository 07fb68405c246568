package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-commerce-api/internal/application/otp"
	"github.com/go-commerce-api/internal/domain"
	jwtinfra "github.com/go-commerce-api/internal/infrastructure/jwt"
	"github.com/go-commerce-api/internal/kvstore"
	"github.com/go-commerce-api/internal/pkg/id"
)

// keyResetGrant marks an email+role pair that passed the forgot-password OTP
// and may set a new password while the grant lives.
const keyResetGrant = "reset_grant:"

type UserStore interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type SellerStore interface {
	Put(ctx context.Context, s *domain.Seller) error
	Get(ctx context.Context, sellerID string) (*domain.Seller, error)
	GetByEmail(ctx context.Context, email string) (*domain.Seller, error)
	Update(ctx context.Context, sellerID string, updates map[string]interface{}) error
}

type ShopStore interface {
	GetBySeller(ctx context.Context, sellerID string) (*domain.Shop, error)
}

type TokenProvider interface {
	IssuePair(id string, role domain.Role) (access, refresh string, err error)
	SignAccess(id string, role domain.Role) (string, error)
	VerifyRefresh(token string) (*jwtinfra.Claims, error)
}

// TokenPair is what a successful login hands to the transport layer, which
// turns it into role-namespaced cookies.
type TokenPair struct {
	Access  string
	Refresh string
}

type Service interface {
	RegisterUser(ctx context.Context, req domain.RegisterUserRequest) error
	VerifyUser(ctx context.Context, req domain.VerifyUserRequest) (*domain.User, error)
	LoginUser(ctx context.Context, req domain.LoginRequest) (*domain.User, TokenPair, error)

	RegisterSeller(ctx context.Context, req domain.RegisterSellerRequest) error
	VerifySeller(ctx context.Context, req domain.VerifySellerRequest) (*domain.Seller, error)
	LoginSeller(ctx context.Context, req domain.LoginRequest) (*domain.Seller, TokenPair, error)

	// Refresh verifies the refresh token, confirms the identity still exists,
	// and mints a new access token with the same claims. The refresh token is
	// not rotated.
	Refresh(ctx context.Context, refreshToken string) (string, *jwtinfra.Claims, error)

	// GetIdentity loads the concrete identity behind verified claims. Sellers
	// come back with their shop attached when one exists.
	GetIdentity(ctx context.Context, role domain.Role, identityID string) (domain.Identity, error)

	ForgotPassword(ctx context.Context, role domain.Role, req domain.ForgotPasswordRequest) error
	VerifyForgotPassword(ctx context.Context, role domain.Role, req domain.VerifyForgotPasswordRequest) error
	ResetPassword(ctx context.Context, role domain.Role, req domain.ResetPasswordRequest) error
}

type ServiceDeps struct {
	Users         UserStore
	Sellers       SellerStore
	Shops         ShopStore
	OTP           otp.Service
	Tokens        TokenProvider
	ResetGrants   kvstore.Store
	ResetGrantTTL time.Duration
}

type service struct {
	users         UserStore
	sellers       SellerStore
	shops         ShopStore
	otp           otp.Service
	tokens        TokenProvider
	resetGrants   kvstore.Store
	resetGrantTTL time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:         deps.Users,
		sellers:       deps.Sellers,
		shops:         deps.Shops,
		otp:           deps.OTP,
		tokens:        deps.Tokens,
		resetGrants:   deps.ResetGrants,
		resetGrantTTL: deps.ResetGrantTTL,
	}
}

// RegisterUser only dispatches an OTP; the row is created by VerifyUser so an
// abandoned registration leaves nothing behind.
func (s *service) RegisterUser(ctx context.Context, req domain.RegisterUserRequest) error {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return fmt.Errorf("an account with this email already exists: %w", domain.ErrConflict)
	}
	return s.otp.Request(ctx, otp.Request{
		Name:    req.Name,
		Email:   req.Email,
		Purpose: otp.PurposeUserActivation,
	})
}

func (s *service) VerifyUser(ctx context.Context, req domain.VerifyUserRequest) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("an account with this email already exists: %w", domain.ErrConflict)
	}
	if err := s.otp.Verify(ctx, req.Email, req.OTP); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) LoginUser(ctx context.Context, req domain.LoginRequest) (*domain.User, TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, TokenPair{}, invalidCredentials()
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, TokenPair{}, invalidCredentials()
	}
	access, refresh, err := s.tokens.IssuePair(u.UserID, domain.RoleUser)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *service) RegisterSeller(ctx context.Context, req domain.RegisterSellerRequest) error {
	if _, err := s.sellers.GetByEmail(ctx, req.Email); err == nil {
		return fmt.Errorf("a seller with this email already exists: %w", domain.ErrConflict)
	}
	return s.otp.Request(ctx, otp.Request{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.PhoneNumber,
		Purpose: otp.PurposeSellerActivation,
	})
}

func (s *service) VerifySeller(ctx context.Context, req domain.VerifySellerRequest) (*domain.Seller, error) {
	if _, err := s.sellers.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("a seller with this email already exists: %w", domain.ErrConflict)
	}
	if err := s.otp.Verify(ctx, req.Email, req.OTP); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sl := &domain.Seller{
		SellerID:     id.New(),
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Country:      req.Country,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.sellers.Put(ctx, sl); err != nil {
		return nil, err
	}
	return sl, nil
}

func (s *service) LoginSeller(ctx context.Context, req domain.LoginRequest) (*domain.Seller, TokenPair, error) {
	sl, err := s.sellers.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, TokenPair{}, invalidCredentials()
	}
	if bcrypt.CompareHashAndPassword([]byte(sl.PasswordHash), []byte(req.Password)) != nil {
		return nil, TokenPair{}, invalidCredentials()
	}
	access, refresh, err := s.tokens.IssuePair(sl.SellerID, domain.RoleSeller)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return sl, TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, *jwtinfra.Claims, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", nil, err
	}
	// A deleted account must not keep minting access tokens off an old
	// refresh token.
	if _, err := s.GetIdentity(ctx, claims.Role, claims.ID); err != nil {
		return "", nil, fmt.Errorf("account no longer exists: %w", domain.ErrUnauthorized)
	}
	access, err := s.tokens.SignAccess(claims.ID, claims.Role)
	if err != nil {
		return "", nil, err
	}
	return access, claims, nil
}

func (s *service) GetIdentity(ctx context.Context, role domain.Role, identityID string) (domain.Identity, error) {
	switch role {
	case domain.RoleUser:
		return s.users.Get(ctx, identityID)
	case domain.RoleSeller:
		sl, err := s.sellers.Get(ctx, identityID)
		if err != nil {
			return nil, err
		}
		if sl.ShopID != "" && s.shops != nil {
			if shop, err := s.shops.GetBySeller(ctx, sl.SellerID); err == nil {
				sl.Shop = shop
			}
		}
		return sl, nil
	default:
		return nil, fmt.Errorf("unknown role %q: %w", role, domain.ErrUnauthorized)
	}
}

func (s *service) ForgotPassword(ctx context.Context, role domain.Role, req domain.ForgotPasswordRequest) error {
	name, err := s.accountName(ctx, role, req.Email)
	if err != nil {
		return err
	}
	return s.otp.Request(ctx, otp.Request{
		Name:    name,
		Email:   req.Email,
		Purpose: otp.PurposeForgotPassword,
	})
}

// VerifyForgotPassword redeems the OTP for a short-lived reset grant; the
// password itself is set by ResetPassword while the grant lives.
func (s *service) VerifyForgotPassword(ctx context.Context, role domain.Role, req domain.VerifyForgotPasswordRequest) error {
	if err := s.otp.Verify(ctx, req.Email, req.OTP); err != nil {
		return err
	}
	return s.resetGrants.Set(ctx, grantKey(role, req.Email), "verified", s.resetGrantTTL)
}

func (s *service) ResetPassword(ctx context.Context, role domain.Role, req domain.ResetPasswordRequest) error {
	key := grantKey(role, req.Email)
	if _, ok, err := s.resetGrants.Get(ctx, key); err != nil {
		return err
	} else if !ok {
		return fmt.Errorf("reset session expired, verify the OTP again: %w", domain.ErrUnauthorized)
	}

	var currentHash string
	var identityID string
	switch role {
	case domain.RoleUser:
		u, err := s.users.GetByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		currentHash, identityID = u.PasswordHash, u.UserID
	case domain.RoleSeller:
		sl, err := s.sellers.GetByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		currentHash, identityID = sl.PasswordHash, sl.SellerID
	default:
		return fmt.Errorf("unknown role %q: %w", role, domain.ErrBadRequest)
	}

	if bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(req.NewPassword)) == nil {
		return fmt.Errorf("new password must differ from the current one: %w", domain.ErrBadRequest)
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{"password_hash": hash}
	switch role {
	case domain.RoleUser:
		err = s.users.Update(ctx, identityID, updates)
	case domain.RoleSeller:
		err = s.sellers.Update(ctx, identityID, updates)
	}
	if err != nil {
		return err
	}
	return s.resetGrants.Delete(ctx, key)
}

func (s *service) accountName(ctx context.Context, role domain.Role, email string) (string, error) {
	switch role {
	case domain.RoleUser:
		u, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return "", err
		}
		return u.Name, nil
	case domain.RoleSeller:
		sl, err := s.sellers.GetByEmail(ctx, email)
		if err != nil {
			return "", err
		}
		return sl.Name, nil
	default:
		return "", fmt.Errorf("unknown role %q: %w", role, domain.ErrBadRequest)
	}
}

func grantKey(role domain.Role, email string) string {
	return keyResetGrant + string(role) + ":" + email
}

func invalidCredentials() error {
	return fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
