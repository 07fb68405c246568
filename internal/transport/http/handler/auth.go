package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-commerce-api/internal/application/auth"
	"github.com/go-commerce-api/internal/domain"
	"github.com/go-commerce-api/internal/transport/http/middleware"
)

// AuthHandler handles registration, login, token refresh, and password reset
// for both roles.
type AuthHandler struct {
	svc        auth.Service
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthHandler(svc auth.Service, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{svc: svc, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.svc.RegisterUser(r.Context(), req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent to your email, verify to finish registration"})
}

func (h *AuthHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := h.svc.VerifyUser(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, IdentityEnvelope{User: u, Message: "account created, you can log in now"})
}

func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, pair, err := h.svc.LoginUser(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	setAuthCookies(w, domain.RoleUser, pair.Access, pair.Refresh, h.accessTTL, h.refreshTTL)
	writeJSON(w, http.StatusOK, IdentityEnvelope{User: u, Message: "logged in"})
}

func (h *AuthHandler) RegisterSeller(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterSellerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.svc.RegisterSeller(r.Context(), req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent, verify to finish registration"})
}

func (h *AuthHandler) VerifySeller(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifySellerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	s, err := h.svc.VerifySeller(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, IdentityEnvelope{Seller: s, Message: "seller account created, you can log in now"})
}

func (h *AuthHandler) LoginSeller(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	s, pair, err := h.svc.LoginSeller(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	setAuthCookies(w, domain.RoleSeller, pair.Access, pair.Refresh, h.accessTTL, h.refreshTTL)
	writeJSON(w, http.StatusOK, IdentityEnvelope{Seller: s, Message: "logged in"})
}

// Refresh mints a new access token from the refresh cookie (or an explicit
// body field) and re-installs the access cookie for the token's role.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := refreshCookieToken(r)
	if token == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		token = body.RefreshToken
	}
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	access, claims, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	accessName, _ := cookieNames(claims.Role)
	http.SetCookie(w, authCookie(accessName, access, h.accessTTL))
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "token refreshed"})
}

// LoggedInUser returns the authenticated buyer account.
func (h *AuthHandler) LoggedInUser(w http.ResponseWriter, r *http.Request) {
	h.loggedIn(w, r, domain.RoleUser)
}

// LoggedInSeller returns the authenticated seller with its shop attached.
func (h *AuthHandler) LoggedInSeller(w http.ResponseWriter, r *http.Request) {
	h.loggedIn(w, r, domain.RoleSeller)
}

func (h *AuthHandler) loggedIn(w http.ResponseWriter, r *http.Request, role domain.Role) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	ident, err := h.svc.GetIdentity(r.Context(), role, claims.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	switch v := ident.(type) {
	case *domain.User:
		writeJSON(w, http.StatusOK, IdentityEnvelope{User: v})
	case *domain.Seller:
		writeJSON(w, http.StatusOK, IdentityEnvelope{Seller: v})
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *AuthHandler) LogoutUser(w http.ResponseWriter, _ *http.Request) {
	clearAuthCookies(w, domain.RoleUser)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}

func (h *AuthHandler) LogoutSeller(w http.ResponseWriter, _ *http.Request) {
	clearAuthCookies(w, domain.RoleSeller)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}

// ForgotPassword returns a handler bound to role; users and sellers reset
// against their own table.
func (h *AuthHandler) ForgotPassword(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.ForgotPasswordRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if err := h.svc.ForgotPassword(r.Context(), role, req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent to your email"})
	}
}

func (h *AuthHandler) VerifyForgotPassword(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.VerifyForgotPasswordRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if err := h.svc.VerifyForgotPassword(r.Context(), role, req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP verified, you can set a new password"})
	}
}

func (h *AuthHandler) ResetPassword(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.ResetPasswordRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if err := h.svc.ResetPassword(r.Context(), role, req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password updated, log in with the new one"})
	}
}
