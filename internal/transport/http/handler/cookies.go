package handler

import (
	"net/http"
	"time"

	"github.com/go-commerce-api/internal/domain"
)

// Cookie names are namespaced per role so a browser can keep a buyer session
// and a seller session alive at the same time.
const (
	userAccessCookie    = "access_token"
	userRefreshCookie   = "refresh_token"
	sellerAccessCookie  = "seller-access-token"
	sellerRefreshCookie = "seller-refresh-token"
)

func cookieNames(role domain.Role) (access, refresh string) {
	if role == domain.RoleSeller {
		return sellerAccessCookie, sellerRefreshCookie
	}
	return userAccessCookie, userRefreshCookie
}

func authCookie(name, value string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
	if value == "" {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(maxAge.Seconds())
	}
	return c
}

// setAuthCookies installs the pair for role and clears the opposite role's
// cookies, so logging in as one role signs the browser out of the other.
func setAuthCookies(w http.ResponseWriter, role domain.Role, access, refresh string, accessTTL, refreshTTL time.Duration) {
	accessName, refreshName := cookieNames(role)
	http.SetCookie(w, authCookie(accessName, access, accessTTL))
	http.SetCookie(w, authCookie(refreshName, refresh, refreshTTL))

	var other domain.Role = domain.RoleSeller
	if role == domain.RoleSeller {
		other = domain.RoleUser
	}
	clearAuthCookies(w, other)
}

func clearAuthCookies(w http.ResponseWriter, role domain.Role) {
	accessName, refreshName := cookieNames(role)
	http.SetCookie(w, authCookie(accessName, "", 0))
	http.SetCookie(w, authCookie(refreshName, "", 0))
}

// refreshCookieToken pulls the refresh token for either role; the user cookie
// wins when both are present.
func refreshCookieToken(r *http.Request) string {
	for _, name := range []string{userRefreshCookie, sellerRefreshCookie} {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value
		}
	}
	return ""
}
