// Package gateway is the public entry point in front of the API process. It
// terminates CORS, applies the tiered per-client rate limit, and reverse
// proxies everything else to the upstream service.
package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/go-commerce-api/internal/config"
	jwtinfra "github.com/go-commerce-api/internal/infrastructure/jwt"
	"github.com/go-commerce-api/internal/observability"
	appmiddleware "github.com/go-commerce-api/internal/transport/http/middleware"
)

// Gateway holds the proxy and its two rate tiers. Requests carrying a valid
// access token get the authenticated tier; everything else shares the
// anonymous one.
type Gateway struct {
	proxy  *httputil.ReverseProxy
	tokens *jwtinfra.Provider
	anon   *appmiddleware.RateLimiter
	authed *appmiddleware.RateLimiter
}

func New(cfg *config.Config, tokens *jwtinfra.Provider) (*Gateway, error) {
	upstream, err := url.Parse(cfg.GatewayUpstreamURL)
	if err != nil {
		return nil, err
	}
	return &Gateway{
		proxy:  httputil.NewSingleHostReverseProxy(upstream),
		tokens: tokens,
		anon:   perMinuteLimiter(cfg.GatewayAnonRPM),
		authed: perMinuteLimiter(cfg.GatewayAuthRPM),
	}, nil
}

// perMinuteLimiter converts a requests-per-minute budget into a token bucket
// whose burst equals the full budget.
func perMinuteLimiter(rpm int) *appmiddleware.RateLimiter {
	return appmiddleware.NewRateLimiter(rate.Limit(float64(rpm)/60), rpm)
}

// Handler builds the gateway's HTTP surface.
func (g *Gateway) Handler(cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(observability.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/gateway-health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "welcome to the api gateway"})
	})

	r.Handle("/*", g.limit(g.proxy))
	return r
}

func (g *Gateway) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := appmiddleware.RealIP(r)
		limiter := g.anon
		if g.authenticated(r) {
			limiter = g.authed
		}
		if !limiter.Allow(ip) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "too many requests, please try again later"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticated reports whether the request carries a verifiable access
// token. The API still authorizes every request itself; this only picks the
// rate tier.
func (g *Gateway) authenticated(r *http.Request) bool {
	token := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	}
	if token == "" {
		for _, name := range []string{appmiddleware.UserAccessCookie, appmiddleware.SellerAccessCookie} {
			if c, err := r.Cookie(name); err == nil && c.Value != "" {
				token = c.Value
				break
			}
		}
	}
	if token == "" {
		return false
	}
	_, err := g.tokens.VerifyAccess(token)
	return err == nil
}
