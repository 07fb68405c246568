package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-commerce-api/internal/config"
	"github.com/go-commerce-api/internal/domain"
	jwtinfra "github.com/go-commerce-api/internal/infrastructure/jwt"
)

func newTestGateway(t *testing.T, upstreamURL string, anonRPM, authRPM int) (*Gateway, *jwtinfra.Provider) {
	t.Helper()
	cfg := &config.Config{
		AccessTokenSecret:   "gateway-test-access-secret",
		RefreshTokenSecret:  "gateway-test-refresh-secret",
		AccessTokenTTLMin:   15,
		RefreshTokenTTLDays: 7,
		GatewayUpstreamURL:  upstreamURL,
		GatewayAnonRPM:      anonRPM,
		GatewayAuthRPM:      authRPM,
		AllowedOrigins:      []string{"http://localhost:3000"},
	}
	tokens, err := jwtinfra.NewProvider(cfg)
	require.NoError(t, err)
	gw, err := New(cfg, tokens)
	require.NoError(t, err)
	return gw, tokens
}

func TestGatewayProxiesToUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("upstream says hi"))
	}))
	defer upstream.Close()

	gw, _ := newTestGateway(t, upstream.URL, 100, 1000)
	h := gw.Handler(&config.Config{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/v1/product/get-categories", nil)
	req.RemoteAddr = "10.0.0.1:1000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "upstream says hi", rr.Body.String())
}

func TestGatewayHealthDoesNotHitUpstream(t *testing.T) {
	gw, _ := newTestGateway(t, "http://127.0.0.1:1", 100, 1000)
	h := gw.Handler(&config.Config{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/gateway-health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "gateway")
}

func TestGatewayAnonymousTierLimits(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	// Tiny budgets so the test exhausts them instantly.
	gw, _ := newTestGateway(t, upstream.URL, 2, 1000)
	h := gw.Handler(&config.Config{AllowedOrigins: []string{"*"}})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/anything", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/anything", nil)
	req.RemoteAddr = "10.0.0.1:1000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestGatewayAuthenticatedTierIsSeparate(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	gw, tokens := newTestGateway(t, upstream.URL, 1, 50)
	h := gw.Handler(&config.Config{AllowedOrigins: []string{"*"}})

	// Burn the anonymous budget.
	req := httptest.NewRequest(http.MethodGet, "/v1/anything", nil)
	req.RemoteAddr = "10.0.0.1:1000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/anything", nil)
	req.RemoteAddr = "10.0.0.1:1000"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)

	// The same client with a valid token rides the authenticated tier.
	access, err := tokens.SignAccess("u1", domain.RoleUser)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/v1/anything", nil)
	req.RemoteAddr = "10.0.0.1:1000"
	req.AddCookie(&http.Cookie{Name: "access_token", Value: access})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	// A garbage token does not unlock the higher tier.
	req = httptest.NewRequest(http.MethodGet, "/v1/anything", nil)
	req.RemoteAddr = "10.0.0.1:1000"
	req.Header.Set("Authorization", "Bearer garbage")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}
