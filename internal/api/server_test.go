package api

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpsboard/corpsboard-server/internal/auth"
	"github.com/corpsboard/corpsboard-server/internal/ratelimit"
	"github.com/corpsboard/corpsboard-server/internal/service"
	"github.com/corpsboard/corpsboard-server/internal/store/sqlite"
	"github.com/corpsboard/corpsboard-server/internal/validation"
)

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store *sqlite.Store
}

func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenService(make([]byte, 32), 15*time.Minute)
	require.NoError(t, err)
	hasher := auth.NewPasswordHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	v := validation.New()

	services := &Services{
		Auth:        service.NewAuthService(st, hasher, tokens, v, nil),
		Catalog:     service.NewCatalogService(st, v, nil),
		Engagement:  service.NewEngagementService(st, nil),
		Roles:       service.NewRoleService(st, v, nil),
		Profiles:    service.NewProfileService(st, v, nil),
		Leaderboard: service.NewLeaderboardService(st),
	}

	s := NewServer(services, st, opts, nil)
	return &testServer{Server: s, api: humatest.Wrap(t, s.API()), store: st}
}

// register creates an account over HTTP and returns its bearer header.
func (ts *testServer) register(t *testing.T, username string) (string, *service.AuthResponse) {
	t.Helper()
	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": username,
		"password": "secret-pw",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var out service.AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return "Authorization: Bearer " + out.AccessToken, &out
}

func (ts *testServer) addShow(t *testing.T, admin string, year int, corps, title string) int64 {
	t.Helper()
	resp := ts.api.Post("/api/v1/admin/shows", admin, map[string]any{
		"year":  year,
		"corps": corps,
		"title": title,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var out AddShowResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out.ShowID
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// errorBody is the wire shape of every error response.
type errorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var e errorBody
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return assert.AnError }

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "ok", body.Database)
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.health = failingPinger{}

	resp := ts.api.Get("/api/v1/health")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Contains(t, resp.Body.String(), "unhealthy")
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t, Options{})
	resp := ts.api.Get("/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCORS(t *testing.T) {
	ts := setupTestServer(t, Options{CORSAllowedOrigins: []string{"https://corps.example"}})

	resp := ts.api.Get("/api/v1/health", "Origin: https://corps.example")
	assert.Equal(t, "https://corps.example", resp.Header().Get("Access-Control-Allow-Origin"))

	resp = ts.api.Get("/api/v1/health", "Origin: https://evil.example")
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/health")
	assert.True(t, strings.HasPrefix(resp.Header().Get("X-Request-Id"), "req-"))

	resp = ts.api.Get("/api/v1/health", "X-Request-Id: abc123")
	assert.Equal(t, "abc123", resp.Header().Get("X-Request-Id"))
}

func TestAuthLimiter(t *testing.T) {
	limiter := ratelimit.New(ratelimit.PerMinute(1), 2, time.Minute)
	t.Cleanup(limiter.Stop)
	ts := setupTestServer(t, Options{AuthLimiter: limiter})

	login := map[string]any{"username": "nobody", "password": "whatever"}
	for range 2 {
		resp := ts.api.Post("/api/v1/auth/login", login)
		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	}

	resp := ts.api.Post("/api/v1/auth/login", login)
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	e := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "RATE_LIMITED", e.Code)

	// Other routes are not throttled.
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/health").Code)
}

func TestAuthLimiter_ForwardedHeaders(t *testing.T) {
	login := map[string]any{"username": "nobody", "password": "whatever"}

	t.Run("ignored by default", func(t *testing.T) {
		limiter := ratelimit.New(ratelimit.PerMinute(1), 2, time.Minute)
		t.Cleanup(limiter.Stop)
		ts := setupTestServer(t, Options{AuthLimiter: limiter})

		for i := range 3 {
			resp := ts.api.Post("/api/v1/auth/login", "X-Forwarded-For: 203.0.113."+itoa(int64(i+1)), login)
			if i < 2 {
				assert.Equal(t, http.StatusUnauthorized, resp.Code)
				continue
			}
			assert.Equal(t, http.StatusTooManyRequests, resp.Code, "rotating X-Forwarded-For must not reset the bucket")
		}
		resp := ts.api.Post("/api/v1/auth/login", "X-Real-IP: 198.51.100.7", login)
		assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	})

	t.Run("trusted behind a proxy", func(t *testing.T) {
		limiter := ratelimit.New(ratelimit.PerMinute(1), 1, time.Minute)
		t.Cleanup(limiter.Stop)
		ts := setupTestServer(t, Options{AuthLimiter: limiter, TrustProxyHeaders: true})

		assert.Equal(t, http.StatusUnauthorized, ts.api.Post("/api/v1/auth/login", "X-Forwarded-For: 203.0.113.1", login).Code)
		assert.Equal(t, http.StatusTooManyRequests, ts.api.Post("/api/v1/auth/login", "X-Forwarded-For: 203.0.113.1", login).Code)
		assert.Equal(t, http.StatusUnauthorized, ts.api.Post("/api/v1/auth/login", "X-Forwarded-For: 203.0.113.2", login).Code)
	})
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "192.0.2.1", clientIP("192.0.2.1:1234"))
	assert.Equal(t, "::1", clientIP("[::1]:80"))
	assert.Equal(t, "10.0.0.1", clientIP("10.0.0.1"))
}
