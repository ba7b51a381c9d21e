package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corpsboard/corpsboard-server/internal/auth"
	"github.com/corpsboard/corpsboard-server/internal/domain"
	"github.com/corpsboard/corpsboard-server/internal/store/sqlite"
	"github.com/corpsboard/corpsboard-server/internal/validation"
)

type testEnv struct {
	store       *sqlite.Store
	tokens      *auth.TokenService
	auth        *AuthService
	catalog     *CatalogService
	engagement  *EngagementService
	roles       *RoleService
	profiles    *ProfileService
	leaderboard *LeaderboardService
}

// steppingClock advances one second per call so rows get distinct timestamps.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 8, 10, 20, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil, sqlite.WithClock(steppingClock()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenService(make([]byte, 32), 15*time.Minute)
	require.NoError(t, err)

	hasher := auth.NewPasswordHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	v := validation.New()

	return &testEnv{
		store:       st,
		tokens:      tokens,
		auth:        NewAuthService(st, hasher, tokens, v, nil),
		catalog:     NewCatalogService(st, v, nil),
		engagement:  NewEngagementService(st, nil),
		roles:       NewRoleService(st, v, nil),
		profiles:    NewProfileService(st, v, nil),
		leaderboard: NewLeaderboardService(st),
	}
}

func (e *testEnv) register(t *testing.T, username string) *domain.User {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), RegisterRequest{Username: username, Password: "secret-pw"})
	require.NoError(t, err)
	return resp.User
}

func (e *testEnv) addShow(t *testing.T, year int, corps, title string) int64 {
	t.Helper()
	res, err := e.catalog.AddShow(context.Background(), ShowRequest{Year: year, Corps: corps, Title: title})
	require.NoError(t, err)
	return res.ShowID
}
