package providers

import (
	"github.com/samber/do/v2"

	"github.com/corpsboard/corpsboard-server/internal/auth"
	"github.com/corpsboard/corpsboard-server/internal/config"
	"github.com/corpsboard/corpsboard-server/internal/logger"
	"github.com/corpsboard/corpsboard-server/internal/ratelimit"
)

// AuthKey wraps the token signing key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the token key in the data directory.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Storage.DataPath)
	if err != nil {
		return nil, err
	}
	cfg.Auth.AccessTokenKey = key

	log.Info("Authentication key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(authKey), cfg.Auth.AccessTokenDuration)
}

// ProvidePasswordHasher provides the argon2id hasher.
func ProvidePasswordHasher(i do.Injector) (*auth.PasswordHasher, error) {
	return auth.NewPasswordHasher(auth.DefaultParams), nil
}

// AuthLimiterHandle wraps the login/register limiter with Shutdownable.
type AuthLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *AuthLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideAuthLimiter provides the per-IP limiter for the auth endpoints.
func ProvideAuthLimiter(i do.Injector) (*AuthLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	limiter := ratelimit.New(
		ratelimit.PerMinute(cfg.RateRule.AuthPerMinute),
		cfg.RateRule.AuthBurst,
		ratelimit.DefaultIdleTTL,
	)
	return &AuthLimiterHandle{KeyedRateLimiter: limiter}, nil
}
