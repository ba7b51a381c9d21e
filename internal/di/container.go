// Package di provides dependency injection configuration for the CorpsBoard server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/corpsboard/corpsboard-server/internal/api"
	"github.com/corpsboard/corpsboard-server/internal/auth"
	"github.com/corpsboard/corpsboard-server/internal/config"
	"github.com/corpsboard/corpsboard-server/internal/di/providers"
	"github.com/corpsboard/corpsboard-server/internal/logger"
	"github.com/corpsboard/corpsboard-server/internal/service"
	"github.com/corpsboard/corpsboard-server/internal/validation"
)

// NewContainer creates the DI container with all providers registered.
func NewContainer() *do.RootScope {
	injector := do.New()
	Register(injector)
	return injector
}

// Register adds every provider to injector.
func Register(injector do.Injector) {
	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvidePasswordHasher)
	do.Provide(injector, providers.ProvideAuthLimiter)
	do.Provide(injector, providers.ProvideValidator)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideEngagementService)
	do.Provide(injector, providers.ProvideRoleService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideLeaderboardService)

	// Server
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)
}

// Bootstrap initializes the core services and starts the HTTP server.
func Bootstrap(injector do.Injector) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*api.Server](injector)

	_, err := do.Invoke[*providers.HTTPServerHandle](injector)
	return err
}
