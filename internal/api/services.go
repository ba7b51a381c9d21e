package api

import "github.com/corpsboard/corpsboard-server/internal/service"

// Services groups the business services the handlers call.
type Services struct {
	Auth        *service.AuthService
	Catalog     *service.CatalogService
	Engagement  *service.EngagementService
	Roles       *service.RoleService
	Profiles    *service.ProfileService
	Leaderboard *service.LeaderboardService
}
