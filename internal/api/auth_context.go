package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/corpsboard/corpsboard-server/internal/domain"
	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
	"github.com/corpsboard/corpsboard-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const userKey ctxKey = "user"

// currentUser returns the authenticated user, if any.
func currentUser(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok && u != nil
}

// viewerID returns the authenticated user's id, or nil for anonymous requests.
func viewerID(ctx context.Context) *int64 {
	if u, ok := currentUser(ctx); ok {
		return &u.ID
	}
	return nil
}

// requireUser returns the authenticated user or a 401.
func requireUser(ctx context.Context) (*domain.User, error) {
	u, ok := currentUser(ctx)
	if !ok {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	return u, nil
}

// requireAdmin returns the authenticated admin or a 401/403.
func requireAdmin(ctx context.Context) (*domain.User, error) {
	u, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin {
		return nil, domainerrors.Forbidden("admin access required")
	}
	return u, nil
}

// authMiddleware resolves a Bearer token to a user and stores it in the request context.
// Missing or invalid tokens continue anonymously; handlers decide whether that is allowed.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.VerifyToken(r.Context(), strings.TrimSpace(token))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
