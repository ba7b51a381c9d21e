package api

import (
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/corpsboard/corpsboard-server/internal/errors"
)

// rateLimited is an operation middleware that throttles by client IP.
// RemoteAddr is the peer address unless proxy headers are trusted, in which
// case RealIP has already replaced it with the forwarded address.
func (s *Server) rateLimited(ctx huma.Context, next func(huma.Context)) {
	if s.authLimiter == nil {
		next(ctx)
		return
	}

	key := clientIP(ctx.RemoteAddr())
	if !s.authLimiter.Allow(key) {
		s.logger.Warn("rate limit exceeded",
			"ip", key,
			"path", ctx.URL().Path,
		)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "too many requests",
			domainerrors.RateLimited("too many requests, please try again later"))
		return
	}
	next(ctx)
}

// clientIP strips the port from a remote address.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
