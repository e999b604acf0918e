package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"shelfcheck/internal/platform/ratelimit"
	pkgerrors "shelfcheck/pkg/errors"
	"shelfcheck/pkg/platform/httputil"
	"shelfcheck/pkg/requestcontext"
)

// RateLimit applies the sliding-window limiter keyed by authenticated caller,
// falling back to client IP. Store failures fail open: an unavailable limiter
// must not take the validation service down with it, but it is logged.
func RateLimit(store ratelimit.Store, limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := requestcontext.CallerID(ctx)
			if key == "" {
				key = clientIP(r)
			}

			result, err := store.Allow(ctx, key, limit, window)
			if err != nil {
				logger.WarnContext(ctx, "rate limiter unavailable, failing open",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			if !result.Allowed {
				retryAfter := max(int(time.Until(result.ResetAt).Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeTooMany, "rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
