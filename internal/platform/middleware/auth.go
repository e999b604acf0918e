package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	pkgerrors "shelfcheck/pkg/errors"
	"shelfcheck/pkg/platform/httputil"
	"shelfcheck/pkg/requestcontext"
)

// RequireAuth validates a Bearer token signed with the shared HMAC key and
// stores the token subject as the caller ID. Deployments without a signing
// key should not mount this middleware at all.
func RequireAuth(signingKey []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return signingKey, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !parsed.Valid {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			subject, _ := parsed.Claims.GetSubject()
			next.ServeHTTP(w, r.WithContext(requestcontext.WithCallerID(ctx, subject)))
		})
	}
}
