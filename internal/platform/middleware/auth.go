// Package middleware holds the HTTP middleware chain: request IDs and bearer
// token authentication.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/shoreagents/shoreagents-asset-dog-sub006/internal/jwttoken"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/apperrors"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/httputil"
	"github.com/shoreagents/shoreagents-asset-dog-sub006/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and injects the
// caller's identity and permissions into the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, apperrors.New(apperrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx = requestcontext.WithUserID(ctx, claims.UserID)
			ctx = requestcontext.WithPermissions(ctx, claims.Permissions)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
