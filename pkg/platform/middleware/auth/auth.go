package auth

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/httputil"
	"onboard/pkg/requestcontext"
)

// JWTValidator validates a bearer token and returns its staff claims.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims are the claims the middleware needs from a validated token.
type JWTClaims struct {
	StaffID string
	FirmID  string
}

// RequireAuth rejects requests without a valid staff bearer token and
// stores the staff identity in the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}
			if claims.StaffID == "" {
				logger.WarnContext(ctx, "unauthorized access - token without staff id",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			ctx = requestcontext.WithStaff(ctx, requestcontext.StaffIdentity{
				StaffID: claims.StaffID,
				FirmID:  claims.FirmID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
