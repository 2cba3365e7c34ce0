package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/tair/smart-inventory/pkg/auth"
	"github.com/tair/smart-inventory/pkg/logger"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller
type Identity struct {
	UserID   uint
	Username string
	Role     string
}

// anonymous acts for every request when authentication is disabled
var anonymous = Identity{Username: "anonymous", Role: auth.RoleAdmin}

// IdentityFromContext returns the caller stored by the auth middleware
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// Authenticator validates bearer tokens and enforces role checks
type Authenticator struct {
	enabled bool
}

// NewAuthenticator creates a new authenticator. When disabled every request
// runs as an anonymous administrator.
func NewAuthenticator(enabled bool) *Authenticator {
	return &Authenticator{enabled: enabled}
}

// Require returns a middleware that admits authenticated callers holding one
// of roles. No roles means any authenticated caller.
func (a *Authenticator) Require(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !a.enabled {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, anonymous)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn(r.Context()).Msg("Missing authorization header")
				respondStatus(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Warn(r.Context()).Msg("Invalid authorization header format")
				respondStatus(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			claims, err := auth.ValidateToken(parts[1])
			if err != nil {
				logger.Warn(r.Context()).Err(err).Msg("Invalid token")
				respondStatus(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			if len(roles) > 0 && !auth.HasRole(claims.Role, roles...) {
				logger.Warn(r.Context()).
					Uint("user_id", claims.UserID).
					Str("role", claims.Role).
					Strs("required", roles).
					Msg("Access denied")
				respondStatus(w, http.StatusForbidden, "Insufficient role")
				return
			}

			identity := Identity{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
		}
	}
}

// respondStatus writes an error envelope without a domain kind
func respondStatus(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Response{
		Success: false,
		Error:   message,
	})
}
