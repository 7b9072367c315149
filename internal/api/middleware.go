package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/wakati-labs/kwaheri/internal/auth"
	"github.com/wakati-labs/kwaheri/internal/domain"
)

type contextKey int

const claimsKey contextKey = iota

// AuthMiddleware resolves Bearer tokens into request claims.
type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) claimsFromHeader(r *http.Request) *auth.Claims {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	claims, err := m.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil
	}
	return claims
}

// Optional attaches claims when a valid token is present and passes through
// otherwise. Gated reads use this: anonymous callers are legitimate there.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := m.claimsFromHeader(r); claims != nil {
			r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
		}
		next.ServeHTTP(w, r)
	})
}

// Require rejects requests without a valid token.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := m.claimsFromHeader(r)
		if claims == nil {
			respondError(w, http.StatusUnauthorized, "missing or invalid authorization token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// RequireAdmin rejects requests whose token does not carry the admin role.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := ClaimsFrom(r.Context()); claims == nil || claims.Role != domain.RoleAdmin {
			respondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// ClaimsFrom returns the authenticated claims, or nil for anonymous requests.
func ClaimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// callerID returns the authenticated user id, or "" for anonymous requests.
func callerID(ctx context.Context) string {
	if claims := ClaimsFrom(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

// actorRef returns the authenticated user id as a nullable reference for
// activity records.
func actorRef(ctx context.Context) *string {
	if claims := ClaimsFrom(ctx); claims != nil {
		id := claims.UserID
		return &id
	}
	return nil
}

// clientIP is the rate limiter subject. chi's RealIP middleware has already
// folded X-Forwarded-For into RemoteAddr.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i > 0 {
		addr = addr[:i]
	}
	return addr
}
