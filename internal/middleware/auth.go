// AngelaMos | 2026
// auth.go

package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bjjjitsjournal-oss/JitsPlannerPro-sub000/internal/core"
)

const (
	UserKey     contextKey = "auth_user"
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
	UserTierKey contextKey = "user_tier"
)

// AuthUser is the resolved caller attached to the request context. Tier
// is the effective tier after allow-list and subscription-expiry
// overrides, so downstream entitlement checks never re-derive it.
type AuthUser struct {
	ID      int64
	Email   string
	Role    string
	Tier    string
	Premium bool
}

// IdentityResolver maps credentials to an internal user. ResolveToken
// runs the verifier chain; ResolveSubject is the weaker fallback path
// that trusts a bare external subject id.
type IdentityResolver interface {
	ResolveToken(ctx context.Context, token string) (*AuthUser, error)
	ResolveSubject(ctx context.Context, supabaseID string) (*AuthUser, error)
}

// Authenticator is the strict variant: a cryptographically verified
// token is required. Used for admin and money-moving endpoints.
func Authenticator(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			user, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withAuthUser(r.Context(), user)))
		})
	}
}

// PermissiveAuthenticator additionally accepts an unverified
// supabase-id fallback carried in the query string or JSON body. The
// mobile client uses this on endpoints it calls before it has reliably
// cached a token.
func PermissiveAuthenticator(
	resolver IdentityResolver,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				user, err := resolver.ResolveToken(r.Context(), token)
				if err == nil {
					next.ServeHTTP(
						w,
						r.WithContext(withAuthUser(r.Context(), user)),
					)
					return
				}
				// fall through to the subject fallback: mobile clients
				// sometimes send stale tokens alongside a valid id
			}

			subjectID := extractFallbackSubject(r)
			if subjectID == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			user, err := resolver.ResolveSubject(r.Context(), subjectID)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withAuthUser(r.Context(), user)))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := GetUserRole(r.Context())

		if role == "" {
			core.JSONError(
				w,
				core.UnauthorizedError("authentication required"),
			)
			return
		}

		if role != "admin" {
			core.JSONError(
				w,
				core.ForbiddenError("insufficient permissions"),
			)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

const maxFallbackBodyPeek = 64 << 10

// extractFallbackSubject pulls the supabase id from the query string or,
// for JSON requests, from the body. The body is restored so the handler
// can decode it again.
func extractFallbackSubject(r *http.Request) string {
	if id := r.URL.Query().Get("supabase_id"); id != "" {
		return id
	}
	if id := r.URL.Query().Get("supabaseId"); id != "" {
		return id
	}

	if r.Body == nil ||
		!strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxFallbackBodyPeek))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var body struct {
		SupabaseID      string `json:"supabase_id"`
		SupabaseIDCamel string `json:"supabaseId"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	if body.SupabaseID != "" {
		return body.SupabaseID
	}
	return body.SupabaseIDCamel
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrNotFound):
		core.JSONError(w, core.UnauthorizedError("unknown user"))
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func withAuthUser(ctx context.Context, user *AuthUser) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	ctx = context.WithValue(ctx, UserIDKey, user.ID)
	ctx = context.WithValue(ctx, UserRoleKey, user.Role)
	ctx = context.WithValue(ctx, UserTierKey, user.Tier)
	return ctx
}

func GetAuthUser(ctx context.Context) *AuthUser {
	if user, ok := ctx.Value(UserKey).(*AuthUser); ok {
		return user
	}
	return nil
}

func GetUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(UserIDKey).(int64); ok {
		return id
	}
	return 0
}

func GetUserRole(ctx context.Context) string {
	if role, ok := ctx.Value(UserRoleKey).(string); ok {
		return role
	}
	return ""
}

func GetUserTier(ctx context.Context) string {
	if tier, ok := ctx.Value(UserTierKey).(string); ok {
		return tier
	}
	return ""
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRole(ctx) == "admin"
}
