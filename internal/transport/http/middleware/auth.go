package middleware

import (
	"context"
	"net/http"
	"strings"

	"ems/internal/domain/auth"
	"ems/internal/transport/http/api"
)

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "jwt"

type ctxKey string

const authStateKey ctxKey = "auth_state"

// Principal is the verified session identity attached to the request.
type Principal struct {
	Role   string
	Email  string
	UserID string
}

type authState struct {
	principal Principal
	present   bool
	err       error
}

// TokenFromRequest prefers the session cookie and falls back to an
// Authorization bearer header.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// Auth verifies any supplied token and records the outcome without rejecting
// the request; route guards decide what an absent or bad session means.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := authState{}
			if token := TokenFromRequest(r); token != "" {
				state.present = true
				claims, err := auth.ParseToken(secret, token)
				if err != nil {
					state.err = err
				} else {
					state.principal = Principal{Role: claims.Role, Email: claims.Email, UserID: claims.UserID}
				}
			}
			ctx := context.WithValue(r.Context(), authStateKey, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests without a valid session: 401 when no token
// was supplied at all, 403 when one was supplied but failed verification.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, ok := r.Context().Value(authStateKey).(authState)
		if !ok || !state.present {
			api.Fail(w, http.StatusUnauthorized, "unauthenticated", "not authenticated", GetRequestID(r.Context()))
			return
		}
		if state.err != nil {
			api.Fail(w, http.StatusForbidden, "invalid_token", "invalid token", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole layers a role check on top of RequireSession.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, _ := GetPrincipal(r.Context())
			if principal.Role != role {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient role", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func GetPrincipal(ctx context.Context) (Principal, bool) {
	state, ok := ctx.Value(authStateKey).(authState)
	if !ok || !state.present || state.err != nil {
		return Principal{}, false
	}
	return state.principal, true
}
