package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/common/security"
	"hackathon_hub/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const claimsCtxKey contextKey = "sessionClaims"

// Verifier parses the session cookie, if any, into the request context.
// It never rejects; Authenticator and the page gate decide what to do.
func Verifier(auth *security.SessionAuth) func(http.Handler) http.Handler {
	return jwtauth.Verify(auth.TokenAuth(), security.TokenFromCookie)
}

// Authenticator rejects requests without a valid session and stores the
// session claims in the context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := sessionFromContext(r.Context())
		if !ok {
			common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), claimsCtxKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole allows the request through only when the session role is one
// of roles. It must run after Authenticator.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !slices.Contains(roles, claims.Role) {
				common.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)(next)
}

// JudgesOnly admits the roles allowed to write scores.
func JudgesOnly(next http.Handler) http.Handler {
	return RequireRole(model.RoleJudge, model.RoleMentor, model.RoleAdmin)(next)
}

// ClaimsFromContext returns the claims stored by Authenticator.
func ClaimsFromContext(ctx context.Context) (security.Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey).(security.Claims)
	return claims, ok
}

// WithClaims returns ctx carrying claims, as Authenticator would.
func WithClaims(ctx context.Context, claims security.Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// sessionFromContext reads the token placed by Verifier. Missing, invalid
// and expired tokens all count as no session.
func sessionFromContext(ctx context.Context) (security.Claims, bool) {
	token, raw, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return security.Claims{}, false
	}
	claims, err := security.ClaimsFromMap(raw)
	if err != nil {
		return security.Claims{}, false
	}
	return claims, true
}

const (
	loginPath     = "/auth/login"
	signupPath    = "/auth/sign-up"
	dashboardPath = "/dashboard"
)

// PageGate redirects anonymous visitors away from the dashboard and signed
// in users away from the login and sign-up pages. It must run after
// Verifier.
func PageGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, signedIn := sessionFromContext(r.Context())
		path := r.URL.Path

		switch {
		case !signedIn && (path == dashboardPath || strings.HasPrefix(path, dashboardPath+"/")):
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		case signedIn && (path == loginPath || path == signupPath):
			http.Redirect(w, r, dashboardPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
