package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/signullgame/signull/internal/api/apierr"
	"github.com/signullgame/signull/internal/model"
	"github.com/signullgame/signull/internal/services/auth"
)

type contextKey string

const (
	accountContextKey contextKey = "account"
	sessionContextKey contextKey = "session"
)

// Auth creates authentication middleware
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			// Add session and account to context
			ctx := r.Context()
			ctx = context.WithValue(ctx, sessionContextKey, session)
			ctx = context.WithValue(ctx, accountContextKey, &session.Account)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the session if present but doesn't require it.
// Spectator surfaces accept anonymous viewers.
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token != "" {
				if session, err := authService.ValidateSession(token); err == nil {
					ctx := r.Context()
					ctx = context.WithValue(ctx, sessionContextKey, session)
					ctx = context.WithValue(ctx, accountContextKey, &session.Account)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the session token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetAccount returns the authenticated account from the request context
func GetAccount(ctx context.Context) *model.Account {
	account, _ := ctx.Value(accountContextKey).(*model.Account)
	return account
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// MustGetAccount returns the authenticated account or panics
func MustGetAccount(ctx context.Context) *model.Account {
	account := GetAccount(ctx)
	if account == nil {
		panic("no account in context - auth middleware not applied?")
	}
	return account
}
