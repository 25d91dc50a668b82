package middleware

import (
	"context"
	"log"
	"net/http"

	"horizon/internal/domain/user"
	"horizon/internal/shared/auth"
)

type contextKey string

// UserKey is the context key under which Auth stores the authenticated user.
const UserKey contextKey = "user"

// SessionResolver resolves a session secret to its owning user. A nil user
// with a nil error means the secret does not belong to a live session.
type SessionResolver interface {
	CurrentUser(ctx context.Context, sessionSecret string) (*user.User, error)
}

// Auth requires a valid session cookie and puts the resolved user into the
// request context. Requests without a live session get 401.
func Auth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookieName)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			usr, err := sessions.CurrentUser(r.Context(), cookie.Value)
			if err != nil {
				log.Printf("Error resolving session: %v", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if usr == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, usr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user stored by Auth, if any.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	usr, ok := ctx.Value(UserKey).(*user.User)
	return usr, ok
}
