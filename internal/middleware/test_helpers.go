package middleware

import (
	"context"
	"net/http"

	"github.com/mohesu/jasmin-api/internal/database"
)

// AuthenticateAsForTest replaces RequireAuth in tests: every request is
// treated as signed in by user, so audit records carry that username.
func AuthenticateAsForTest(user *database.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
		})
	}
}
