package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mohesu/jasmin-api/internal/auth"
	"github.com/mohesu/jasmin-api/internal/config"
	"github.com/mohesu/jasmin-api/internal/database"
)

type contextKey string

const userContextKey contextKey = "user"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RequireAuth checks HTTP basic credentials against the users table. With
// auth disabled the first admin is used for every request.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if config.Cfg.AuthDisabled {
			user, err := database.GetFirstAdmin()
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "No admin user found"})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="jasmin-api"`)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		user, err := auth.Authenticate(username, password)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="jasmin-api"`)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid username/password."})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

func GetUser(r *http.Request) *database.User {
	user, _ := r.Context().Value(userContextKey).(*database.User)
	return user
}

// Username returns the authenticated username, or "" outside RequireAuth.
func Username(r *http.Request) string {
	if u := GetUser(r); u != nil {
		return u.Username
	}
	return ""
}
