package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mohesu/jasmin-api/internal/jasmin"
)

func ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := service(r).ListUsers(r.Context())
	observe("users", err)
	respond(w, r, err, map[string]interface{}{"users": users})
}

func GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := service(r).GetUser(r.Context(), chi.URLParam(r, "uid"))
	observe("users", err)
	respond(w, r, err, map[string]interface{}{"user": user})
}

func CreateUser(w http.ResponseWriter, r *http.Request) {
	var body jasmin.NewUser
	if err := decode(r, &body); err != nil {
		writeConsoleError(w, err)
		return
	}
	user, err := service(r).CreateUser(r.Context(), body)
	audit(r, "users", "create", body.UID, err)
	respond(w, r, err, map[string]interface{}{"user": user})
}

// UpdateUser handles PATCH /api/v1/users/{uid}/partial-update. The body is
// a list of token lists, e.g. [["gid", "g2"], ["quota", "balance", "10"]].
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	var updates [][]string
	if err := decode(r, &updates); err != nil {
		writeConsoleError(w, err)
		return
	}
	user, err := service(r).UpdateUser(r.Context(), uid, updates)
	audit(r, "users", "update", uid, err)
	respond(w, r, err, map[string]interface{}{"user": user})
}

func DeleteUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	err := service(r).DeleteUser(r.Context(), uid)
	audit(r, "users", "delete", uid, err)
	respond(w, r, err, map[string]string{"uid": uid})
}

type userAction func(*jasmin.Service, context.Context, string) (jasmin.User, error)

// userActionHandler builds the PUT handlers that act on a user and return
// its refreshed attributes.
func userActionHandler(action string, fn userAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := chi.URLParam(r, "uid")
		user, err := fn(service(r), r.Context(), uid)
		audit(r, "users", action, uid, err)
		respond(w, r, err, map[string]interface{}{"user": user})
	}
}

var (
	EnableUser  = userActionHandler("enable", (*jasmin.Service).EnableUser)
	DisableUser = userActionHandler("disable", (*jasmin.Service).DisableUser)
	UnbindUser  = userActionHandler("smpp-unbind", (*jasmin.Service).UnbindUser)
	BanUser     = userActionHandler("smpp-ban", (*jasmin.Service).BanUser)
)
