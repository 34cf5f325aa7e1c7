package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListGroups handles GET /api/v1/groups.
func ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := service(r).ListGroups(r.Context())
	observe("groups", err)
	respond(w, r, err, map[string]interface{}{"groups": groups})
}

func CreateGroup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		GID string `json:"gid" validate:"required"`
	}
	if err := decode(r, &body); err != nil {
		writeConsoleError(w, err)
		return
	}
	err := service(r).CreateGroup(r.Context(), body.GID)
	audit(r, "groups", "create", body.GID, err)
	respond(w, r, err, map[string]string{"name": body.GID})
}

func DeleteGroup(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	err := service(r).DeleteGroup(r.Context(), gid)
	audit(r, "groups", "delete", gid, err)
	respond(w, r, err, map[string]string{"name": gid})
}

func EnableGroup(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	err := service(r).EnableGroup(r.Context(), gid)
	audit(r, "groups", "enable", gid, err)
	respond(w, r, err, map[string]string{"name": gid})
}

func DisableGroup(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	err := service(r).DisableGroup(r.Context(), gid)
	audit(r, "groups", "disable", gid, err)
	respond(w, r, err, map[string]string{"name": gid})
}
