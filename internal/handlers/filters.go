package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mohesu/jasmin-api/internal/jasmin"
)

func ListFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := service(r).ListFilters(r.Context())
	observe("filters", err)
	respond(w, r, err, map[string]interface{}{"filters": filters})
}

func GetFilter(w http.ResponseWriter, r *http.Request) {
	f, err := service(r).GetFilter(r.Context(), chi.URLParam(r, "fid"))
	observe("filters", err)
	respond(w, r, err, map[string]interface{}{"filter": f})
}

// CreateFilter handles POST /api/v1/filters. The parameter field is
// required for every type except transparentfilter.
func CreateFilter(w http.ResponseWriter, r *http.Request) {
	var body jasmin.NewFilter
	if err := decode(r, &body); err != nil {
		writeConsoleError(w, err)
		return
	}
	f, err := service(r).CreateFilter(r.Context(), body)
	audit(r, "filters", "create", body.FID, err)
	respond(w, r, err, map[string]interface{}{"filter": f})
}

func DeleteFilter(w http.ResponseWriter, r *http.Request) {
	fid := chi.URLParam(r, "fid")
	err := service(r).DeleteFilter(r.Context(), fid)
	audit(r, "filters", "delete", fid, err)
	respond(w, r, err, map[string]string{"fid": fid})
}
