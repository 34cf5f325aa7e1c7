package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mohesu/jasmin-api/internal/jasmin"
)

// SMPP client connectors

func ListSMPPConnectors(w http.ResponseWriter, r *http.Request) {
	conns, err := service(r).ListSMPPConnectors(r.Context())
	observe("smppsconns", err)
	respond(w, r, err, map[string]interface{}{"connectors": conns})
}

// SMPPConnectorStatus handles GET /api/v1/smppsconns/status, one entry per
// console instance with the primary first.
func SMPPConnectorStatus(w http.ResponseWriter, r *http.Request) {
	instances, err := service(r).SMPPConnectorStatus(r.Context())
	observe("smppsconns", err)
	respond(w, r, err, map[string]interface{}{"instances": instances})
}

func GetSMPPConnector(w http.ResponseWriter, r *http.Request) {
	c, err := service(r).GetSMPPConnector(r.Context(), chi.URLParam(r, "cid"))
	observe("smppsconns", err)
	respond(w, r, err, map[string]interface{}{"connector": c})
}

func CreateSMPPConnector(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CID string `json:"cid" validate:"required"`
	}
	if err := decode(r, &body); err != nil {
		writeConsoleError(w, err)
		return
	}
	err := service(r).CreateSMPPConnector(r.Context(), body.CID)
	audit(r, "smppsconns", "create", body.CID, err)
	respond(w, r, err, map[string]string{"cid": body.CID})
}

// UpdateSMPPConnector handles PATCH /api/v1/smppsconns/{cid}. Keys are
// applied in the order they appear in the body.
func UpdateSMPPConnector(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	var updates jasmin.ConnectorUpdate
	if err := decode(r, &updates); err != nil {
		writeConsoleError(w, err)
		return
	}
	c, err := service(r).UpdateSMPPConnector(r.Context(), cid, updates)
	audit(r, "smppsconns", "update", cid, err)
	respond(w, r, err, map[string]interface{}{"connector": c})
}

func DeleteSMPPConnector(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	err := service(r).DeleteSMPPConnector(r.Context(), cid)
	audit(r, "smppsconns", "delete", cid, err)
	respond(w, r, err, map[string]string{"name": cid})
}

func StartSMPPConnector(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	err := service(r).StartSMPPConnector(r.Context(), cid)
	audit(r, "smppsconns", "start", cid, err)
	respond(w, r, err, map[string]string{"name": cid})
}

func StopSMPPConnector(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	err := service(r).StopSMPPConnector(r.Context(), cid)
	audit(r, "smppsconns", "stop", cid, err)
	respond(w, r, err, map[string]string{"name": cid})
}

// HTTP client connectors

func ListHTTPConnectors(w http.ResponseWriter, r *http.Request) {
	conns, err := service(r).ListHTTPConnectors(r.Context())
	observe("httpsconns", err)
	respond(w, r, err, map[string]interface{}{"connectors": conns})
}

func GetHTTPConnector(w http.ResponseWriter, r *http.Request) {
	c, err := service(r).GetHTTPConnector(r.Context(), chi.URLParam(r, "cid"))
	observe("httpsconns", err)
	respond(w, r, err, map[string]interface{}{"connector": c})
}

func CreateHTTPConnector(w http.ResponseWriter, r *http.Request) {
	var body jasmin.NewHTTPConnector
	if err := decode(r, &body); err != nil {
		writeConsoleError(w, err)
		return
	}
	err := service(r).CreateHTTPConnector(r.Context(), body)
	audit(r, "httpsconns", "create", body.CID, err)
	respond(w, r, err, map[string]string{"cid": body.CID})
}

func DeleteHTTPConnector(w http.ResponseWriter, r *http.Request) {
	cid := chi.URLParam(r, "cid")
	err := service(r).DeleteHTTPConnector(r.Context(), cid)
	audit(r, "httpsconns", "delete", cid, err)
	respond(w, r, err, map[string]string{"name": cid})
}
