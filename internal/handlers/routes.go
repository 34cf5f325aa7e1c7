package handlers

import "github.com/go-chi/chi/v5"

// MountConsoleRoutes registers the resource routes. r must already carry
// the auth and ConsoleScope middleware.
func MountConsoleRoutes(r chi.Router) {
	r.Route("/groups", func(r chi.Router) {
		r.Get("/", ListGroups)
		r.Post("/", CreateGroup)
		r.Delete("/{gid}", DeleteGroup)
		r.Put("/{gid}/enable", EnableGroup)
		r.Put("/{gid}/disable", DisableGroup)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", ListUsers)
		r.Post("/", CreateUser)
		r.Get("/{uid}", GetUser)
		r.Delete("/{uid}", DeleteUser)
		r.Patch("/{uid}/partial-update", UpdateUser)
		r.Put("/{uid}/enable", EnableUser)
		r.Put("/{uid}/disable", DisableUser)
		r.Put("/{uid}/smpp-unbind", UnbindUser)
		r.Put("/{uid}/smpp-ban", BanUser)
	})

	r.Route("/filters", func(r chi.Router) {
		r.Get("/", ListFilters)
		r.Post("/", CreateFilter)
		r.Get("/{fid}", GetFilter)
		r.Delete("/{fid}", DeleteFilter)
	})

	r.Route("/morouters", moRouters.mount)
	r.Route("/mtrouters", mtRouters.mount)

	r.Route("/smppsconns", func(r chi.Router) {
		r.Get("/", ListSMPPConnectors)
		r.Post("/", CreateSMPPConnector)
		r.Get("/status", SMPPConnectorStatus)
		r.Get("/{cid}", GetSMPPConnector)
		r.Patch("/{cid}", UpdateSMPPConnector)
		r.Delete("/{cid}", DeleteSMPPConnector)
		r.Put("/{cid}/start", StartSMPPConnector)
		r.Put("/{cid}/stop", StopSMPPConnector)
	})

	r.Route("/httpsconns", func(r chi.Router) {
		r.Get("/", ListHTTPConnectors)
		r.Post("/", CreateHTTPConnector)
		r.Get("/{cid}", GetHTTPConnector)
		r.Delete("/{cid}", DeleteHTTPConnector)
	})
}
