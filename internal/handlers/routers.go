package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mohesu/jasmin-api/internal/jasmin"
)

// routerOps binds one routing table's service methods to its response
// keys, so MO and MT routers share their handlers.
type routerOps struct {
	resource string // "morouters"
	single   string // "morouter"
	list     func(*jasmin.Service, context.Context) ([]jasmin.Route, error)
	get      func(*jasmin.Service, context.Context, string) (jasmin.Route, error)
	create   func(*jasmin.Service, context.Context, jasmin.RouteInput) (jasmin.Route, error)
	remove   func(*jasmin.Service, context.Context, string) error
	flush    func(*jasmin.Service, context.Context) error
}

var (
	moRouters = routerOps{
		resource: "morouters",
		single:   "morouter",
		list:     (*jasmin.Service).ListMORoutes,
		get:      (*jasmin.Service).GetMORoute,
		create:   (*jasmin.Service).CreateMORoute,
		remove:   (*jasmin.Service).DeleteMORoute,
		flush:    (*jasmin.Service).FlushMORoutes,
	}
	mtRouters = routerOps{
		resource: "mtrouters",
		single:   "mtrouter",
		list:     (*jasmin.Service).ListMTRoutes,
		get:      (*jasmin.Service).GetMTRoute,
		create:   (*jasmin.Service).CreateMTRoute,
		remove:   (*jasmin.Service).DeleteMTRoute,
		flush:    (*jasmin.Service).FlushMTRoutes,
	}
)

func (o routerOps) List(w http.ResponseWriter, r *http.Request) {
	routes, err := o.list(service(r), r.Context())
	observe(o.resource, err)
	respond(w, r, err, map[string]interface{}{o.resource: routes})
}

func (o routerOps) Get(w http.ResponseWriter, r *http.Request) {
	route, err := o.get(service(r), r.Context(), chi.URLParam(r, "order"))
	observe(o.resource, err)
	respond(w, r, err, map[string]interface{}{o.single: route})
}

func (o routerOps) Create(w http.ResponseWriter, r *http.Request) {
	var body jasmin.RouteInput
	if err := decode(r, &body); err != nil {
		writeConsoleError(w, err)
		return
	}
	route, err := o.create(service(r), r.Context(), body)
	audit(r, o.resource, "create", body.Order, err)
	respond(w, r, err, map[string]interface{}{o.single: route})
}

func (o routerOps) Delete(w http.ResponseWriter, r *http.Request) {
	order := chi.URLParam(r, "order")
	err := o.remove(service(r), r.Context(), order)
	audit(r, o.resource, "delete", order, err)
	respond(w, r, err, map[string]string{"order": order})
}

func (o routerOps) Flush(w http.ResponseWriter, r *http.Request) {
	err := o.flush(service(r), r.Context())
	audit(r, o.resource, "flush", "", err)
	respond(w, r, err, map[string]interface{}{o.resource: []jasmin.Route{}})
}

func (o routerOps) mount(r chi.Router) {
	r.Get("/", o.List)
	r.Post("/", o.Create)
	r.Delete("/flush", o.Flush)
	r.Get("/{order}", o.Get)
	r.Delete("/{order}", o.Delete)
}
