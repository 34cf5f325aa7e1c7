package jasmin

import (
	"context"
	"strconv"
	"strings"

	"github.com/mohesu/jasmin-api/internal/jcli"
)

type Route struct {
	Order      string   `json:"order"`
	Type       string   `json:"type"`
	Rate       string   `json:"rate,omitempty"`
	Connectors []string `json:"connectors"`
	Filters    []string `json:"filters"`
}

// RouteInput describes a new route. Filters and connector fields are comma
// separated id lists.
type RouteInput struct {
	Type           string   `json:"type" validate:"required"`
	Order          string   `json:"order"`
	Rate           *float64 `json:"rate,omitempty" validate:"omitempty,gte=0"`
	Filters        string   `json:"filters"`
	SMPPConnectors string   `json:"smppconnectors"`
	HTTPConnectors string   `json:"httpconnectors"`
}

// routeTable holds what differs between the MO and MT routing tables.
type routeTable struct {
	cmd      string
	label    string
	banner   string
	smppKind string
	rated    bool
}

var (
	moTable = routeTable{cmd: "morouter", label: "MO Route", banner: "Adding a new MO Route", smppKind: jcli.ConnSMPPServer}
	mtTable = routeTable{cmd: "mtrouter", label: "MT Route", banner: "Adding a new MT Route", smppKind: jcli.ConnSMPPClient, rated: true}
)

const defaultRoute = "defaultroute"

func (t routeTable) parse(r []string) Route {
	rt := Route{Order: strings.TrimLeft(r[0], "#"), Connectors: []string{}, Filters: []string{}}
	i := 1
	next := func() string {
		if i >= len(r) {
			return ""
		}
		i++
		return r[i-1]
	}
	rt.Type = next()
	if t.rated {
		rt.Rate = next()
	}
	rt.Connectors = append(rt.Connectors, jcli.SplitList(next())...)
	if i < len(r) {
		rt.Filters = append(rt.Filters, jcli.SplitList(strings.Join(r[i:], " "))...)
	}
	return rt
}

// draft validates in and builds the dialogue lines: type, filters and
// order (except for the default route), connector(s), then rate.
func (t routeTable) draft(in RouteInput) (jcli.Draft, error) {
	rtype := strings.ToLower(strings.TrimSpace(in.Type))
	if rtype == "" {
		return nil, jcli.Errorf(jcli.KindClientInput, "missing parameter: type is required")
	}
	if t.rated && in.Rate == nil {
		return nil, jcli.Errorf(jcli.KindClientInput, "missing parameter: rate is required")
	}

	draft := jcli.Draft{}.Set("type", rtype)
	if rtype != defaultRoute {
		if err := requireFields(field("order", in.Order)); err != nil {
			return nil, err
		}
		filters := jcli.SplitList(in.Filters)
		if len(filters) == 0 {
			return nil, jcli.Errorf(jcli.KindClientInput, "%s router requires filters", rtype)
		}
		draft = draft.Set("filters", jcli.JoinFilters(filters)).Set("order", strings.TrimSpace(in.Order))
	}

	refs := append(jcli.ConnectorRefs(t.smppKind, in.SMPPConnectors), jcli.ConnectorRefs(jcli.ConnHTTP, in.HTTPConnectors)...)
	if err := jcli.CheckConnectorCardinality(rtype, refs); err != nil {
		return nil, err
	}
	if jcli.IsRoundRobin(rtype) {
		draft = draft.Set("connectors", jcli.JoinConnectors(refs))
	} else {
		draft = draft.Set("connector", refs[0])
	}

	if t.rated {
		draft = draft.Set("rate", formatRate(*in.Rate))
	}
	return draft, nil
}

// formatRate always carries a fractional part, e.g. 0.0 or 1.25.
func formatRate(r float64) string {
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (s *Service) listRoutes(ctx context.Context, t routeTable) ([]Route, error) {
	rs, err := s.rows(ctx, t.cmd, true)
	if err != nil {
		return nil, err
	}
	routes := []Route{}
	for _, r := range rs {
		routes = append(routes, t.parse(r))
	}
	return routes, nil
}

func (s *Service) getRoute(ctx context.Context, t routeTable, order string) (Route, error) {
	routes, err := s.listRoutes(ctx, t)
	if err != nil {
		return Route{}, err
	}
	for _, r := range routes {
		if r.Order == order {
			return r, nil
		}
	}
	return Route{}, jcli.Errorf(jcli.KindUnknownObject, "No %s with order: %s", strings.ReplaceAll(t.label, " ", ""), order)
}

func (s *Service) createRoute(ctx context.Context, t routeTable, in RouteInput) (Route, error) {
	draft, err := t.draft(in)
	if err != nil {
		return Route{}, err
	}
	d := jcli.Dialect{Begin: t.cmd + " -a", Opened: jcli.AddRules(t.banner)}
	if err := s.create(ctx, d, draft); err != nil {
		return Route{}, err
	}
	order := strings.TrimSpace(in.Order)
	if strings.EqualFold(in.Type, defaultRoute) {
		order = "0"
	}
	return s.getRoute(ctx, t, order)
}

func (s *Service) flushRoutes(ctx context.Context, t routeTable) error {
	if _, err := s.run(ctx, t.cmd+" -f", jcli.ListRules); err != nil {
		return err
	}
	return s.commit(ctx)
}

func (s *Service) ListMORoutes(ctx context.Context) ([]Route, error) { return s.listRoutes(ctx, moTable) }
func (s *Service) ListMTRoutes(ctx context.Context) ([]Route, error) { return s.listRoutes(ctx, mtTable) }

func (s *Service) GetMORoute(ctx context.Context, order string) (Route, error) {
	return s.getRoute(ctx, moTable, order)
}

func (s *Service) GetMTRoute(ctx context.Context, order string) (Route, error) {
	return s.getRoute(ctx, mtTable, order)
}

// CreateMORoute adds an MO route. SMPP connectors are server connectors,
// written as smpps(id).
func (s *Service) CreateMORoute(ctx context.Context, in RouteInput) (Route, error) {
	return s.createRoute(ctx, moTable, in)
}

// CreateMTRoute adds an MT route. SMPP connectors are client connectors,
// written as smppc(id), and a rate is mandatory.
func (s *Service) CreateMTRoute(ctx context.Context, in RouteInput) (Route, error) {
	return s.createRoute(ctx, mtTable, in)
}

func (s *Service) DeleteMORoute(ctx context.Context, order string) error {
	return s.action(ctx, moTable.cmd, "-r", order, moTable.label)
}

func (s *Service) DeleteMTRoute(ctx context.Context, order string) error {
	return s.action(ctx, mtTable.cmd, "-r", order, mtTable.label)
}

func (s *Service) FlushMORoutes(ctx context.Context) error { return s.flushRoutes(ctx, moTable) }
func (s *Service) FlushMTRoutes(ctx context.Context) error { return s.flushRoutes(ctx, mtTable) }
