package jasmin

import (
	"context"
	"strings"

	"github.com/mohesu/jasmin-api/internal/jcli"
)

type Filter struct {
	FID         string `json:"fid"`
	Type        string `json:"type"`
	Routes      string `json:"routes"`
	Description string `json:"description"`
}

type NewFilter struct {
	Type      string `json:"type" validate:"required"`
	FID       string `json:"fid" validate:"required"`
	Parameter string `json:"parameter"`
}

// filterParams maps a filter type to the dialogue key carrying its
// parameter. An empty key means the type takes no parameter.
var filterParams = map[string]string{
	"transparentfilter":     "",
	"connectorfilter":       "cid",
	"userfilter":            "uid",
	"groupfilter":           "gid",
	"sourceaddrfilter":      "source_addr",
	"destinationaddrfilter": "destination_addr",
	"shortmessagefilter":    "short_message",
	"dateintervalfilter":    "dateInterval",
	"timeintervalfilter":    "timeInterval",
	"tagfilter":             "tag",
	"evalpyfilter":          "pyCode",
}

var filterDialect = jcli.Dialect{
	Begin:  "filter -a",
	Opened: jcli.AddRules("Adding a new Filter"),
}

func (s *Service) ListFilters(ctx context.Context) ([]Filter, error) {
	rs, err := s.rows(ctx, "filter", true)
	if err != nil {
		return nil, err
	}
	filters := []Filter{}
	for _, r := range rs {
		f := Filter{FID: strings.TrimLeft(r[0], "#")}
		if len(r) > 1 {
			f.Type = r[1]
		}
		if len(r) > 3 {
			f.Routes = r[2] + " " + r[3]
		}
		if len(r) > 4 {
			f.Description = strings.Join(r[4:], " ")
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func (s *Service) GetFilter(ctx context.Context, fid string) (Filter, error) {
	filters, err := s.ListFilters(ctx)
	if err != nil {
		return Filter{}, err
	}
	for _, f := range filters {
		if f.FID == fid {
			return f, nil
		}
	}
	return Filter{}, jcli.Errorf(jcli.KindUnknownObject, "No Filter with fid: %s", fid)
}

// filterDraft validates in and returns the dialogue lines for it.
func filterDraft(in NewFilter) (jcli.Draft, error) {
	if err := requireFields(field("type", in.Type), field("fid", in.FID)); err != nil {
		return nil, err
	}
	ftype := strings.ToLower(in.Type)
	key, ok := filterParams[ftype]
	if !ok {
		return nil, jcli.Errorf(jcli.KindClientInput, "unsupported filter type: %s", ftype)
	}
	draft := jcli.Draft{}.Set("type", ftype).Set("fid", in.FID)
	if key != "" {
		if strings.TrimSpace(in.Parameter) == "" {
			return nil, jcli.Errorf(jcli.KindClientInput, "%s filter requires parameter", ftype)
		}
		draft = draft.Set(key, in.Parameter)
	}
	return draft, nil
}

func (s *Service) CreateFilter(ctx context.Context, in NewFilter) (Filter, error) {
	draft, err := filterDraft(in)
	if err != nil {
		return Filter{}, err
	}
	if err := s.create(ctx, filterDialect, draft); err != nil {
		return Filter{}, err
	}
	return s.GetFilter(ctx, in.FID)
}

func (s *Service) DeleteFilter(ctx context.Context, fid string) error {
	return s.action(ctx, "filter", "-r", fid, "Filter")
}
