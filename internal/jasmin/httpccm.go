package jasmin

import (
	"context"
	"strings"

	"github.com/mohesu/jasmin-api/internal/jcli"
)

type NewHTTPConnector struct {
	CID    string `json:"cid" validate:"required"`
	URL    string `json:"url" validate:"required"`
	Method string `json:"method" validate:"required"`
}

var httpConnectorDialect = jcli.Dialect{
	Begin:  "httpccm -a",
	Opened: jcli.AddRules("Adding a new Httpcc"),
	Commit: jcli.HTTPConnectorCommitRules,
}

func mergeHTTPRow(c Connector, r []string) {
	c["cid"] = strings.TrimPrefix(r[0], "#")
	for i, k := range []string{"type", "method", "url"} {
		if i+1 < len(r) {
			c[k] = r[i+1]
		}
	}
}

func (s *Service) ListHTTPConnectors(ctx context.Context) ([]Connector, error) {
	rs, err := s.rows(ctx, "httpccm", false)
	if err != nil {
		return nil, err
	}
	out := []Connector{}
	for _, r := range rs {
		c, err := s.showConnector(ctx, "httpccm", strings.TrimPrefix(r[0], "#"))
		if jcli.KindOf(err) == jcli.KindUnknownObject {
			continue
		}
		if err != nil {
			return nil, err
		}
		mergeHTTPRow(c, r)
		out = append(out, c)
	}
	return out, nil
}

func (s *Service) GetHTTPConnector(ctx context.Context, cid string) (Connector, error) {
	if err := requireFields(field("cid", cid)); err != nil {
		return nil, err
	}
	c, err := s.showConnector(ctx, "httpccm", cid)
	if err != nil {
		return nil, err
	}
	rs, err := s.rows(ctx, "httpccm", false)
	if err != nil {
		return nil, err
	}
	for _, r := range rs {
		if r[0] == "#"+cid {
			mergeHTTPRow(c, r)
			return c, nil
		}
	}
	return nil, jcli.Errorf(jcli.KindUnknownObject, "Unknown connector: %s", cid)
}

// CreateHTTPConnector adds a connector; the console validates url and
// method when the dialogue is committed.
func (s *Service) CreateHTTPConnector(ctx context.Context, in NewHTTPConnector) error {
	if err := requireFields(field("cid", in.CID), field("url", in.URL), field("method", in.Method)); err != nil {
		return err
	}
	draft := jcli.Draft{}.Set("cid", in.CID).Set("url", in.URL).Set("method", in.Method)
	return s.create(ctx, httpConnectorDialect, draft)
}

func (s *Service) DeleteHTTPConnector(ctx context.Context, cid string) error {
	return s.action(ctx, "httpccm", "-r", cid, connectorLabel)
}
