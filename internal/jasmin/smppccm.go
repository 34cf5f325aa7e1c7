package jasmin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mohesu/jasmin-api/internal/jcli"
)

// Connector is the merged view of "smppccm -s" attributes and the
// status columns of "smppccm -l".
type Connector map[string]string

type ConnectorStatus struct {
	CID     string `json:"cid"`
	Status  string `json:"status"`
	Session string `json:"session"`
}

// ConnectorUpdate is an ordered set of attribute changes. It decodes from a
// JSON object and keeps the keys in document order, since the console
// applies them one line at a time.
type ConnectorUpdate []jcli.Pair

func (u *ConnectorUpdate) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("updates should be a key-value object")
	}
	var out ConnectorUpdate
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("value of %s: %w", key, err)
		}
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			out = append(out, jcli.Pair{Key: key, Value: str})
			continue
		}
		out = append(out, jcli.Pair{Key: key, Value: string(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*u = out
	return nil
}

var smppConnectorDialect = jcli.Dialect{
	Begin:  "smppccm -a",
	Opened: jcli.AddRules("Adding a new connector"),
}

const connectorLabel = "connector"

func (s *Service) showConnector(ctx context.Context, cmd, cid string) (Connector, error) {
	res, err := s.run(ctx, cmd+" -s "+cid, jcli.ShowRules(connectorLabel))
	if err != nil {
		if jcli.KindOf(err) == jcli.KindUnknownObject {
			return nil, jcli.Errorf(jcli.KindUnknownObject, "Unknown connector: %s", cid)
		}
		return nil, err
	}
	return Connector(jcli.KeyValues(res.Text)), nil
}

func mergeSMPPRow(c Connector, r []string) {
	c["cid"] = strings.TrimPrefix(r[0], "#")
	for i, k := range []string{"status", "session", "starts", "stops"} {
		if i+1 < len(r) {
			c[k] = r[i+1]
		}
	}
}

// ListSMPPConnectors shows every listed connector and merges in its status
// columns. Connectors removed between the two commands are skipped.
func (s *Service) ListSMPPConnectors(ctx context.Context) ([]Connector, error) {
	rs, err := s.rows(ctx, "smppccm", false)
	if err != nil {
		return nil, err
	}
	out := []Connector{}
	for _, r := range rs {
		c, err := s.showConnector(ctx, "smppccm", strings.TrimPrefix(r[0], "#"))
		if jcli.KindOf(err) == jcli.KindUnknownObject {
			continue
		}
		if err != nil {
			return nil, err
		}
		mergeSMPPRow(c, r)
		out = append(out, c)
	}
	return out, nil
}

// SMPPConnectorStatus lists connector status on the primary and then on
// each replica, one slice per instance.
func (s *Service) SMPPConnectorStatus(ctx context.Context) ([][]ConnectorStatus, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	consoles := append([]jcli.Console{s.primary}, s.replicas...)
	instances := make([][]ConnectorStatus, 0, len(consoles))
	for _, c := range consoles {
		rs, err := rows(ctx, c, "smppccm", false)
		if err != nil {
			return nil, err
		}
		statuses := []ConnectorStatus{}
		for _, r := range rs {
			st := ConnectorStatus{CID: strings.TrimPrefix(r[0], "#")}
			if len(r) > 2 {
				st.Status, st.Session = r[1], r[2]
			}
			statuses = append(statuses, st)
		}
		instances = append(instances, statuses)
	}
	return instances, nil
}

func (s *Service) GetSMPPConnector(ctx context.Context, cid string) (Connector, error) {
	if err := requireFields(field("cid", cid)); err != nil {
		return nil, err
	}
	c, err := s.showConnector(ctx, "smppccm", cid)
	if err != nil {
		return nil, err
	}
	rs, err := s.rows(ctx, "smppccm", false)
	if err != nil {
		return nil, err
	}
	for _, r := range rs {
		if r[0] == "#"+cid {
			mergeSMPPRow(c, r)
			return c, nil
		}
	}
	return nil, jcli.Errorf(jcli.KindUnknownObject, "Unknown connector: %s", cid)
}

func (s *Service) CreateSMPPConnector(ctx context.Context, cid string) error {
	if err := requireFields(field("cid", cid)); err != nil {
		return err
	}
	return s.create(ctx, smppConnectorDialect, jcli.Draft{}.Set("cid", cid))
}

// UpdateSMPPConnector applies updates in order and returns the connector as
// shown afterwards.
func (s *Service) UpdateSMPPConnector(ctx context.Context, cid string, updates ConnectorUpdate) (Connector, error) {
	if err := requireFields(field("cid", cid)); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, jcli.Errorf(jcli.KindClientInput, "updates should be a non-empty key-value object")
	}
	d := jcli.Dialect{
		Begin:  "smppccm -u " + cid,
		Opened: jcli.UpdateRules("Updating connector", connectorLabel),
	}
	if err := s.create(ctx, d, jcli.Draft(updates)); err != nil {
		return nil, err
	}
	return s.showConnector(ctx, "smppccm", cid)
}

func (s *Service) DeleteSMPPConnector(ctx context.Context, cid string) error {
	return s.action(ctx, "smppccm", "-r", cid, connectorLabel)
}

// StartSMPPConnector fails with ActionFailed when the connector already runs.
func (s *Service) StartSMPPConnector(ctx context.Context, cid string) error {
	return s.action(ctx, "smppccm", "-1", cid, connectorLabel)
}

func (s *Service) StopSMPPConnector(ctx context.Context, cid string) error {
	return s.action(ctx, "smppccm", "-0", cid, connectorLabel)
}
