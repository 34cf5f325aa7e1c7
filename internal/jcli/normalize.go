package jcli

import (
	"fmt"
	"strings"
)

// Connector reference kinds as written in route definitions.
const (
	ConnSMPPServer = "smpps"
	ConnSMPPClient = "smppc"
	ConnHTTP       = "http"
)

// SplitList splits a comma separated value, trimming items and dropping
// the empty ones left by doubled or trailing separators.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ConnectorRef builds the composite token for one connector, e.g. smpps(a).
func ConnectorRef(kind, id string) string {
	return fmt.Sprintf("%s(%s)", kind, id)
}

// ConnectorRefs wraps every id of a comma separated list in kind(...).
func ConnectorRefs(kind, list string) []string {
	ids := SplitList(list)
	refs := make([]string, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, ConnectorRef(kind, id))
	}
	return refs
}

// JoinConnectors renders composite connector tokens as a route value.
func JoinConnectors(refs []string) string {
	return strings.Join(refs, ";")
}

// JoinFilters renders filter ids as a route value. Names are passed through
// as given.
func JoinFilters(names []string) string {
	return strings.Join(names, ";")
}

// IsRoundRobin reports whether a route type balances over several connectors.
func IsRoundRobin(routeType string) bool {
	return strings.HasPrefix(strings.ToLower(routeType), "randomroundrobin")
}

// CheckConnectorCardinality enforces the per-type connector count before
// any console round trip.
func CheckConnectorCardinality(routeType string, refs []string) error {
	if IsRoundRobin(routeType) {
		if len(refs) < 2 {
			return Errorf(KindClientInput, "%s requires at least two connectors", routeType)
		}
		return nil
	}
	if len(refs) != 1 {
		return Errorf(KindClientInput, "one and only one connector is required for %s", routeType)
	}
	return nil
}
