package jcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList(" a, b ,,c "))
	assert.Equal(t, []string{"a"}, SplitList("a,"))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , ,"))
}

func TestJoinConnectors(t *testing.T) {
	refs := append(ConnectorRefs(ConnSMPPServer, "a"), ConnectorRefs(ConnHTTP, "b")...)
	assert.Equal(t, "smpps(a);http(b)", JoinConnectors(refs))
	assert.Equal(t, "smppc(x)", JoinConnectors(ConnectorRefs(ConnSMPPClient, " x ,")))
}

func TestJoinFilters(t *testing.T) {
	assert.Equal(t, "a;b;c", JoinFilters(SplitList("a, b,c")))
	// names are not wrapped the way connector references are
	assert.Equal(t, "f(1);g", JoinFilters([]string{"f(1)", "g"}))
}

func TestCheckConnectorCardinality(t *testing.T) {
	one := []string{"smppc(a)"}
	two := []string{"smppc(a)", "http(b)"}

	err := CheckConnectorCardinality("randomroundrobinmtroute", one)
	assert.Equal(t, KindClientInput, KindOf(err))
	assert.NoError(t, CheckConnectorCardinality("RandomRoundrobinMORoute", two))

	assert.NoError(t, CheckConnectorCardinality("staticmtroute", one))
	assert.Equal(t, KindClientInput, KindOf(CheckConnectorCardinality("staticmtroute", two)))
	assert.Equal(t, KindClientInput, KindOf(CheckConnectorCardinality("defaultroute", nil)))
}
