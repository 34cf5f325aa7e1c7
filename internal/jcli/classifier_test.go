package jcli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_FirstRuleWins(t *testing.T) {
	text := "gid g1\r\nUnknown Group key: gid2\r\n> "

	// Every rule below matches text; the earliest one must always win.
	rules := RuleSet{
		NewRule("a", `.*(Unknown .*)`+interactive, KindUnknownKey),
		NewRule("b", `(.*)`+interactive, KindOK),
		NewRule("c", `.*`, KindSyntax),
	}
	for i := range rules {
		res, ok := Classify(text, rules[i:])
		require.True(t, ok)
		assert.Equal(t, rules[i].Name, res.Rule)
		assert.Equal(t, 0, res.Index)
	}

	reversed := RuleSet{rules[2], rules[1], rules[0]}
	res, ok := Classify(text, reversed)
	require.True(t, ok)
	assert.Equal(t, "c", res.Rule)
}

func TestClassify_StepRulesOrdering(t *testing.T) {
	cases := []struct {
		name string
		text string
		kind Kind
		rule string
	}{
		{"accepted", "gid g1\r\n> ", KindOK, "accepted"},
		{"unknown key", "foo bar\r\nUnknown User key: foo\r\n> ", KindUnknownKey, "unknown_key"},
		{"unknown smpp config key", "foo 1\r\nUnknown SMPPClientConfig key: foo\r\n> ", KindUnknownKey, "unknown_key"},
		{"immutable", "uid u2\r\nuid can not be modified.\r\n> ", KindImmutableKey, "immutable"},
		{"error at ready prompt", "port 0\r\nError: port syntax is invalid\r\njcli : ", KindSyntax, "error"},
		{"dropped out", "foo\r\nsomething odd\r\njcli : ", KindProtocolUsage, "dropped"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, ok := Classify(tc.text, StepRules)
			require.True(t, ok)
			assert.Equal(t, tc.kind, res.Kind)
			assert.Equal(t, tc.rule, res.Rule)
		})
	}
}

func TestClassify_NoMatchKeepsWaiting(t *testing.T) {
	_, ok := Classify("group -l\r\n#Group id\r\n", ListRules)
	assert.False(t, ok)
	_, ok = Classify("", ReadyRules)
	assert.False(t, ok)
}

func TestClassify_MultiLineCapture(t *testing.T) {
	text := "ok\r\nHttpConnector url syntax is invalid\r\n   please check\r\n> "
	res, ok := Classify(text, HTTPConnectorCommitRules)
	require.True(t, ok)
	assert.Equal(t, "invalid_url", res.Rule)
	assert.Equal(t, "HttpConnector url syntax is invalid please check", res.Detail())
}

func TestResult_DetailCollapsesWhitespace(t *testing.T) {
	res, ok := Classify("ok\r\n  url    syntax is invalid  \r\n> ", CommitRules)
	require.True(t, ok)
	assert.Equal(t, KindSyntax, res.Kind)
	assert.Equal(t, "url syntax is invalid", res.Detail())
}

func TestResult_Err(t *testing.T) {
	res, ok := Classify("user -r u9\r\nUnknown User: u9\r\njcli : ", ActionRules("User"))
	require.True(t, ok)

	err := res.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownObject))
	assert.False(t, errors.Is(err, ErrSyntax))
	assert.Equal(t, KindUnknownObject, KindOf(err))
	assert.Equal(t, "u9", DetailOf(err))

	res, ok = Classify("user -r u1\r\nSuccessfully removed User id:u1\r\njcli : ", ActionRules("User"))
	require.True(t, ok)
	assert.NoError(t, res.Err())
}

func TestResult_TrimEcho(t *testing.T) {
	res, ok := Classify("smppccm -1 c1\r\nFailed starting connector, check log for details\r\njcli : ", ActionRules("connector"))
	require.True(t, ok)
	res.trimEcho("smppccm -1 c1")
	assert.Equal(t, KindActionFailed, res.Kind)
	assert.Equal(t, "Failed starting connector, check log for details", res.Detail())
}

func TestResult_AtInteractivePrompt(t *testing.T) {
	res, _ := Classify("gid g1\r\n> ", StepRules)
	assert.True(t, res.AtInteractivePrompt())
	res, _ = Classify("persist\r\njcli : ", ReadyRules)
	assert.False(t, res.AtInteractivePrompt())
}

func TestKindFatal(t *testing.T) {
	for _, k := range []Kind{KindTransportTimeout, KindTransportError, KindAuthenticationFailed} {
		assert.True(t, k.Fatal(), k.String())
	}
	for _, k := range []Kind{KindUnknownObject, KindImmutableKey, KindUnknownKey, KindSyntax, KindClientInput, KindProtocolUsage, KindActionFailed} {
		assert.False(t, k.Fatal(), k.String())
	}
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Equal(t, KindOK, KindOf(nil))
	assert.Equal(t, KindTransportError, KindOf(errors.New("boom")))
}
