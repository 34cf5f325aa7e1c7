package jcli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptConsole replays canned replies, one per Expect, and records sends.
type scriptConsole struct {
	sent    []string
	replies []string
}

func (c *scriptConsole) Send(line string) error {
	c.sent = append(c.sent, line)
	return nil
}

func (c *scriptConsole) Expect(ctx context.Context, rules RuleSet, timeout time.Duration) (Result, error) {
	if len(c.replies) == 0 {
		return Result{}, newError(KindTransportTimeout, "script exhausted")
	}
	text := c.replies[0]
	c.replies = c.replies[1:]
	res, ok := Classify(text, rules)
	if !ok {
		return Result{}, newError(KindTransportTimeout, "no rule matched "+text)
	}
	return res, nil
}

var filterDialect = Dialect{
	Begin:  "filter -a",
	Opened: AddRules("Adding a new Filter"),
}

func TestInteract_SubmitsInOrder(t *testing.T) {
	c := &scriptConsole{replies: []string{
		"filter -a\r\nAdding a new Filter: (ok: save, ko: exit)\r\n> ",
		"type userfilter\r\n> ",
		"fid f1\r\n> ",
		"uid u1\r\n> ",
		"ok\r\nSuccessfully added Filter [f1]\r\njcli : ",
	}}
	draft := Draft{}.Set("type", "userfilter").Set("fid", "f1").Set("uid", "u1")

	require.NoError(t, Interact(context.Background(), c, filterDialect, draft))
	assert.Equal(t, []string{"filter -a", "type userfilter", "fid f1", "uid u1", "ok"}, c.sent)
}

func TestInteract_UnknownKeyCleansUp(t *testing.T) {
	c := &scriptConsole{replies: []string{
		"group -a\r\nAdding a new Group: (ok: save, ko: exit)\r\n> ",
		"name g1\r\nUnknown Group key: name\r\n> ",
		"ko\r\njcli : ",
	}}
	d := Dialect{Begin: "group -a", Opened: AddRules("Adding a new Group")}

	err := Interact(context.Background(), c, d, Draft{}.Set("name", "g1").Set("gid", "g1"))
	assert.True(t, errors.Is(err, ErrUnknownKey), "got %v", err)
	assert.Equal(t, "Unknown Group key: name", DetailOf(err))
	assert.Equal(t, []string{"group -a", "name g1", AbortToken}, c.sent)
}

func TestInteract_ImmutableKeyCleansUp(t *testing.T) {
	c := &scriptConsole{replies: []string{
		"user -u u1\r\nUpdating User id [u1]: (ok: save, ko: exit)\r\n> ",
		"uid u2\r\nuid can not be modified.\r\n> ",
		"ko\r\njcli : ",
	}}
	d := Dialect{Begin: "user -u u1", Opened: UpdateRules("Updating User", "User")}

	err := Interact(context.Background(), c, d, Draft{}.Set("uid", "u2"))
	assert.True(t, errors.Is(err, ErrImmutableKey), "got %v", err)
	assert.Equal(t, AbortToken, c.sent[len(c.sent)-1])
}

func TestInteract_ErrorAtReadyPromptSkipsCleanup(t *testing.T) {
	c := &scriptConsole{replies: []string{
		"smppccm -u c1\r\nUpdating connector id [c1]: (ok: save, ko: exit)\r\n> ",
		"port 0\r\nError: port syntax is invalid\r\njcli : ",
	}}
	d := Dialect{Begin: "smppccm -u c1", Opened: UpdateRules("Updating connector", "connector")}

	err := Interact(context.Background(), c, d, Draft{}.Set("port", "0"))
	assert.True(t, errors.Is(err, ErrSyntax), "got %v", err)
	assert.Equal(t, "Error: port syntax is invalid", DetailOf(err))
	assert.Equal(t, []string{"smppccm -u c1", "port 0"}, c.sent)
}

func TestInteract_CommitRejected(t *testing.T) {
	c := &scriptConsole{replies: []string{
		"httpccm -a\r\nAdding a new Httpcc: (ok: save, ko: exit)\r\n> ",
		"cid h1\r\n> ",
		"url ftp://x\r\n> ",
		"ok\r\nHttpConnector url syntax is invalid\r\n> ",
		"ko\r\njcli : ",
	}}
	d := Dialect{Begin: "httpccm -a", Opened: AddRules("Adding a new Httpcc"), Commit: HTTPConnectorCommitRules}

	err := Interact(context.Background(), c, d, Draft{}.Set("cid", "h1").Set("url", "ftp://x"))
	assert.True(t, errors.Is(err, ErrSyntax), "got %v", err)
	assert.Equal(t, "HttpConnector url syntax is invalid", DetailOf(err))
	assert.Equal(t, []string{"httpccm -a", "cid h1", "url ftp://x", CommitToken, AbortToken}, c.sent)
}

func TestInteract_UnknownTarget(t *testing.T) {
	c := &scriptConsole{replies: []string{
		"user -u ghost\r\nUnknown User: ghost\r\njcli : ",
	}}
	d := Dialect{Begin: "user -u ghost", Opened: UpdateRules("Updating User", "User")}

	err := Interact(context.Background(), c, d, Draft{}.Set("gid", "g2"))
	assert.True(t, errors.Is(err, ErrUnknownObject), "got %v", err)
	assert.Equal(t, []string{"user -u ghost"}, c.sent)
}

func TestInteract_UnexpectedOpenIsProtocolUsage(t *testing.T) {
	c := &scriptConsole{replies: []string{
		"group -a\r\nIncorrect command: group\r\njcli : ",
	}}
	d := Dialect{Begin: "group -a", Opened: AddRules("Adding a new Group")}

	err := Interact(context.Background(), c, d, Draft{}.Set("gid", "g1"))
	assert.True(t, errors.Is(err, ErrProtocolUsage), "got %v", err)
}

func TestInteract_EmptyDraftNeverSends(t *testing.T) {
	c := &scriptConsole{}
	err := Interact(context.Background(), c, filterDialect, nil)
	assert.Equal(t, KindClientInput, KindOf(err))
	assert.Empty(t, c.sent)
}

func TestInteract_TransportFailureSkipsCleanup(t *testing.T) {
	c := &scriptConsole{replies: []string{
		"group -a\r\nAdding a new Group: (ok: save, ko: exit)\r\n> ",
	}}
	d := Dialect{Begin: "group -a", Opened: AddRules("Adding a new Group")}

	err := Interact(context.Background(), c, d, Draft{}.Set("gid", "g1"))
	assert.True(t, errors.Is(err, ErrTransportTimeout))
	assert.Equal(t, []string{"group -a", "gid g1"}, c.sent)
}

func TestPersist(t *testing.T) {
	c := &scriptConsole{replies: []string{"persist\r\nPersisted\r\njcli : "}}
	require.NoError(t, Persist(context.Background(), c))
	assert.Equal(t, []string{PersistToken}, c.sent)
}

func TestRun_RejectsLineBreaks(t *testing.T) {
	for _, line := range []string{"group -e g0\r\ngroup -r g9", "group -e g0\ngroup -r g9", "group -e g0\r"} {
		c := &scriptConsole{replies: []string{"jcli : "}}
		_, err := Run(context.Background(), c, line, ReadyRules)
		assert.Equal(t, KindClientInput, KindOf(err), "line %q", line)
		assert.Empty(t, c.sent, "line %q", line)
	}
}

func TestInteract_LineBreakInValueNeverOpens(t *testing.T) {
	c := &scriptConsole{}
	d := Dialect{Begin: "group -a", Opened: AddRules("Adding a new Group")}

	err := Interact(context.Background(), c, d, Draft{}.Set("gid", "g1\r\ngroup -r g9"))
	assert.Equal(t, KindClientInput, KindOf(err))
	assert.Equal(t, "invalid value for gid: line breaks are not allowed", DetailOf(err))
	assert.Empty(t, c.sent)
}
