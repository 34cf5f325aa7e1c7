package jcli

import (
	"context"
	"log"
	"strings"

	"github.com/mohesu/jasmin-api/internal/logutil"
)

// Tokens understood inside and around interactive dialogues.
const (
	CommitToken  = "ok"
	AbortToken   = "ko"
	PersistToken = "persist"
	ReloadToken  = "load"
	QuitToken    = "quit"
)

// Run sends one command line and classifies the reply.
func Run(ctx context.Context, c Console, line string, rules RuleSet) (Result, error) {
	if err := CheckLine(line); err != nil {
		return Result{}, err
	}
	if err := c.Send(line); err != nil {
		return Result{}, err
	}
	res, err := c.Expect(ctx, rules, 0)
	if err != nil {
		return res, err
	}
	res.trimEcho(line)
	return res, res.Err()
}

// Persist makes the running configuration durable on the backend.
func Persist(ctx context.Context, c Console) error {
	_, err := Run(ctx, c, PersistToken, ReadyRules)
	return err
}

// Pair is one key/value line of an interactive dialogue.
type Pair struct {
	Key   string
	Value string
}

func (p Pair) Line() string {
	return strings.TrimSpace(p.Key + " " + p.Value)
}

// CheckLine rejects text that the console would read as more than one line.
func CheckLine(line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return newError(KindClientInput, "invalid value: line breaks are not allowed")
	}
	return nil
}

// Draft is submitted pair by pair in the order given.
type Draft []Pair

// Check reports a draft that could not be submitted as one line per pair.
func (d Draft) Check() error {
	if len(d) == 0 {
		return newError(KindClientInput, "nothing to submit")
	}
	for _, p := range d {
		if strings.ContainsAny(p.Key+p.Value, "\r\n") {
			return Errorf(KindClientInput, "invalid value for %s: line breaks are not allowed", strings.TrimSpace(p.Key))
		}
	}
	return nil
}

// Set appends a pair and returns the draft for chaining.
func (d Draft) Set(key, value string) Draft {
	return append(d, Pair{Key: key, Value: value})
}

// Dialect describes one interactive dialogue: the command that opens it and
// the rule sets for opening, each submitted pair and the final commit.
type Dialect struct {
	Begin  string
	Opened RuleSet
	Step   RuleSet
	Commit RuleSet
}

// Interact opens the dialogue, submits draft and commits it. On any
// non-fatal failure that leaves the console at the interactive prompt the
// dialogue is abandoned with "ko" so the session returns to the ready prompt.
func Interact(ctx context.Context, c Console, d Dialect, draft Draft) error {
	if err := draft.Check(); err != nil {
		return err
	}
	step := d.Step
	if step == nil {
		step = StepRules
	}
	commit := d.Commit
	if commit == nil {
		commit = CommitRules
	}

	res, err := Run(ctx, c, d.Begin, d.Opened)
	if err != nil {
		return abandon(ctx, c, res, err)
	}
	if !res.AtInteractivePrompt() {
		return newError(KindProtocolUsage, "dialogue did not open: "+res.Detail())
	}

	for _, p := range draft {
		res, err := Run(ctx, c, p.Line(), step)
		if err != nil {
			log.Printf("[jcli] %s: %q rejected: %v", d.Begin, logutil.SanitizeForLog(logutil.RedactPair(p.Key, p.Value)), err)
			return abandon(ctx, c, res, err)
		}
	}

	res, err = Run(ctx, c, CommitToken, commit)
	if err != nil {
		return abandon(ctx, c, res, err)
	}
	return nil
}

// abandon leaves a half-built dialogue. Fatal errors skip the cleanup since
// the session is torn down anyway.
func abandon(ctx context.Context, c Console, res Result, cause error) error {
	if KindOf(cause).Fatal() || !res.AtInteractivePrompt() {
		return cause
	}
	if _, err := Run(ctx, c, AbortToken, ReadyRules); err != nil {
		log.Printf("[jcli] abandon dialogue: %v", err)
	}
	return cause
}
