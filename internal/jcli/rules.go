package jcli

import "regexp"

const (
	UsernameCue       = "Username: "
	PasswordCue       = "Password: "
	ReadyPrompt       = "jcli : "
	InteractivePrompt = "> "
)

var (
	ready       = regexp.QuoteMeta(ReadyPrompt)
	interactive = regexp.QuoteMeta(InteractivePrompt)
	anyPrompt   = "(?:" + interactive + "|" + ready + ")"
)

var (
	usernameRules = RuleSet{
		NewRule("username", regexp.QuoteMeta(UsernameCue), KindOK),
	}
	passwordRules = RuleSet{
		NewRule("password", regexp.QuoteMeta(PasswordCue), KindOK),
	}
	loginRules = RuleSet{
		NewRule("rejected", `(Incorrect Username/Password[^\n]*)`, KindAuthenticationFailed),
		NewRule("ready", ready, KindOK),
		NewRule("reprompt", regexp.QuoteMeta(UsernameCue), KindAuthenticationFailed),
	}
)

// ReadyRules waits for the console to return to the top-level prompt.
var ReadyRules = RuleSet{
	NewRule("ready", `.*`+ready, KindOK),
}

// ListRules captures a listing reply up to the prompt that follows it.
var ListRules = RuleSet{
	NewRule("listing", `(.+)\n`+ready, KindOK),
}

// StepRules classifies the reply to one "<key> <value>" line inside an
// interactive dialogue.
var StepRules = RuleSet{
	NewRule("unknown_key", `.*(Unknown .*)`+interactive, KindUnknownKey),
	NewRule("immutable", `(.*) can not be modified.*`+interactive, KindImmutableKey),
	NewRule("accepted", `(.*)`+interactive, KindOK),
	NewRule("error", `.*(Error:.*)`+ready, KindSyntax),
	NewRule("dropped", `(.+)`+ready, KindProtocolUsage),
}

// CommitRules classifies the reply to the "ok" token that closes a dialogue.
var CommitRules = RuleSet{
	NewRule("invalid", `ok(.* syntax is invalid).*`+interactive, KindSyntax),
	NewRule("error", `.*(Error:.*)`+ready, KindSyntax),
	NewRule("incomplete", `(.*)`+interactive, KindSyntax),
	NewRule("saved", `.*`+ready, KindOK),
}

// HTTPConnectorCommitRules adds the connector-specific validation messages
// ahead of the generic commit outcomes.
var HTTPConnectorCommitRules = append(RuleSet{
	NewRule("invalid_url", `.*(HttpConnector url syntax is invalid.*)`+interactive, KindSyntax),
	NewRule("invalid_method", `.*(HttpConnector method syntax is invalid, must be GET or POST.*)`+interactive, KindSyntax),
}, CommitRules...)

// ShowRules classifies "<cmd> -s <id>" replies. label is the noun the
// backend uses in its "Unknown <label>:" message.
func ShowRules(label string) RuleSet {
	return RuleSet{
		NewRule("unknown", `.+Unknown `+regexp.QuoteMeta(label)+`:.*`+ready, KindUnknownObject),
		NewRule("usage", `.+Usage:.*`+ready, KindUnknownObject),
		NewRule("found", `(.+)\n`+ready, KindOK),
	}
}

// ActionRules classifies single-shot actions such as remove, enable or
// start. The fallback captures whatever the backend said instead.
func ActionRules(label string) RuleSet {
	return RuleSet{
		NewRule("success", `.+Successfully(.+)`+ready, KindOK),
		NewRule("unknown", `.+Unknown `+regexp.QuoteMeta(label)+`: (.+)`+ready, KindUnknownObject),
		NewRule("failed", `(.+)`+ready, KindActionFailed),
	}
}

// AddRules classifies the reply to an "add" command that opens a dialogue.
// banner is the line the backend prints when the dialogue starts.
func AddRules(banner string) RuleSet {
	return RuleSet{
		NewRule("opened", `.*`+regexp.QuoteMeta(banner)+`(.*)`+interactive, KindOK),
		NewRule("unexpected", `(.+)`+anyPrompt, KindProtocolUsage),
	}
}

// UpdateRules classifies the reply to an "update" command that opens a
// dialogue on an existing object.
func UpdateRules(banner, label string) RuleSet {
	return RuleSet{
		NewRule("opened", `.*`+regexp.QuoteMeta(banner)+`(.*)`+interactive, KindOK),
		NewRule("unknown", `.*Unknown `+regexp.QuoteMeta(label)+`: (.*)`+ready, KindUnknownObject),
		NewRule("unexpected", `(.+)`+anyPrompt, KindProtocolUsage),
	}
}
