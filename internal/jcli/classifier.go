package jcli

import (
	"regexp"
	"strings"
)

// Rule pairs a matcher with the outcome it stands for.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Kind    Kind
}

// RuleSet is evaluated top to bottom and the first matching rule wins.
// Several rules commonly match the same text, so order is significant.
type RuleSet []Rule

// NewRule compiles expr in dot-all mode so that a pattern can span the
// multi-line output that precedes a prompt.
func NewRule(name, expr string, kind Kind) Rule {
	return Rule{
		Name:    name,
		Pattern: regexp.MustCompile("(?s)" + expr),
		Kind:    kind,
	}
}

// Result describes which rule matched and what it captured.
type Result struct {
	Index  int
	Rule   string
	Kind   Kind
	Text   string
	Groups []string
	End    int
}

// Classify evaluates rules against buf and returns the first match. It is
// pure; a false return means the caller should keep reading.
func Classify(buf string, rules RuleSet) (Result, bool) {
	for i, r := range rules {
		loc := r.Pattern.FindStringSubmatchIndex(buf)
		if loc == nil {
			continue
		}
		res := Result{
			Index: i,
			Rule:  r.Name,
			Kind:  r.Kind,
			Text:  buf[loc[0]:loc[1]],
			End:   loc[1],
		}
		for g := 2; g+1 < len(loc); g += 2 {
			if loc[g] < 0 {
				res.Groups = append(res.Groups, "")
				continue
			}
			res.Groups = append(res.Groups, buf[loc[g]:loc[g+1]])
		}
		return res, true
	}
	return Result{}, false
}

// Group returns capture group i (1-based), or "" if absent.
func (r Result) Group(i int) string {
	if i < 1 || i > len(r.Groups) {
		return ""
	}
	return r.Groups[i-1]
}

// Detail is the first non-blank capture with whitespace runs collapsed.
// Backends pad their tables, so raw captures are unsuitable as messages.
func (r Result) Detail() string {
	for _, g := range r.Groups {
		if d := CollapseSpace(g); d != "" {
			return d
		}
	}
	return CollapseSpace(strings.TrimSuffix(strings.TrimSuffix(r.Text, ReadyPrompt), InteractivePrompt))
}

// AtInteractivePrompt reports whether the matched text leaves the console
// waiting inside an interactive dialogue.
func (r Result) AtInteractivePrompt() bool {
	return strings.HasSuffix(r.Text, InteractivePrompt)
}

// Err converts a non-success outcome into a structured error.
func (r Result) Err() error {
	if r.Kind == KindOK {
		return nil
	}
	return newError(r.Kind, r.Detail())
}

// trimEcho drops the echoed command line from the head of every capture so
// that error details carry only the backend's reply.
func (r *Result) trimEcho(line string) {
	if line == "" {
		return
	}
	for i, g := range r.Groups {
		trimmed := strings.TrimLeft(g, " \r\n")
		if strings.HasPrefix(trimmed, line) {
			r.Groups[i] = strings.TrimPrefix(trimmed, line)
		}
	}
}

// CollapseSpace trims s and folds every whitespace run into one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
