// Package jasmin maps gateway resources (groups, users, filters, routes and
// connectors) onto jcli console commands.
package jasmin

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mohesu/jasmin-api/internal/jcli"
)

// Service issues commands against one primary console and reloads the
// replicas after each durable mutation. A Service lives for one request.
type Service struct {
	primary       jcli.Console
	replicas      []jcli.Console
	reloadTimeout time.Duration
	onPropagate   func(jcli.Report)

	open     func(context.Context) (*jcli.Pool, error)
	openOnce sync.Once
	openErr  error
}

type Option func(*Service)

// WithReloadTimeout bounds each replica reload. Zero keeps the session default.
func WithReloadTimeout(d time.Duration) Option {
	return func(s *Service) { s.reloadTimeout = d }
}

// WithPropagationHook is called with the outcome of every replica reload round.
func WithPropagationHook(fn func(jcli.Report)) Option {
	return func(s *Service) { s.onPropagate = fn }
}

func NewService(primary jcli.Console, replicas []jcli.Console, opts ...Option) *Service {
	s := &Service{primary: primary, replicas: replicas}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FromPool builds a Service over an open pool.
func FromPool(p *jcli.Pool, opts ...Option) *Service {
	return NewService(p.Primary(), p.Replicas(), opts...)
}

// Connect builds a Service whose pool is opened by open on the first console
// exchange. Requests rejected by input checks never call open.
func Connect(open func(context.Context) (*jcli.Pool, error), opts ...Option) *Service {
	s := NewService(nil, nil, opts...)
	s.open = open
	return s
}

// ready opens the pool of a connecting Service, once.
func (s *Service) ready(ctx context.Context) error {
	if s.open == nil {
		return nil
	}
	s.openOnce.Do(func() {
		p, err := s.open(ctx)
		if err != nil {
			s.openErr = err
			return
		}
		s.primary, s.replicas = p.Primary(), p.Replicas()
	})
	return s.openErr
}

func (s *Service) run(ctx context.Context, line string, rules jcli.RuleSet) (jcli.Result, error) {
	if err := jcli.CheckLine(line); err != nil {
		return jcli.Result{}, err
	}
	if err := s.ready(ctx); err != nil {
		return jcli.Result{}, err
	}
	return jcli.Run(ctx, s.primary, line, rules)
}

// rows lists a table on the primary.
func (s *Service) rows(ctx context.Context, cmd string, clean bool) ([][]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return rows(ctx, s.primary, cmd, clean)
}

// commit persists the primary configuration, then asks replicas to reload.
// Replica failures never fail the mutation.
func (s *Service) commit(ctx context.Context) error {
	if err := jcli.Persist(ctx, s.primary); err != nil {
		return err
	}
	report := jcli.Propagate(ctx, s.replicas, s.reloadTimeout)
	if s.onPropagate != nil {
		s.onPropagate(report)
	}
	return nil
}

// action runs "<cmd> <flag> <id>" and commits on success.
func (s *Service) action(ctx context.Context, cmd, flag, id, label string) error {
	if strings.TrimSpace(id) == "" {
		return jcli.Errorf(jcli.KindClientInput, "missing %s identifier", strings.ToLower(label))
	}
	if _, err := s.run(ctx, fmt.Sprintf("%s %s %s", cmd, flag, id), jcli.ActionRules(label)); err != nil {
		return err
	}
	return s.commit(ctx)
}

// create opens an add dialogue, submits draft and commits.
func (s *Service) create(ctx context.Context, d jcli.Dialect, draft jcli.Draft) error {
	if err := draft.Check(); err != nil {
		return err
	}
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := jcli.Interact(ctx, s.primary, d, draft); err != nil {
		return err
	}
	return s.commit(ctx)
}

// rows lists a table and returns its '#'-prefixed rows as fields.
func rows(ctx context.Context, c jcli.Console, cmd string, clean bool) ([][]string, error) {
	res, err := jcli.Run(ctx, c, cmd+" -l", jcli.ListRules)
	if err != nil {
		return nil, err
	}
	lines := jcli.TableLines(res.Text)
	if clean {
		cleaned := make([]string, 0, len(lines))
		for _, l := range lines {
			if l == "" {
				continue
			}
			cleaned = append(cleaned, strings.ReplaceAll(strings.ReplaceAll(l, ", ", ","), "(!)", ""))
		}
		lines = cleaned
	}
	return jcli.SplitCols(lines), nil
}

func requireFields(fields ...[2]string) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) > 0 {
		return jcli.Errorf(jcli.KindClientInput, "missing parameter: %s is required", strings.Join(missing, ", "))
	}
	return nil
}

func field(name, value string) [2]string { return [2]string{name, value} }
