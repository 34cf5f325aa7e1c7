package jcli

import (
	"context"
	"log"
	"sync"
)

// Pool holds the sessions opened for one operation. The primary receives
// every mutation; replicas are only asked to reload afterwards.
type Pool struct {
	sessions  []*Session
	closeOnce sync.Once
}

// OpenPool opens a session to every endpoint concurrently. The primary is
// the successful session that comes first in endpoint order. The pool
// fails as a whole when no session reaches the ready prompt.
func OpenPool(ctx context.Context, endpoints []Endpoint, d Dialer, creds Credentials) (*Pool, error) {
	if len(endpoints) == 0 {
		return nil, newError(KindAuthenticationFailed, "no backend available")
	}

	sessions := make([]*Session, len(endpoints))
	errs := make([]error, len(endpoints))
	var wg sync.WaitGroup
	for i, ep := range endpoints {
		wg.Add(1)
		go func(i int, ep Endpoint) {
			defer wg.Done()
			sessions[i], errs[i] = Open(ctx, d, ep, creds)
		}(i, ep)
	}
	wg.Wait()

	p := &Pool{}
	for i, s := range sessions {
		if errs[i] != nil {
			log.Printf("[jcli] open %s: %v", endpoints[i], errs[i])
			continue
		}
		p.sessions = append(p.sessions, s)
	}
	if len(p.sessions) == 0 {
		return nil, poolError(errs)
	}
	if ctx.Err() != nil {
		p.Close()
		return nil, &Error{Kind: KindTransportError, Detail: "operation cancelled", Err: ctx.Err()}
	}
	return p, nil
}

// poolError reports the shared failure kind when every attempt failed the
// same way, otherwise the generic "no backend available".
func poolError(errs []error) error {
	kind := KindOf(errs[0])
	for _, err := range errs[1:] {
		if KindOf(err) != kind {
			return newError(KindAuthenticationFailed, "no backend available")
		}
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return &Error{Kind: kind, Detail: "no backend available", Err: errs[0]}
}

func (p *Pool) Primary() *Session { return p.sessions[0] }

// Replicas returns the non-primary sessions as consoles.
func (p *Pool) Replicas() []Console {
	out := make([]Console, 0, len(p.sessions)-1)
	for _, s := range p.sessions[1:] {
		out = append(out, s)
	}
	return out
}

// Consoles returns every session, primary first.
func (p *Pool) Consoles() []Console {
	out := make([]Console, 0, len(p.sessions))
	for _, s := range p.sessions {
		out = append(out, s)
	}
	return out
}

func (p *Pool) Size() int { return len(p.sessions) }

// Close closes every session concurrently. Safe to call more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		var wg sync.WaitGroup
		for _, s := range p.sessions {
			wg.Add(1)
			go func(s *Session) {
				defer wg.Done()
				s.Close()
			}(s)
		}
		wg.Wait()
	})
}
