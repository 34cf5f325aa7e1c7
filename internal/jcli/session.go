package jcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mohesu/jasmin-api/internal/logutil"
	"github.com/ziutek/telnet"
)

// DefaultCloseGrace bounds how long Close waits for the backend to
// acknowledge "quit" before the connection is dropped.
const DefaultCloseGrace = 2 * time.Second

// Endpoint identifies one backend console.
type Endpoint struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e Endpoint) String() string { return e.Addr() }

// Credentials are treated as opaque strings; the password is never logged.
type Credentials struct {
	Username string
	Password string
	Timeout  time.Duration
}

// Console is the send/expect surface shared by sessions and test doubles.
type Console interface {
	Send(line string) error
	Expect(ctx context.Context, rules RuleSet, timeout time.Duration) (Result, error)
}

// Dialer opens the raw stream to a console. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// State is the lifecycle state of a Session.
type State int

const (
	StateConnecting State = iota
	StateAuthenticating
	StateReady
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is one authenticated console connection. It is driven by a single
// caller at a time: each command is classified before the next is sent.
type Session struct {
	id         string
	endpoint   Endpoint
	conn       net.Conn
	timeout    time.Duration
	closeGrace time.Duration

	out        *outputBuffer
	readerDone chan struct{}

	writeMu sync.Mutex

	mu    sync.Mutex
	state State

	closeOnce sync.Once
}

// Open connects to ep and walks the login cues until the ready prompt.
func Open(ctx context.Context, d Dialer, ep Endpoint, creds Credentials) (*Session, error) {
	if d == nil {
		d = &net.Dialer{}
	}
	timeout := creds.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s := &Session{
		id:         uuid.NewString()[:8],
		endpoint:   ep,
		timeout:    timeout,
		closeGrace: DefaultCloseGrace,
		out:        newOutputBuffer(0),
		readerDone: make(chan struct{}),
		state:      StateConnecting,
	}
	if timeout < s.closeGrace {
		s.closeGrace = timeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn, err := d.DialContext(dialCtx, "tcp", ep.Addr())
	if err != nil {
		s.setState(StateFailed, "dial")
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{Kind: KindTransportTimeout, Detail: "connect to " + ep.Addr(), Err: err}
		}
		return nil, &Error{Kind: KindTransportError, Detail: "connect to " + ep.Addr(), Err: err}
	}
	// Option negotiation is answered and stripped by the telnet layer.
	tc, err := telnet.NewConn(conn)
	if err != nil {
		conn.Close()
		s.setState(StateFailed, "dial")
		return nil, &Error{Kind: KindTransportError, Detail: "connect to " + ep.Addr(), Err: err}
	}
	s.conn = tc
	go s.readLoop()

	if err := s.login(ctx, creds); err != nil {
		s.setState(StateFailed, "login")
		s.shutdown()
		return nil, err
	}
	s.setState(StateReady, "login complete")
	return s, nil
}

func (s *Session) login(ctx context.Context, creds Credentials) error {
	s.setState(StateAuthenticating, "connected")

	if _, err := s.Expect(ctx, usernameRules, 0); err != nil {
		return err
	}
	if err := s.Send(creds.Username); err != nil {
		return err
	}
	if _, err := s.Expect(ctx, passwordRules, 0); err != nil {
		return err
	}
	if err := s.Send(creds.Password); err != nil {
		return err
	}

	res, err := s.Expect(ctx, loginRules, 0)
	if err != nil {
		if KindOf(err) == KindTransportError {
			return &Error{Kind: KindAuthenticationFailed, Detail: "stream closed before ready prompt", Err: errors.Unwrap(err)}
		}
		return err
	}
	if res.Kind != KindOK {
		return newError(KindAuthenticationFailed, res.Detail())
	}
	return nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Endpoint() Endpoint { return s.endpoint }

func (s *Session) String() string {
	return fmt.Sprintf("%s[%s]", s.endpoint.Addr(), s.id)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(to State, reason string) {
	s.mu.Lock()
	from := s.state
	s.state = to
	s.mu.Unlock()
	if from != to && (to == StateFailed || to == StateClosed) {
		log.Printf("[jcli] session %s: %s -> %s (%s)", s, from, to, reason)
	}
}

// Send writes one CRLF-terminated line without waiting for a reply. A line
// carrying its own CR or LF is refused before anything is written.
func (s *Session) Send(line string) error {
	if err := CheckLine(line); err != nil {
		return err
	}
	if s.conn == nil || s.State() == StateClosed {
		return newError(KindTransportError, "session closed")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.timeout))
	if _, err := s.conn.Write([]byte(line + "\r\n")); err != nil {
		return &Error{Kind: KindTransportError, Detail: "write to " + s.endpoint.Addr(), Err: err}
	}
	return nil
}

// Expect waits until one of rules matches the output received since the
// previous match. A zero timeout uses the session default.
func (s *Session) Expect(ctx context.Context, rules RuleSet, timeout time.Duration) (Result, error) {
	if timeout <= 0 {
		timeout = s.timeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		text, closed, streamErr := s.out.Snapshot()
		if res, ok := Classify(text, rules); ok {
			s.out.Consume(res.End)
			return res, nil
		}
		if closed {
			s.markFailed("eof")
			return Result{}, &Error{Kind: KindTransportError, Detail: "unexpected end of stream", Err: streamErr}
		}

		select {
		case <-s.out.Notify():
		case <-timer.C:
			s.markFailed("timeout")
			log.Printf("[jcli] session %s: no match after %s, pending output: %q",
				s, timeout, logutil.Truncate(logutil.SanitizeForLog(text), 200))
			return Result{}, newError(KindTransportTimeout, fmt.Sprintf("no reply from %s within %s", s.endpoint.Addr(), timeout))
		case <-ctx.Done():
			s.markFailed("cancelled")
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return Result{}, &Error{Kind: KindTransportTimeout, Detail: "operation deadline exceeded", Err: ctx.Err()}
			}
			return Result{}, &Error{Kind: KindTransportError, Detail: "operation cancelled", Err: ctx.Err()}
		}
	}
}

func (s *Session) markFailed(reason string) {
	if s.State() == StateClosed {
		return
	}
	s.setState(StateFailed, reason)
}

// Close says "quit", waits briefly for the backend to acknowledge, then drops
// the connection. It never fails and only acts once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.State() == StateReady {
			if err := s.Send("quit"); err == nil {
				ctx, cancel := context.WithTimeout(context.Background(), s.closeGrace)
				if _, err := s.Expect(ctx, ReadyRules, s.closeGrace); err != nil && KindOf(err) != KindTransportError {
					log.Printf("[jcli] session %s: quit not acknowledged: %v", s, err)
				}
				cancel()
			} else {
				log.Printf("[jcli] session %s: send quit: %v", s, err)
			}
		}
		s.shutdown()
		s.setState(StateClosed, "close")
	})
}

func (s *Session) shutdown() {
	if s.conn == nil {
		return
	}
	if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Printf("[jcli] session %s: close connection: %v", s, err)
	}
	<-s.readerDone
}

func (s *Session) readLoop() {
	defer close(s.readerDone)
	buf := make([]byte, 4096)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			// CR NUL is a bare carriage return
			s.out.Write(bytes.ReplaceAll(buf[:n], []byte{0}, nil))
		}
		if err != nil {
			s.out.CloseWithError(err)
			return
		}
	}
}
