package jcli

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	iac  = 255
	will = 251
	echo = 1
	sga  = 3
)

// negotiatingConsole speaks the login exchange over a real socket and
// interleaves option negotiation with the cues. Every line the client sent, negotiation bytes included, is
// delivered on got.
func negotiatingConsole(ln net.Listener, got chan<- [][]byte) {
	c, err := ln.Accept()
	if err != nil {
		close(got)
		return
	}
	defer c.Close()
	r := bufio.NewReader(c)
	var lines [][]byte
	readLine := func() bool {
		l, err := r.ReadBytes('\n')
		if err != nil {
			return false
		}
		lines = append(lines, l)
		return true
	}

	c.Write(append([]byte{iac, will, echo, iac, will, sga}, "Authentication required.\r\n\r\nUsername: "...))
	if readLine() {
		c.Write([]byte("Password: "))
		if readLine() {
			c.Write([]byte("\r\nWelcome to Jasmin console\r\n\x00jcli : "))
			readLine()
		}
	}
	got <- lines
}

func TestOpen_TelnetNegotiationIsStripped(t *testing.T) {
	defer goleak.VerifyNone(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	got := make(chan [][]byte, 1)
	go negotiatingConsole(ln, got)

	addr := ln.Addr().(*net.TCPAddr)
	s, err := Open(context.Background(), &net.Dialer{}, Endpoint{Host: "127.0.0.1", Port: addr.Port}, testCreds)
	require.NoError(t, err)
	assert.Equal(t, StateReady, s.State())
	s.Close()

	lines := <-got
	require.Len(t, lines, 3)
	user := lines[0]
	assert.True(t, bytes.HasSuffix(user, []byte("jcliadmin\r\n")), "got %q", user)
	if prefix := bytes.TrimSuffix(user, []byte("jcliadmin\r\n")); len(prefix) > 0 {
		assert.Equal(t, byte(iac), prefix[0], "negotiation reply expected before the username, got %q", prefix)
	}
	assert.Equal(t, "jclipwd\r\n", string(lines[1]))
	assert.Equal(t, "quit\r\n", string(lines[2]))
}
