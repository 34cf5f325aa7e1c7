package jcli

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func endpoints(addrs ...int) []Endpoint {
	var out []Endpoint
	for _, p := range addrs {
		out = append(out, Endpoint{Host: "127.0.0.1", Port: p})
	}
	return out
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestOpenPool_Empty(t *testing.T) {
	_, err := OpenPool(context.Background(), nil, nil, testCreds)
	assert.True(t, errors.Is(err, ErrAuthenticationFailed))
	assert.Contains(t, err.Error(), "no backend available")
}

func TestOpenPool_PrimaryIsFirstReadyInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	// 8990 is not registered, so the first endpoint fails.
	n, _ := newTestNetwork("127.0.0.1:8991", "127.0.0.1:8992")
	p, err := OpenPool(context.Background(), endpoints(8990, 8991, 8992), n, testCreds)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, 2, p.Size())
	assert.Equal(t, 8991, p.Primary().Endpoint().Port)
	require.Len(t, p.Replicas(), 1)
	assert.Equal(t, 8992, p.Replicas()[0].(*Session).Endpoint().Port)
	assert.Len(t, p.Consoles(), 2)
}

func TestOpenPool_AllFailSameKind(t *testing.T) {
	defer goleak.VerifyNone(t)

	n, backends := newTestNetwork("127.0.0.1:8991", "127.0.0.1:8992")
	for _, b := range backends {
		b.Password = "other"
	}
	_, err := OpenPool(context.Background(), endpoints(8991, 8992), n, testCreds)
	assert.True(t, errors.Is(err, ErrAuthenticationFailed), "got %v", err)
}

func TestOpenPool_AllFailMixedKinds(t *testing.T) {
	defer goleak.VerifyNone(t)

	n, backends := newTestNetwork("127.0.0.1:8991")
	backends[0].Password = "other"
	_, err := OpenPool(context.Background(), endpoints(8990, 8991), n, testCreds)
	assert.Equal(t, KindAuthenticationFailed, KindOf(err))
	assert.Equal(t, "no backend available", DetailOf(err))
}

func TestPool_CloseClosesEverySessionOnce(t *testing.T) {
	defer goleak.VerifyNone(t)

	n, backends := newTestNetwork("127.0.0.1:8991", "127.0.0.1:8992", "127.0.0.1:8993")
	p, err := OpenPool(context.Background(), endpoints(8991, 8992, 8993), n, testCreds)
	require.NoError(t, err)

	p.Close()
	p.Close()
	for _, b := range backends {
		assert.Equal(t, 1, b.Count("quit"))
	}
	assert.Equal(t, StateClosed, p.Primary().State())
}

func TestPropagate_PartialReplicaFailure(t *testing.T) {
	defer goleak.VerifyNone(t)
	logs := captureLog(t)

	n, backends := newTestNetwork("127.0.0.1:8991", "127.0.0.1:8992", "127.0.0.1:8993")
	backends[2].Silence("load")
	p, err := OpenPool(context.Background(), endpoints(8991, 8992, 8993), n, testCreds)
	require.NoError(t, err)
	defer p.Close()

	primary := p.Primary()
	_, err = Run(context.Background(), primary, "group -l", ListRules)
	require.NoError(t, err)
	require.NoError(t, Persist(context.Background(), primary))

	report := Propagate(context.Background(), p.Replicas(), 50*time.Millisecond)

	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 1, report.Succeeded())
	require.Len(t, report.Failed, 1)
	assert.Contains(t, report.Failed[0].Replica, "127.0.0.1:8993")
	assert.True(t, errors.Is(report.Failed[0].Err, ErrTransportTimeout))
	assert.Equal(t, 1, strings.Count(logs.String(), "propagation failed"))

	assert.Equal(t, 0, backends[0].Loads())
	assert.Equal(t, 1, backends[1].Loads())
	assert.Equal(t, 1, backends[0].Persists())
}

func TestPropagate_NoReplicas(t *testing.T) {
	report := Propagate(context.Background(), nil, time.Second)
	assert.Equal(t, 0, report.Attempted)
	assert.Empty(t, report.Failed)
}
