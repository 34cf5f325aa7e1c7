package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/go-connections/nat"
	"github.com/mohesu/jasmin-api/internal/config"
	"github.com/mohesu/jasmin-api/internal/jcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestStaticResolver(t *testing.T) {
	r := &StaticResolver{Endpoints: []jcli.Endpoint{{Host: "a", Port: 1}}}
	eps, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []jcli.Endpoint{{Host: "a", Port: 1}}, eps)
	assert.Equal(t, "static", r.BackendName())

	_, err = (&StaticResolver{}).Resolve(context.Background())
	assert.True(t, errors.Is(err, jcli.ErrAuthenticationFailed))
}

func TestPortsResolver(t *testing.T) {
	eps, err := NewPortsResolver("jasmin", []int{8990, 8991}).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []jcli.Endpoint{{Host: "jasmin", Port: 8990}, {Host: "jasmin", Port: 8991}}, eps)
}

func TestLoadEndpointsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints:\n  - host: 10.0.0.5\n  - host: 10.0.0.6\n    port: 9000\n"), 0644))

	r, err := LoadEndpointsFile(path, 8990)
	require.NoError(t, err)
	assert.Equal(t, []jcli.Endpoint{{Host: "10.0.0.5", Port: 8990}, {Host: "10.0.0.6", Port: 9000}}, r.Endpoints)

	require.NoError(t, os.WriteFile(path, []byte("endpoints:\n  - port: 1\n"), 0644))
	_, err = LoadEndpointsFile(path, 8990)
	assert.Error(t, err)
}

func pod(name, ip string, phase corev1.PodPhase) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "jasmin", Labels: map[string]string{"jasmin": "true"}},
		Status:     corev1.PodStatus{Phase: phase, PodIP: ip},
	}
}

func TestKubernetesResolver(t *testing.T) {
	cs := fake.NewSimpleClientset(
		pod("jasmin-b", "10.1.0.2", corev1.PodRunning),
		pod("jasmin-a", "10.1.0.1", corev1.PodRunning),
		pod("jasmin-c", "", corev1.PodPending),
	)
	r := NewKubernetesResolver(cs, "jasmin", "jasmin", 8990)

	eps, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []jcli.Endpoint{{Host: "10.1.0.1", Port: 8990}, {Host: "10.1.0.2", Port: 8990}}, eps)
}

func TestKubernetesResolver_NoPods(t *testing.T) {
	r := NewKubernetesResolver(fake.NewSimpleClientset(), "jasmin", "jasmin", 8990)
	_, err := r.Resolve(context.Background())
	assert.True(t, errors.Is(err, jcli.ErrAuthenticationFailed), "got %v", err)
	assert.Contains(t, err.Error(), "no backend available")
}

type fakeDocker struct {
	list    []container.Summary
	inspect map[string]container.InspectResponse
	opts    container.ListOptions
}

func (f *fakeDocker) ContainerList(_ context.Context, opts container.ListOptions) ([]container.Summary, error) {
	f.opts = opts
	return f.list, nil
}

func (f *fakeDocker) ContainerInspect(_ context.Context, id string) (container.InspectResponse, error) {
	resp, ok := f.inspect[id]
	if !ok {
		return container.InspectResponse{}, errors.New("no such container")
	}
	return resp, nil
}

func inspectWith(ports nat.PortMap, networks map[string]*network.EndpointSettings) container.InspectResponse {
	ns := &container.NetworkSettings{Networks: networks}
	ns.Ports = ports
	return container.InspectResponse{NetworkSettings: ns}
}

func TestDockerResolver(t *testing.T) {
	fd := &fakeDocker{
		list: []container.Summary{
			{ID: "c3", Names: []string{"/jasmin-3"}},
			{ID: "c1", Names: []string{"/jasmin-1"}},
			{ID: "c2", Names: []string{"/jasmin-2"}},
			{ID: "gone", Names: []string{"/jasmin-4"}},
		},
		inspect: map[string]container.InspectResponse{
			"c1": inspectWith(nat.PortMap{"8990/tcp": {{HostIP: "0.0.0.0", HostPort: "18990"}}}, nil),
			"c2": inspectWith(nat.PortMap{"8990/tcp": nil}, map[string]*network.EndpointSettings{
				"jasmin": {IPAddress: "172.18.0.5"},
			}),
			"c3": inspectWith(nat.PortMap{"22/tcp": nil}, nil),
		},
	}
	r, err := NewDockerResolver(fd, "jasmin", "8990/tcp", "docker-host")
	require.NoError(t, err)

	eps, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []jcli.Endpoint{
		{Host: "docker-host", Port: 18990},
		{Host: "172.18.0.5", Port: 8990},
	}, eps)
	assert.Equal(t, []string{"jasmin"}, fd.opts.Filters.Get("label"))
	assert.Equal(t, []string{"running"}, fd.opts.Filters.Get("status"))
}

func TestDockerResolver_NothingExposed(t *testing.T) {
	r, err := NewDockerResolver(&fakeDocker{}, "jasmin", "8990/tcp", "localhost")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background())
	assert.True(t, errors.Is(err, jcli.ErrAuthenticationFailed))
}

func TestNewResolver(t *testing.T) {
	cfg := config.Settings{Discovery: "static", TelnetHost: "jasmin", TelnetPort: 8990}
	r, err := newResolver(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "static", r.BackendName())

	cfg.Discovery = "ports"
	_, err = newResolver(context.Background(), cfg)
	assert.Error(t, err)

	cfg.DockerPorts = []int{1, 2}
	r, err = newResolver(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "ports", r.BackendName())

	cfg.Discovery = "consul"
	_, err = newResolver(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	t.Cleanup(ResetForTest)
	r := &StaticResolver{}
	SetForTest(r)
	assert.Same(t, r, Get())
	ResetForTest()
	assert.Nil(t, Get())
}
