package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	dockerclient "github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/mohesu/jasmin-api/internal/jcli"
)

// dockerAPI is the part of the Docker client the resolver needs.
type dockerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
}

// DockerResolver finds running containers carrying a label and resolves the
// address their console port is reachable at.
type DockerResolver struct {
	client      dockerAPI
	label       string
	consolePort nat.Port
	fallback    string
}

// NewDockerResolver wraps client. consolePort is in "8990/tcp" form;
// fallbackHost replaces unspecified binding addresses.
func NewDockerResolver(client dockerAPI, label, consolePort, fallbackHost string) (*DockerResolver, error) {
	proto, port := nat.SplitProtoPort(consolePort)
	p, err := nat.NewPort(proto, port)
	if err != nil {
		return nil, fmt.Errorf("console port %q: %w", consolePort, err)
	}
	return &DockerResolver{client: client, label: label, consolePort: p, fallback: fallbackHost}, nil
}

func InitDocker(ctx context.Context, host, label, consolePort, fallbackHost string) (*DockerResolver, error) {
	opts := []dockerclient.Opt{dockerclient.FromEnv, dockerclient.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, dockerclient.WithHost(host))
	}
	cli, err := dockerclient.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	if _, err := cli.Ping(ctx); err != nil {
		return nil, fmt.Errorf("docker ping: %w", err)
	}
	log.Println("Docker daemon connected")
	return NewDockerResolver(cli, label, consolePort, fallbackHost)
}

func (d *DockerResolver) BackendName() string {
	return "docker"
}

func (d *DockerResolver) Resolve(ctx context.Context) ([]jcli.Endpoint, error) {
	containers, err := d.client.ContainerList(ctx, container.ListOptions{
		Filters: filters.NewArgs(
			filters.Arg("label", d.label),
			filters.Arg("status", "running"),
		),
	})
	if err != nil {
		return nil, jcli.Errorf(jcli.KindTransportError, "list containers: %v", err)
	}
	sort.Slice(containers, func(i, j int) bool { return containerName(containers[i]) < containerName(containers[j]) })

	var eps []jcli.Endpoint
	for _, c := range containers {
		ep, ok, err := d.endpoint(ctx, c.ID)
		if err != nil {
			log.Printf("[discovery] inspect %s: %v", containerName(c), err)
			continue
		}
		if !ok {
			log.Printf("[discovery] %s does not expose %s", containerName(c), d.consolePort)
			continue
		}
		eps = append(eps, ep)
	}
	if len(eps) == 0 {
		return nil, noBackend("no backend available: no running container labelled %q exposes %s", d.label, d.consolePort)
	}
	return eps, nil
}

// endpoint prefers a published host binding and falls back to the
// container address on a shared network.
func (d *DockerResolver) endpoint(ctx context.Context, id string) (jcli.Endpoint, bool, error) {
	inspect, err := d.client.ContainerInspect(ctx, id)
	if err != nil {
		return jcli.Endpoint{}, false, err
	}
	if inspect.NetworkSettings == nil {
		return jcli.Endpoint{}, false, nil
	}
	for _, b := range inspect.NetworkSettings.Ports[d.consolePort] {
		port, err := strconv.Atoi(b.HostPort)
		if err != nil || port == 0 {
			continue
		}
		host := b.HostIP
		if host == "" || host == "0.0.0.0" || host == "::" {
			host = d.fallback
		}
		return jcli.Endpoint{Host: host, Port: port}, true, nil
	}
	if _, exposed := inspect.NetworkSettings.Ports[d.consolePort]; !exposed {
		return jcli.Endpoint{}, false, nil
	}
	names := make([]string, 0, len(inspect.NetworkSettings.Networks))
	for name := range inspect.NetworkSettings.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if n := inspect.NetworkSettings.Networks[name]; n != nil && n.IPAddress != "" {
			return jcli.Endpoint{Host: n.IPAddress, Port: d.consolePort.Int()}, true, nil
		}
	}
	return jcli.Endpoint{}, false, nil
}

func containerName(c container.Summary) string {
	if len(c.Names) > 0 {
		return strings.TrimPrefix(c.Names[0], "/")
	}
	return c.ID
}
