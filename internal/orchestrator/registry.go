package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/mohesu/jasmin-api/internal/config"
	"github.com/mohesu/jasmin-api/internal/jcli"
)

var (
	current EndpointResolver
	mu      sync.RWMutex
)

// InitResolver selects the discovery backend named by config.Cfg.Discovery.
func InitResolver(ctx context.Context) error {
	r, err := newResolver(ctx, config.Cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	current = r
	mu.Unlock()
	log.Printf("Discovery: using %s backend", r.BackendName())
	return nil
}

func newResolver(ctx context.Context, cfg config.Settings) (EndpointResolver, error) {
	switch cfg.Discovery {
	case "", "static":
		if cfg.EndpointsFile != "" {
			return LoadEndpointsFile(cfg.EndpointsFile, cfg.TelnetPort)
		}
		return &StaticResolver{Endpoints: []jcli.Endpoint{{Host: cfg.TelnetHost, Port: cfg.TelnetPort}}}, nil
	case "ports":
		if len(cfg.DockerPorts) == 0 {
			return nil, fmt.Errorf("discovery %q needs DOCKER_PORTS", cfg.Discovery)
		}
		return NewPortsResolver(cfg.TelnetHost, cfg.DockerPorts), nil
	case "kubernetes":
		return InitKubernetes(ctx, cfg.K8sNamespace, cfg.K8sLabelSelector, cfg.TelnetPort)
	case "docker":
		return InitDocker(ctx, cfg.DockerHost, cfg.DockerLabel, cfg.DockerConsolePort, cfg.TelnetHost)
	}
	return nil, fmt.Errorf("unknown discovery backend %q", cfg.Discovery)
}

func Get() EndpointResolver {
	mu.RLock()
	defer mu.RUnlock()
	return current
}
