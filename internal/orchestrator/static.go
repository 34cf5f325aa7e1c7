package orchestrator

import (
	"context"
	"fmt"
	"os"

	"github.com/mohesu/jasmin-api/internal/jcli"
	"gopkg.in/yaml.v3"
)

// StaticResolver returns a fixed endpoint list.
type StaticResolver struct {
	Name      string
	Endpoints []jcli.Endpoint
}

func (s *StaticResolver) BackendName() string {
	if s.Name == "" {
		return "static"
	}
	return s.Name
}

func (s *StaticResolver) Resolve(_ context.Context) ([]jcli.Endpoint, error) {
	if len(s.Endpoints) == 0 {
		return nil, noBackend("no backend available")
	}
	return append([]jcli.Endpoint(nil), s.Endpoints...), nil
}

// NewPortsResolver serves one host on several ports, the layout of a
// docker-compose deployment publishing each console on its own port.
func NewPortsResolver(host string, ports []int) *StaticResolver {
	r := &StaticResolver{Name: "ports"}
	for _, p := range ports {
		r.Endpoints = append(r.Endpoints, jcli.Endpoint{Host: host, Port: p})
	}
	return r
}

type endpointsFile struct {
	Endpoints []jcli.Endpoint `yaml:"endpoints"`
}

// LoadEndpointsFile reads a YAML document of the form
//
//	endpoints:
//	  - host: 10.0.0.5
//	    port: 8990
//
// Entries without a port use defaultPort.
func LoadEndpointsFile(path string, defaultPort int) (*StaticResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}
	var f endpointsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse endpoints file %s: %w", path, err)
	}
	r := &StaticResolver{Name: "file"}
	for i, ep := range f.Endpoints {
		if ep.Host == "" {
			return nil, fmt.Errorf("endpoints file %s: entry %d has no host", path, i)
		}
		if ep.Port == 0 {
			ep.Port = defaultPort
		}
		r.Endpoints = append(r.Endpoints, ep)
	}
	return r, nil
}
