package orchestrator

import (
	"context"

	"github.com/mohesu/jasmin-api/internal/jcli"
)

// EndpointResolver finds the jcli consoles of every gateway instance. The
// first endpoint returned is preferred as the primary.
type EndpointResolver interface {
	BackendName() string
	Resolve(ctx context.Context) ([]jcli.Endpoint, error)
}

func noBackend(format string, args ...interface{}) error {
	return jcli.Errorf(jcli.KindAuthenticationFailed, format, args...)
}
