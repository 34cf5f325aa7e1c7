// Package probe periodically logs into every console to record how many
// gateway instances are reachable.
package probe

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/docker/go-units"
	"github.com/mohesu/jasmin-api/internal/database"
	"github.com/mohesu/jasmin-api/internal/jcli"
	"github.com/mohesu/jasmin-api/internal/metrics"
	"github.com/mohesu/jasmin-api/internal/orchestrator"
	"github.com/robfig/cron/v3"
)

type Prober struct {
	Resolver    func() orchestrator.EndpointResolver
	Dialer      jcli.Dialer
	Credentials jcli.Credentials
	Metrics     *metrics.Metrics
}

// Check opens and closes one pool over every resolved endpoint and stores
// the outcome. Unreachable consoles are a result, not an error; only a
// failure to store the result is returned.
func (p *Prober) Check(ctx context.Context) (*database.ProbeResult, error) {
	start := time.Now()
	res := &database.ProbeResult{}

	var resolver orchestrator.EndpointResolver
	if p.Resolver != nil {
		resolver = p.Resolver()
	}
	if resolver == nil {
		res.Error = "no backend resolver configured"
	} else if eps, err := resolver.Resolve(ctx); err != nil {
		res.Error = jcli.DetailOf(err)
	} else {
		res.Total = len(eps)
		pool, err := jcli.OpenPool(ctx, eps, p.Dialer, p.Credentials)
		if err != nil {
			res.Error = jcli.DetailOf(err)
		} else {
			res.Reachable = pool.Size()
			pool.Close()
		}
	}
	res.Duration = units.HumanDuration(time.Since(start))

	if p.Metrics != nil {
		p.Metrics.BackendsTotal.Set(float64(res.Total))
		p.Metrics.BackendsReachable.Set(float64(res.Reachable))
	}
	log.Printf("[probe] %d/%d consoles reachable (%s)", res.Reachable, res.Total, res.Duration)

	if err := database.SaveProbeResult(res); err != nil {
		return res, fmt.Errorf("save probe result: %w", err)
	}
	return res, nil
}

// Start schedules Check on schedule (standard cron syntax or descriptors such
// as "@every 5m"). Runs never overlap. Stop the returned scheduler on
// shutdown.
func Start(ctx context.Context, p *Prober, schedule string) (*cron.Cron, error) {
	logger := cron.PrintfLogger(log.Default())
	c := cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	_, err := c.AddFunc(schedule, func() {
		if _, err := p.Check(ctx); err != nil {
			log.Printf("[probe] %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid probe schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
