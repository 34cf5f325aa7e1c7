package handlers

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/mohesu/jasmin-api/internal/database"
	"github.com/mohesu/jasmin-api/internal/jasmin"
	"github.com/mohesu/jasmin-api/internal/jcli"
	"github.com/mohesu/jasmin-api/internal/logutil"
	"github.com/mohesu/jasmin-api/internal/metrics"
	"github.com/mohesu/jasmin-api/internal/middleware"
	"github.com/mohesu/jasmin-api/internal/orchestrator"
)

// Set from main.go during init.
var (
	Dialer        jcli.Dialer = &net.Dialer{}
	Credentials   jcli.Credentials
	ReloadTimeout time.Duration
	Metrics       *metrics.Metrics
)

// consoleScope is the per-request console state: the service, the pool it
// opened, if any, and every replica reload round it triggered.
type consoleScope struct {
	req      *http.Request
	resolver orchestrator.EndpointResolver
	svc      *jasmin.Service
	pool     *jcli.Pool
	reports  []jcli.Report
}

func (sc *consoleScope) record(rep jcli.Report) {
	sc.reports = append(sc.reports, rep)
	if Metrics != nil {
		Metrics.ReplicaReloads.WithLabelValues("ok").Add(float64(rep.Succeeded()))
		Metrics.ReplicaReloads.WithLabelValues("failed").Add(float64(len(rep.Failed)))
	}
}

// open resolves the backends and logs into every console. The service calls
// it on the request's first console exchange.
func (sc *consoleScope) open(ctx context.Context) (*jcli.Pool, error) {
	endpoints, err := sc.resolver.Resolve(ctx)
	if err != nil {
		poolFailed(sc.req, err)
		return nil, err
	}

	start := time.Now()
	pool, err := jcli.OpenPool(ctx, endpoints, Dialer, Credentials)
	if err != nil {
		poolFailed(sc.req, err)
		return nil, err
	}
	if Metrics != nil {
		Metrics.PoolOpenDuration.Observe(time.Since(start).Seconds())
	}
	sc.pool = pool
	return pool, nil
}

func (sc *consoleScope) close() {
	if sc.pool != nil {
		sc.pool.Close()
	}
}

type scopeKey struct{}

// ConsoleScope gives the request a service whose consoles are opened on
// first use and closed when the handler returns. Requests that fail input
// checks never connect. The request context bounds every console exchange,
// so a client disconnect aborts the operation.
func ConsoleScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolver := orchestrator.Get()
		if resolver == nil {
			writeError(w, http.StatusServiceUnavailable, "No backend resolver configured")
			return
		}

		sc := &consoleScope{req: r, resolver: resolver}
		sc.svc = jasmin.Connect(sc.open,
			jasmin.WithReloadTimeout(ReloadTimeout),
			jasmin.WithPropagationHook(sc.record),
		)
		defer sc.close()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), scopeKey{}, sc)))
	})
}

func poolFailed(r *http.Request, err error) {
	log.Printf("[api] %s %s: open consoles: %s", r.Method, r.URL.Path, logutil.SanitizeForLog(err.Error()))
	if Metrics != nil {
		Metrics.PoolOpenFailures.WithLabelValues(jcli.KindOf(err).String()).Inc()
	}
}

func scopeFrom(r *http.Request) *consoleScope {
	sc, _ := r.Context().Value(scopeKey{}).(*consoleScope)
	return sc
}

// service returns the request's Service. Only valid under ConsoleScope.
func service(r *http.Request) *jasmin.Service {
	return scopeFrom(r).svc
}

func observe(resource string, err error) {
	if Metrics != nil {
		Metrics.OperationsTotal.WithLabelValues(resource, jcli.KindOf(err).String()).Inc()
	}
}

// audit records a mutation attempt together with the replica reloads it
// caused, then counts the operation.
func audit(r *http.Request, resource, action, target string, err error) {
	observe(resource, err)
	rec := &database.AuditRecord{
		Username: middleware.Username(r),
		Resource: resource,
		Action:   action,
		Target:   target,
		Outcome:  jcli.KindOf(err).String(),
	}
	if err != nil {
		rec.Detail = jcli.DetailOf(err)
	}
	if sc := scopeFrom(r); sc != nil {
		for _, rep := range sc.reports {
			rec.ReplicasTotal += rep.Attempted
			rec.ReplicasFailed += len(rep.Failed)
		}
	}
	if database.DB == nil {
		return
	}
	if dbErr := database.RecordAudit(rec); dbErr != nil {
		log.Printf("[audit] %s %s %s: %v", resource, action, logutil.SanitizeForLog(target), dbErr)
	}
}

// respond writes v on success, or the console error otherwise.
func respond(w http.ResponseWriter, r *http.Request, err error, v interface{}) {
	if err != nil {
		if statusFor(err) >= http.StatusInternalServerError {
			log.Printf("[api] %s %s: %s", r.Method, r.URL.Path, logutil.SanitizeForLog(err.Error()))
		}
		writeConsoleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
