package jcli

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// ReplicaFailure records one replica that did not reload.
type ReplicaFailure struct {
	Replica string
	Err     error
}

// Report summarizes one propagation round.
type Report struct {
	Attempted int
	Failed    []ReplicaFailure
}

func (r Report) Succeeded() int { return r.Attempted - len(r.Failed) }

// Propagate asks every replica to reload the persisted configuration.
// Failures are logged and reported, never returned: the mutation already
// succeeded on the primary. A zero timeout uses each session's default.
func Propagate(ctx context.Context, replicas []Console, timeout time.Duration) Report {
	report := Report{Attempted: len(replicas)}
	if len(replicas) == 0 {
		return report
	}

	errs := make([]error, len(replicas))
	var wg sync.WaitGroup
	for i, c := range replicas {
		wg.Add(1)
		go func(i int, c Console) {
			defer wg.Done()
			if err := c.Send(ReloadToken); err != nil {
				errs[i] = err
				return
			}
			_, errs[i] = c.Expect(ctx, ReadyRules, timeout)
		}(i, c)
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		name := fmt.Sprint(replicas[i])
		log.Printf("[jcli] replica %s: propagation failed: %v", name, err)
		report.Failed = append(report.Failed, ReplicaFailure{Replica: name, Err: err})
	}
	return report
}
