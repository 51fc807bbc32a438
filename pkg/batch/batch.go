// Package batch resolves many targets at once. Each resolution is still sequential; only whole resolutions run in parallel.
package batch

import (
	"context"
	"net/url"
	"sync"

	"github.com/tetratelabs/telemetry"

	"github.com/mt-inside/url-canonicalize/pkg/state"
)

type Resolver interface {
	Resolve(ctx context.Context, target *url.URL, preferred state.ProbeMethod) state.Result
}

type Record struct {
	Input  string
	Target *url.URL
	Result state.Result
}

type Runner struct {
	resolver    Resolver
	method      state.ProbeMethod
	concurrency int
	log         telemetry.Logger
}

func NewRunner(log telemetry.Logger, resolver Resolver, method state.ProbeMethod, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		resolver:    resolver,
		method:      method,
		concurrency: concurrency,
		log:         log,
	}
}

// Run returns one Record per target, in input order. Targets not yet started when ctx is cancelled come back Unresolved with ctx's error.
func (r *Runner) Run(ctx context.Context, targets []*url.URL) []Record {
	records := make([]Record, len(targets))
	for i, t := range targets {
		records[i] = Record{Input: t.String(), Target: t}
	}

	work := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				records[i].Result = r.resolver.Resolve(ctx, records[i].Target, r.method)
				r.log.Debug("Resolved", "target", records[i].Input, "result", records[i].Result.String())
			}
		}()
	}

	cancelFrom := func(i int) {
		for j := i; j < len(records); j++ {
			records[j].Result = state.Unresolved{Reason: state.ReasonTransportFault, Err: ctx.Err()}
		}
	}

dispatch:
	for i := range records {
		// select picks randomly when both are ready, so check first
		if ctx.Err() != nil {
			cancelFrom(i)
			break
		}
		select {
		case work <- i:
		case <-ctx.Done():
			cancelFrom(i)
			break dispatch
		}
	}
	close(work)
	wg.Wait()

	return records
}
