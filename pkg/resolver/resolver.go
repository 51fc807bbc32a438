// Package resolver decides what a URL's canonical form is: a canonical declaration (Link header, then HTML), a permanent-style redirect, or nothing.
package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/tetratelabs/telemetry"

	"github.com/mt-inside/url-canonicalize/pkg/parser"
	"github.com/mt-inside/url-canonicalize/pkg/policy"
	"github.com/mt-inside/url-canonicalize/pkg/probes"
	"github.com/mt-inside/url-canonicalize/pkg/state"
)

// Initial attempt plus at most one escalation. Lightweight -> Full is the only transition, so a second attempt can never ask for a third.
const maxAttempts = 2

// Resolver holds only immutable policy; every Resolve call is independent, so one Resolver can serve many goroutines.
type Resolver struct {
	transport probes.Transport
	hosts     *policy.HostPolicy
	statuses  *policy.StatusPolicy
	log       telemetry.Logger
}

type Option func(*Resolver)

func WithHostPolicy(p *policy.HostPolicy) Option {
	return func(r *Resolver) { r.hosts = p }
}

func WithStatusPolicy(p *policy.StatusPolicy) Option {
	return func(r *Resolver) { r.statuses = p }
}

func WithLogger(l telemetry.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// New defaults to the built-in host and status policies and a no-op logger.
func New(transport probes.Transport, opts ...Option) *Resolver {
	hosts, _ := policy.ForceFullPolicy() // defaults always compile
	r := &Resolver{
		transport: transport,
		hosts:     hosts,
		statuses:  policy.DefaultStatusPolicy(),
		log:       telemetry.NoopLogger(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve never returns an error: transport faults and the like are folded into state.Unresolved.
func (r *Resolver) Resolve(ctx context.Context, target *url.URL, preferred state.ProbeMethod) state.Result {
	log := r.log.With("target", target.String())

	method := preferred
	if forced, ok := r.hosts.ForcedMethod(target.Hostname()); ok {
		log.Debug("Host policy overrides method", "preferred", preferred, "forced", forced)
		method = forced
	}
	log.Debug("State", "state", "initial", "method", method)

	for i := 0; i < maxAttempts; i++ {
		attempt := state.NewRequestAttempt(target, method)
		log.Debug("State", "state", "awaiting-response", "method", method, "attempt", i+1)

		res, escalate := r.try(ctx, log, attempt)
		if !escalate {
			log.Debug("State", "state", "terminal", "result", res.Kind())
			return res
		}

		log.Debug("State", "state", "escalating", "from", method, "to", state.MethodFull)
		method = state.MethodFull
	}

	// try() only escalates a Lightweight attempt, and the second attempt is always Full
	panic("resolver escalated more than once")
}

// try dispatches one attempt and classifies it. escalate means "nothing decisive, and a Full attempt may do better"; the response has been released in that case.
func (r *Resolver) try(ctx context.Context, log telemetry.Logger, attempt state.RequestAttempt) (res state.Result, escalate bool) {
	resp, err := r.transport.Do(ctx, attempt)
	if err != nil {
		log.Error("Transport fault", err, "method", attempt.Method)
		return state.Unresolved{Reason: state.ReasonTransportFault, Err: err}, false
	}

	class := r.statuses.Classify(resp.HttpStatusCode)
	log.Debug("Classified response", "status", resp.HttpStatusCode, "class", class)
	log.Debug("Response headers", headerFields(resp.HttpHeaders)...)

	switch class {
	case policy.Success:
		return r.lookForCanonical(log, attempt, resp)

	case policy.RedirectOther:
		resp.Close()
		loc := resp.HttpHeaders.Get("Location")
		if loc == "" {
			log.Info("Redirect without Location header", "status", resp.HttpStatusCode)
			return state.Unresolved{Reason: state.ReasonMissingLocation, StatusCode: resp.HttpStatusCode}, false
		}
		return state.Redirect{Location: absolute(log, attempt.Target, loc), StatusCode: resp.HttpStatusCode}, false

	case policy.RedirectTemporary:
		resp.Close()
		return state.Unresolved{Reason: state.ReasonTemporaryRedirect, StatusCode: resp.HttpStatusCode}, false

	default:
		resp.Close()
		return state.Unresolved{Reason: state.ReasonFailureStatus, StatusCode: resp.HttpStatusCode}, false
	}
}

func (r *Resolver) lookForCanonical(log telemetry.Logger, attempt state.RequestAttempt, resp *state.ResponseOutcome) (state.Result, bool) {
	if canon, ok := parser.CanonicalFromHeaders(resp.HttpHeaders); ok {
		resp.Close()
		return state.CanonicalFound{Location: absolute(log, attempt.Target, canon), Source: state.SourceLinkHeader}, false
	}

	if attempt.Method == state.MethodLightweight {
		resp.Close()
		return nil, true
	}

	body, err := resp.Body()
	if errors.Is(err, state.ErrBodyTooLarge) {
		// The head is at the front; a truncated page is still worth searching
		log.Info("Body over limit, searching the truncated prefix", "error", err, "bytes", len(body))
	} else if err != nil {
		log.Error("Can't read body", err)
		return state.Unresolved{Reason: state.ReasonTransportFault, StatusCode: resp.HttpStatusCode, Err: err}, false
	}

	canon, ok, err := parser.CanonicalFromHTML(body, resp.ContentType())
	if err != nil {
		// Undecodable isn't a fault of the transport; it just means there's nothing to find
		log.Info("Can't parse body for canonical link", "error", err)
	}
	if ok {
		return state.CanonicalFound{Location: absolute(log, attempt.Target, canon), Source: state.SourceHTML}, false
	}

	return state.Unresolved{Reason: state.ReasonNoCanonical, StatusCode: resp.HttpStatusCode, Response: resp}, false
}

// absolute resolves a relative ref against base. Absolute and unparseable refs are returned byte-for-byte; they're the origin's words, not ours to normalise.
func absolute(log telemetry.Logger, base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		log.Info("Can't parse URL from response, returning verbatim", "url", ref, "error", err)
		return ref
	}
	if u.IsAbs() {
		return ref
	}
	return base.ResolveReference(u).String()
}

// headerFields flattens headers into sorted key-value pairs for the logger. Repeated headers are joined with ", ".
func headerFields(hs http.Header) []interface{} {
	keys := make([]string, 0, len(hs))
	for k := range hs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kvs := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		kvs = append(kvs, k, strings.Join(hs[k], ", "))
	}
	return kvs
}
