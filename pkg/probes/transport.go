package probes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tetratelabs/telemetry"

	"github.com/mt-inside/url-canonicalize/pkg/state"
)

// Transport performs exactly one request, without following redirects.
// Any error is a transport fault; HTTP error statuses are not errors.
type Transport interface {
	Do(ctx context.Context, attempt state.RequestAttempt) (*state.ResponseOutcome, error)
}

type HTTPTransport struct {
	client  *http.Client
	timeout time.Duration
	maxBody int64
	log     telemetry.Logger
}

// NewHTTPTransport: timeout bounds each phase (dial, TLS, headers) and the request as a whole; maxBody caps how much body we'll ever read.
func NewHTTPTransport(log telemetry.Logger, timeout time.Duration, maxBody int64) *HTTPTransport {
	return newHTTPTransport(log, timeout, maxBody, false)
}

// NewHTTP3Transport only speaks HTTP/3; https targets only.
func NewHTTP3Transport(log telemetry.Logger, timeout time.Duration, maxBody int64) *HTTPTransport {
	return newHTTPTransport(log, timeout, maxBody, true)
}

func newHTTPTransport(log telemetry.Logger, timeout time.Duration, maxBody int64, force3 bool) *HTTPTransport {
	return &HTTPTransport{
		client:  buildClient(log, timeout, force3),
		timeout: timeout,
		maxBody: maxBody,
		log:     log,
	}
}

func (t *HTTPTransport) Do(ctx context.Context, attempt state.RequestAttempt) (*state.ResponseOutcome, error) {
	// Whole-request deadline, covering the body read too, so the cancel func travels with the body
	ctx, cancel := context.WithTimeout(ctx, t.timeout)

	req, err := http.NewRequestWithContext(ctx, attempt.Method.HTTPMethod(), attempt.Target.String(), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("can't build request: %w", err)
	}
	for k, vs := range attempt.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	t.log.Debug("Sending request", "method", req.Method, "url", req.URL.String())
	resp, err := t.client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	t.log.Debug("Received response", "status", resp.Status, "proto", resp.Proto)

	o := state.NewResponseOutcome(
		attempt.Method,
		resp.Request.URL,
		resp.StatusCode,
		resp.Status,
		resp.Header,
		&cancelOnClose{ReadCloser: resp.Body, cancel: cancel},
		t.maxBody,
	)
	o.HttpProto = resp.Proto
	o.HttpContentLength = resp.ContentLength

	return o, nil
}
