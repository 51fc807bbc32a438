package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/telemetry"

	"github.com/mt-inside/url-canonicalize/pkg/policy"
	"github.com/mt-inside/url-canonicalize/pkg/probes"
	"github.com/mt-inside/url-canonicalize/pkg/state"
)

func site(t *testing.T) (*httptest.Server, func() []string) {
	var mu sync.Mutex
	var seen []string

	mux := http.NewServeMux()
	mux.HandleFunc("/header", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", `</canonical>; rel="canonical"`)
	})
	mux.HandleFunc("/html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<!doctype html><html><head><link rel="canonical" href="https://example.test/html"></head><body>hi</body></html>`)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/html", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/found", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/html", http.StatusFound)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), seen...)
	}
}

func TestOverHTTP(t *testing.T) {
	srv, _ := site(t)
	r := New(probes.NewHTTPTransport(telemetry.NoopLogger(), 5*time.Second, 1<<20))

	cases := map[string]state.Result{
		"/header": state.CanonicalFound{Location: srv.URL + "/canonical", Source: state.SourceLinkHeader},
		"/html":   state.CanonicalFound{Location: "https://example.test/html", Source: state.SourceHTML},
		"/moved":  state.Redirect{Location: srv.URL + "/html", StatusCode: http.StatusMovedPermanently},
		"/found":  state.Unresolved{Reason: state.ReasonTemporaryRedirect, StatusCode: http.StatusFound},
		"/gone":   state.Unresolved{Reason: state.ReasonFailureStatus, StatusCode: http.StatusGone},
	}

	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			got := r.Resolve(context.Background(), target(t, srv.URL+path), state.MethodLightweight)
			require.Equal(t, want, got)
		})
	}
}

func TestOverHTTPEscalationSequence(t *testing.T) {
	srv, seen := site(t)
	r := New(probes.NewHTTPTransport(telemetry.NoopLogger(), 5*time.Second, 1<<20))

	r.Resolve(context.Background(), target(t, srv.URL+"/html"), state.MethodLightweight)

	require.Equal(t, []string{"HEAD /html", "GET /html"}, seen())
}

func TestOverHTTPForcedHost(t *testing.T) {
	srv, seen := site(t)
	hosts, err := policy.ForceFullPolicy(`^127\.0\.0\.1$`)
	require.NoError(t, err)
	r := New(probes.NewHTTPTransport(telemetry.NoopLogger(), 5*time.Second, 1<<20), WithHostPolicy(hosts))

	r.Resolve(context.Background(), target(t, srv.URL+"/html"), state.MethodLightweight)

	require.Equal(t, []string{"GET /html"}, seen())
}

func TestOverHTTPConnectionRefused(t *testing.T) {
	srv, _ := site(t)
	u := target(t, srv.URL+"/html")
	srv.Close()

	r := New(probes.NewHTTPTransport(telemetry.NoopLogger(), time.Second, 1<<20))
	got := r.Resolve(context.Background(), u, state.MethodLightweight)

	require.Equal(t, state.KindUnresolved, got.Kind())
	require.Equal(t, state.ReasonTransportFault, got.(state.Unresolved).Reason)
}
