package probes

import (
	"context"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/quic-go/quic-go/http3"
	"github.com/tetratelabs/telemetry"
)

func getDialContext(log telemetry.Logger, timeout time.Duration) func(ctx context.Context, network, address string) (net.Conn, error) {
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		dialer := &net.Dialer{
			Timeout:   timeout,
			KeepAlive: 60 * time.Second,
			// Note: happens "after creating the network connection but before actually dialing."
			Control: func(network, address string, rawConn syscall.RawConn) error {
				log.Debug("Dialing", "net", network, "addr", address)
				return nil
			},
		}
		conn, err := dialer.DialContext(ctx, network, address)
		if err != nil {
			return nil, err
		}
		log.Debug("Connected", "to", conn.RemoteAddr(), "from", conn.LocalAddr())

		return conn, nil
	}
}

// Redirects are evidence in their own right (permanent vs temporary), so we never follow them; the caller sees the 3xx.
func getCheckRedirect(log telemetry.Logger) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		log.Debug("Not following redirect", "to", req.URL.String())
		return http.ErrUseLastResponse
	}
}

func buildClient(log telemetry.Logger, timeout time.Duration, force3 bool) *http.Client {
	if force3 {
		// Necessarily QUIC, so none of the TCP dialer settings apply
		return &http.Client{
			Transport:     &http3.RoundTripper{},
			CheckRedirect: getCheckRedirect(log),
		}
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           getDialContext(log, timeout),
			TLSHandshakeTimeout:   timeout, // assume this is just the TLS handshake ie tcp handshake is covered by the dialer
			ResponseHeaderTimeout: timeout,
			ForceAttemptHTTP2:     true,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: getCheckRedirect(log),
	}
}
