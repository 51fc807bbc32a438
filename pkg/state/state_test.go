package state

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

type countingBody struct {
	io.Reader
	reads  int
	closed int
}

func (b *countingBody) Read(p []byte) (int, error) {
	b.reads++
	return b.Reader.Read(p)
}

func (b *countingBody) Close() error {
	b.closed++
	return nil
}

func TestProbeMethodHTTP(t *testing.T) {
	require.Equal(t, http.MethodHead, MethodLightweight.HTTPMethod())
	require.Equal(t, http.MethodGet, MethodFull.HTTPMethod())
	require.Panics(t, func() { ProbeMethod(42).HTTPMethod() })
}

func TestParseProbeMethod(t *testing.T) {
	for in, want := range map[string]ProbeMethod{
		"HEAD": MethodLightweight, "lightweight": MethodLightweight, "": MethodLightweight,
		"get": MethodFull, " Full ": MethodFull,
	} {
		m, err := ParseProbeMethod(in)
		require.NoError(t, err, in)
		require.Equal(t, want, m, in)
	}

	_, err := ParseProbeMethod("post")
	require.Error(t, err)
}

func TestNewRequestAttempt(t *testing.T) {
	u, _ := url.Parse("https://example.test/a?b=c")
	a := NewRequestAttempt(u, MethodFull)

	require.Equal(t, MethodFull, a.Method)
	require.Equal(t, AcceptLanguage, a.Headers.Get("accept-language"))
	require.Equal(t, UserAgent, a.Headers.Get("user-agent"))
	require.Equal(t, u.String(), a.Target.String())

	a.Target.Path = "/mutated"
	require.Equal(t, "/a", u.Path)
}

func TestBodyReadOnce(t *testing.T) {
	b := &countingBody{Reader: strings.NewReader("<html></html>")}
	o := NewResponseOutcome(MethodFull, nil, 200, "200 OK", nil, b, 0)

	require.Zero(t, b.reads)

	bs, err := o.Body()
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(bs))
	reads := b.reads

	bs, err = o.Body()
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(bs))
	require.Equal(t, reads, b.reads)
	require.Equal(t, 1, b.closed)

	require.NoError(t, o.Close())
	require.Equal(t, 1, b.closed)
}

func TestBodyLimit(t *testing.T) {
	b := &countingBody{Reader: strings.NewReader("0123456789")}
	o := NewResponseOutcome(MethodFull, nil, 200, "200 OK", nil, b, 4)

	bs, err := o.Body()
	require.True(t, errors.Is(err, ErrBodyTooLarge))
	require.Equal(t, "0123", string(bs))

	b = &countingBody{Reader: strings.NewReader("0123")}
	o = NewResponseOutcome(MethodFull, nil, 200, "200 OK", nil, b, 4)
	bs, err = o.Body()
	require.NoError(t, err)
	require.Equal(t, "0123", string(bs))
}

func TestCloseUnread(t *testing.T) {
	b := &countingBody{Reader: strings.NewReader("abc")}
	o := NewResponseOutcome(MethodLightweight, nil, 200, "200 OK", nil, b, 0)

	require.NoError(t, o.Close())
	require.Zero(t, b.reads)
	require.Equal(t, 1, b.closed)
}

func TestResultKinds(t *testing.T) {
	var r Result = CanonicalFound{Location: "https://a.test/", Source: SourceHTML}
	require.Equal(t, KindCanonicalFound, r.Kind())
	require.Equal(t, "https://a.test/", r.URL())

	r = Redirect{Location: "https://b.test/", StatusCode: 301}
	require.Equal(t, KindRedirect, r.Kind())
	require.Equal(t, "https://b.test/", r.URL())

	r = Unresolved{Reason: ReasonTemporaryRedirect, StatusCode: 302}
	require.Equal(t, KindUnresolved, r.Kind())
	require.Empty(t, r.URL())
	require.Equal(t, "unresolved: temporary redirect (302)", r.String())
}

func TestConfigFromViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("method", "get")
	viper.Set("timeout", 3*time.Second)
	viper.Set("force-full-host", []string{`example\.test$`})
	viper.Set("statuses.temporary", []int{303})
	viper.Set("output", "yaml")

	c, err := ConfigFromViper()
	require.NoError(t, err)
	require.Equal(t, MethodFull, c.Method)
	require.Equal(t, 3*time.Second, c.Timeout)
	require.Equal(t, int64(DefaultMaxBody), c.MaxBody)
	require.Equal(t, DefaultConcurrency, c.Concurrency)
	require.Equal(t, []string{`example\.test$`}, c.ForceFullHosts)
	require.Equal(t, []int{303}, c.TemporaryStatuses)
	require.Equal(t, "yaml", c.Output)

	viper.Set("output", "xml")
	_, err = ConfigFromViper()
	require.Error(t, err)
}
