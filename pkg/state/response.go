package state

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
)

// ResponseOutcome is what a transport hands back for one RequestAttempt.
// The body isn't read until someone asks for it, and then only once.
type ResponseOutcome struct {
	Method ProbeMethod
	URL    *url.URL

	HttpProto         string
	HttpStatusCode    int // stdlib has no special type for this
	HttpStatusMessage string
	HttpHeaders       http.Header
	HttpContentLength int64

	body      io.ReadCloser
	bodyLimit int64

	once      sync.Once
	bodyBytes []byte
	bodyErr   error
}

var ErrBodyTooLarge = errors.New("response body exceeds limit")

// NewResponseOutcome takes ownership of body (which may be nil). limit <= 0 means no limit.
func NewResponseOutcome(method ProbeMethod, u *url.URL, statusCode int, statusMessage string, headers http.Header, body io.ReadCloser, limit int64) *ResponseOutcome {
	if headers == nil {
		headers = http.Header{}
	}
	return &ResponseOutcome{
		Method:            method,
		URL:               u,
		HttpStatusCode:    statusCode,
		HttpStatusMessage: statusMessage,
		HttpHeaders:       headers,
		HttpContentLength: -1,
		body:              body,
		bodyLimit:         limit,
	}
}

// Body reads the whole body on first call and caches it (or the error) for subsequent ones.
func (o *ResponseOutcome) Body() ([]byte, error) {
	o.once.Do(func() {
		if o.body == nil {
			return
		}
		defer o.body.Close()

		r := io.Reader(o.body)
		if o.bodyLimit > 0 {
			// One over, so we can tell "exactly at limit" from "truncated"
			r = io.LimitReader(o.body, o.bodyLimit+1)
		}
		o.bodyBytes, o.bodyErr = io.ReadAll(r)
		if o.bodyErr == nil && o.bodyLimit > 0 && int64(len(o.bodyBytes)) > o.bodyLimit {
			o.bodyBytes = o.bodyBytes[:o.bodyLimit]
			o.bodyErr = fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, o.bodyLimit)
		}
	})
	return o.bodyBytes, o.bodyErr
}

// Close releases the body if it was never read. Safe to call more than once, and after Body().
func (o *ResponseOutcome) Close() error {
	var err error
	o.once.Do(func() {
		if o.body != nil {
			err = o.body.Close()
		}
	})
	return err
}

func (o *ResponseOutcome) ContentType() string {
	return o.HttpHeaders.Get("Content-Type")
}
