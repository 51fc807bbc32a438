package state

import (
	"net/http"
	"net/url"
)

const (
	AcceptLanguage = "en-US,en;q=0.8"
	// Some sites serve a stripped page (or nothing) to non-browser agents.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; WOW64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/51.0.2704.103 Safari/537.36"
)

// RequestAttempt is one request we hand to a transport. Changing method means building a new one.
type RequestAttempt struct {
	Target  *url.URL
	Method  ProbeMethod
	Headers http.Header
}

func NewRequestAttempt(target *url.URL, method ProbeMethod) RequestAttempt {
	hs := http.Header{}
	hs.Set("Accept-Language", AcceptLanguage)
	hs.Set("User-Agent", UserAgent)

	// Own copy, so nobody downstream can reach back into the caller's URL
	t := *target
	if target.User != nil {
		u := *target.User
		t.User = &u
	}

	return RequestAttempt{
		Target:  &t,
		Method:  method,
		Headers: hs,
	}
}
