package policy

import (
	"fmt"
	"net/http"
)

type Classification int

const (
	Failure Classification = iota
	Success
	RedirectTemporary
	RedirectOther
)

func (c Classification) String() string {
	switch c {
	case Success:
		return "success"
	case RedirectTemporary:
		return "temporary redirect"
	case RedirectOther:
		return "redirect"
	default:
		return "failure"
	}
}

// A temporary redirect says nothing durable about the resource's identity, so it's not resolution evidence.
var DefaultTemporaryStatuses = []int{
	http.StatusFound,             // 302
	http.StatusTemporaryRedirect, // 307
}

type StatusPolicy struct {
	temporary map[int]struct{}
}

// NewStatusPolicy adds extra to the default temporary set. Every code must be a 3xx.
func NewStatusPolicy(extra ...int) (*StatusPolicy, error) {
	p := &StatusPolicy{temporary: map[int]struct{}{}}
	for _, code := range append(append([]int{}, DefaultTemporaryStatuses...), extra...) {
		if code < 300 || code > 399 {
			return nil, fmt.Errorf("temporary redirect status must be 3xx, got %d", code)
		}
		p.temporary[code] = struct{}{}
	}
	return p, nil
}

// DefaultStatusPolicy can't fail, the defaults are all valid.
func DefaultStatusPolicy() *StatusPolicy {
	p, _ := NewStatusPolicy()
	return p
}

func (p *StatusPolicy) Classify(status int) Classification {
	switch {
	case status >= 200 && status <= 299:
		return Success
	case status >= 300 && status <= 399:
		if _, ok := p.temporary[status]; ok {
			return RedirectTemporary
		}
		return RedirectOther
	default:
		return Failure
	}
}
