package state

import "fmt"

type ResultKind int

const (
	KindUnresolved ResultKind = iota
	KindCanonicalFound
	KindRedirect
)

func (k ResultKind) String() string {
	switch k {
	case KindCanonicalFound:
		return "canonical"
	case KindRedirect:
		return "redirect"
	default:
		return "unresolved"
	}
}

// Result is the sole output of a resolution. It's closed: the only implementations are CanonicalFound, Redirect and Unresolved, so a switch on Kind() covers everything.
type Result interface {
	Kind() ResultKind
	// URL is the resolved location, or "" when Unresolved.
	URL() string
	fmt.Stringer

	sealed()
}

type CanonicalSource int

const (
	SourceLinkHeader CanonicalSource = iota
	SourceHTML
)

func (s CanonicalSource) String() string {
	if s == SourceHTML {
		return "html"
	}
	return "link-header"
}

type CanonicalFound struct {
	Location string
	Source   CanonicalSource
}

func (CanonicalFound) Kind() ResultKind { return KindCanonicalFound }
func (r CanonicalFound) URL() string { return r.Location }
func (r CanonicalFound) String() string { return fmt.Sprintf("canonical %s (from %s)", r.Location, r.Source) }
func (CanonicalFound) sealed() {}

type Redirect struct {
	Location   string
	StatusCode int
}

func (Redirect) Kind() ResultKind { return KindRedirect }
func (r Redirect) URL() string { return r.Location }
func (r Redirect) String() string { return fmt.Sprintf("redirect %s (%d)", r.Location, r.StatusCode) }
func (Redirect) sealed() {}

type UnresolvedReason int

const (
	ReasonTransportFault UnresolvedReason = iota
	ReasonFailureStatus
	ReasonTemporaryRedirect
	ReasonNoCanonical
	ReasonMissingLocation
)

func (r UnresolvedReason) String() string {
	switch r {
	case ReasonTransportFault:
		return "transport fault"
	case ReasonFailureStatus:
		return "failure status"
	case ReasonTemporaryRedirect:
		return "temporary redirect"
	case ReasonNoCanonical:
		return "no canonical declared"
	case ReasonMissingLocation:
		return "redirect without location"
	default:
		return fmt.Sprintf("UnresolvedReason(%d)", int(r))
	}
}

type Unresolved struct {
	Reason     UnresolvedReason
	StatusCode int   // 0 if we never got a response
	Err        error // set for ReasonTransportFault
	// Only set for ReasonNoCanonical, so callers can do their own inspection. Its body has already been read.
	Response *ResponseOutcome
}

func (Unresolved) Kind() ResultKind { return KindUnresolved }
func (Unresolved) URL() string { return "" }
func (r Unresolved) String() string {
	if r.Err != nil {
		return fmt.Sprintf("unresolved: %s: %v", r.Reason, r.Err)
	}
	if r.StatusCode != 0 {
		return fmt.Sprintf("unresolved: %s (%d)", r.Reason, r.StatusCode)
	}
	return fmt.Sprintf("unresolved: %s", r.Reason)
}
func (Unresolved) sealed() {}
