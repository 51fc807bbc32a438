package state

import (
	"fmt"
	"net/http"
	"strings"
)

// ProbeMethod is how hard we knock. A resolution may go from Lightweight to Full once, never back.
type ProbeMethod int

const (
	MethodLightweight ProbeMethod = iota // HEAD
	MethodFull                           // GET
)

// HTTPMethod panics on an unknown ProbeMethod: only the enumerated values above can be constructed by this package, so reaching the default case is a bug, not a runtime condition.
func (m ProbeMethod) HTTPMethod() string {
	switch m {
	case MethodLightweight:
		return http.MethodHead
	case MethodFull:
		return http.MethodGet
	default:
		panic(fmt.Errorf("unknown probe method: %d", int(m)))
	}
}

func (m ProbeMethod) String() string {
	switch m {
	case MethodLightweight:
		return "lightweight"
	case MethodFull:
		return "full"
	default:
		return fmt.Sprintf("ProbeMethod(%d)", int(m))
	}
}

// ParseProbeMethod accepts either the HTTP verb or the descriptive name.
func ParseProbeMethod(s string) (ProbeMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "head", "lightweight", "":
		return MethodLightweight, nil
	case "get", "full":
		return MethodFull, nil
	default:
		return 0, fmt.Errorf("unknown probe method %q (want head or get)", s)
	}
}
