package policy

import (
	"fmt"
	"regexp"

	"github.com/mt-inside/url-canonicalize/pkg/state"
)

// Some sites treat HEAD requests as suspicious activity and block the requester after a few attempts. Those get GETs only.
var DefaultForceFullHosts = []string{
	`(^|\.)linkedin\.com$`,
	`(^|\.)crunchbase\.com$`,
}

type HostRule struct {
	Pattern *regexp.Regexp
	Method  state.ProbeMethod
}

// HostPolicy maps hostnames to a method that overrides whatever the caller asked for. First matching rule wins.
type HostPolicy struct {
	rules []HostRule
}

func NewHostPolicy(rules ...HostRule) *HostPolicy {
	return &HostPolicy{rules: rules}
}

// ForceFullPolicy compiles the given patterns (case-insensitively) into rules forcing MethodFull.
// The defaults are always included; extra is added after them.
func ForceFullPolicy(extra ...string) (*HostPolicy, error) {
	p := &HostPolicy{}
	for _, pat := range append(append([]string{}, DefaultForceFullHosts...), extra...) {
		re, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			return nil, fmt.Errorf("invalid host pattern %q: %w", pat, err)
		}
		p.rules = append(p.rules, HostRule{Pattern: re, Method: state.MethodFull})
	}
	return p, nil
}

func (p *HostPolicy) ForcedMethod(host string) (state.ProbeMethod, bool) {
	if p == nil {
		return 0, false
	}
	for _, r := range p.rules {
		if r.Pattern.MatchString(host) {
			return r.Method, true
		}
	}
	return 0, false
}

func (p *HostPolicy) Rules() []HostRule {
	if p == nil {
		return nil
	}
	return append([]HostRule(nil), p.rules...)
}
