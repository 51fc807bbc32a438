package state

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is everything that stays the same across every target in a run.
type Config struct {
	Method     ProbeMethod
	Timeout    time.Duration
	MaxBody    int64
	HttpForce3 bool

	ForceFullHosts    []string // regexps
	TemporaryStatuses []int

	Concurrency int
	Rate        float64 // per host, per second. 0 is unlimited

	Output  string
	Diff    bool
	Dump    bool
	Verbose bool
}

const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxBody     = 2 << 20
	DefaultConcurrency = 4
)

// ConfigFromViper reads flags and config file values alike; flag names are the keys.
// Policy values are only collected here, they're compiled (and thus validated) by the policy package.
func ConfigFromViper() (*Config, error) {
	method, err := ParseProbeMethod(viper.GetString("method"))
	if err != nil {
		return nil, err
	}

	c := &Config{
		Method:      method,
		Timeout:     viper.GetDuration("timeout"),
		MaxBody:     viper.GetInt64("max-body"),
		HttpForce3:  viper.GetBool("http-3"),
		Concurrency: viper.GetInt("concurrency"),
		Rate:        viper.GetFloat64("rate"),
		Output:      viper.GetString("output"),
		Diff:        viper.GetBool("diff"),
		Dump:        viper.GetBool("dump"),
		Verbose:     viper.GetBool("verbose"),
	}

	/* Policy lists: flag and config file spellings are merged */

	c.ForceFullHosts = append(c.ForceFullHosts, viper.GetStringSlice("force-full-host")...)
	c.ForceFullHosts = append(c.ForceFullHosts, viper.GetStringSlice("hosts.force-full")...)
	c.TemporaryStatuses = append(c.TemporaryStatuses, viper.GetIntSlice("temporary-status")...)
	c.TemporaryStatuses = append(c.TemporaryStatuses, viper.GetIntSlice("statuses.temporary")...)

	/* Defaults and sanity */

	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxBody <= 0 {
		c.MaxBody = DefaultMaxBody
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Rate < 0 {
		return nil, fmt.Errorf("rate must not be negative: %v", c.Rate)
	}
	switch c.Output {
	case "":
		c.Output = "text"
	case "text", "json", "yaml":
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or yaml)", c.Output)
	}

	return c, nil
}
