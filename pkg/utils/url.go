package utils

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// ParseTarget accepts only absolute http(s) URLs with a host. Fragments are dropped, they never reach the server.
func ParseTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("URL %q is not absolute", raw)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("URL %q has unsupported scheme %q", raw, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("URL %q has no host", raw)
	}

	u.Fragment = ""
	u.RawFragment = ""

	return u, nil
}

// ReadTargets reads one URL per line. Blank lines and #-comments are skipped; nothing is validated.
func ReadTargets(r io.Reader) ([]string, error) {
	var raws []string

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		raws = append(raws, line)
	}

	return raws, scanner.Err()
}
