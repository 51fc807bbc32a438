package parser

import (
	"net/http"
	"regexp"
	"strings"
)

/* RFC 8288 Link header, eg
 * Link: <https://a.test/>; rel="alternate", <https://b.test/>; rel="canonical"
 * We don't parse the full grammar. The target is the bracketed URI directly before the rel param.
 */
var canonicalLinkRe = regexp.MustCompile(`(?i)<([^<>]+)>\s*;\s*rel="canonical"`)

// CanonicalFromLinkHeader returns the first non-blank URI tagged rel="canonical" in a single Link header value.
func CanonicalFromLinkHeader(value string) (string, bool) {
	for _, m := range canonicalLinkRe.FindAllStringSubmatch(value, -1) {
		target := strings.TrimSpace(m[1])
		if target == "" {
			log.Info("Link header has blank canonical target, skipping", "header", value)
			continue
		}
		return target, true
	}
	return "", false
}

// CanonicalFromHeaders looks across every Link header line; they're equivalent to one comma-separated line.
func CanonicalFromHeaders(hs http.Header) (string, bool) {
	links := hs.Values("Link")
	if len(links) == 0 {
		log.Debug("No Link header")
		return "", false
	}
	log.Debug("Found Link headers", "count", len(links))
	return CanonicalFromLinkHeader(strings.Join(links, ", "))
}
