package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Only <head> counts; a canonical link in the body is ignored by search engines too.
const canonicalSelector = `head > link[rel="canonical"]`

// CanonicalFromHTML finds the href of the first canonical link element in the document head.
// contentType is the response's Content-Type header, used to pick a charset; it may be empty.
// An error means the document couldn't be decoded at all, which is distinct from "no canonical".
func CanonicalFromHTML(body []byte, contentType string) (string, bool, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", false, fmt.Errorf("can't decode body as %q: %w", contentType, err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", false, fmt.Errorf("can't parse body as HTML: %w", err)
	}

	sel := doc.Find(canonicalSelector)
	log.Debug("Searched HTML head for canonical links", "count", sel.Length())

	href, ok := sel.First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return "", false, nil
	}

	return href, true, nil
}
