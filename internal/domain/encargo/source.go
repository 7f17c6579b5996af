// Package encargo models custom orders captured from external marketplace
// listings: where a product comes from, how it is identified, what the
// customer wants shipped and where.
package encargo

import (
	"net/url"
	"strings"
)

// Source identifies the marketplace a product URL belongs to
type Source string

const (
	SourceAmazon  Source = "amazon"
	SourceShein   Source = "shein"
	SourceUnknown Source = "unknown"
)

// IsValid returns true if the source is one of the known values
func (s Source) IsValid() bool {
	switch s {
	case SourceAmazon, SourceShein, SourceUnknown:
		return true
	}
	return false
}

// ParseSource converts a backend-supplied source string into a Source.
// Anything unrecognized maps to SourceUnknown.
func ParseSource(s string) Source {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	if src.IsValid() {
		return src
	}
	return SourceUnknown
}

type sourceRule struct {
	source    Source
	fragments []string
	hosts     []string
}

// sourceRules are evaluated in order; the first match wins.
var sourceRules = []sourceRule{
	{source: SourceAmazon, fragments: []string{"amazon.", "amzn."}, hosts: []string{"a.co"}},
	{source: SourceShein, fragments: []string{"shein."}},
}

// DetectSource classifies an arbitrary string presumed to be a product URL.
// It never fails: unparseable or unrecognized input yields SourceUnknown.
func DetectSource(raw string) Source {
	host := hostOf(raw)
	if host == "" {
		return SourceUnknown
	}
	for _, rule := range sourceRules {
		for _, h := range rule.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return rule.source
			}
		}
		for _, f := range rule.fragments {
			if strings.Contains(host, f) {
				return rule.source
			}
		}
	}
	return SourceUnknown
}

// parseURL parses raw as an absolute URL, retrying with an https scheme when
// the input has none (e.g. "amazon.com/dp/...").
func parseURL(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err == nil && u.Host != "" {
		return u, true
	}
	if strings.Contains(raw, "://") {
		return nil, false
	}
	u, err = url.Parse("https://" + raw)
	if err != nil || u.Host == "" {
		return nil, false
	}
	return u, true
}

func hostOf(raw string) string {
	u, ok := parseURL(raw)
	if !ok {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
