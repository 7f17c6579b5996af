package encargo

import (
	"regexp"
	"strings"
)

var (
	amazonASINPattern = regexp.MustCompile(`(?i)/(?:dp|gp/product)/([a-z0-9]{10})(?:[/?#]|$)`)
	sheinPathPattern  = regexp.MustCompile(`-p-(\d+)(?:-cat-\d+)?\.html$`)
	sheinTailPattern  = regexp.MustCompile(`(\d+)\.html$`)
	numericPattern    = regexp.MustCompile(`^\d+$`)
)

// shortLinkHosts are redirectors whose URLs never carry the product
// identifier; they must go through the resolver.
var shortLinkHosts = map[string]struct{}{
	"a.co":      {},
	"amzn.to":   {},
	"amzn.eu":   {},
	"amzn.asia": {},
	"shein.top": {},
}

// IsShortLink reports whether raw points at a known short-link redirector
// or any subdomain of one, such as m.amzn.to.
func IsShortLink(raw string) bool {
	host := hostOf(raw)
	if host == "" {
		return false
	}
	for h := range shortLinkHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// ExtractExternalID pulls the marketplace product identifier out of a URL.
// The boolean is false when nothing matched, which is an expected outcome:
// callers fall back to the resolver.
func ExtractExternalID(raw string, src Source) (string, bool) {
	u, ok := parseURL(raw)
	if !ok || IsShortLink(raw) {
		return "", false
	}
	switch src {
	case SourceAmazon:
		m := amazonASINPattern.FindStringSubmatch(u.EscapedPath())
		if m == nil {
			return "", false
		}
		return strings.ToUpper(m[1]), true
	case SourceShein:
		if m := sheinPathPattern.FindStringSubmatch(u.Path); m != nil {
			return m[1], true
		}
		if m := sheinTailPattern.FindStringSubmatch(u.Path); m != nil {
			return m[1], true
		}
		if id := u.Query().Get("goods_id"); numericPattern.MatchString(id) {
			return id, true
		}
		return "", false
	default:
		return "", false
	}
}
