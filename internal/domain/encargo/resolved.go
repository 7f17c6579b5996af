package encargo

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ResolvedProduct is the canonical shape returned by the resolver proxy,
// whatever field names the backend used.
type ResolvedProduct struct {
	OK             bool    `json:"ok"`
	FinalURL       string  `json:"final_url"`
	ExternalID     *string `json:"external_id"`
	Title          *string `json:"title"`
	Image          *string `json:"image"`
	Price          *string `json:"price"`
	Currency       string  `json:"currency"`
	CompareAtPrice *string `json:"compare_at_price"`
	Source         *Source `json:"source,omitempty"`
}

// Canonical resolver fields
const (
	FieldFinalURL       = "final_url"
	FieldExternalID     = "external_id"
	FieldTitle          = "title"
	FieldImage          = "image"
	FieldPrice          = "price"
	FieldCurrency       = "currency"
	FieldCompareAtPrice = "compare_at_price"
	FieldSource         = "source"
)

// ResolveAliases lists, per canonical field, the backend field names that
// may carry it, in priority order.
var ResolveAliases = map[string][]string{
	FieldFinalURL:       {"finalUrl", "final_url", "url"},
	FieldExternalID:     {"external_id", "asin"},
	FieldTitle:          {"title"},
	FieldImage:          {"image", "image_url"},
	FieldPrice:          {"price", "price_estimate"},
	FieldCurrency:       {"currency"},
	FieldCompareAtPrice: {"compare_at_price", "compareAtPrice"},
	FieldSource:         {"source"},
}

// NormalizeResolved maps a decoded backend body onto ResolvedProduct using
// ResolveAliases. inputURL is the fallback for a missing final URL.
func NormalizeResolved(body map[string]json.RawMessage, inputURL string) ResolvedProduct {
	out := ResolvedProduct{
		OK:             true,
		FinalURL:       inputURL,
		ExternalID:     pick(body, ResolveAliases[FieldExternalID]),
		Title:          pick(body, ResolveAliases[FieldTitle]),
		Image:          pick(body, ResolveAliases[FieldImage]),
		Price:          pick(body, ResolveAliases[FieldPrice]),
		Currency:       DefaultCurrency,
		CompareAtPrice: pick(body, ResolveAliases[FieldCompareAtPrice]),
	}
	if v := pick(body, ResolveAliases[FieldFinalURL]); v != nil {
		out.FinalURL = *v
	}
	if v := pick(body, ResolveAliases[FieldCurrency]); v != nil {
		out.Currency = strings.ToUpper(*v)
	}
	if v := pick(body, ResolveAliases[FieldSource]); v != nil {
		src := ParseSource(*v)
		out.Source = &src
	}
	return out
}

// pick returns the first alias holding a non-empty scalar. Strings are
// unquoted and numbers keep their literal text so "12.50" stays "12.50".
func pick(body map[string]json.RawMessage, aliases []string) *string {
	for _, name := range aliases {
		raw, ok := body[name]
		if !ok {
			continue
		}
		if v, ok := scalarText(raw); ok {
			return &v
		}
	}
	return nil
}

func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	case '{', '[':
		return "", false
	default:
		return string(raw), true
	}
}
