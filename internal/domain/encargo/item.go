package encargo

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/encargos/storefront/internal/domain/shared"
)

// DefaultCurrency is used when neither the customer nor the backend names one
const DefaultCurrency = "USD"

// CapturedItem is a product captured from a marketplace listing.
// It is a value: once confirmed it is passed around by copy and never mutated.
type CapturedItem struct {
	Source         Source           `json:"source"`
	ExternalID     *string          `json:"external_id"`
	SourceURL      string           `json:"source_url"`
	Title          *string          `json:"title"`
	ImageURL       *string          `json:"image_url"`
	PriceEstimate  *decimal.Decimal `json:"price_estimate"`
	Currency       string           `json:"currency"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price,omitempty"`
}

// NewCapturedItem builds a CapturedItem from user or resolver input.
// The source is re-detected from the URL when not supplied, and the
// currency defaults to USD.
func NewCapturedItem(src Source, sourceURL string, opts ...ItemOption) (CapturedItem, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return CapturedItem{}, shared.InvalidInput("source_url is required")
	}
	if _, ok := parseURL(sourceURL); !ok {
		return CapturedItem{}, shared.InvalidInput("source_url is not a valid URL")
	}
	if src == "" || !src.IsValid() {
		src = DetectSource(sourceURL)
	}

	item := CapturedItem{
		Source:    src,
		SourceURL: sourceURL,
		Currency:  DefaultCurrency,
	}
	for _, opt := range opts {
		opt(&item)
	}

	if item.PriceEstimate != nil && item.PriceEstimate.IsNegative() {
		return CapturedItem{}, shared.InvalidInput("price_estimate cannot be negative")
	}
	if item.CompareAtPrice != nil && item.CompareAtPrice.IsNegative() {
		return CapturedItem{}, shared.InvalidInput("compare_at_price cannot be negative")
	}
	if item.ExternalID == nil {
		if id, ok := ExtractExternalID(sourceURL, src); ok {
			item.ExternalID = &id
		}
	}
	return item, nil
}

// ItemOption sets an optional CapturedItem field
type ItemOption func(*CapturedItem)

// WithExternalID sets the marketplace identifier
func WithExternalID(id string) ItemOption {
	return func(i *CapturedItem) {
		if id = strings.TrimSpace(id); id != "" {
			i.ExternalID = &id
		}
	}
}

// WithTitle sets the listing title
func WithTitle(title string) ItemOption {
	return func(i *CapturedItem) {
		if title = strings.TrimSpace(title); title != "" {
			i.Title = &title
		}
	}
}

// WithImageURL sets the listing image
func WithImageURL(u string) ItemOption {
	return func(i *CapturedItem) {
		if u = strings.TrimSpace(u); u != "" {
			i.ImageURL = &u
		}
	}
}

// WithPriceEstimate sets the estimated price
func WithPriceEstimate(p decimal.Decimal) ItemOption {
	return func(i *CapturedItem) {
		i.PriceEstimate = &p
	}
}

// WithCompareAtPrice sets the list ("was") price
func WithCompareAtPrice(p decimal.Decimal) ItemOption {
	return func(i *CapturedItem) {
		i.CompareAtPrice = &p
	}
}

// WithCurrency sets the currency, ignoring blanks
func WithCurrency(c string) ItemOption {
	return func(i *CapturedItem) {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			i.Currency = c
		}
	}
}

// CaptureRequest is the body sent to the backend capture endpoint
type CaptureRequest struct {
	Source        Source           `json:"source"`
	ExternalID    *string          `json:"external_id"`
	SourceURL     string           `json:"source_url"`
	Title         *string          `json:"title"`
	ImageURL      *string          `json:"image_url"`
	PriceEstimate *decimal.Decimal `json:"price_estimate"`
	Currency      string           `json:"currency"`
}

// ToCaptureRequest projects the item onto the capture wire format
func (i CapturedItem) ToCaptureRequest() CaptureRequest {
	return CaptureRequest{
		Source:        i.Source,
		ExternalID:    i.ExternalID,
		SourceURL:     i.SourceURL,
		Title:         i.Title,
		ImageURL:      i.ImageURL,
		PriceEstimate: i.PriceEstimate,
		Currency:      i.Currency,
	}
}

// CaptureResult is the backend's answer to a capture
type CaptureResult struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// Encargo is a captured item as stored by the backend
type Encargo struct {
	ID string `json:"id"`
	CapturedItem
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
