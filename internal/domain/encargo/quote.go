package encargo

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/encargos/storefront/internal/domain/shared"
)

// CartLine is a captured item with the quantity the customer wants
type CartLine struct {
	EncargoID string       `json:"encargo_id,omitempty"`
	Item      CapturedItem `json:"item"`
	Quantity  int          `json:"quantity"`
}

// QuoteRequest is what the backend needs to price shipping
type QuoteRequest struct {
	Items   []CartLine      `json:"items"`
	Address ShippingAddress `json:"shipping_address"`
}

// Validate checks the request and returns a copy with the address
// normalized (which derives the CU area type).
func (r QuoteRequest) Validate() (QuoteRequest, error) {
	if len(r.Items) == 0 {
		return QuoteRequest{}, shared.InvalidInput("at least one item is required")
	}
	items := make([]CartLine, len(r.Items))
	copy(items, r.Items)
	for i, line := range items {
		if line.Quantity < 1 {
			return QuoteRequest{}, shared.InvalidInput("quantity must be at least 1")
		}
		if line.Item.SourceURL == "" {
			return QuoteRequest{}, shared.InvalidInput("item source_url is required")
		}
		if p := line.Item.PriceEstimate; p != nil && p.IsNegative() {
			return QuoteRequest{}, shared.InvalidInput("price_estimate cannot be negative")
		}
		if p := line.Item.CompareAtPrice; p != nil && p.IsNegative() {
			return QuoteRequest{}, shared.InvalidInput("compare_at_price cannot be negative")
		}
		items[i].Item.Currency = strings.ToUpper(strings.TrimSpace(line.Item.Currency))
		if items[i].Item.Currency == "" {
			items[i].Item.Currency = DefaultCurrency
		}
	}
	addr, err := r.Address.Normalize()
	if err != nil {
		return QuoteRequest{}, err
	}
	return QuoteRequest{Items: items, Address: addr}, nil
}

// Subtotal sums price estimates times quantities in the given currency.
// Lines without a price estimate make the subtotal unknown; lines priced in
// another currency or below zero are rejected, no conversion is attempted.
func (r QuoteRequest) Subtotal(currency string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range r.Items {
		if line.Item.PriceEstimate == nil {
			return decimal.Zero, shared.InvalidInput("every item needs a price estimate before checkout")
		}
		if line.Item.PriceEstimate.IsNegative() {
			return decimal.Zero, shared.InvalidInput("price_estimate cannot be negative")
		}
		lineCurrency := line.Item.Currency
		if lineCurrency == "" {
			lineCurrency = DefaultCurrency
		}
		if !strings.EqualFold(lineCurrency, currency) {
			return decimal.Zero, shared.InvalidInput("every item must be priced in " + strings.ToUpper(currency))
		}
		total = total.Add(line.Item.PriceEstimate.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

// QuoteLine is the shipping cost attributed to one owner
type QuoteLine struct {
	OwnerID       string  `json:"owner_id"`
	OwnerName     string  `json:"owner_name"`
	Mode          string  `json:"mode"`
	WeightLb      float64 `json:"weight_lb"`
	ShippingCents int64   `json:"shipping_cents"`
}

// UnavailableOwner is an owner that cannot ship to the requested address
type UnavailableOwner struct {
	OwnerID   string `json:"owner_id"`
	OwnerName string `json:"owner_name,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Quote is the backend's shipping quote. It is recomputed on every request.
type Quote struct {
	ShippingTotalCents int64              `json:"shipping_total_cents"`
	Breakdown          []QuoteLine        `json:"breakdown"`
	Unavailable        []UnavailableOwner `json:"unavailable"`
}

// ToCents converts a decimal amount in major units to integer cents,
// rounding half away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
