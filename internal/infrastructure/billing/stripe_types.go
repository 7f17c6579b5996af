package billing

// CreatePaymentIntentInput contains input for creating a PaymentIntent
type CreatePaymentIntentInput struct {
	CartID     string
	CustomerID string
	// CartScope fingerprints the session that owns the cart; it is part of
	// the idempotency key and is checked again on confirm
	CartScope   string
	AmountCents int64
	// Currency overrides the configured currency when set
	Currency string
	// Description is shown on the Stripe dashboard
	Description string
}

// PaymentIntentOutput is what checkout needs from a created PaymentIntent
type PaymentIntentOutput struct {
	PaymentIntentID string
	ClientSecret    string
	AmountCents     int64
	Currency        string
	Status          string
}

// Metadata keys written on every PaymentIntent
const (
	MetadataCartID     = "cart_id"
	MetadataCustomerID = "customer_id"
	MetadataCartScope  = "cart_scope"
)

// Webhook event types handled by the gateway
const (
	EventPaymentIntentSucceeded     = "payment_intent.succeeded"
	EventPaymentIntentPaymentFailed = "payment_intent.payment_failed"
)

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID         string `json:"event_id"`
	EventType       string `json:"event_type"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
	CartID          string `json:"cart_id,omitempty"`
	Processed       bool   `json:"processed"`
	Message         string `json:"message,omitempty"`
}
