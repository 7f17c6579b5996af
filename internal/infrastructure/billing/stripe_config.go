package billing

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
)

// StripeConfig holds configuration for Stripe integration
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`

	// PublishableKey is handed to the card widget (pk_test_xxx or pk_live_xxx)
	PublishableKey string `json:"publishable_key" mapstructure:"publishable_key"`

	// WebhookSecret is the secret for verifying webhook signatures
	WebhookSecret string `json:"webhook_secret" mapstructure:"webhook_secret"`

	// IsTestMode indicates if using Stripe test mode
	IsTestMode bool `json:"is_test_mode" mapstructure:"is_test_mode"`

	// Currency is the ISO currency charged for encargos (lower-case, e.g. "usd")
	Currency string `json:"currency" mapstructure:"currency"`
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}

	if c.IsTestMode {
		if !strings.HasPrefix(c.SecretKey, "sk_test") && !strings.HasPrefix(c.SecretKey, "rk_test") {
			return fmt.Errorf("stripe: test mode enabled but secret key is not a test key")
		}
	} else {
		if !strings.HasPrefix(c.SecretKey, "sk_live") && !strings.HasPrefix(c.SecretKey, "rk_live") {
			return fmt.Errorf("stripe: live mode enabled but secret key is not a live key")
		}
	}

	if c.PublishableKey == "" {
		return fmt.Errorf("stripe: publishable key is required")
	}

	if c.Currency == "" {
		return fmt.Errorf("stripe: currency is required")
	}
	c.Currency = strings.ToLower(c.Currency)

	return nil
}

// InitStripeClient initializes the Stripe client with the configured API key
func (c *StripeConfig) InitStripeClient() {
	stripe.Key = c.SecretKey
}
