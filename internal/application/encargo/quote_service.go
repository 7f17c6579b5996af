package encargo

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/domain/shared"
	"github.com/encargos/storefront/internal/infrastructure/telemetry"
)

// QuoteService prices shipping for a cart through the backend
type QuoteService struct {
	backend Backend
	logger  *zap.Logger
	metrics *telemetry.EncargoMetrics
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(backend Backend, logger *zap.Logger) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{backend: backend, logger: logger}
}

// SetMetrics sets the metrics collector
func (s *QuoteService) SetMetrics(m *telemetry.EncargoMetrics) {
	s.metrics = m
}

// Quote validates req, derives the CU area type and asks the backend for
// a shipping quote. A session without a token fails before any network call.
// Backend failures are returned as-is; there are no retries.
func (s *QuoteService) Quote(ctx context.Context, session encargo.Session, req encargo.QuoteRequest) (q encargo.Quote, err error) {
	if !session.Authenticated() {
		return encargo.Quote{}, shared.NewUnauthorized(MsgLoginRequired)
	}
	req, err = req.Validate()
	if err != nil {
		return encargo.Quote{}, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "quote",
		attribute.String("country", string(req.Address.Country)),
		attribute.String("area_type", string(req.Address.AreaType())),
		attribute.Int("lines", len(req.Items)))
	defer span.End()
	defer func(start time.Time) {
		telemetry.RecordError(span, err)
		s.metrics.RecordOperation(ctx, "quote", start, err)
	}(time.Now())

	q, err = s.backend.Quote(ctx, session.Token, req)
	if err != nil {
		return encargo.Quote{}, err
	}

	s.logger.Debug("Quoted shipping",
		zap.String("customer_id", session.CustomerID),
		zap.Int64("shipping_total_cents", q.ShippingTotalCents),
		zap.Int("unavailable", len(q.Unavailable)))
	return q, nil
}
