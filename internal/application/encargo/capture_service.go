package encargo

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/domain/shared"
	"github.com/encargos/storefront/internal/infrastructure/telemetry"
)

// MsgLoginRequired is returned when an operation needs a bearer token
const MsgLoginRequired = "Inicia sesión para continuar"

// CaptureInput is a product the customer wants to save as an encargo
type CaptureInput struct {
	SourceURL      string           `json:"source_url" binding:"required"`
	Source         string           `json:"source"`
	ExternalID     string           `json:"external_id"`
	Title          string           `json:"title"`
	ImageURL       string           `json:"image_url"`
	PriceEstimate  *decimal.Decimal `json:"price_estimate"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	Currency       string           `json:"currency"`
}

// InspectResult is what is known about a URL before capturing it.
// Resolved is set only when the URL had to go through the resolver.
type InspectResult struct {
	Source     encargo.Source           `json:"source"`
	ExternalID *string                  `json:"external_id"`
	Resolved   *encargo.ResolvedProduct `json:"resolved,omitempty"`
}

// CaptureService resolves, inspects, captures and lists encargos
type CaptureService struct {
	backend Backend
	logger  *zap.Logger
	metrics *telemetry.EncargoMetrics
}

// NewCaptureService creates a new CaptureService
func NewCaptureService(backend Backend, logger *zap.Logger) *CaptureService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaptureService{backend: backend, logger: logger}
}

// SetMetrics sets the metrics collector
func (s *CaptureService) SetMetrics(m *telemetry.EncargoMetrics) {
	s.metrics = m
}

// RequireURL extracts the url argument from an untyped JSON value.
// Anything other than a non-blank string is invalid input.
func RequireURL(v any) (string, error) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", shared.InvalidInput("url is required")
	}
	return strings.TrimSpace(s), nil
}

// Resolve follows redirects and short links through the backend and maps
// its answer onto the canonical field names. Nothing is cached.
func (s *CaptureService) Resolve(ctx context.Context, rawURL string) (res encargo.ResolvedProduct, err error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return encargo.ResolvedProduct{}, shared.InvalidInput("url is required")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "capture", "resolve")
	defer span.End()
	defer func(start time.Time) {
		telemetry.RecordError(span, err)
		s.metrics.RecordOperation(ctx, "resolve", start, err)
	}(time.Now())

	body, err := s.backend.Resolve(ctx, rawURL)
	if err != nil {
		return encargo.ResolvedProduct{}, err
	}
	return encargo.NormalizeResolved(body, rawURL), nil
}

// Inspect detects the source and identifier of rawURL locally and only
// calls the resolver when the identifier cannot be read from the URL.
func (s *CaptureService) Inspect(ctx context.Context, rawURL string) (InspectResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return InspectResult{}, shared.InvalidInput("url is required")
	}

	src := encargo.DetectSource(rawURL)
	if id, ok := encargo.ExtractExternalID(rawURL, src); ok {
		return InspectResult{Source: src, ExternalID: &id}, nil
	}

	resolved, err := s.Resolve(ctx, rawURL)
	if err != nil {
		return InspectResult{}, err
	}

	out := InspectResult{Source: src, ExternalID: resolved.ExternalID, Resolved: &resolved}
	if resolved.Source != nil && *resolved.Source != encargo.SourceUnknown {
		out.Source = *resolved.Source
	} else if detected := encargo.DetectSource(resolved.FinalURL); detected != encargo.SourceUnknown {
		out.Source = detected
	}
	if out.ExternalID == nil {
		if id, ok := encargo.ExtractExternalID(resolved.FinalURL, out.Source); ok {
			out.ExternalID = &id
		}
	}
	return out, nil
}

// Capture saves a product for the session's customer
func (s *CaptureService) Capture(ctx context.Context, session encargo.Session, input CaptureInput) (res encargo.CaptureResult, err error) {
	if !session.Authenticated() {
		return encargo.CaptureResult{}, shared.NewUnauthorized(MsgLoginRequired)
	}

	opts := []encargo.ItemOption{
		encargo.WithExternalID(input.ExternalID),
		encargo.WithTitle(input.Title),
		encargo.WithImageURL(input.ImageURL),
		encargo.WithCurrency(input.Currency),
	}
	if input.PriceEstimate != nil {
		opts = append(opts, encargo.WithPriceEstimate(*input.PriceEstimate))
	}
	if input.CompareAtPrice != nil {
		opts = append(opts, encargo.WithCompareAtPrice(*input.CompareAtPrice))
	}
	// unknown or missing sources are re-detected from the URL
	src := encargo.ParseSource(input.Source)
	if src == encargo.SourceUnknown {
		src = ""
	}
	item, err := encargo.NewCapturedItem(src, input.SourceURL, opts...)
	if err != nil {
		return encargo.CaptureResult{}, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "capture", "capture",
		attribute.String("source", string(item.Source)))
	defer span.End()
	defer func(start time.Time) {
		telemetry.RecordError(span, err)
		s.metrics.RecordOperation(ctx, "capture", start, err)
		s.metrics.RecordCapture(ctx, string(item.Source), err)
	}(time.Now())

	res, err = s.backend.Capture(ctx, session.Token, item.ToCaptureRequest())
	if err != nil {
		return encargo.CaptureResult{}, err
	}

	s.logger.Info("Captured encargo",
		zap.String("encargo_id", res.ID),
		zap.String("source", string(item.Source)),
		zap.String("customer_id", session.CustomerID))
	return res, nil
}

// ListMine returns the session customer's captured items
func (s *CaptureService) ListMine(ctx context.Context, session encargo.Session) (items []encargo.Encargo, err error) {
	if !session.Authenticated() {
		return nil, shared.NewUnauthorized(MsgLoginRequired)
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "capture", "list_mine")
	defer span.End()
	defer func(start time.Time) {
		telemetry.RecordError(span, err)
		s.metrics.RecordOperation(ctx, "list_mine", start, err)
	}(time.Now())

	return s.backend.ListMine(ctx, session.Token)
}
