package encargo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/encargos/storefront/internal/domain/encargo"
	"github.com/encargos/storefront/internal/domain/shared"
)

var authed = encargo.Session{Token: "tok-1", CustomerID: "42"}

func rawBody(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(s), &out))
	return out
}

func TestRequireURL(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
		ok    bool
	}{
		{"string", " https://a.co/d/x ", "https://a.co/d/x", true},
		{"empty", "", "", false},
		{"blank", "   ", "", false},
		{"number", 42.0, "", false},
		{"missing", nil, "", false},
		{"object", map[string]any{"u": "x"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequireURL(tt.value)
			if !tt.ok {
				assert.ErrorIs(t, err, shared.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCaptureService_Resolve(t *testing.T) {
	t.Run("maps aliases onto canonical fields", func(t *testing.T) {
		backend := new(MockBackend)
		svc := NewCaptureService(backend, nil)

		backend.On("Resolve", mock.Anything, "https://a.co/d/abc").
			Return(rawBody(t, `{"finalUrl":"https://www.amazon.com/dp/B08N5WRWNW","asin":"B08N5WRWNW","image_url":"https://img/x.jpg","price_estimate":"19.99"}`), nil)

		got, err := svc.Resolve(context.Background(), "https://a.co/d/abc")
		require.NoError(t, err)
		assert.Equal(t, "https://www.amazon.com/dp/B08N5WRWNW", got.FinalURL)
		require.NotNil(t, got.ExternalID)
		assert.Equal(t, "B08N5WRWNW", *got.ExternalID)
		require.NotNil(t, got.Image)
		assert.Equal(t, "https://img/x.jpg", *got.Image)
		require.NotNil(t, got.Price)
		assert.Equal(t, "19.99", *got.Price)
		assert.Equal(t, "USD", got.Currency)
		backend.AssertExpectations(t)
	})

	t.Run("empty url never reaches the backend", func(t *testing.T) {
		backend := new(MockBackend)
		svc := NewCaptureService(backend, nil)

		_, err := svc.Resolve(context.Background(), "  ")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		backend.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("upstream error passes through", func(t *testing.T) {
		backend := new(MockBackend)
		svc := NewCaptureService(backend, nil)
		upstream := shared.NewUpstreamError(http.StatusInternalServerError, "timeout")
		backend.On("Resolve", mock.Anything, "https://a.co/d/x").Return(nil, upstream)

		_, err := svc.Resolve(context.Background(), "https://a.co/d/x")
		var got *shared.UpstreamError
		require.True(t, errors.As(err, &got))
		assert.Equal(t, 500, got.Status)
		assert.Equal(t, "timeout", got.Message)
	})
}

func TestCaptureService_Inspect(t *testing.T) {
	t.Run("identifier read locally", func(t *testing.T) {
		backend := new(MockBackend)
		svc := NewCaptureService(backend, nil)

		got, err := svc.Inspect(context.Background(), "https://www.amazon.com/dp/b08n5wrwnw?th=1")
		require.NoError(t, err)
		assert.Equal(t, encargo.SourceAmazon, got.Source)
		require.NotNil(t, got.ExternalID)
		assert.Equal(t, "B08N5WRWNW", *got.ExternalID)
		assert.Nil(t, got.Resolved)
		backend.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	})

	t.Run("short link falls through to resolver", func(t *testing.T) {
		backend := new(MockBackend)
		svc := NewCaptureService(backend, nil)
		backend.On("Resolve", mock.Anything, "https://a.co/d/abc").
			Return(rawBody(t, `{"final_url":"https://www.amazon.com/gp/product/B000000001"}`), nil)

		got, err := svc.Inspect(context.Background(), "https://a.co/d/abc")
		require.NoError(t, err)
		assert.Equal(t, encargo.SourceAmazon, got.Source)
		require.NotNil(t, got.ExternalID, "identifier is extracted from the final url")
		assert.Equal(t, "B000000001", *got.ExternalID)
		require.NotNil(t, got.Resolved)
		backend.AssertExpectations(t)
	})

	t.Run("resolver source wins over host detection", func(t *testing.T) {
		backend := new(MockBackend)
		svc := NewCaptureService(backend, nil)
		backend.On("Resolve", mock.Anything, "https://shein.top/abc").
			Return(rawBody(t, `{"url":"https://m.shein.com/x-p-123456.html","source":"SHEIN","external_id":"123456"}`), nil)

		got, err := svc.Inspect(context.Background(), "https://shein.top/abc")
		require.NoError(t, err)
		assert.Equal(t, encargo.SourceShein, got.Source)
		assert.Equal(t, "123456", *got.ExternalID)
	})
}

func TestCaptureService_Capture(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		backend := new(MockBackend)
		svc := NewCaptureService(backend, nil)

		_, err := svc.Capture(context.Background(), encargo.Session{}, CaptureInput{SourceURL: "https://www.amazon.com/dp/B08N5WRWNW"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
		backend.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("builds the capture body", func(t *testing.T) {
		backend := new(MockBackend)
		svc := NewCaptureService(backend, nil)
		price := decimal.RequireFromString("12.50")

		backend.On("Capture", mock.Anything, "tok-1", mock.MatchedBy(func(req encargo.CaptureRequest) bool {
			return req.Source == encargo.SourceAmazon &&
				req.ExternalID != nil && *req.ExternalID == "B08N5WRWNW" &&
				req.Title != nil && *req.Title == "Echo Dot" &&
				req.ImageURL == nil &&
				req.PriceEstimate != nil && req.PriceEstimate.Equal(price) &&
				req.Currency == "USD"
		})).Return(encargo.CaptureResult{OK: true, ID: "enc-1"}, nil)

		got, err := svc.Capture(context.Background(), authed, CaptureInput{
			SourceURL:     "https://www.amazon.com/dp/B08N5WRWNW",
			Title:         " Echo Dot ",
			PriceEstimate: &price,
		})
		require.NoError(t, err)
		assert.Equal(t, "enc-1", got.ID)
		backend.AssertExpectations(t)
	})

	t.Run("invalid url", func(t *testing.T) {
		backend := new(MockBackend)
		svc := NewCaptureService(backend, nil)

		_, err := svc.Capture(context.Background(), authed, CaptureInput{SourceURL: "not a url"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("negative price", func(t *testing.T) {
		backend := new(MockBackend)
		svc := NewCaptureService(backend, nil)
		price := decimal.NewFromInt(-1)

		_, err := svc.Capture(context.Background(), authed, CaptureInput{
			SourceURL: "https://us.shein.com/x-p-1.html", PriceEstimate: &price,
		})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestCaptureService_ListMine(t *testing.T) {
	backend := new(MockBackend)
	svc := NewCaptureService(backend, nil)

	_, err := svc.ListMine(context.Background(), encargo.Session{CustomerID: "42"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	backend.On("ListMine", mock.Anything, "tok-1").
		Return([]encargo.Encargo{{ID: "e1"}, {ID: "e2"}}, nil)
	items, err := svc.ListMine(context.Background(), authed)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
