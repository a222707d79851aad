package shipping

import (
	"context"
	"errors"
	"testing"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
	"github.com/stretchr/testify/require"
)

type providerListerFunc func(ctx context.Context) ([]db.ShippingProvider, error)

func (f providerListerFunc) ListActiveShippingProviders(ctx context.Context) ([]db.ShippingProvider, error) {
	return f(ctx)
}

// stubProvider quotes a fixed set of services or fails with a fixed error.
type stubProvider struct {
	code   string
	quotes []carrier.QuotedService
	err    error
}

func (p *stubProvider) Code() string { return p.code }

func (p *stubProvider) CalculateShipping(context.Context, carrier.CalculateShippingRequest) ([]carrier.QuotedService, error) {
	return p.quotes, p.err
}

func (p *stubProvider) ValidateAddress(context.Context, carrier.ValidateAddressRequest) (carrier.ValidateAddressResult, error) {
	return carrier.ValidateAddressResult{Validity: carrier.ValidityUnknown}, nil
}

func (p *stubProvider) GetServices(context.Context, int64, int64) ([]carrier.Service, error) {
	return nil, nil
}

func (p *stubProvider) CreateShipment(context.Context, carrier.CreateShipmentRequest) (*carrier.CreateShipmentResult, error) {
	return nil, carrier.NewNotImplementedError(p.code, "CreateShipment")
}

func (p *stubProvider) GetPrintToken(context.Context, []string) (*carrier.PrintToken, error) {
	return nil, carrier.NewNotImplementedError(p.code, "GetPrintToken")
}

func (p *stubProvider) TrackShipment(context.Context, string) (*carrier.TrackingInfo, error) {
	return nil, carrier.NewNotImplementedError(p.code, "TrackShipment")
}

func registryWith(providers ...*stubProvider) *carrier.Registry {
	registry := carrier.NewRegistry()
	for _, p := range providers {
		p := p
		registry.Register(p.code, func(db.ShippingProvider) carrier.Provider { return p })
	}
	return registry
}

func validRequest() QuoteRequest {
	return QuoteRequest{
		FromDistrictID: 1454,
		ToDistrictID:   1442,
		ToWardCode:     "21012",
		Weight:         1000,
	}
}

func TestQuoteAllCarriersMergesAndSorts(t *testing.T) {
	lister := providerListerFunc(func(context.Context) ([]db.ShippingProvider, error) {
		return []db.ShippingProvider{{Code: "ghn"}, {Code: "ghtk"}}, nil
	})

	registry := registryWith(
		&stubProvider{code: "ghn", quotes: []carrier.QuotedService{
			{ProviderCode: "ghn", ServiceCode: "standard", Total: 31000},
		}},
		&stubProvider{code: "ghtk", quotes: []carrier.QuotedService{
			{ProviderCode: "ghtk", ServiceCode: "road", Total: 18000},
			{ProviderCode: "ghtk", ServiceCode: "express", Total: 45000},
		}},
	)

	resp, err := NewService(lister, registry).QuoteAllCarriers(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, resp.Services, 3)
	require.Equal(t, "ghtk", resp.Services[0].ProviderCode)
	require.EqualValues(t, 18000, resp.Services[0].Total)
	require.EqualValues(t, 31000, resp.Services[1].Total)
	require.EqualValues(t, 45000, resp.Services[2].Total)
}

func TestQuoteAllCarriersPartialSuccess(t *testing.T) {
	lister := providerListerFunc(func(context.Context) ([]db.ShippingProvider, error) {
		return []db.ShippingProvider{{Code: "ghn"}, {Code: "ghtk"}}, nil
	})

	registry := registryWith(
		&stubProvider{code: "ghn", err: carrier.NewUnavailableError("ghn", errors.New("timeout"))},
		&stubProvider{code: "ghtk", quotes: []carrier.QuotedService{
			{ProviderCode: "ghtk", ServiceCode: "road", Total: 18000},
		}},
	)

	resp, err := NewService(lister, registry).QuoteAllCarriers(context.Background(), validRequest())
	require.NoError(t, err, "one failing carrier must not fail the whole quote")
	require.Len(t, resp.Services, 1)
	require.Equal(t, "ghtk", resp.Services[0].ProviderCode)
}

func TestQuoteAllCarriersAllFailed(t *testing.T) {
	lister := providerListerFunc(func(context.Context) ([]db.ShippingProvider, error) {
		return []db.ShippingProvider{{Code: "ghn"}, {Code: "ghtk"}}, nil
	})

	registry := registryWith(
		&stubProvider{code: "ghn", err: carrier.NewUnavailableError("ghn", errors.New("timeout"))},
		&stubProvider{code: "ghtk", err: carrier.NewProtocolError("ghtk", "route not supported")},
	)

	_, err := NewService(lister, registry).QuoteAllCarriers(context.Background(), validRequest())

	var allFailed *AllCarriersFailedError
	require.ErrorAs(t, err, &allFailed)
	require.Len(t, allFailed.Failures, 2)
}

func TestQuoteAllCarriersUnregisteredCarrierIsAFailure(t *testing.T) {
	lister := providerListerFunc(func(context.Context) ([]db.ShippingProvider, error) {
		return []db.ShippingProvider{{Code: "vnpost"}}, nil
	})

	_, err := NewService(lister, carrier.NewRegistry()).QuoteAllCarriers(context.Background(), validRequest())

	var allFailed *AllCarriersFailedError
	require.ErrorAs(t, err, &allFailed)
	require.Len(t, allFailed.Failures, 1)
	require.ErrorIs(t, allFailed.Failures[0].Err, carrier.ErrCarrierNotRegistered)
}

func TestQuoteAllCarriersNoActiveProvider(t *testing.T) {
	lister := providerListerFunc(func(context.Context) ([]db.ShippingProvider, error) {
		return nil, nil
	})

	_, err := NewService(lister, carrier.NewRegistry()).QuoteAllCarriers(context.Background(), validRequest())

	var allFailed *AllCarriersFailedError
	require.ErrorAs(t, err, &allFailed)
}

func TestQuoteAllCarriersValidatesInput(t *testing.T) {
	service := NewService(providerListerFunc(func(context.Context) ([]db.ShippingProvider, error) {
		t.Fatal("store must not be consulted for an invalid request")
		return nil, nil
	}), carrier.NewRegistry())

	testCases := []struct {
		name      string
		mutate    func(*QuoteRequest)
		wantField string
	}{
		{"missing origin", func(r *QuoteRequest) { r.FromDistrictID = 0 }, "from_district_id"},
		{"missing destination", func(r *QuoteRequest) { r.ToDistrictID = 0 }, "to_district_id"},
		{"missing ward", func(r *QuoteRequest) { r.ToWardCode = "" }, "to_ward_code"},
		{"non-positive weight", func(r *QuoteRequest) { r.Weight = 0 }, "weight"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			_, err := service.QuoteAllCarriers(context.Background(), req)

			var carrierErr *carrier.CarrierError
			require.ErrorAs(t, err, &carrierErr)
			require.Equal(t, carrier.CodeValidation, carrierErr.Code)
			require.Equal(t, tc.wantField, carrierErr.Field)
		})
	}
}
