// Package shipping aggregates fee quotes across every active carrier.
package shipping

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ProviderLister is the slice of the store this service reads.
type ProviderLister interface {
	ListActiveShippingProviders(ctx context.Context) ([]db.ShippingProvider, error)
}

type Service struct {
	store    ProviderLister
	registry *carrier.Registry
}

func NewService(store ProviderLister, registry *carrier.Registry) *Service {
	return &Service{
		store:    store,
		registry: registry,
	}
}

type QuoteRequest struct {
	FromDistrictID int64
	ToDistrictID   int64
	ToWardCode     string
	Weight         int64
	DeclaredValue  int64
}

type QuoteResponse struct {
	Services []carrier.QuotedService `json:"services"`
}

// CarrierFailure records why one carrier produced no quote.
type CarrierFailure struct {
	ProviderCode string
	Err          error
}

// AllCarriersFailedError is returned only when zero carriers quoted.
type AllCarriersFailedError struct {
	Failures []CarrierFailure
}

func (e *AllCarriersFailedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.ProviderCode, f.Err))
	}
	return "all carriers failed to quote: " + strings.Join(parts, "; ")
}

// QuoteAllCarriers fans one CalculateShipping call out to every active,
// non-deleted provider and merges the results. All calls are issued before
// any is awaited; completion order carries no meaning because the flattened
// list is re-sorted by fee. Partial success is the success case: the call
// fails only when no carrier quoted at all.
func (s *Service) QuoteAllCarriers(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	if err := validateQuoteRequest(req); err != nil {
		return nil, err
	}

	providers, err := s.store.ListActiveShippingProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping providers: %w", err)
	}
	if len(providers) == 0 {
		return nil, &AllCarriersFailedError{Failures: []CarrierFailure{
			{ProviderCode: "*", Err: fmt.Errorf("no active shipping provider configured")},
		}}
	}

	var (
		mu       sync.Mutex
		quoted   []carrier.QuotedService
		failures []CarrierFailure
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, profile := range providers {
		profile := profile
		g.Go(func() error {
			adapter, err := s.registry.Build(profile)
			if err != nil {
				mu.Lock()
				failures = append(failures, CarrierFailure{ProviderCode: profile.Code, Err: err})
				mu.Unlock()
				return nil
			}

			services, err := adapter.CalculateShipping(gctx, carrier.CalculateShippingRequest{
				FromDistrictID: req.FromDistrictID,
				ToDistrictID:   req.ToDistrictID,
				ToWardCode:     req.ToWardCode,
				Weight:         req.Weight,
				DeclaredValue:  req.DeclaredValue,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Never abort the fan-out: the other carriers may still quote.
				failures = append(failures, CarrierFailure{ProviderCode: profile.Code, Err: err})
				return nil
			}
			quoted = append(quoted, services...)
			return nil
		})
	}
	_ = g.Wait()

	if len(quoted) == 0 {
		return nil, &AllCarriersFailedError{Failures: failures}
	}

	sort.Slice(quoted, func(i, j int) bool {
		return quoted[i].Total < quoted[j].Total
	})

	if len(failures) > 0 {
		log.Warn().
			Int("quoted", len(quoted)).
			Int("failed_carriers", len(failures)).
			Msg("multi-carrier quote degraded to partial results")
	}

	return &QuoteResponse{Services: quoted}, nil
}

func validateQuoteRequest(req QuoteRequest) error {
	switch {
	case req.FromDistrictID <= 0:
		return carrier.NewValidationError("*", "from_district_id", "origin district id is required")
	case req.ToDistrictID <= 0:
		return carrier.NewValidationError("*", "to_district_id", "destination district id is required")
	case req.ToWardCode == "":
		return carrier.NewValidationError("*", "to_ward_code", "destination ward code is required")
	case req.Weight <= 0:
		return carrier.NewValidationError("*", "weight", "weight must be positive")
	}
	return nil
}
