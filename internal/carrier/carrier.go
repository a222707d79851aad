// Package carrier defines the carrier-neutral shipping contract.
// One Provider implementation exists per integrated carrier; everything above
// this package speaks only the vocabulary defined here.
package carrier

import (
	"context"
	"encoding/json"
	"time"
)

// Provider is the interface every carrier integration must implement.
// Adding a new carrier means implementing these operations against that
// carrier's API and registering a constructor in the Registry; the shipping
// orchestrator and the shipment lifecycle never change.
type Provider interface {
	// Code returns the carrier identifier (e.g. "ghn").
	Code() string

	// CalculateShipping quotes every service class of the carrier for one
	// route and returns the successful quotes sorted ascending by total fee.
	CalculateShipping(ctx context.Context, req CalculateShippingRequest) ([]QuotedService, error)

	// ValidateAddress cross-checks a province/district/ward combination.
	ValidateAddress(ctx context.Context, req ValidateAddressRequest) (ValidateAddressResult, error)

	// GetServices lists the service ids the carrier supports on one route.
	GetServices(ctx context.Context, fromDistrictID, toDistrictID int64) ([]Service, error)

	// CreateShipment creates a carrier order and returns its identifiers.
	CreateShipment(ctx context.Context, req CreateShipmentRequest) (*CreateShipmentResult, error)

	// GetPrintToken fetches a short-lived token for printing shipping labels.
	GetPrintToken(ctx context.Context, trackingCodes []string) (*PrintToken, error)

	// TrackShipment returns the carrier-side state of one shipment.
	TrackShipment(ctx context.Context, trackingCode string) (*TrackingInfo, error)
}

type CalculateShippingRequest struct {
	FromDistrictID int64
	ToDistrictID   int64
	ToWardCode     string
	Weight         int64 // grams
	DeclaredValue  int64 // VND, used as the insurance basis
}

// QuotedService is one priced service option, tagged with its carrier.
type QuotedService struct {
	ProviderCode  string `json:"provider_code"`
	ProviderName  string `json:"provider_name"`
	ServiceCode   string `json:"service_code"`
	ServiceName   string `json:"service_name"`
	EstimatedDays int32  `json:"estimated_days"`
	Total         int64  `json:"total"`
	BaseFee       int64  `json:"base_fee"`
	InsuranceFee  int64  `json:"insurance_fee"`
}

// Service is one route-dependent carrier service entry.
type Service struct {
	ServiceID     int64  `json:"service_id"`
	ShortName     string `json:"short_name"`
	ServiceTypeID int64  `json:"service_type_id"`
}

type ValidateAddressRequest struct {
	ProvinceID int64
	DistrictID int64
	WardCode   string
}

// Validity is a three-valued verdict: callers use address validation for
// diagnostics, so "could not tell" must be distinguishable from "wrong".
type Validity string

const (
	ValidityValid   Validity = "valid"
	ValidityInvalid Validity = "invalid"
	ValidityUnknown Validity = "unknown"
)

type ValidateAddressResult struct {
	Validity Validity `json:"validity"`
	Field    string   `json:"field,omitempty"`
	Detail   string   `json:"detail,omitempty"`
}

type ShipmentItem struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
}

type CreateShipmentRequest struct {
	ClientOrderCode string
	ToName          string
	ToPhone         string
	ToAddress       string
	ToDistrictID    int64
	ToWardCode      string
	Weight          int64 // grams
	ServiceID       int64
	ServiceTypeID   int64
	InsuranceValue  int64
	CODAmount       int64
	Items           []ShipmentItem
	Note            string
}

type CreateShipmentResult struct {
	// TrackingCode is the carrier-assigned primary code.
	TrackingCode string
	// DisplayCode is the normalized customer-facing form. Adapters must
	// guarantee it is never empty: when the carrier does not supply a
	// distinct value it equals TrackingCode.
	DisplayCode         string
	ServiceCode         string
	ExpectedDelivery    time.Time
	TotalFee            int64
	UsedFallbackService bool
}

type PrintToken struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type TrackingInfo struct {
	Status    string          `json:"status"`
	UpdatedAt time.Time       `json:"updated_at"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}
