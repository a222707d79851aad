package db

import (
	"context"
)

type Querier interface {
	// Shipping providers
	ListActiveShippingProviders(ctx context.Context) ([]ShippingProvider, error)
	GetShippingProviderByCode(ctx context.Context, code string) (ShippingProvider, error)
	UpsertShippingProvider(ctx context.Context, arg UpsertShippingProviderParams) (ShippingProvider, error)

	// Orders and their shipment fields
	GetOrderByID(ctx context.Context, id string) (Order, error)
	ListOrderItems(ctx context.Context, orderID string) ([]OrderItem, error)
	GetCustomerByID(ctx context.Context, id string) (Customer, error)
	SetOrderShipment(ctx context.Context, arg SetOrderShipmentParams) (Order, error)
	UpdateShipmentStatus(ctx context.Context, arg UpdateShipmentStatusParams) (Order, error)
	SetOrderLabel(ctx context.Context, arg SetOrderLabelParams) (Order, error)

	// Location reference data
	DeleteProvinces(ctx context.Context, providerCode string) error
	DeleteDistricts(ctx context.Context, providerCode string) error
	DeleteWards(ctx context.Context, providerCode string) error
	CreateProvinces(ctx context.Context, arg CreateProvincesParams) (int64, error)
	CreateDistricts(ctx context.Context, arg CreateDistrictsParams) (int64, error)
	CreateWards(ctx context.Context, arg CreateWardsParams) (int64, error)
	CountProvinces(ctx context.Context, providerCode string) (int64, error)
	ListProvinces(ctx context.Context, providerCode string) ([]Province, error)
	ListDistrictsByProvince(ctx context.Context, arg ListDistrictsByProvinceParams) ([]District, error)
	ListWardsByDistrict(ctx context.Context, arg ListWardsByDistrictParams) ([]Ward, error)
	DistrictExists(ctx context.Context, arg DistrictExistsParams) (bool, error)
}

var _ Querier = (*Queries)(nil)
