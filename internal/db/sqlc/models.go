package db

import (
	"time"
)

// ShipmentStatus là trạng thái vận đơn gắn trên đơn hàng.
type ShipmentStatus string

const (
	ShipmentStatusReady     ShipmentStatus = "ready"
	ShipmentStatusCancelled ShipmentStatus = "cancelled"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
)

// ProviderServiceType describes one service class offered by a shipping provider.
// Stored as a jsonb array on the provider row.
type ProviderServiceType struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	ServiceID     int64  `json:"service_id"`
	ServiceTypeID int64  `json:"service_type_id"`
	EstimatedDays int32  `json:"estimated_days"`
}

// ShippingProvider is one configured carrier integration.
// APIToken and ShopID are credentials and must never appear in API responses.
type ShippingProvider struct {
	ID               int64                 `json:"id"`
	Code             string                `json:"code"`
	Name             string                `json:"name"`
	BaseURL          string                `json:"base_url"`
	APIToken         string                `json:"-"`
	ShopID           string                `json:"-"`
	OriginDistrictID int64                 `json:"origin_district_id"`
	OriginWardCode   string                `json:"origin_ward_code"`
	ServiceTypes     []ProviderServiceType `json:"service_types"`
	IsActive         bool                  `json:"is_active"`
	DeletedAt        *time.Time            `json:"deleted_at"`
	CreatedAt        time.Time             `json:"created_at"`
}

type Order struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	CustomerID string `json:"customer_id"`

	// Receiver fields filled from the checkout shipping address.
	ReceiverName       *string `json:"receiver_name"`
	ReceiverPhone      *string `json:"receiver_phone"`
	ReceiverAddress    *string `json:"receiver_address"`
	ReceiverDistrictID *int64  `json:"receiver_district_id"`
	ReceiverWardCode   *string `json:"receiver_ward_code"`

	// Shipment fields, set once a carrier order has been created.
	ShippingProviderCode *string        `json:"shipping_provider_code"`
	ShippingServiceCode  *string        `json:"shipping_service_code"`
	ShipmentTrackingCode *string        `json:"shipment_tracking_code"`
	ShipmentDisplayCode  *string        `json:"shipment_display_code"`
	ShipmentStatus       ShipmentStatus `json:"shipment_status"`
	ShipmentCreatedAt    *time.Time     `json:"shipment_created_at"`
	ExpectedDeliveryAt   *time.Time     `json:"expected_delivery_at"`
	ShippingFee          *int64         `json:"shipping_fee"`
	LabelToken           *string        `json:"label_token"`
	LabelURL             *string        `json:"label_url"`

	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID       int64  `json:"id"`
	OrderID  string `json:"order_id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
}

type Customer struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	DistrictID  int64  `json:"district_id"`
	WardCode    string `json:"ward_code"`
}

// Location reference data, replaced wholesale by the sync pipeline.

type Province struct {
	ProviderCode string `json:"provider_code"`
	ProvinceID   int64  `json:"province_id"`
	Name         string `json:"name"`
}

type District struct {
	ProviderCode string `json:"provider_code"`
	DistrictID   int64  `json:"district_id"`
	ProvinceID   int64  `json:"province_id"`
	Name         string `json:"name"`
}

type Ward struct {
	ProviderCode string `json:"provider_code"`
	WardCode     string `json:"ward_code"`
	DistrictID   int64  `json:"district_id"`
	Name         string `json:"name"`
}
