package shipment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	"github.com/rs/zerolog/log"
)

// Info is the read model of an order's shipment record.
type Info struct {
	OrderID            string                `json:"order_id"`
	ProviderCode       string                `json:"provider_code,omitempty"`
	ServiceCode        string                `json:"service_code,omitempty"`
	TrackingCode       string                `json:"tracking_code,omitempty"`
	DisplayCode        string                `json:"display_code,omitempty"`
	Status             string                `json:"status,omitempty"`
	CreatedAt          *time.Time            `json:"created_at,omitempty"`
	ExpectedDeliveryAt *time.Time            `json:"expected_delivery_at,omitempty"`
	ShippingFee        *int64                `json:"shipping_fee,omitempty"`
	LabelURL           string                `json:"label_url,omitempty"`
	CarrierTracking    *carrier.TrackingInfo `json:"carrier_tracking,omitempty"`
}

// GetInfo returns the persisted shipment fields, enriched best-effort with
// live carrier tracking when the carrier supports it.
func (m *Manager) GetInfo(ctx context.Context, orderID string) (*Info, error) {
	order, err := m.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}

	info := &Info{
		OrderID:            order.ID,
		Status:             string(order.ShipmentStatus),
		CreatedAt:          order.ShipmentCreatedAt,
		ExpectedDeliveryAt: order.ExpectedDeliveryAt,
		ShippingFee:        order.ShippingFee,
	}
	if order.ShippingProviderCode != nil {
		info.ProviderCode = *order.ShippingProviderCode
	}
	if order.ShippingServiceCode != nil {
		info.ServiceCode = *order.ShippingServiceCode
	}
	if order.ShipmentTrackingCode != nil {
		info.TrackingCode = *order.ShipmentTrackingCode
	}
	if order.ShipmentDisplayCode != nil {
		info.DisplayCode = *order.ShipmentDisplayCode
	}
	if order.LabelURL != nil {
		info.LabelURL = *order.LabelURL
	}

	if info.TrackingCode == "" {
		return info, nil
	}

	adapter, err := m.adapterForOrder(ctx, order)
	if err != nil {
		return info, nil
	}

	tracking, err := adapter.TrackShipment(ctx, info.TrackingCode)
	if err != nil {
		var carrierErr *carrier.CarrierError
		if errors.As(err, &carrierErr) && carrierErr.Code == carrier.CodeNotImplemented {
			// GHN chưa hỗ trợ tracking; thông tin đã lưu là đủ.
			return info, nil
		}
		log.Debug().Err(err).Str("order_id", orderID).Msg("live tracking lookup failed")
		return info, nil
	}

	info.CarrierTracking = tracking
	return info, nil
}
