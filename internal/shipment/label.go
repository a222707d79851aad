package shipment

import (
	"context"
	"fmt"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
)

// GetLabel fetches a print token for the order's shipment and persists the
// token plus the constructed label URL. Label retrieval works regardless of
// shipment status; a cancelled shipment's label can still be printed.
func (m *Manager) GetLabel(ctx context.Context, orderID string) (db.Order, error) {
	order, err := m.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return db.Order{}, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}

	if !hasTrackingCode(order) {
		return db.Order{}, carrier.NewValidationError("*", "order_id", "order has no shipment to print a label for")
	}

	adapter, err := m.adapterForOrder(ctx, order)
	if err != nil {
		return db.Order{}, err
	}

	token, err := adapter.GetPrintToken(ctx, []string{*order.ShipmentTrackingCode})
	if err != nil {
		return db.Order{}, fmt.Errorf("failed to get print token: %w", err)
	}

	updated, err := m.store.SetOrderLabel(ctx, db.SetOrderLabelParams{
		OrderID:    orderID,
		LabelToken: token.Token,
		LabelURL:   token.URL,
	})
	if err != nil {
		return db.Order{}, fmt.Errorf("failed to persist label token: %w", err)
	}

	return updated, nil
}

func (m *Manager) adapterForOrder(ctx context.Context, order db.Order) (carrier.Provider, error) {
	providerCode := DefaultProviderCode
	if order.ShippingProviderCode != nil && *order.ShippingProviderCode != "" {
		providerCode = *order.ShippingProviderCode
	}

	profile, err := m.store.GetShippingProviderByCode(ctx, providerCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get shipping provider %s: %w", providerCode, err)
	}

	return m.registry.Build(profile)
}
