package shipment

import (
	"context"
	"fmt"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
	"github.com/rs/zerolog/log"
)

// Cancel moves the shipment to cancelled. The transition is allowed from any
// status except delivered and cancelled. Only the status changes: the
// tracking code stays on the order as an audit trail.
//
// This is a local-only cancellation: the carrier-side order is NOT
// cancelled. Known gap, kept deliberate until the carrier cancellation
// endpoint is wired up.
func (m *Manager) Cancel(ctx context.Context, orderID string) (db.Order, error) {
	order, err := m.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return db.Order{}, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}

	if !hasTrackingCode(order) {
		return db.Order{}, fmt.Errorf("order %s has no shipment: %w", orderID, carrier.ErrInvalidStateTransition)
	}

	switch order.ShipmentStatus {
	case db.ShipmentStatusDelivered:
		return db.Order{}, fmt.Errorf("shipment already delivered: %w", carrier.ErrInvalidStateTransition)
	case db.ShipmentStatusCancelled:
		return db.Order{}, fmt.Errorf("shipment already cancelled: %w", carrier.ErrInvalidStateTransition)
	}

	updated, err := m.store.UpdateShipmentStatus(ctx, db.UpdateShipmentStatusParams{
		OrderID:        orderID,
		ShipmentStatus: db.ShipmentStatusCancelled,
	})
	if err != nil {
		return db.Order{}, fmt.Errorf("failed to update shipment status: %w", err)
	}

	log.Warn().
		Str("order_id", orderID).
		Str("tracking_code", *order.ShipmentTrackingCode).
		Msg("shipment cancelled locally, carrier order was not cancelled")

	return updated, nil
}
