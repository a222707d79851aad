package db

import (
	"context"
	"time"
)

const orderColumns = `id, code, customer_id,
    receiver_name, receiver_phone, receiver_address, receiver_district_id, receiver_ward_code,
    shipping_provider_code, shipping_service_code, shipment_tracking_code, shipment_display_code,
    shipment_status, shipment_created_at, expected_delivery_at, shipping_fee, label_token, label_url,
    created_at`

const getOrderByID = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrderByID(ctx context.Context, id string) (Order, error) {
	row := q.db.QueryRow(ctx, getOrderByID, id)
	return scanOrder(row)
}

const listOrderItems = `
SELECT id, order_id, name, quantity, price
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) ListOrderItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err = rows.Scan(&item.ID, &item.OrderID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

const getCustomerByID = `
SELECT id, full_name, phone_number, address, district_id, ward_code
FROM customers
WHERE id = $1
`

func (q *Queries) GetCustomerByID(ctx context.Context, id string) (Customer, error) {
	var customer Customer
	err := q.db.QueryRow(ctx, getCustomerByID, id).Scan(
		&customer.ID,
		&customer.FullName,
		&customer.PhoneNumber,
		&customer.Address,
		&customer.DistrictID,
		&customer.WardCode,
	)
	return customer, err
}

type SetOrderShipmentParams struct {
	OrderID              string
	ShippingProviderCode string
	ShippingServiceCode  string
	ShipmentTrackingCode string
	ShipmentDisplayCode  string
	ShipmentStatus       ShipmentStatus
	ShipmentCreatedAt    time.Time
	ExpectedDeliveryAt   *time.Time
	ShippingFee          int64
}

const setOrderShipment = `
UPDATE orders
SET shipping_provider_code = $2,
    shipping_service_code = $3,
    shipment_tracking_code = $4,
    shipment_display_code = $5,
    shipment_status = $6,
    shipment_created_at = $7,
    expected_delivery_at = $8,
    shipping_fee = $9
WHERE id = $1 AND shipment_tracking_code IS NULL
RETURNING ` + orderColumns

// SetOrderShipment records the freshly created carrier order on the order row.
// The WHERE clause on shipment_tracking_code IS NULL makes the write conditional,
// so two concurrent creation attempts cannot both succeed; the loser gets
// ErrRecordNotFound and must be reported as an already-shipped order.
func (q *Queries) SetOrderShipment(ctx context.Context, arg SetOrderShipmentParams) (Order, error) {
	row := q.db.QueryRow(ctx, setOrderShipment,
		arg.OrderID,
		arg.ShippingProviderCode,
		arg.ShippingServiceCode,
		arg.ShipmentTrackingCode,
		arg.ShipmentDisplayCode,
		arg.ShipmentStatus,
		arg.ShipmentCreatedAt,
		arg.ExpectedDeliveryAt,
		arg.ShippingFee,
	)
	return scanOrder(row)
}

type UpdateShipmentStatusParams struct {
	OrderID        string
	ShipmentStatus ShipmentStatus
}

const updateShipmentStatus = `
UPDATE orders
SET shipment_status = $2
WHERE id = $1
RETURNING ` + orderColumns

// UpdateShipmentStatus changes the lifecycle status only.
// The tracking code is intentionally left untouched for the audit trail.
func (q *Queries) UpdateShipmentStatus(ctx context.Context, arg UpdateShipmentStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateShipmentStatus, arg.OrderID, arg.ShipmentStatus)
	return scanOrder(row)
}

type SetOrderLabelParams struct {
	OrderID    string
	LabelToken string
	LabelURL   string
}

const setOrderLabel = `
UPDATE orders
SET label_token = $2,
    label_url = $3
WHERE id = $1
RETURNING ` + orderColumns

func (q *Queries) SetOrderLabel(ctx context.Context, arg SetOrderLabelParams) (Order, error) {
	row := q.db.QueryRow(ctx, setOrderLabel, arg.OrderID, arg.LabelToken, arg.LabelURL)
	return scanOrder(row)
}

func scanOrder(row rowScanner) (Order, error) {
	var order Order
	err := row.Scan(
		&order.ID,
		&order.Code,
		&order.CustomerID,
		&order.ReceiverName,
		&order.ReceiverPhone,
		&order.ReceiverAddress,
		&order.ReceiverDistrictID,
		&order.ReceiverWardCode,
		&order.ShippingProviderCode,
		&order.ShippingServiceCode,
		&order.ShipmentTrackingCode,
		&order.ShipmentDisplayCode,
		&order.ShipmentStatus,
		&order.ShipmentCreatedAt,
		&order.ExpectedDeliveryAt,
		&order.ShippingFee,
		&order.LabelToken,
		&order.LabelURL,
		&order.CreatedAt,
	)
	return order, err
}
