// Package shipment drives the shipment record on an order through its
// lifecycle: creation, label retrieval and cancellation.
package shipment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
	"github.com/lehoangphuc/vietshop-BE/internal/util"
	"github.com/lithammer/shortuuid/v4"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultProviderCode is used when the caller does not name a carrier.
	DefaultProviderCode = "ghn"

	// gramsPerItem ước lượng trọng lượng gói hàng theo số lượng sản phẩm.
	// Trọng lượng thật của sản phẩm chưa được lưu; đây là giới hạn đã biết.
	gramsPerItem int64 = 1000

	// standardServiceTypeID là lớp dịch vụ "chuẩn" của GHN (hàng nhẹ).
	standardServiceTypeID int64 = 2

	// fallbackServiceID là đường lui cuối cùng khi danh sách dịch vụ rỗng.
	fallbackServiceID int64 = 53320
)

// fallbackServices thay thế kết quả available-services khi truy vấn đó lỗi.
// Tạo vận đơn phải tiếp tục best-effort kể cả khi lookup suy giảm.
var fallbackServices = []carrier.Service{
	{ServiceID: 53320, ShortName: "Chuẩn", ServiceTypeID: 2},
	{ServiceID: 53322, ShortName: "Tiết Kiệm", ServiceTypeID: 5},
}

// Store is the slice of the db store the lifecycle manager needs.
type Store interface {
	GetOrderByID(ctx context.Context, id string) (db.Order, error)
	ListOrderItems(ctx context.Context, orderID string) ([]db.OrderItem, error)
	GetCustomerByID(ctx context.Context, id string) (db.Customer, error)
	GetShippingProviderByCode(ctx context.Context, code string) (db.ShippingProvider, error)
	SetOrderShipment(ctx context.Context, arg db.SetOrderShipmentParams) (db.Order, error)
	UpdateShipmentStatus(ctx context.Context, arg db.UpdateShipmentStatusParams) (db.Order, error)
	SetOrderLabel(ctx context.Context, arg db.SetOrderLabelParams) (db.Order, error)
}

type Manager struct {
	store    Store
	registry *carrier.Registry
}

func NewManager(store Store, registry *carrier.Registry) *Manager {
	return &Manager{
		store:    store,
		registry: registry,
	}
}

type CreateParams struct {
	OrderID      string
	ProviderCode string
	// ServiceKeyword selects a service by case-insensitive substring match
	// against the carrier's short names (e.g. "nhanh").
	ServiceKeyword string

	// Explicit recipient overrides. When empty the order's shipping address
	// is used, then the customer record.
	ReceiverName       string
	ReceiverPhone      string
	ReceiverAddress    string
	ReceiverDistrictID int64
	ReceiverWardCode   string

	Note string
}

// Create creates the carrier shipment for one order and persists the
// resulting identifiers. An order gets exactly one shipment: a second call
// for an order that already has a tracking code fails with ErrAlreadyShipped
// before any carrier request is issued.
func (m *Manager) Create(ctx context.Context, params CreateParams) (db.Order, error) {
	order, err := m.store.GetOrderByID(ctx, params.OrderID)
	if err != nil {
		return db.Order{}, fmt.Errorf("failed to get order %s: %w", params.OrderID, err)
	}

	if hasTrackingCode(order) {
		return db.Order{}, fmt.Errorf("order %s: %w", order.ID, carrier.ErrAlreadyShipped)
	}

	providerCode := params.ProviderCode
	if providerCode == "" {
		providerCode = DefaultProviderCode
	}

	profile, err := m.store.GetShippingProviderByCode(ctx, providerCode)
	if err != nil {
		return db.Order{}, fmt.Errorf("failed to get shipping provider %s: %w", providerCode, err)
	}
	if !profile.IsActive {
		return db.Order{}, fmt.Errorf("shipping provider %s is not active", providerCode)
	}

	adapter, err := m.registry.Build(profile)
	if err != nil {
		return db.Order{}, err
	}

	receiver, err := m.resolveReceiver(ctx, order, params)
	if err != nil {
		return db.Order{}, err
	}

	items, err := m.store.ListOrderItems(ctx, order.ID)
	if err != nil {
		return db.Order{}, fmt.Errorf("failed to list order items: %w", err)
	}

	var itemCount, insuranceValue int64
	shipmentItems := make([]carrier.ShipmentItem, 0, len(items))
	for _, item := range items {
		itemCount += item.Quantity
		insuranceValue += item.Price * item.Quantity
		shipmentItems = append(shipmentItems, carrier.ShipmentItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	services, err := adapter.GetServices(ctx, profile.OriginDistrictID, receiver.DistrictID)
	if err != nil {
		// Lookup suy giảm thì vẫn tạo đơn với danh sách dự phòng.
		log.Warn().Err(err).
			Str("order_id", order.ID).
			Str("provider", providerCode).
			Msg("available-services lookup failed, using fallback service list")
		services = fallbackServices
	}

	selected := selectService(services, params.ServiceKeyword)

	result, err := adapter.CreateShipment(ctx, carrier.CreateShipmentRequest{
		ClientOrderCode: shortuuid.New(),
		ToName:          receiver.Name,
		ToPhone:         receiver.Phone,
		ToAddress:       receiver.Address,
		ToDistrictID:    receiver.DistrictID,
		ToWardCode:      receiver.WardCode,
		Weight:          itemCount * gramsPerItem,
		ServiceID:       selected.ServiceID,
		ServiceTypeID:   selected.ServiceTypeID,
		InsuranceValue:  insuranceValue,
		Items:           shipmentItems,
		Note:            params.Note,
	})
	if err != nil {
		return db.Order{}, fmt.Errorf("failed to create carrier shipment: %w", err)
	}

	serviceCode := result.ServiceCode
	if serviceCode == "" {
		serviceCode = params.ServiceKeyword
	}

	setParams := db.SetOrderShipmentParams{
		OrderID:              order.ID,
		ShippingProviderCode: providerCode,
		ShippingServiceCode:  serviceCode,
		ShipmentTrackingCode: result.TrackingCode,
		ShipmentDisplayCode:  result.DisplayCode,
		ShipmentStatus:       db.ShipmentStatusReady,
		ShipmentCreatedAt:    time.Now(),
	}
	setParams.ShippingFee = result.TotalFee
	if !result.ExpectedDelivery.IsZero() {
		// GHN trả UTC; luôn lưu theo giờ địa phương.
		local := util.ToVietnamTime(result.ExpectedDelivery)
		setParams.ExpectedDeliveryAt = &local
	}

	updated, err := m.store.SetOrderShipment(ctx, setParams)
	if err != nil {
		if errors.Is(err, db.ErrRecordNotFound) {
			// Một request song song đã thắng cuộc ghi có điều kiện.
			return db.Order{}, fmt.Errorf("order %s: %w", order.ID, carrier.ErrAlreadyShipped)
		}
		return db.Order{}, fmt.Errorf("failed to persist shipment on order: %w", err)
	}

	log.Info().
		Str("order_id", order.ID).
		Str("provider", providerCode).
		Str("tracking_code", result.TrackingCode).
		Int64("fee", result.TotalFee).
		Bool("used_fallback_service", result.UsedFallbackService).
		Msg("shipment created")

	return updated, nil
}

type receiverInfo struct {
	Name       string
	Phone      string
	Address    string
	DistrictID int64
	WardCode   string
}

// resolveReceiver áp dụng thứ tự ưu tiên: tham số tường minh, địa chỉ giao
// hàng trên đơn, cuối cùng là hồ sơ khách hàng.
func (m *Manager) resolveReceiver(ctx context.Context, order db.Order, params CreateParams) (receiverInfo, error) {
	receiver := receiverInfo{
		Name:       params.ReceiverName,
		Phone:      params.ReceiverPhone,
		Address:    params.ReceiverAddress,
		DistrictID: params.ReceiverDistrictID,
		WardCode:   params.ReceiverWardCode,
	}

	fillFromOrder(&receiver, order)

	if receiver.incomplete() {
		customer, err := m.store.GetCustomerByID(ctx, order.CustomerID)
		if err == nil {
			fillFromCustomer(&receiver, customer)
		} else if !errors.Is(err, db.ErrRecordNotFound) {
			return receiverInfo{}, fmt.Errorf("failed to get customer: %w", err)
		}
	}

	if missing := receiver.missingFields(); len(missing) > 0 {
		return receiverInfo{}, fmt.Errorf("%w: missing %s", carrier.ErrIncompleteAddress, strings.Join(missing, ", "))
	}

	return receiver, nil
}

func fillFromOrder(receiver *receiverInfo, order db.Order) {
	if receiver.Name == "" && order.ReceiverName != nil {
		receiver.Name = *order.ReceiverName
	}
	if receiver.Phone == "" && order.ReceiverPhone != nil {
		receiver.Phone = *order.ReceiverPhone
	}
	if receiver.Address == "" && order.ReceiverAddress != nil {
		receiver.Address = *order.ReceiverAddress
	}
	if receiver.DistrictID == 0 && order.ReceiverDistrictID != nil {
		receiver.DistrictID = *order.ReceiverDistrictID
	}
	if receiver.WardCode == "" && order.ReceiverWardCode != nil {
		receiver.WardCode = *order.ReceiverWardCode
	}
}

func fillFromCustomer(receiver *receiverInfo, customer db.Customer) {
	if receiver.Name == "" {
		receiver.Name = customer.FullName
	}
	if receiver.Phone == "" {
		receiver.Phone = customer.PhoneNumber
	}
	if receiver.Address == "" {
		receiver.Address = customer.Address
	}
	if receiver.DistrictID == 0 {
		receiver.DistrictID = customer.DistrictID
	}
	if receiver.WardCode == "" {
		receiver.WardCode = customer.WardCode
	}
}

func (r receiverInfo) incomplete() bool {
	return len(r.missingFields()) > 0
}

func (r receiverInfo) missingFields() []string {
	var missing []string
	if r.Name == "" {
		missing = append(missing, "receiver_name")
	}
	if r.Phone == "" {
		missing = append(missing, "receiver_phone")
	}
	if r.Address == "" {
		missing = append(missing, "receiver_address")
	}
	if r.DistrictID == 0 {
		missing = append(missing, "receiver_district_id")
	}
	if r.WardCode == "" {
		missing = append(missing, "receiver_ward_code")
	}
	return missing
}

// selectService chọn dịch vụ theo ba bậc, đúng thứ tự:
//  1. dịch vụ có short name chứa keyword (không phân biệt hoa thường)
//  2. dịch vụ thuộc lớp "chuẩn" của hãng
//  3. service id dự phòng cố định khi danh sách rỗng
// Bậc 1 luôn được xét trước bậc 2 kể cả khi cả hai cùng khớp.
func selectService(services []carrier.Service, keyword string) carrier.Service {
	if len(services) == 0 {
		return carrier.Service{ServiceID: fallbackServiceID, ServiceTypeID: standardServiceTypeID}
	}

	if keyword != "" {
		lowered := strings.ToLower(keyword)
		for _, service := range services {
			if strings.Contains(strings.ToLower(service.ShortName), lowered) {
				return service
			}
		}
	}

	for _, service := range services {
		if service.ServiceTypeID == standardServiceTypeID {
			return service
		}
	}

	return services[0]
}

func hasTrackingCode(order db.Order) bool {
	return order.ShipmentTrackingCode != nil && *order.ShipmentTrackingCode != ""
}
