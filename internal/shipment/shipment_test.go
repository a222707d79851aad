package shipment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
	"github.com/stretchr/testify/require"
)

// fakeStore là Store in-memory cho test; mỗi lần ghi đều được ghi lại để
// assert trên tham số.
type fakeStore struct {
	orders    map[string]db.Order
	items     map[string][]db.OrderItem
	customers map[string]db.Customer
	providers map[string]db.ShippingProvider

	setShipmentErr   error
	lastSetShipment  *db.SetOrderShipmentParams
	lastStatusUpdate *db.UpdateShipmentStatusParams
	lastLabel        *db.SetOrderLabelParams
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:    make(map[string]db.Order),
		items:     make(map[string][]db.OrderItem),
		customers: make(map[string]db.Customer),
		providers: make(map[string]db.ShippingProvider),
	}
}

func (s *fakeStore) GetOrderByID(_ context.Context, id string) (db.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return db.Order{}, db.ErrRecordNotFound
	}
	return order, nil
}

func (s *fakeStore) ListOrderItems(_ context.Context, orderID string) ([]db.OrderItem, error) {
	return s.items[orderID], nil
}

func (s *fakeStore) GetCustomerByID(_ context.Context, id string) (db.Customer, error) {
	customer, ok := s.customers[id]
	if !ok {
		return db.Customer{}, db.ErrRecordNotFound
	}
	return customer, nil
}

func (s *fakeStore) GetShippingProviderByCode(_ context.Context, code string) (db.ShippingProvider, error) {
	provider, ok := s.providers[code]
	if !ok {
		return db.ShippingProvider{}, db.ErrRecordNotFound
	}
	return provider, nil
}

func (s *fakeStore) SetOrderShipment(_ context.Context, arg db.SetOrderShipmentParams) (db.Order, error) {
	s.lastSetShipment = &arg
	if s.setShipmentErr != nil {
		return db.Order{}, s.setShipmentErr
	}

	order := s.orders[arg.OrderID]
	order.ShippingProviderCode = &arg.ShippingProviderCode
	order.ShipmentTrackingCode = &arg.ShipmentTrackingCode
	order.ShipmentDisplayCode = &arg.ShipmentDisplayCode
	order.ShipmentStatus = arg.ShipmentStatus
	s.orders[arg.OrderID] = order
	return order, nil
}

func (s *fakeStore) UpdateShipmentStatus(_ context.Context, arg db.UpdateShipmentStatusParams) (db.Order, error) {
	s.lastStatusUpdate = &arg
	order := s.orders[arg.OrderID]
	order.ShipmentStatus = arg.ShipmentStatus
	s.orders[arg.OrderID] = order
	return order, nil
}

func (s *fakeStore) SetOrderLabel(_ context.Context, arg db.SetOrderLabelParams) (db.Order, error) {
	s.lastLabel = &arg
	order := s.orders[arg.OrderID]
	order.LabelToken = &arg.LabelToken
	order.LabelURL = &arg.LabelURL
	s.orders[arg.OrderID] = order
	return order, nil
}

// fakeCarrier là carrier.Provider cho test lifecycle; chỉ ghi nhận request và
// trả kết quả cấu hình sẵn.
type fakeCarrier struct {
	code string

	services    []carrier.Service
	servicesErr error

	createResult *carrier.CreateShipmentResult
	createErr    error
	createCalls  int
	lastCreate   *carrier.CreateShipmentRequest

	printToken *carrier.PrintToken
}

func (f *fakeCarrier) Code() string { return f.code }

func (f *fakeCarrier) CalculateShipping(context.Context, carrier.CalculateShippingRequest) ([]carrier.QuotedService, error) {
	return nil, carrier.NewNotImplementedError(f.code, "CalculateShipping")
}

func (f *fakeCarrier) ValidateAddress(context.Context, carrier.ValidateAddressRequest) (carrier.ValidateAddressResult, error) {
	return carrier.ValidateAddressResult{Validity: carrier.ValidityUnknown}, nil
}

func (f *fakeCarrier) GetServices(context.Context, int64, int64) ([]carrier.Service, error) {
	return f.services, f.servicesErr
}

func (f *fakeCarrier) CreateShipment(_ context.Context, req carrier.CreateShipmentRequest) (*carrier.CreateShipmentResult, error) {
	f.createCalls++
	f.lastCreate = &req
	return f.createResult, f.createErr
}

func (f *fakeCarrier) GetPrintToken(context.Context, []string) (*carrier.PrintToken, error) {
	if f.printToken == nil {
		return nil, carrier.NewNotImplementedError(f.code, "GetPrintToken")
	}
	return f.printToken, nil
}

func (f *fakeCarrier) TrackShipment(context.Context, string) (*carrier.TrackingInfo, error) {
	return nil, carrier.NewNotImplementedError(f.code, "TrackShipment")
}

func strPtr(s string) *string { return &s }

func testFixture() (*fakeStore, *fakeCarrier, *Manager) {
	store := newFakeStore()
	store.providers["ghn"] = db.ShippingProvider{
		Code:             "ghn",
		Name:             "Giao Hàng Nhanh",
		OriginDistrictID: 1454,
		IsActive:         true,
	}
	store.orders["order-1"] = db.Order{
		ID:                 "order-1",
		CustomerID:         "customer-1",
		ReceiverName:       strPtr("Nguyễn Văn A"),
		ReceiverPhone:      strPtr("0912345678"),
		ReceiverAddress:    strPtr("72 Thành Thái"),
		ReceiverDistrictID: int64Ptr(1442),
		ReceiverWardCode:   strPtr("21012"),
	}
	store.items["order-1"] = []db.OrderItem{
		{OrderID: "order-1", Name: "Áo thun", Quantity: 2, Price: 150000},
		{OrderID: "order-1", Name: "Quần jean", Quantity: 1, Price: 450000},
	}

	fake := &fakeCarrier{
		code: "ghn",
		services: []carrier.Service{
			{ServiceID: 53321, ShortName: "Nhanh", ServiceTypeID: 1},
			{ServiceID: 53320, ShortName: "Chuẩn", ServiceTypeID: 2},
		},
		createResult: &carrier.CreateShipmentResult{
			TrackingCode:     "G123",
			DisplayCode:      "G123",
			ServiceCode:      "standard",
			ExpectedDelivery: time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC),
			TotalFee:         22000,
		},
	}

	registry := carrier.NewRegistry()
	registry.Register("ghn", func(db.ShippingProvider) carrier.Provider { return fake })

	return store, fake, NewManager(store, registry)
}

func int64Ptr(v int64) *int64 { return &v }

func TestCreateShipment(t *testing.T) {
	store, fake, manager := testFixture()

	_, err := manager.Create(context.Background(), CreateParams{OrderID: "order-1"})
	require.NoError(t, err)
	require.Equal(t, 1, fake.createCalls)

	req := fake.lastCreate
	require.NotEmpty(t, req.ClientOrderCode)
	require.Equal(t, "Nguyễn Văn A", req.ToName)
	require.EqualValues(t, 1442, req.ToDistrictID)
	require.Equal(t, "21012", req.ToWardCode)
	// 3 sản phẩm, mỗi sản phẩm ước lượng 1kg.
	require.EqualValues(t, 3000, req.Weight)
	// Giá trị khai báo = tổng giá trị hàng.
	require.EqualValues(t, 2*150000+450000, req.InsuranceValue)
	// Không có keyword thì chọn lớp dịch vụ chuẩn.
	require.EqualValues(t, 53320, req.ServiceID)

	persisted := store.lastSetShipment
	require.NotNil(t, persisted)
	require.Equal(t, "G123", persisted.ShipmentTrackingCode)
	require.Equal(t, db.ShipmentStatusReady, persisted.ShipmentStatus)
	require.EqualValues(t, 22000, persisted.ShippingFee)

	// Thời gian giao dự kiến được lưu theo giờ Việt Nam.
	require.NotNil(t, persisted.ExpectedDeliveryAt)
	require.True(t, persisted.ExpectedDeliveryAt.Equal(fake.createResult.ExpectedDelivery))
	_, offset := persisted.ExpectedDeliveryAt.Zone()
	require.Equal(t, 7*3600, offset)
}

func TestCreateShipmentServiceKeywordWinsOverStandardTier(t *testing.T) {
	_, fake, manager := testFixture()

	_, err := manager.Create(context.Background(), CreateParams{
		OrderID:        "order-1",
		ServiceKeyword: "nhanh",
	})
	require.NoError(t, err)
	// "Nhanh" khớp keyword nên thắng lớp chuẩn dù lớp chuẩn cũng có mặt.
	require.EqualValues(t, 53321, fake.lastCreate.ServiceID)
}

func TestCreateShipmentAlreadyShipped(t *testing.T) {
	store, fake, manager := testFixture()
	order := store.orders["order-1"]
	order.ShipmentTrackingCode = strPtr("G000")
	store.orders["order-1"] = order

	_, err := manager.Create(context.Background(), CreateParams{OrderID: "order-1"})
	require.ErrorIs(t, err, carrier.ErrAlreadyShipped)
	require.Equal(t, 0, fake.createCalls, "a second shipment must be rejected before any carrier call")
}

func TestCreateShipmentConcurrentLoserMapsToAlreadyShipped(t *testing.T) {
	store, _, manager := testFixture()
	// Cuộc ghi có điều kiện không khớp dòng nào: một request song song đã thắng.
	store.setShipmentErr = db.ErrRecordNotFound

	_, err := manager.Create(context.Background(), CreateParams{OrderID: "order-1"})
	require.ErrorIs(t, err, carrier.ErrAlreadyShipped)
}

func TestCreateShipmentUsesFallbackServicesWhenLookupFails(t *testing.T) {
	_, fake, manager := testFixture()
	fake.services = nil
	fake.servicesErr = carrier.NewUnavailableError("ghn", errors.New("timeout"))

	_, err := manager.Create(context.Background(), CreateParams{OrderID: "order-1"})
	require.NoError(t, err, "a degraded service lookup must not block shipment creation")
	require.EqualValues(t, 53320, fake.lastCreate.ServiceID)
	require.EqualValues(t, 2, fake.lastCreate.ServiceTypeID)
}

func TestCreateShipmentFillsReceiverFromCustomer(t *testing.T) {
	store, fake, manager := testFixture()
	order := store.orders["order-1"]
	order.ReceiverPhone = nil
	order.ReceiverAddress = nil
	store.orders["order-1"] = order
	store.customers["customer-1"] = db.Customer{
		ID:          "customer-1",
		FullName:    "Trần Thị B",
		PhoneNumber: "0987654321",
		Address:     "12 Lý Thường Kiệt",
		DistrictID:  1450,
		WardCode:    "20308",
	}

	_, err := manager.Create(context.Background(), CreateParams{OrderID: "order-1"})
	require.NoError(t, err)

	// Thông tin trên đơn được ưu tiên, hồ sơ khách chỉ vá chỗ thiếu.
	require.Equal(t, "Nguyễn Văn A", fake.lastCreate.ToName)
	require.Equal(t, "0987654321", fake.lastCreate.ToPhone)
	require.Equal(t, "12 Lý Thường Kiệt", fake.lastCreate.ToAddress)
	require.EqualValues(t, 1442, fake.lastCreate.ToDistrictID)
}

func TestCreateShipmentIncompleteAddress(t *testing.T) {
	store, fake, manager := testFixture()
	order := store.orders["order-1"]
	order.ReceiverPhone = nil
	order.ReceiverWardCode = nil
	store.orders["order-1"] = order
	// Không có hồ sơ khách hàng để vá.

	_, err := manager.Create(context.Background(), CreateParams{OrderID: "order-1"})
	require.ErrorIs(t, err, carrier.ErrIncompleteAddress)
	require.Contains(t, err.Error(), "receiver_phone")
	require.Contains(t, err.Error(), "receiver_ward_code")
	require.Equal(t, 0, fake.createCalls)
}

func TestCreateShipmentInactiveProvider(t *testing.T) {
	store, fake, manager := testFixture()
	provider := store.providers["ghn"]
	provider.IsActive = false
	store.providers["ghn"] = provider

	_, err := manager.Create(context.Background(), CreateParams{OrderID: "order-1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not active")
	require.Equal(t, 0, fake.createCalls)
}

func TestSelectService(t *testing.T) {
	services := []carrier.Service{
		{ServiceID: 1, ShortName: "Hỏa Tốc", ServiceTypeID: 1},
		{ServiceID: 2, ShortName: "Chuẩn", ServiceTypeID: 2},
		{ServiceID: 3, ShortName: "Tiết Kiệm", ServiceTypeID: 5},
	}

	t.Run("keyword beats standard tier", func(t *testing.T) {
		selected := selectService(services, "tiết kiệm")
		require.EqualValues(t, 3, selected.ServiceID)
	})

	t.Run("no keyword picks standard tier", func(t *testing.T) {
		selected := selectService(services, "")
		require.EqualValues(t, 2, selected.ServiceID)
	})

	t.Run("unmatched keyword falls back to standard tier", func(t *testing.T) {
		selected := selectService(services, "không tồn tại")
		require.EqualValues(t, 2, selected.ServiceID)
	})

	t.Run("no standard tier picks first service", func(t *testing.T) {
		selected := selectService([]carrier.Service{
			{ServiceID: 7, ShortName: "Hỏa Tốc", ServiceTypeID: 1},
		}, "")
		require.EqualValues(t, 7, selected.ServiceID)
	})

	t.Run("empty list uses fixed fallback", func(t *testing.T) {
		selected := selectService(nil, "nhanh")
		require.EqualValues(t, fallbackServiceID, selected.ServiceID)
		require.EqualValues(t, standardServiceTypeID, selected.ServiceTypeID)
	})
}

func TestCancelShipment(t *testing.T) {
	store, _, manager := testFixture()
	order := store.orders["order-1"]
	order.ShipmentTrackingCode = strPtr("G123")
	order.ShipmentStatus = db.ShipmentStatusReady
	store.orders["order-1"] = order

	updated, err := manager.Cancel(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, db.ShipmentStatusCancelled, updated.ShipmentStatus)
	// Mã vận đơn giữ nguyên để lần tra cứu sau còn đối chiếu được.
	require.Equal(t, "G123", *updated.ShipmentTrackingCode)
}

func TestCancelShipmentInvalidTransitions(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*db.Order)
	}{
		{"no shipment", func(o *db.Order) { o.ShipmentTrackingCode = nil }},
		{"already delivered", func(o *db.Order) {
			o.ShipmentTrackingCode = strPtr("G123")
			o.ShipmentStatus = db.ShipmentStatusDelivered
		}},
		{"already cancelled", func(o *db.Order) {
			o.ShipmentTrackingCode = strPtr("G123")
			o.ShipmentStatus = db.ShipmentStatusCancelled
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, _, manager := testFixture()
			order := store.orders["order-1"]
			tc.mutate(&order)
			store.orders["order-1"] = order

			_, err := manager.Cancel(context.Background(), "order-1")
			require.ErrorIs(t, err, carrier.ErrInvalidStateTransition)
			require.Nil(t, store.lastStatusUpdate)
		})
	}
}

func TestGetLabel(t *testing.T) {
	store, fake, manager := testFixture()
	order := store.orders["order-1"]
	order.ShipmentTrackingCode = strPtr("G123")
	order.ShipmentStatus = db.ShipmentStatusCancelled
	store.orders["order-1"] = order
	fake.printToken = &carrier.PrintToken{
		Token: "print-token",
		URL:   "https://dev-online-gateway.ghn.vn/a5/public-api/printA5?token=print-token",
	}

	// Nhãn in được cả khi vận đơn đã huỷ.
	updated, err := manager.GetLabel(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, "print-token", *updated.LabelToken)
	require.Contains(t, *updated.LabelURL, "print-token")
}

func TestGetLabelWithoutShipment(t *testing.T) {
	_, _, manager := testFixture()

	_, err := manager.GetLabel(context.Background(), "order-1")
	require.Equal(t, carrier.CodeValidation, carrier.CodeOf(err))
}

func TestGetInfoToleratesMissingTracking(t *testing.T) {
	store, _, manager := testFixture()
	order := store.orders["order-1"]
	order.ShipmentTrackingCode = strPtr("G123")
	order.ShipmentStatus = db.ShipmentStatusReady
	order.ShippingProviderCode = strPtr("ghn")
	store.orders["order-1"] = order

	// TrackShipment báo NotImplemented: thông tin đã lưu vẫn được trả về.
	info, err := manager.GetInfo(context.Background(), "order-1")
	require.NoError(t, err)
	require.Equal(t, "G123", info.TrackingCode)
	require.Equal(t, string(db.ShipmentStatusReady), info.Status)
	require.Nil(t, info.CarrierTracking)
}
