package ghn

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Adapter translates the carrier-neutral contract onto the GHN client.
// No GHN field name leaks past this type.
type Adapter struct {
	profile db.ShippingProvider
	client  *Client
}

func NewAdapter(profile db.ShippingProvider, client *Client) *Adapter {
	return &Adapter{
		profile: profile,
		client:  client,
	}
}

var _ carrier.Provider = (*Adapter)(nil)

func (a *Adapter) Code() string {
	return a.profile.Code
}

// CalculateShipping báo giá mọi loại dịch vụ trong catalog của profile.
// Các request phí chạy song song; một dịch vụ không báo giá được thì bỏ qua,
// chỉ fail khi không dịch vụ nào có giá.
func (a *Adapter) CalculateShipping(ctx context.Context, req carrier.CalculateShippingRequest) ([]carrier.QuotedService, error) {
	serviceTypes := a.profile.ServiceTypes
	if len(serviceTypes) == 0 {
		return nil, carrier.NewValidationError(a.profile.Code, "service_types", "provider has no configured service types")
	}

	var (
		mu      sync.Mutex
		quotes  []carrier.QuotedService
		skipped []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, serviceType := range serviceTypes {
		serviceType := serviceType
		g.Go(func() error {
			fee, err := a.client.CalculateFee(gctx, FeeParams{
				FromDistrictID: req.FromDistrictID,
				ToDistrictID:   req.ToDistrictID,
				ToWardCode:     req.ToWardCode,
				Weight:         req.Weight,
				ServiceID:      serviceType.ServiceID,
				InsuranceValue: req.DeclaredValue,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Một dịch vụ không báo giá được không làm hỏng cả lời gọi.
				skipped = append(skipped, fmt.Sprintf("%s: %v", serviceType.Code, err))
				return nil
			}

			quotes = append(quotes, carrier.QuotedService{
				ProviderCode:  a.profile.Code,
				ProviderName:  a.profile.Name,
				ServiceCode:   serviceType.Code,
				ServiceName:   serviceType.Name,
				EstimatedDays: serviceType.EstimatedDays,
				Total:         fee.Total,
				BaseFee:       fee.ServiceFee,
				InsuranceFee:  fee.InsuranceFee,
			})
			return nil
		})
	}
	_ = g.Wait()

	if len(quotes) == 0 {
		return nil, carrier.NewProtocolError(a.profile.Code,
			fmt.Sprintf("no service produced a quote: %v", skipped))
	}

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].Total < quotes[j].Total
	})

	// Một dòng log tổng hợp cho cả fan-out, tránh spam mỗi dịch vụ một dòng.
	log.Info().
		Str("provider", a.profile.Code).
		Int64("from_district", req.FromDistrictID).
		Int64("to_district", req.ToDistrictID).
		Int("quoted", len(quotes)).
		Int("skipped", len(skipped)).
		Int64("cheapest", quotes[0].Total).
		Msg("calculated shipping quotes")

	return quotes, nil
}

func (a *Adapter) ValidateAddress(ctx context.Context, req carrier.ValidateAddressRequest) (carrier.ValidateAddressResult, error) {
	return a.client.ValidateLocationTriple(ctx, req.ProvinceID, req.DistrictID, req.WardCode), nil
}

func (a *Adapter) GetServices(ctx context.Context, fromDistrictID, toDistrictID int64) ([]carrier.Service, error) {
	available, err := a.client.GetAvailableServices(ctx, fromDistrictID, toDistrictID)
	if err != nil {
		return nil, err
	}

	services := make([]carrier.Service, 0, len(available))
	for _, s := range available {
		services = append(services, carrier.Service{
			ServiceID:     s.ServiceID,
			ShortName:     s.ShortName,
			ServiceTypeID: s.ServiceTypeID,
		})
	}
	return services, nil
}

func (a *Adapter) CreateShipment(ctx context.Context, req carrier.CreateShipmentRequest) (*carrier.CreateShipmentResult, error) {
	items := make([]OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, OrderItem{Name: item.Name, Quantity: item.Quantity, Price: item.Price})
	}

	data, err := a.client.CreateOrder(ctx, CreateOrderParams{
		ClientOrderCode: req.ClientOrderCode,
		FromDistrictID:  a.profile.OriginDistrictID,
		ToName:          req.ToName,
		ToPhone:         req.ToPhone,
		ToAddress:       req.ToAddress,
		ToDistrictID:    req.ToDistrictID,
		ToWardCode:      req.ToWardCode,
		Weight:          req.Weight,
		ServiceID:       req.ServiceID,
		ServiceTypeID:   req.ServiceTypeID,
		InsuranceValue:  req.InsuranceValue,
		CODAmount:       req.CODAmount,
		Items:           items,
		Note:            req.Note,
	})
	if err != nil {
		return nil, err
	}

	// Mã hiển thị luôn phải có giá trị: GHN thường không trả display_code,
	// khi đó dùng luôn mã vận đơn chính. Tầng trên không bao giờ phải xét
	// trường hợp thiếu mã hiển thị.
	displayCode := data.DisplayCode
	if displayCode == "" {
		displayCode = data.OrderCode
	}

	return &carrier.CreateShipmentResult{
		TrackingCode:        data.OrderCode,
		DisplayCode:         displayCode,
		ServiceCode:         serviceCodeOf(a.profile.ServiceTypes, req.ServiceID),
		ExpectedDelivery:    data.ExpectedDeliveryTime,
		TotalFee:            data.TotalFee,
		UsedFallbackService: data.UsedFallbackService,
	}, nil
}

func (a *Adapter) GetPrintToken(ctx context.Context, trackingCodes []string) (*carrier.PrintToken, error) {
	token, err := a.client.GenPrintToken(ctx, trackingCodes)
	if err != nil {
		return nil, err
	}

	return &carrier.PrintToken{
		Token: token,
		URL:   a.client.PrintURL(ctx, token),
	}, nil
}

// TrackShipment chưa hỗ trợ cho GHN: webhook trạng thái chưa được nối.
// Phải báo NotImplemented rõ ràng, không được lặng lẽ trả thành công.
func (a *Adapter) TrackShipment(ctx context.Context, trackingCode string) (*carrier.TrackingInfo, error) {
	return nil, carrier.NewNotImplementedError(a.profile.Code, "TrackShipment")
}

func serviceCodeOf(serviceTypes []db.ProviderServiceType, serviceID int64) string {
	for _, s := range serviceTypes {
		if s.ServiceID == serviceID {
			return s.Code
		}
	}
	return ""
}
