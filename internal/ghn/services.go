package ghn

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
)

// AvailableService is one service GHN supports on a specific route.
// Service support is route-dependent; there is no global service list.
type AvailableService struct {
	ServiceID     int64  `json:"service_id"`
	ShortName     string `json:"short_name"`
	ServiceTypeID int64  `json:"service_type_id"`
}

type availableServicesRequest struct {
	ShopID       int64 `json:"shop_id"`
	FromDistrict int64 `json:"from_district"`
	ToDistrict   int64 `json:"to_district"`
}

// GetAvailableServices hỏi GHN các service id hợp lệ cho một cặp quận.
// Hai district id được kiểm tra trước với Location Reference Store: gửi một
// request mà GHN chắc chắn từ chối chỉ tốn một vòng round trip và trả về lỗi
// khó hiểu hơn so với lỗi đặt tên field tại đây.
func (c *Client) GetAvailableServices(ctx context.Context, fromDistrictID, toDistrictID int64) ([]AvailableService, error) {
	if fromDistrictID <= 0 {
		return nil, carrier.NewValidationError(CarrierCode, "from_district", "origin district id is required")
	}
	if toDistrictID <= 0 {
		return nil, carrier.NewValidationError(CarrierCode, "to_district", "destination district id is required")
	}

	if c.locations != nil {
		known, err := c.locations.DistrictExists(ctx, CarrierCode, fromDistrictID)
		if err == nil && !known {
			return nil, carrier.NewValidationError(CarrierCode, "from_district",
				fmt.Sprintf("district %d is not in the synced reference data", fromDistrictID))
		}

		known, err = c.locations.DistrictExists(ctx, CarrierCode, toDistrictID)
		if err == nil && !known {
			return nil, carrier.NewValidationError(CarrierCode, "to_district",
				fmt.Sprintf("district %d is not in the synced reference data", toDistrictID))
		}
	}

	cred, err := c.creds(ctx)
	if err != nil {
		return nil, carrier.NewUnavailableError(CarrierCode, fmt.Errorf("failed to load credential: %w", err))
	}
	shopID, _ := strconv.ParseInt(cred.ShopID, 10, 64)

	body := availableServicesRequest{
		ShopID:       shopID,
		FromDistrict: fromDistrictID,
		ToDistrict:   toDistrictID,
	}

	var services []AvailableService
	if err := c.call(ctx, http.MethodPost, "/v2/shipping-order/available-services", nil, body, &services); err != nil {
		return nil, err
	}

	return services, nil
}
