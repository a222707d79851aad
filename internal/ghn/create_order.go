package ghn

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	"github.com/rs/zerolog/log"
)

type CreateOrderParams struct {
	ClientOrderCode string
	FromDistrictID  int64
	ToName          string
	ToPhone         string
	ToAddress       string
	ToDistrictID    int64
	ToWardCode      string
	Weight          int64 // grams
	ServiceID       int64
	ServiceTypeID   int64
	InsuranceValue  int64
	CODAmount       int64
	Items           []OrderItem
	Note            string
}

type OrderItem struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
}

type CreateOrderData struct {
	OrderCode            string    `json:"order_code"`
	DisplayCode          string    `json:"display_code"`
	SortCode             string    `json:"sort_code"`
	TransType            string    `json:"trans_type"`
	ExpectedDeliveryTime time.Time `json:"expected_delivery_time"`
	TotalFee             int64     `json:"total_fee"`

	// UsedFallbackService ghi nhận đơn được tạo qua đường lui service type
	// chuẩn thay vì service id ban đầu. Chỉ dùng cho observability.
	UsedFallbackService bool `json:"-"`
}

// CreateOrder tạo vận đơn trên GHN.
//
// Trước khi tạo, client báo giá cước một lần cho đúng tuyến/service đã chọn;
// báo giá fail thì không tạo đơn. Nếu GHN báo service id không hỗ trợ tuyến,
// thử lại đúng một lần với service_type_id "Hàng nhẹ" rồi gắn cờ fallback.
// Mọi lỗi khác không được retry.
func (c *Client) CreateOrder(ctx context.Context, params CreateOrderParams) (*CreateOrderData, error) {
	if params.ToDistrictID <= 0 {
		return nil, carrier.NewValidationError(CarrierCode, "to_district_id", "destination district id is required")
	}
	if params.ToWardCode == "" {
		return nil, carrier.NewValidationError(CarrierCode, "to_ward_code", "destination ward code is required")
	}

	// Báo giá trước khi tạo đơn; fail ở đây thì dừng luôn.
	// Chỉ precheck được khi đã có service id cụ thể.
	if params.ServiceID > 0 {
		_, err := c.CalculateFee(ctx, FeeParams{
			FromDistrictID: params.FromDistrictID,
			ToDistrictID:   params.ToDistrictID,
			ToWardCode:     params.ToWardCode,
			Weight:         params.Weight,
			ServiceID:      params.ServiceID,
			InsuranceValue: params.InsuranceValue,
		})
		if err != nil {
			return nil, &carrier.CarrierError{
				Carrier: CarrierCode,
				Code:    carrier.CodeOf(err),
				Message: "fee pre-check failed, order not created",
				Err:     err,
			}
		}
	}

	payload := c.buildOrderPayload(params)

	var data CreateOrderData
	err := c.call(ctx, http.MethodPost, "/v2/shipping-order/create", nil, payload, &data)
	if err == nil {
		data.ExpectedDeliveryTime = data.ExpectedDeliveryTime.UTC()
		return &data, nil
	}

	if !isServiceUnsupported(err) || params.ServiceID <= 0 {
		return nil, err
	}

	// Đường lui: bỏ service id, dùng service type chuẩn.
	log.Warn().
		Int64("service_id", params.ServiceID).
		Str("client_order_code", params.ClientOrderCode).
		Msg("GHN rejected the selected service on this route, retrying with the standard service type")

	fallback := params
	fallback.ServiceID = 0
	fallback.ServiceTypeID = ServiceTypeStandard

	if err = c.call(ctx, http.MethodPost, "/v2/shipping-order/create", nil, c.buildOrderPayload(fallback), &data); err != nil {
		return nil, err
	}

	data.ExpectedDeliveryTime = data.ExpectedDeliveryTime.UTC()
	data.UsedFallbackService = true
	return &data, nil
}

func (c *Client) buildOrderPayload(params CreateOrderParams) map[string]any {
	payload := map[string]any{
		"to_name":           params.ToName,
		"to_phone":          params.ToPhone,
		"to_address":        params.ToAddress,
		"to_district_id":    params.ToDistrictID,
		"to_ward_code":      params.ToWardCode,
		"client_order_code": params.ClientOrderCode,
		"cod_amount":        params.CODAmount,
		"weight":            maxWeight(params.Weight),
		"length":            defaultLength,
		"width":             defaultWidth,
		"height":            defaultHeight,
		"payment_type_id":   paymentTypeBuyerPays,
		"required_note":     requiredNote,
		"insurance_value":   params.InsuranceValue,
		"items":             params.Items,
	}

	if params.Note != "" {
		payload["note"] = params.Note
	}

	// GHN chấp nhận service_id hoặc service_type_id, ưu tiên service_id.
	if params.ServiceID > 0 {
		payload["service_id"] = params.ServiceID
	} else {
		payload["service_type_id"] = params.ServiceTypeID
	}

	return payload
}

func maxWeight(weight int64) int64 {
	if weight < minWeightGrams {
		return minWeightGrams
	}
	return weight
}

// isServiceUnsupported nhận diện lỗi "service không hỗ trợ tuyến" từ message
// của GHN. Chỉ lỗi protocol mới được xét; lỗi mạng không bao giờ retry ở đây.
func isServiceUnsupported(err error) bool {
	var carrierErr *carrier.CarrierError
	if !errors.As(err, &carrierErr) || carrierErr.Code != carrier.CodeProtocol {
		return false
	}

	msg := strings.ToLower(carrierErr.Message)
	if !strings.Contains(msg, "service") {
		return false
	}
	return strings.Contains(msg, "route") || strings.Contains(msg, "not found") || strings.Contains(msg, "invalid")
}
