package ghn

import (
	"context"
	"net/http"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
)

type FeeParams struct {
	FromDistrictID int64
	ToDistrictID   int64
	ToWardCode     string
	Weight         int64 // grams
	ServiceID      int64
	InsuranceValue int64
}

type FeeData struct {
	Total        int64 `json:"total"`
	ServiceFee   int64 `json:"service_fee"`
	InsuranceFee int64 `json:"insurance_fee"`
}

type feeRequest struct {
	FromDistrictID int64  `json:"from_district_id"`
	ToDistrictID   int64  `json:"to_district_id"`
	ToWardCode     string `json:"to_ward_code"`
	ServiceID      int64  `json:"service_id"`
	Weight         int64  `json:"weight"`
	Length         int64  `json:"length"`
	Width          int64  `json:"width"`
	Height         int64  `json:"height"`
	InsuranceValue int64  `json:"insurance_value"`
}

// CalculateFee báo giá cước cho một service id cụ thể trên một tuyến.
func (c *Client) CalculateFee(ctx context.Context, params FeeParams) (*FeeData, error) {
	if params.FromDistrictID <= 0 {
		return nil, carrier.NewValidationError(CarrierCode, "from_district_id", "origin district id is required")
	}
	if params.ToDistrictID <= 0 {
		return nil, carrier.NewValidationError(CarrierCode, "to_district_id", "destination district id is required")
	}

	// Đơn cùng quận giao từ kho địa phương, không mất phí và không cần gọi GHN.
	if params.FromDistrictID == params.ToDistrictID {
		return &FeeData{Total: 0, ServiceFee: 0, InsuranceFee: 0}, nil
	}

	// GHN không đoán được service id; caller phải resolve available services trước.
	if params.ServiceID <= 0 {
		return nil, carrier.NewValidationError(CarrierCode, "service_id",
			"service_id is required, resolve available services first")
	}

	weight := params.Weight
	if weight < minWeightGrams {
		// GHN từ chối gói hàng dưới trọng lượng tối thiểu.
		weight = minWeightGrams
	}

	body := feeRequest{
		FromDistrictID: params.FromDistrictID,
		ToDistrictID:   params.ToDistrictID,
		ToWardCode:     params.ToWardCode,
		ServiceID:      params.ServiceID,
		Weight:         weight,
		Length:         defaultLength,
		Width:          defaultWidth,
		Height:         defaultHeight,
		InsuranceValue: params.InsuranceValue,
	}

	var data FeeData
	if err := c.call(ctx, http.MethodPost, "/v2/shipping-order/fee", nil, body, &data); err != nil {
		return nil, err
	}

	return &data, nil
}
