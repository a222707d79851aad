package ghn

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
)

// Province is GHN's raw province entry.
type Province struct {
	ProvinceID int64  `json:"ProvinceID"`
	Name       string `json:"ProvinceName"`
}

// District is GHN's raw district entry.
type District struct {
	DistrictID int64  `json:"DistrictID"`
	ProvinceID int64  `json:"ProvinceID"`
	Name       string `json:"DistrictName"`
}

// Ward is GHN's raw ward entry. Ward codes are strings, not numbers.
type Ward struct {
	WardCode   string `json:"WardCode"`
	DistrictID int64  `json:"DistrictID"`
	Name       string `json:"WardName"`
}

func (c *Client) GetProvinces(ctx context.Context) ([]Province, error) {
	var provinces []Province
	if err := c.call(ctx, http.MethodGet, "/master-data/province", nil, nil, &provinces); err != nil {
		return nil, err
	}
	return provinces, nil
}

func (c *Client) GetDistricts(ctx context.Context, provinceID int64) ([]District, error) {
	if provinceID <= 0 {
		return nil, carrier.NewValidationError(CarrierCode, "province_id", "province id is required")
	}

	var districts []District
	query := map[string]string{"province_id": strconv.FormatInt(provinceID, 10)}
	if err := c.call(ctx, http.MethodGet, "/master-data/district", query, nil, &districts); err != nil {
		return nil, err
	}
	return districts, nil
}

func (c *Client) GetWards(ctx context.Context, districtID int64) ([]Ward, error) {
	if districtID <= 0 {
		return nil, carrier.NewValidationError(CarrierCode, "district_id", "district id is required")
	}

	var wards []Ward
	query := map[string]string{"district_id": strconv.FormatInt(districtID, 10)}
	if err := c.call(ctx, http.MethodGet, "/master-data/ward", query, nil, &wards); err != nil {
		return nil, err
	}
	return wards, nil
}

// ValidateLocationTriple đối chiếu bộ ba tỉnh/quận/phường bằng cách duyệt ba
// endpoint danh sách và xác nhận mỗi id nằm trong cha của nó.
// Trả về kết quả ba trạng thái thay vì lỗi: caller chỉ dùng để chẩn đoán,
// không dùng để chặn nghiệp vụ.
func (c *Client) ValidateLocationTriple(ctx context.Context, provinceID, districtID int64, wardCode string) carrier.ValidateAddressResult {
	provinces, err := c.GetProvinces(ctx)
	if err != nil {
		return carrier.ValidateAddressResult{Validity: carrier.ValidityUnknown, Detail: err.Error()}
	}
	if !containsProvince(provinces, provinceID) {
		return carrier.ValidateAddressResult{
			Validity: carrier.ValidityInvalid,
			Field:    "province_id",
			Detail:   fmt.Sprintf("province %d does not exist", provinceID),
		}
	}

	districts, err := c.GetDistricts(ctx, provinceID)
	if err != nil {
		return carrier.ValidateAddressResult{Validity: carrier.ValidityUnknown, Detail: err.Error()}
	}
	if !containsDistrict(districts, districtID) {
		return carrier.ValidateAddressResult{
			Validity: carrier.ValidityInvalid,
			Field:    "district_id",
			Detail:   fmt.Sprintf("district %d does not belong to province %d", districtID, provinceID),
		}
	}

	wards, err := c.GetWards(ctx, districtID)
	if err != nil {
		return carrier.ValidateAddressResult{Validity: carrier.ValidityUnknown, Detail: err.Error()}
	}
	if !containsWard(wards, wardCode) {
		return carrier.ValidateAddressResult{
			Validity: carrier.ValidityInvalid,
			Field:    "ward_code",
			Detail:   fmt.Sprintf("ward %s does not belong to district %d", wardCode, districtID),
		}
	}

	return carrier.ValidateAddressResult{Validity: carrier.ValidityValid}
}

func containsProvince(provinces []Province, id int64) bool {
	for _, p := range provinces {
		if p.ProvinceID == id {
			return true
		}
	}
	return false
}

func containsDistrict(districts []District, id int64) bool {
	for _, d := range districts {
		if d.DistrictID == id {
			return true
		}
	}
	return false
}

func containsWard(wards []Ward, code string) bool {
	for _, w := range wards {
		if w.WardCode == code {
			return true
		}
	}
	return false
}
