// Package ghn integrates the Giao Hàng Nhanh (GHN) shipping API.
// It contains the low-level typed client plus the carrier.Provider adapter.
package ghn

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	"resty.dev/v3"
)

const (
	// CarrierCode is the provider code of GHN in the shipping_providers table.
	CarrierCode = "ghn"

	// requestTimeout áp dụng cho mọi request tới GHN.
	// GHN không hỗ trợ cancellation phía client, chậm quá thì coi như fail.
	requestTimeout = 10 * time.Second

	// successCode là sentinel "thành công" trong envelope của GHN.
	successCode = 200

	// ServiceTypeStandard là loại dịch vụ "Hàng nhẹ" của GHN,
	// dùng làm đường lui khi service id cụ thể không hỗ trợ tuyến.
	ServiceTypeStandard int64 = 2

	// requiredNote: cho xem hàng, không cho thử.
	requiredNote = "CHOXEMHANGKHONGTHU"

	// paymentTypeBuyerPays: người nhận thanh toán phí dịch vụ.
	paymentTypeBuyerPays int64 = 2
)

// Kích thước gói hàng mặc định (cm). GHN yêu cầu kích thước tối thiểu cho
// nhãn in; kích thước sản phẩm thật chưa được đưa vào tính phí.
const (
	defaultLength int64 = 15
	defaultWidth  int64 = 10
	defaultHeight int64 = 10
)

// minWeightGrams là trọng lượng tối thiểu GHN chấp nhận.
const minWeightGrams int64 = 100

// Credential is the per-call authentication material for GHN.
type Credential struct {
	BaseURL string
	Token   string
	ShopID  string
}

// CredentialSource returns the current GHN credential. It is consulted on
// every call, so rotating the token in the provider profile takes effect on
// the next request without restarting anything.
type CredentialSource func(ctx context.Context) (Credential, error)

// LocationStore is the slice of the reference store the client needs to
// pre-validate district ids before calling GHN.
type LocationStore interface {
	DistrictExists(ctx context.Context, providerCode string, districtID int64) (bool, error)
}

// Client is a thin stateless wrapper over the GHN REST API.
type Client struct {
	http      *resty.Client
	creds     CredentialSource
	locations LocationStore
}

func NewClient(creds CredentialSource, locations LocationStore) *Client {
	httpClient := resty.New().
		SetTimeout(requestTimeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:      httpClient,
		creds:     creds,
		locations: locations,
	}
}

// envelope là khung response chung của mọi endpoint GHN.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// call issues one authenticated request and decodes the envelope.
// Transport failures map to CodeUnavailable, a non-success envelope code maps
// to CodeProtocol with GHN's message passed through verbatim.
func (c *Client) call(ctx context.Context, method, path string, query map[string]string, body any, out any) error {
	cred, err := c.creds(ctx)
	if err != nil {
		return carrier.NewUnavailableError(CarrierCode, fmt.Errorf("failed to load credential: %w", err))
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Token", cred.Token).
		SetHeader("ShopId", cred.ShopID)

	if query != nil {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}

	res, err := req.Execute(method, cred.BaseURL+path)
	if err != nil {
		return carrier.NewUnavailableError(CarrierCode, err)
	}

	var env envelope
	if err = json.Unmarshal(res.Bytes(), &env); err != nil {
		return carrier.NewProtocolError(CarrierCode,
			fmt.Sprintf("unparseable response (HTTP %d): %s", res.StatusCode(), res.String()))
	}

	if env.Code != successCode {
		return carrier.NewProtocolError(CarrierCode, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err = json.Unmarshal(env.Data, out); err != nil {
			return carrier.NewProtocolError(CarrierCode, fmt.Sprintf("unexpected data shape: %v", err))
		}
	}

	return nil
}
