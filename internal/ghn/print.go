package ghn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
)

type printTokenData struct {
	Token string `json:"token"`
}

// GenPrintToken lấy token in nhãn A5 cho một hoặc nhiều vận đơn.
func (c *Client) GenPrintToken(ctx context.Context, orderCodes []string) (string, error) {
	if len(orderCodes) == 0 {
		return "", carrier.NewValidationError(CarrierCode, "order_codes", "at least one order code is required")
	}

	body := map[string]any{"order_codes": orderCodes}

	var data printTokenData
	if err := c.call(ctx, http.MethodPost, "/v2/a5/gen-token", nil, body, &data); err != nil {
		return "", err
	}

	return data.Token, nil
}

// PrintURL dựng URL in nhãn từ token.
func (c *Client) PrintURL(ctx context.Context, token string) string {
	cred, err := c.creds(ctx)
	if err != nil || cred.BaseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/a5/public-api/printA5?token=%s", cred.BaseURL, token)
}

// OrderDetail giữ nguyên response thô của GHN; chỉ status và mã đơn được
// đọc ra, phần còn lại trả cho caller dưới dạng raw để chẩn đoán.
type OrderDetail struct {
	OrderCode string          `json:"order_code"`
	Status    string          `json:"status"`
	Raw       json.RawMessage `json:"-"`
}

func (c *Client) GetOrderDetail(ctx context.Context, orderCode string) (*OrderDetail, error) {
	if orderCode == "" {
		return nil, carrier.NewValidationError(CarrierCode, "order_code", "order code is required")
	}

	body := map[string]string{"order_code": orderCode}

	var raw json.RawMessage
	if err := c.call(ctx, http.MethodPost, "/v2/shipping-order/detail", nil, body, &raw); err != nil {
		return nil, err
	}

	var detail OrderDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, carrier.NewProtocolError(CarrierCode, fmt.Sprintf("unexpected detail shape: %v", err))
	}
	detail.Raw = raw

	return &detail, nil
}
