package util

import (
	"fmt"
	"strings"
	"time"
)

// vietnamLocation được load một lần khi khởi động.
var vietnamLocation = mustLoadVietnamLocation()

func mustLoadVietnamLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		// Fallback khi máy chủ thiếu tzdata
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// ToVietnamTime chuyển đổi thời gian từ UTC sang giờ Việt Nam.
// GHN trả về expected_delivery_time theo UTC, phía client luôn cần giờ địa phương.
func ToVietnamTime(t time.Time) time.Time {
	return t.In(vietnamLocation)
}

// FormatVND chuyển đổi số tiền từ int64 sang chuỗi định dạng VND.
// Ví dụ: 1000000 -> "1.000.000 ₫".
func FormatVND(amount int64) string {
	formatted := fmt.Sprintf("%d", amount)

	length := len(formatted)
	if length <= 3 {
		return formatted + " ₫"
	}

	var result strings.Builder
	for i, char := range formatted {
		result.WriteRune(char)
		if (length-i-1)%3 == 0 && i < length-1 {
			result.WriteRune('.')
		}
	}

	result.WriteString(" ₫")

	return result.String()
}

func BoolPointer(b bool) *bool {
	return &b
}

func StringPointer(s string) *string {
	return &s
}

func Int64Pointer(i int64) *int64 {
	return &i
}

func TimePointer(t time.Time) *time.Time {
	return &t
}
