package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
	"github.com/lehoangphuc/vietshop-BE/internal/shipping"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "carrier validation",
			err:        carrier.NewValidationError("ghn", "to_district_id", "destination district id is required"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "carrier unreachable",
			err:        carrier.NewUnavailableError("ghn", errors.New("timeout")),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "carrier rejected the request",
			err:        carrier.NewProtocolError("ghn", "route not supported"),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "operation not implemented",
			err:        carrier.NewNotImplementedError("ghn", "TrackShipment"),
			wantStatus: http.StatusNotImplemented,
		},
		{
			name:       "record not found",
			err:        fmt.Errorf("failed to get order abc: %w", db.ErrRecordNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "already shipped",
			err:        fmt.Errorf("order abc: %w", carrier.ErrAlreadyShipped),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid state transition",
			err:        fmt.Errorf("shipment already delivered: %w", carrier.ErrInvalidStateTransition),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "incomplete address",
			err:        fmt.Errorf("%w: missing receiver_phone", carrier.ErrIncompleteAddress),
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "all carriers failed",
			err: &shipping.AllCarriersFailedError{Failures: []shipping.CarrierFailure{
				{ProviderCode: "ghn", Err: errors.New("timeout")},
			}},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unclassified error",
			err:        errors.New("something broke"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(recorder)

			handleError(ctx, tc.err)

			require.Equal(t, tc.wantStatus, recorder.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			require.Equal(t, false, body["success"])
			require.NotEmpty(t, body["message"])
		})
	}
}

func TestHandleErrorValidationIncludesFieldViolations(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)

	handleError(ctx, carrier.NewValidationError("ghn", "to_ward_code", "destination ward code is required"))

	var body struct {
		FieldViolations []FieldViolation `json:"field_violations"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.FieldViolations, 1)
	require.Equal(t, "to_ward_code", body.FieldViolations[0].Field)
}
