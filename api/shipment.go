package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lehoangphuc/vietshop-BE/internal/shipment"
	"github.com/rs/zerolog/log"
)

type createShipmentRequest struct {
	// Carrier code, defaults to the reference carrier
	ProviderCode string `json:"provider_code"`

	// Keyword matched against the carrier's service short names
	// example: nhanh
	ServiceKeyword string `json:"service_keyword"`

	// Optional recipient overrides; the order's shipping address and the
	// customer record are used as fallbacks
	ReceiverName       string `json:"receiver_name"`
	ReceiverPhone      string `json:"receiver_phone"`
	ReceiverAddress    string `json:"receiver_address"`
	ReceiverDistrictID int64  `json:"receiver_district_id"`
	ReceiverWardCode   string `json:"receiver_ward_code"`

	// Optional note for the carrier
	// maxLength: 255
	Note string `json:"note" binding:"max=255"`
}

// createOrderShipment creates the carrier shipment for one order.
// Idempotent per order: an order that already has a tracking code is
// rejected with 409.
func (server *Server) createOrderShipment(ctx *gin.Context) {
	orderID := ctx.Param("id")

	var req createShipmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	order, err := server.shipmentManager.Create(ctx, shipment.CreateParams{
		OrderID:            orderID,
		ProviderCode:       req.ProviderCode,
		ServiceKeyword:     req.ServiceKeyword,
		ReceiverName:       req.ReceiverName,
		ReceiverPhone:      req.ReceiverPhone,
		ReceiverAddress:    req.ReceiverAddress,
		ReceiverDistrictID: req.ReceiverDistrictID,
		ReceiverWardCode:   req.ReceiverWardCode,
		Note:               req.Note,
	})
	if err != nil {
		log.Err(err).Str("order_id", orderID).Msg("failed to create shipment")
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"order":   order,
	})
}

func (server *Server) getOrderShipment(ctx *gin.Context) {
	info, err := server.shipmentManager.GetInfo(ctx, ctx.Param("id"))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"shipment": info,
	})
}

func (server *Server) getShipmentLabel(ctx *gin.Context) {
	order, err := server.shipmentManager.GetLabel(ctx, ctx.Param("id"))
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"label_token": order.LabelToken,
		"label_url":   order.LabelURL,
	})
}

func (server *Server) cancelOrderShipment(ctx *gin.Context) {
	orderID := ctx.Param("id")

	order, err := server.shipmentManager.Cancel(ctx, orderID)
	if err != nil {
		log.Err(err).Str("order_id", orderID).Msg("failed to cancel shipment")
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}
