package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/lehoangphuc/vietshop-BE/internal/shipping"
	"github.com/rs/zerolog/log"
)

type calculateShippingFeeRequest struct {
	// Origin district id in the carrier's location reference data
	FromDistrictID int64 `json:"from_district_id" binding:"required,gt=0"`

	// Destination district id
	ToDistrictID int64 `json:"to_district_id" binding:"required,gt=0"`

	// Destination ward code
	ToWardCode string `json:"to_ward_code" binding:"required"`

	// Package weight in grams
	Weight int64 `json:"weight" binding:"required,gt=0"`

	// Declared value in VND, used as the insurance basis
	DeclaredValue int64 `json:"declared_value" binding:"min=0"`
}

// calculateShippingFee quotes every active carrier for one route and returns
// the merged service list sorted ascending by fee.
func (server *Server) calculateShippingFee(ctx *gin.Context) {
	var req calculateShippingFeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	quote, err := server.shippingService.QuoteAllCarriers(ctx, shipping.QuoteRequest{
		FromDistrictID: req.FromDistrictID,
		ToDistrictID:   req.ToDistrictID,
		ToWardCode:     req.ToWardCode,
		Weight:         req.Weight,
		DeclaredValue:  req.DeclaredValue,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"services": quote.Services,
	})
}

// listShippingProviders returns the active carrier profiles.
// Credential fields carry `json:"-"` tags and never leave the server.
func (server *Server) listShippingProviders(ctx *gin.Context) {
	providers, err := server.dbStore.ListActiveShippingProviders(ctx)
	if err != nil {
		log.Err(err).Msg("failed to list shipping providers")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"providers": providers,
	})
}

// syncLocations enqueues an on-demand location reference sync.
func (server *Server) syncLocations(ctx *gin.Context) {
	err := server.taskDistributor.DistributeTaskSyncLocations(ctx, asynq.MaxRetry(3))
	if err != nil {
		log.Err(err).Msg("failed to enqueue location sync")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "location sync scheduled",
	})
}
