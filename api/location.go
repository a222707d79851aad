package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
	"github.com/lehoangphuc/vietshop-BE/internal/shipment"
	"github.com/rs/zerolog/log"
)

// providerCodeParam resolves the optional ?provider= query, defaulting to
// the reference carrier.
func providerCodeParam(ctx *gin.Context) string {
	if code := ctx.Query("provider"); code != "" {
		return code
	}
	return shipment.DefaultProviderCode
}

func (server *Server) listProvinces(ctx *gin.Context) {
	provinces, err := server.dbStore.ListProvinces(ctx, providerCodeParam(ctx))
	if err != nil {
		log.Err(err).Msg("failed to list provinces")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"provinces": provinces,
	})
}

func (server *Server) listDistricts(ctx *gin.Context) {
	provinceID, err := strconv.ParseInt(ctx.Query("province_id"), 10, 64)
	if err != nil || provinceID <= 0 {
		ctx.JSON(http.StatusBadRequest, validationErrorResponse(&FieldViolation{
			Field:       "province_id",
			Description: "province_id must be a positive integer",
		}))
		return
	}

	districts, err := server.dbStore.ListDistrictsByProvince(ctx, db.ListDistrictsByProvinceParams{
		ProviderCode: providerCodeParam(ctx),
		ProvinceID:   provinceID,
	})
	if err != nil {
		log.Err(err).Msg("failed to list districts")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"districts": districts,
	})
}

func (server *Server) listWards(ctx *gin.Context) {
	districtID, err := strconv.ParseInt(ctx.Query("district_id"), 10, 64)
	if err != nil || districtID <= 0 {
		ctx.JSON(http.StatusBadRequest, validationErrorResponse(&FieldViolation{
			Field:       "district_id",
			Description: "district_id must be a positive integer",
		}))
		return
	}

	wards, err := server.dbStore.ListWardsByDistrict(ctx, db.ListWardsByDistrictParams{
		ProviderCode: providerCodeParam(ctx),
		DistrictID:   districtID,
	})
	if err != nil {
		log.Err(err).Msg("failed to list wards")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"wards":   wards,
	})
}
