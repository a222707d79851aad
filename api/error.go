package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lehoangphuc/vietshop-BE/internal/carrier"
	db "github.com/lehoangphuc/vietshop-BE/internal/db/sqlc"
	"github.com/lehoangphuc/vietshop-BE/internal/shipping"
)

type FieldViolation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func errorResponse(err error) gin.H {
	return gin.H{"success": false, "message": err.Error()}
}

func validationErrorResponse(violations ...*FieldViolation) gin.H {
	return gin.H{
		"success":          false,
		"message":          "Invalid request parameters",
		"field_violations": violations,
	}
}

// handleError maps the shipping error taxonomy onto HTTP statuses and the
// {success:false, message, field_violations} response shape.
func handleError(ctx *gin.Context, err error) {
	var carrierErr *carrier.CarrierError
	if errors.As(err, &carrierErr) {
		switch carrierErr.Code {
		case carrier.CodeValidation:
			ctx.JSON(http.StatusBadRequest, validationErrorResponse(&FieldViolation{
				Field:       carrierErr.Field,
				Description: carrierErr.Message,
			}))
			return
		case carrier.CodeNotImplemented:
			ctx.JSON(http.StatusNotImplemented, errorResponse(err))
			return
		case carrier.CodeUnavailable, carrier.CodeProtocol:
			ctx.JSON(http.StatusBadGateway, errorResponse(err))
			return
		}
	}

	var allFailed *shipping.AllCarriersFailedError

	switch {
	case errors.Is(err, db.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound, errorResponse(err))
	case errors.Is(err, carrier.ErrAlreadyShipped),
		errors.Is(err, carrier.ErrInvalidStateTransition):
		ctx.JSON(http.StatusConflict, errorResponse(err))
	case errors.Is(err, carrier.ErrIncompleteAddress):
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
	case errors.As(err, &allFailed):
		ctx.JSON(http.StatusBadGateway, errorResponse(err))
	default:
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
	}
}
