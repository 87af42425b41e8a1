package cancellation

import (
	"errors"
	"net/http"

	"railres/internal/shared/utils/response"
	"railres/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	v := validator.New()
	v.RegisterStructValidation(validateRefundOverride, CancelTicketRequest{})
	return &Controller{service: service, validator: v}
}

// validateRefundOverride rejects requests that pin both sides of the
// refund split; the unspecified side is always derived as the complement.
func validateRefundOverride(sl validator.StructLevel) {
	req := sl.Current().Interface().(CancelTicketRequest)
	if req.RefundAmount != nil && req.CancellationCharges != nil {
		sl.ReportError(req.CancellationCharges, "CancellationCharges", "cancellation_charges", "refund_override_conflict", "")
	}
}

// CancelTicket handles POST /api/v1/tickets/:pnr/cancel
func (c *Controller) CancelTicket(ctx *gin.Context) {
	var req CancelTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Refund amount and cancellation charges are mutually exclusive", nil, err.Error())
		return
	}

	result, err := c.service.CancelTicket(ctx.Request.Context(), ctx.Param("pnr"), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTicketNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Ticket not found", nil, nil)
		case errors.Is(err, apperrors.ErrAlreadyCancelled):
			response.RespondJSON(ctx, "error", http.StatusConflict, "Ticket is already cancelled", nil, "ALREADY_CANCELLED")
		case errors.Is(err, apperrors.ErrConcurrencyConflict):
			response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, "Cancellation is contended, please retry", nil, "RETRY")
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to cancel ticket", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket cancelled", result, nil)
}

// GetCancellations handles GET /api/v1/tickets/:pnr/cancellations
func (c *Controller) GetCancellations(ctx *gin.Context) {
	records, err := c.service.GetRecordsForTicket(ctx.Request.Context(), ctx.Param("pnr"))
	if err != nil {
		if errors.Is(err, apperrors.ErrTicketNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Ticket not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get cancellations", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cancellations retrieved", records, nil)
}
