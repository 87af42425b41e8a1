package booking

import (
	"errors"
	"fmt"
	"net/http"

	"railres/internal/shared/utils/response"
	"railres/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateTicket handles POST /api/v1/tickets
func (c *Controller) CreateTicket(ctx *gin.Context) {
	var req CreateTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ticket, err := c.service.CreateTicket(ctx.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCapacityExceeded):
			// Sold out is permanent for this request, unlike transient
			// conflicts below, so it gets its own status and code.
			response.RespondJSON(ctx, "error", http.StatusConflict, "No availability on this journey and class", nil, "CAPACITY_EXCEEDED")
		case errors.Is(err, apperrors.ErrInvalidReference):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Unknown journey or class", nil, err.Error())
		case errors.Is(err, apperrors.ErrJourneyDeparted):
			response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Journey has already departed", nil, err.Error())
		case errors.Is(err, apperrors.ErrInvalidPassenger):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid passenger details", nil, err.Error())
		case errors.Is(err, apperrors.ErrConcurrencyConflict):
			response.RespondJSON(ctx, "error", http.StatusServiceUnavailable, "Booking is contended, please retry", nil, "RETRY")
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create ticket", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Ticket booked", ticket, nil)
}

// GetTicket handles GET /api/v1/tickets/:pnr
func (c *Controller) GetTicket(ctx *gin.Context) {
	ticket, err := c.service.GetTicket(ctx.Request.Context(), ctx.Param("pnr"))
	if err != nil {
		if errors.Is(err, apperrors.ErrTicketNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Ticket not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get ticket", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Ticket retrieved", ticket, nil)
}

// GetItemizedBill handles GET /api/v1/tickets/:pnr/bill
func (c *Controller) GetItemizedBill(ctx *gin.Context) {
	bill, err := c.service.GetItemizedBill(ctx.Request.Context(), ctx.Param("pnr"))
	if err != nil {
		if errors.Is(err, apperrors.ErrTicketNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Ticket not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to compute bill", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bill computed", bill, nil)
}

// GetBillPDF handles GET /api/v1/tickets/:pnr/bill.pdf
func (c *Controller) GetBillPDF(ctx *gin.Context) {
	pnr := ctx.Param("pnr")
	pdfBytes, err := c.service.GetBillPDF(ctx.Request.Context(), pnr)
	if err != nil {
		if errors.Is(err, apperrors.ErrTicketNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Ticket not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to render bill", nil, err.Error())
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=bill-%s.pdf", pnr))
	ctx.Data(http.StatusOK, "application/pdf", pdfBytes)
}
