package inventory

import (
	"errors"
	"net/http"

	"railres/internal/shared/utils/response"
	"railres/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetAvailability handles GET /api/v1/inventory/:journeyId/:classId
func (c *Controller) GetAvailability(ctx *gin.Context) {
	journeyID, err := uuid.Parse(ctx.Param("journeyId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid journey ID", nil, err.Error())
		return
	}
	classID, err := uuid.Parse(ctx.Param("classId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid class ID", nil, err.Error())
		return
	}

	availability, err := c.service.GetAvailability(ctx.Request.Context(), journeyID, classID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidReference) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Unknown journey or class", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get availability", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability retrieved", availability, nil)
}
