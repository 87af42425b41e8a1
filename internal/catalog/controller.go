package catalog

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

// CreateStation handles POST /api/v1/catalog/stations
func (c *Controller) CreateStation(ctx *gin.Context) {
	var req CreateStationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	station, err := c.service.CreateStation(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to create station", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Station created", station, nil)
}

// ListStations handles GET /api/v1/catalog/stations
func (c *Controller) ListStations(ctx *gin.Context) {
	stations, err := c.service.ListStations(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list stations", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Stations retrieved", stations, nil)
}

// CreateTrain handles POST /api/v1/catalog/trains
func (c *Controller) CreateTrain(ctx *gin.Context) {
	var req CreateTrainRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	train, err := c.service.CreateTrain(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to create train", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Train created", train, nil)
}

// ListTrains handles GET /api/v1/catalog/trains
func (c *Controller) ListTrains(ctx *gin.Context) {
	trains, err := c.service.ListTrains(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list trains", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Trains retrieved", trains, nil)
}

// CreateJourney handles POST /api/v1/catalog/journeys
func (c *Controller) CreateJourney(ctx *gin.Context) {
	var req CreateJourneyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	journey, err := c.service.CreateJourney(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidReference) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Unknown train or station", nil, err.Error())
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create journey", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Journey created", journey, nil)
}

// GetJourney handles GET /api/v1/catalog/journeys/:id
func (c *Controller) GetJourney(ctx *gin.Context) {
	journeyID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid journey ID", nil, err.Error())
		return
	}

	journey, err := c.service.GetJourney(ctx.Request.Context(), journeyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidReference) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Journey not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get journey", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Journey retrieved", journey, nil)
}

// SearchJourneys handles GET /api/v1/catalog/journeys?source=X&dest=Y&date=YYYY-MM-DD
func (c *Controller) SearchJourneys(ctx *gin.Context) {
	source := ctx.Query("source")
	dest := ctx.Query("dest")
	if source == "" || dest == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "source and dest query parameters are required", nil, nil)
		return
	}

	journeys, err := c.service.SearchJourneys(ctx.Request.Context(), source, dest, ctx.Query("date"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to search journeys", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Journeys retrieved", journeys, nil)
}
