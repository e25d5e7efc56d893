package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clarity_engine/internal/app/port"
	"clarity_engine/internal/app/service"
	"clarity_engine/internal/domain/entity"
)

// ErrorResponse is the plain error body used for rejected requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SimulateStatusResponse reports whether the simulate endpoint is configured.
type SimulateStatusResponse struct {
	Status       string `json:"status"`
	HasAPIKey    bool   `json:"hasApiKey"`
	APIKeyLength int    `json:"apiKeyLength"`
}

// SimulateHandler handles transaction simulation requests.
type SimulateHandler struct {
	simulationService port.SimulationService
	logger            port.Logger
}

// NewSimulateHandler creates a new instance of SimulateHandler.
func NewSimulateHandler(ss port.SimulationService, logger port.Logger) *SimulateHandler {
	return &SimulateHandler{
		simulationService: ss,
		logger:            logger,
	}
}

// SimulateTransactionHandler godoc
// @Summary Simulate a native transfer and explain it
// @Accept json
// @Produce json
// @Param request body entity.TransferRequest true "Transfer to simulate"
// @Success 200 {object} entity.ClarityResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} entity.ClarityResult
// @Router /api/simulate [post]
func (h *SimulateHandler) SimulateTransactionHandler(c *gin.Context) {
	var req entity.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid simulation request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.simulationService.Simulate(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case service.IsValidationError(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrMissingCredentials):
		c.JSON(http.StatusInternalServerError, result)
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, result)
	}
}

// SimulateStatusHandler godoc
// @Summary Report simulate endpoint configuration
// @Produce json
// @Success 200 {object} SimulateStatusResponse
// @Router /api/simulate [get]
func (h *SimulateHandler) SimulateStatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, SimulateStatusResponse{
		Status:       "API is working",
		HasAPIKey:    h.simulationService.CredentialsConfigured(),
		APIKeyLength: h.simulationService.APIKeyLength(),
	})
}
