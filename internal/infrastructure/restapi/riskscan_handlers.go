package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clarity_engine/internal/app/port"
	"clarity_engine/internal/domain/entity"
)

// RiskScanHandler handles wallet risk scan requests.
type RiskScanHandler struct {
	riskScanService port.RiskScanService
	logger          port.Logger
}

// NewRiskScanHandler creates a new instance of RiskScanHandler.
func NewRiskScanHandler(rs port.RiskScanService, logger port.Logger) *RiskScanHandler {
	return &RiskScanHandler{
		riskScanService: rs,
		logger:          logger,
	}
}

// GetRiskScanHandler godoc
// @Summary Scan a wallet for portfolio risks
// @Produce json
// @Param address query string true "Wallet address"
// @Success 200 {object} entity.RiskScanResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/risk-scan [get]
func (h *RiskScanHandler) GetRiskScanHandler(c *gin.Context) {
	address := c.Query("address")

	result, err := h.riskScanService.Scan(c.Request.Context(), address)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, entity.ErrMissingAddress):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: entity.ErrMissingAddress.Error()})
	default:
		h.logger.Error("Risk scan failed", "address", address, "error", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Risk scan failed", Details: err.Error()})
	}
}
