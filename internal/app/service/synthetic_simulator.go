package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"clarity_engine/internal/app/port"
	"clarity_engine/internal/domain/entity"
	"clarity_engine/internal/pkg/utils"
)

// DefaultTransferGas is reported when gas estimation fails.
const DefaultTransferGas uint64 = 21000

var (
	significantSendThreshold = decimal.RequireFromString("0.1")
	noticeableSendThreshold  = decimal.RequireFromString("0.01")
)

// SyntheticSimulator builds a predicted-changes list for a plain native transfer from a balance
// query and a best-effort gas estimate, for when no simulation endpoint is available.
type SyntheticSimulator struct {
	chain  port.ChainClient
	logger port.Logger
}

// balanceCheckError marks a failed sender balance query, which aborts the synthetic path.
type balanceCheckError struct {
	err error
}

func (e *balanceCheckError) Error() string {
	return "failed to check account balance: " + e.err.Error()
}

func (e *balanceCheckError) Unwrap() error {
	return e.err
}

// NewSyntheticSimulator creates a SyntheticSimulator on top of chain.
func NewSyntheticSimulator(chain port.ChainClient, log port.Logger) *SyntheticSimulator {
	return &SyntheticSimulator{chain: chain, logger: log}
}

// Simulate checks the sender balance, estimates gas and returns a single NATIVE TRANSFER change.
// A failed balance query aborts the simulation; a failed gas estimate only adds a warning.
func (s *SyntheticSimulator) Simulate(ctx context.Context, req entity.TransferRequest) (entity.SimulationResponse, error) {
	value, err := utils.ParseAmount(req.Value)
	if err != nil {
		return entity.SimulationResponse{}, fmt.Errorf("%w: %v", entity.ErrInvalidAmount, err)
	}

	balance, err := s.chain.GetNativeBalance(ctx, req.From)
	if err != nil {
		return entity.SimulationResponse{}, &balanceCheckError{err: err}
	}

	def := s.chain.Definition()
	symbol := symbolOr(def.NativeSymbol, defaultNativeSymbol)
	decimals := def.NativeDecimals()

	s.logger.Debug("Balance retrieved",
		"address", req.From,
		"balance", utils.FormatUnits(balance, decimals),
		"sending", utils.FormatUnits(value, decimals))

	warnings := make([]entity.Warning, 0, 2)

	gasUsed := DefaultTransferGas
	if estimate, gasErr := s.chain.EstimateGas(ctx, req); gasErr != nil {
		s.logger.Warn("Gas estimation failed, using default", "error", gasErr, "default", DefaultTransferGas)
		warnings = append(warnings, entity.Warning{
			Severity: entity.SeverityMedium,
			Message:  "Could not estimate gas precisely. Using standard estimate.",
		})
	} else {
		gasUsed = estimate
	}

	hasEnough := balance.Cmp(value) >= 0
	if w, ok := balanceWarning(hasEnough, utils.ToDecimal(balance, decimals), utils.ToDecimal(value, decimals), symbol); ok {
		warnings = append(warnings, w)
	}

	return entity.SimulationResponse{
		Changes: []entity.AssetChange{{
			AssetType:  entity.AssetTypeNative,
			ChangeType: entity.ChangeTypeTransfer,
			From:       req.From,
			To:         req.To,
			Amount:     req.Value,
			Symbol:     symbol,
			Decimals:   &decimals,
		}},
		GasUsed:  strconv.FormatUint(gasUsed, 10),
		IsValid:  hasEnough,
		Warnings: warnings,
	}, nil
}

// balanceWarning applies the mutually exclusive sufficiency bands in priority order.
func balanceWarning(hasEnough bool, balance, sending decimal.Decimal, symbol string) (entity.Warning, bool) {
	switch {
	case !hasEnough:
		return entity.Warning{
			Severity: entity.SeverityCritical,
			Message: fmt.Sprintf("Insufficient balance. You have %s %s but trying to send %s %s.",
				balance.StringFixed(4), symbol, sending.StringFixed(4), symbol),
		}, true
	case sending.GreaterThan(significantSendThreshold):
		return entity.Warning{
			Severity: entity.SeverityHigh,
			Message: fmt.Sprintf("You are sending %s %s. This is a significant amount - please verify the recipient address.",
				sending.StringFixed(4), symbol),
		}, true
	case sending.GreaterThan(noticeableSendThreshold):
		return entity.Warning{
			Severity: entity.SeverityMedium,
			Message:  "Double-check the recipient address before confirming this transaction.",
		}, true
	default:
		return entity.Warning{}, false
	}
}
