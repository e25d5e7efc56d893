package service

import (
	"fmt"
	"math/big"
	"strings"

	"clarity_engine/internal/domain/entity"
	"clarity_engine/internal/pkg/utils"
)

const (
	defaultTokenDecimals = 18
	nativeDecimals       = 18
	defaultNativeSymbol  = "ETH"
	unknownSymbol        = "UNKNOWN"
	unknownSpender       = "an unknown address"

	noChangesSummary = "No native asset changes were detected in this transaction."
	noChangesWarning = "Transaction simulation completed but no asset changes were detected"
	providerWarning  = "Transaction simulation encountered an error"
	finiteApproveMsg = "Ensure you trust this site with access to your tokens."
	interpretFailMsg = "Failed to interpret simulation result"
)

// InterpretSimulation turns a raw predicted-changes list into one ClarityResult.
//
// Single-match policy: changes are scanned in order and the first one matching a recognized
// pattern is narrated; the rest are not reported. A provider error short-circuits before any
// change is looked at. Malformed amounts or any internal fault yield an isSuccess=false result.
func InterpretSimulation(resp entity.SimulationResponse, userAddress string) (result entity.ClarityResult) {
	defer func() {
		if r := recover(); r != nil {
			result = entity.NewFailedClarityResult(
				fmt.Sprintf("Simulation failed: %v", r), interpretFailMsg)
		}
	}()

	if resp.Error != nil {
		msg := resp.Error.Message
		if msg == "" {
			msg = "Unknown error"
		}
		return entity.NewFailedClarityResult("Simulation failed: "+msg, providerWarning)
	}

	for _, change := range resp.Changes {
		res, matched, err := classifyChange(change, userAddress)
		if err != nil {
			return entity.NewFailedClarityResult("Simulation failed: "+err.Error(), interpretFailMsg)
		}
		if matched {
			return res
		}
	}

	return entity.ClarityResult{
		IsSuccess:    true,
		Summary:      noChangesSummary,
		AssetChanges: []entity.NormalizedAssetChange{},
		Warnings:     []entity.Warning{{Severity: entity.SeverityInfo, Message: noChangesWarning}},
	}
}

func classifyChange(change entity.AssetChange, userAddress string) (entity.ClarityResult, bool, error) {
	switch {
	case change.AssetType == entity.AssetTypeNative && change.ChangeType == entity.ChangeTypeTransfer:
		return narrateNativeTransfer(change)
	case change.AssetType == entity.AssetTypeERC20 && change.ChangeType == entity.ChangeTypeApprove:
		return narrateApproval(change)
	case change.AssetType == entity.AssetTypeERC20 && change.ChangeType == entity.ChangeTypeTransfer:
		return narrateTokenTransfer(change, userAddress)
	default:
		return entity.ClarityResult{}, false, nil
	}
}

func narrateNativeTransfer(change entity.AssetChange) (entity.ClarityResult, bool, error) {
	amount, err := parseChangeAmount(change)
	if err != nil {
		return entity.ClarityResult{}, false, err
	}
	symbol := symbolOr(change.Symbol, defaultNativeSymbol)
	formatted := utils.FormatUnits(amount, nativeDecimals)

	return entity.ClarityResult{
		IsSuccess: true,
		Summary:   fmt.Sprintf("You are sending %s %s to %s.", formatted, symbol, change.To),
		AssetChanges: []entity.NormalizedAssetChange{{
			AssetType:  entity.AssetTypeNative,
			ChangeType: entity.DirectionSend,
			Symbol:     symbol,
			Amount:     formatted,
			From:       change.From,
			To:         change.To,
		}},
		Warnings: []entity.Warning{},
	}, true, nil
}

func narrateApproval(change entity.AssetChange) (entity.ClarityResult, bool, error) {
	amount, err := parseChangeAmount(change)
	if err != nil {
		return entity.ClarityResult{}, false, err
	}
	decimals, err := tokenDecimals(change)
	if err != nil {
		return entity.ClarityResult{}, false, err
	}
	symbol := symbolOr(change.Symbol, unknownSymbol)
	spender := spenderOf(change)

	if utils.IsMaxUint256(amount) {
		return entity.ClarityResult{
			IsSuccess:    true,
			Summary:      fmt.Sprintf("You are giving %s UNLIMITED permission to spend your %s.", spender, symbol),
			AssetChanges: []entity.NormalizedAssetChange{},
			Warnings: []entity.Warning{{
				Severity: entity.SeverityCritical,
				Message: fmt.Sprintf("This is a high-risk action. A malicious contract can withdraw all your %s at any time. "+
					"Only proceed if you absolutely trust this site.", symbol),
			}},
		}, true, nil
	}

	formatted := utils.FormatUnits(amount, decimals)
	return entity.ClarityResult{
		IsSuccess:    true,
		Summary:      fmt.Sprintf("You are giving %s permission to spend up to %s %s.", spender, formatted, symbol),
		AssetChanges: []entity.NormalizedAssetChange{},
		Warnings:     []entity.Warning{{Severity: entity.SeverityMedium, Message: finiteApproveMsg}},
	}, true, nil
}

func narrateTokenTransfer(change entity.AssetChange, userAddress string) (entity.ClarityResult, bool, error) {
	var direction entity.Direction
	switch {
	case sameAddress(change.From, userAddress):
		direction = entity.DirectionSend
	case sameAddress(change.To, userAddress):
		direction = entity.DirectionReceive
	default:
		// Neither side is the caller; keep scanning.
		return entity.ClarityResult{}, false, nil
	}

	amount, err := parseChangeAmount(change)
	if err != nil {
		return entity.ClarityResult{}, false, err
	}
	decimals, err := tokenDecimals(change)
	if err != nil {
		return entity.ClarityResult{}, false, err
	}
	symbol := symbolOr(change.Symbol, unknownSymbol)
	formatted := utils.FormatUnits(amount, decimals)

	summary := fmt.Sprintf("You are sending %s %s to %s.", formatted, symbol, change.To)
	if direction == entity.DirectionReceive {
		summary = fmt.Sprintf("You are receiving %s %s from %s.", formatted, symbol, change.From)
	}

	return entity.ClarityResult{
		IsSuccess: true,
		Summary:   summary,
		AssetChanges: []entity.NormalizedAssetChange{{
			AssetType:  entity.AssetTypeERC20,
			ChangeType: direction,
			Symbol:     symbol,
			Amount:     formatted,
			From:       change.From,
			To:         change.To,
		}},
		Warnings: []entity.Warning{},
	}, true, nil
}

func parseChangeAmount(change entity.AssetChange) (*big.Int, error) {
	amount, err := utils.ParseAmount(change.SmallestUnitAmount())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidAmount, err)
	}
	return amount, nil
}

// tokenDecimals returns the declared decimals, 18 when omitted. Values a uint8 cannot hold are rejected.
func tokenDecimals(change entity.AssetChange) (int, error) {
	decimals := change.DecimalsOr(defaultTokenDecimals)
	if err := utils.ValidateDecimals(decimals); err != nil {
		return 0, fmt.Errorf("%w: %v", entity.ErrInvalidAmount, err)
	}
	return decimals, nil
}

func sameAddress(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}

func symbolOr(symbol, fallback string) string {
	if symbol == "" {
		return fallback
	}
	return symbol
}

func spenderOf(change entity.AssetChange) string {
	switch {
	case change.Spender != "":
		return change.Spender
	case change.To != "":
		return change.To
	default:
		return unknownSpender
	}
}
