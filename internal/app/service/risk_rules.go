package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"clarity_engine/internal/domain/entity"
)

const (
	stablecoinUSDCSymbol = "USDC"
	stablecoinUSDTSymbol = "USDT"
	stablecoinDAISymbol  = "DAI"
	stablecoinFRAXSymbol = "FRAX"
	stablecoinBUSDSymbol = "BUSD"
)

var stablecoinSymbols = map[string]struct{}{
	stablecoinUSDCSymbol: {},
	stablecoinUSDTSymbol: {},
	stablecoinDAISymbol:  {},
	stablecoinFRAXSymbol: {},
	stablecoinBUSDSymbol: {},
}

var lendingAppIDs = map[string]struct{}{
	"aave-v2":  {},
	"aave-v3":  {},
	"compound": {},
}

const (
	criticalHealthRatio = 1.2
	elevatedHealthRatio = 1.5
)

var (
	diversificationMinValue = decimal.NewFromInt(100)
	emptyWalletValue        = decimal.NewFromInt(1)
	smallPortfolioValue     = decimal.NewFromInt(50)
	smartContractMinValue   = decimal.NewFromInt(1000)
	lowStablecoinRatio      = decimal.RequireFromString("0.10")
	highStablecoinRatio     = decimal.RequireFromString("0.80")
	hundred                 = decimal.NewFromInt(100)
)

// positionTotals is the aggregate view of a snapshot that the portfolio-wide rules grade.
type positionTotals struct {
	total       decimal.Decimal
	stablecoins decimal.Decimal
	hasLending  bool
}

// riskRule grades one aspect of a snapshot.
type riskRule func(snapshot entity.PortfolioSnapshot, totals positionTotals) []entity.Risk

var portfolioRules = []riskRule{
	liquidationRisks,
	diversificationRisks,
	portfolioSizeRisks,
	smartContractRisks,
}

// AnalyzePositions evaluates the portfolio rules against snapshot and returns the findings in
// rule order: liquidation, diversification, portfolio size, smart-contract exposure.
// A fault while evaluating keeps the findings gathered so far and appends an analysis-error finding.
func AnalyzePositions(snapshot entity.PortfolioSnapshot) []entity.Risk {
	return evaluateRules(snapshot, portfolioRules)
}

func evaluateRules(snapshot entity.PortfolioSnapshot, rules []riskRule) (risks []entity.Risk) {
	risks = make([]entity.Risk, 0, len(rules))

	defer func() {
		if r := recover(); r != nil {
			risks = append(risks, analysisErrorRisk)
		}
	}()

	totals := summarize(snapshot)
	for _, rule := range rules {
		risks = append(risks, rule(snapshot, totals)...)
	}
	return risks
}

var analysisErrorRisk = entity.Risk{
	Severity: entity.SeverityLow,
	Message:  "Unable to complete full risk analysis. Some data may be unavailable.",
	Category: entity.CategoryAnalysisError,
}

func summarize(snapshot entity.PortfolioSnapshot) positionTotals {
	totals := positionTotals{total: decimal.Zero, stablecoins: decimal.Zero}
	for _, app := range snapshot.Apps {
		if isLendingApp(app.AppID) && len(app.Balances) > 0 {
			totals.hasLending = true
		}
		for _, balance := range app.Balances {
			totals.total = totals.total.Add(balance.BalanceUSD)
			if isStablecoin(balance.Token.Symbol) {
				totals.stablecoins = totals.stablecoins.Add(balance.BalanceUSD)
			}
		}
	}
	return totals
}

func liquidationRisks(snapshot entity.PortfolioSnapshot, _ positionTotals) []entity.Risk {
	var risks []entity.Risk
	for _, app := range snapshot.Apps {
		if !isLendingApp(app.AppID) {
			continue
		}
		for _, balance := range app.Balances {
			if risk, ok := liquidationRisk(app.AppID, balance.HealthRatio); ok {
				risks = append(risks, risk)
			}
		}
	}
	return risks
}

func diversificationRisks(_ entity.PortfolioSnapshot, totals positionTotals) []entity.Risk {
	if !totals.total.GreaterThan(diversificationMinValue) {
		return nil
	}

	ratio := totals.stablecoins.Div(totals.total)
	percent := ratio.Mul(hundred).StringFixed(1)

	switch {
	case ratio.LessThan(lowStablecoinRatio):
		return []entity.Risk{{
			Severity: entity.SeverityMedium,
			Message: fmt.Sprintf("Low diversification: Only %s%% in stablecoins. "+
				"Consider adding stable assets to reduce volatility.", percent),
			Category: entity.CategoryDiversification,
		}}
	case ratio.GreaterThan(highStablecoinRatio):
		return []entity.Risk{{
			Severity: entity.SeverityLow,
			Message:  fmt.Sprintf("Very conservative portfolio: %s%% in stablecoins. Consider some growth assets.", percent),
			Category: entity.CategoryDiversification,
		}}
	}
	return nil
}

func portfolioSizeRisks(_ entity.PortfolioSnapshot, totals positionTotals) []entity.Risk {
	switch {
	case totals.total.LessThan(emptyWalletValue):
		return []entity.Risk{{
			Severity: entity.SeverityLow,
			Message:  "Empty wallet detected. Consider adding some ETH from a Sepolia faucet to start testing DeFi features.",
			Category: entity.CategoryPortfolioSize,
		}}
	case totals.total.LessThan(smallPortfolioValue):
		return []entity.Risk{{
			Severity: entity.SeverityLow,
			Message:  "Small portfolio detected. Consider dollar-cost averaging to build your position over time.",
			Category: entity.CategoryPortfolioSize,
		}}
	}
	return nil
}

func smartContractRisks(_ entity.PortfolioSnapshot, totals positionTotals) []entity.Risk {
	if !totals.hasLending || !totals.total.GreaterThan(smartContractMinValue) {
		return nil
	}
	return []entity.Risk{{
		Severity: entity.SeverityMedium,
		Message:  "Active DeFi positions detected. Monitor smart contract risks and consider position limits.",
		Category: entity.CategorySmartContract,
	}}
}

func isLendingApp(appID string) bool {
	_, ok := lendingAppIDs[strings.ToLower(appID)]
	return ok
}

func isStablecoin(symbol string) bool {
	_, ok := stablecoinSymbols[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}

// liquidationRisk grades a lending balance by health ratio. A missing or zero ratio is not graded.
func liquidationRisk(appID string, healthRatio *float64) (entity.Risk, bool) {
	if healthRatio == nil || *healthRatio == 0 {
		return entity.Risk{}, false
	}
	hr := *healthRatio

	switch {
	case hr < criticalHealthRatio:
		return entity.Risk{
			Severity: entity.SeverityCritical,
			Message:  fmt.Sprintf("High liquidation risk detected on %s! Health ratio: %.2f", appID, hr),
			Category: entity.CategoryLiquidation,
		}, true
	case hr < elevatedHealthRatio:
		return entity.Risk{
			Severity: entity.SeverityHigh,
			Message:  fmt.Sprintf("Moderate liquidation risk on %s. Health ratio: %.2f", appID, hr),
			Category: entity.CategoryLiquidation,
		}, true
	default:
		return entity.Risk{}, false
	}
}
