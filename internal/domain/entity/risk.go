package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RiskCategory groups findings by the rule that produced them.
type RiskCategory string

const (
	CategoryLiquidation     RiskCategory = "Liquidation Risk"
	CategoryDiversification RiskCategory = "Diversification"
	CategoryPortfolioSize   RiskCategory = "Portfolio Size"
	CategorySmartContract   RiskCategory = "Smart Contract Risk"
	CategoryAnalysisError   RiskCategory = "Analysis Error"
)

// Risk is a single finding from the rule engine.
type Risk struct {
	Severity Severity     `json:"severity"`
	Message  string       `json:"message"`
	Category RiskCategory `json:"category"`
}

// RiskScanResult is the report for one wallet. RisksFound keeps rule-evaluation order.
type RiskScanResult struct {
	WalletAddress       string          `json:"walletAddress"`
	TotalPortfolioValue decimal.Decimal `json:"totalPortfolioValue"`
	RisksFound          []Risk          `json:"risksFound"`
	ScanTimestamp       time.Time       `json:"scanTimestamp"`
}

const scanTimestampLayout = "2006-01-02T15:04:05.000Z"

// MarshalJSON renders the portfolio value as a JSON number and the timestamp in UTC with
// millisecond precision, which is what the UI renderer parses.
func (r RiskScanResult) MarshalJSON() ([]byte, error) {
	type plain RiskScanResult
	risks := r.RisksFound
	if risks == nil {
		risks = []Risk{}
	}
	return json.Marshal(struct {
		plain
		TotalPortfolioValue json.Number `json:"totalPortfolioValue"`
		RisksFound          []Risk      `json:"risksFound"`
		ScanTimestamp       string      `json:"scanTimestamp"`
	}{
		plain:               plain(r),
		TotalPortfolioValue: json.Number(r.TotalPortfolioValue.String()),
		RisksFound:          risks,
		ScanTimestamp:       r.ScanTimestamp.UTC().Format(scanTimestampLayout),
	})
}
