package entity

import (
	"github.com/shopspring/decimal"
)

// PortfolioSnapshot is the app/balance tree returned by a portfolio-aggregation provider.
type PortfolioSnapshot struct {
	Apps []AppBalances `json:"data"`
}

// AppBalances holds every balance a wallet has inside one app (protocol).
type AppBalances struct {
	AppID    string            `json:"appId"`
	Network  string            `json:"network,omitempty"`
	Balances []PositionBalance `json:"balances"`
}

// TokenRef identifies the token a balance is denominated in.
type TokenRef struct {
	Symbol  string `json:"symbol"`
	Address string `json:"address,omitempty"`
}

// PositionBalance is one balance entry. HealthRatio is only set by lending protocols.
type PositionBalance struct {
	Token       TokenRef        `json:"token"`
	BalanceUSD  decimal.Decimal `json:"balanceUSD"`
	Balance     string          `json:"balance,omitempty"`
	HealthRatio *float64        `json:"healthRatio,omitempty"`
}

// TotalValueUSD sums balanceUSD across every app and balance entry.
func (s PortfolioSnapshot) TotalValueUSD() decimal.Decimal {
	total := decimal.Zero
	for _, app := range s.Apps {
		for _, balance := range app.Balances {
			total = total.Add(balance.BalanceUSD)
		}
	}
	return total
}
