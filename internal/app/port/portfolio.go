package port

import (
	"context"

	"clarity_engine/internal/domain/entity"
)

// PortfolioProvider fetches the app/balance snapshot of a wallet.
type PortfolioProvider interface {
	GetPortfolio(ctx context.Context, walletAddress string) (entity.PortfolioSnapshot, error)
}

// RiskScanService runs the portfolio rule set for a wallet.
type RiskScanService interface {
	Scan(ctx context.Context, walletAddress string) (entity.RiskScanResult, error)
}
