package portfolio

import (
	"context"
	"fmt"

	"clarity_engine/internal/app/port"
	"clarity_engine/internal/domain/entity"
	"clarity_engine/internal/pkg/utils"
)

// RPCSnapshotProvider derives a single-entry snapshot from the wallet's native balance,
// valued with the configured price provider.
type RPCSnapshotProvider struct {
	network entity.NetworkDefinition
	clients port.ChainClientProvider
	prices  port.PriceProvider
	logger  port.Logger
}

// NewRPCSnapshotProvider creates a new instance of RPCSnapshotProvider.
func NewRPCSnapshotProvider(
	network entity.NetworkDefinition,
	clients port.ChainClientProvider,
	prices port.PriceProvider,
	logger port.Logger,
) *RPCSnapshotProvider {
	return &RPCSnapshotProvider{
		network: network,
		clients: clients,
		prices:  prices,
		logger:  logger,
	}
}

// GetPortfolio implements port.PortfolioProvider.
func (p *RPCSnapshotProvider) GetPortfolio(ctx context.Context, walletAddress string) (entity.PortfolioSnapshot, error) {
	chain, err := p.clients.GetClient(p.network)
	if err != nil {
		return entity.PortfolioSnapshot{}, fmt.Errorf("failed to get chain client for %s: %w", p.network.Identifier, err)
	}

	balance, err := chain.GetNativeBalance(ctx, walletAddress)
	if err != nil {
		return entity.PortfolioSnapshot{}, fmt.Errorf("failed to fetch native balance: %w", err)
	}

	price, err := p.prices.NativePriceUSD(ctx, p.network.NativeSymbol)
	if err != nil {
		return entity.PortfolioSnapshot{}, fmt.Errorf("failed to price %s: %w", p.network.NativeSymbol, err)
	}

	decimals := p.network.NativeDecimals()
	valueUSD := utils.CalculateValueUSD(balance, decimals, price)
	p.logger.Debug("Native balance valued",
		"wallet", walletAddress,
		"balance", utils.FormatUnits(balance, decimals),
		"price_usd", price.String(),
		"value_usd", valueUSD.String())

	appID := p.network.PortfolioAppID
	if appID == "" {
		appID = p.network.Identifier
	}

	return entity.PortfolioSnapshot{Apps: []entity.AppBalances{{
		AppID:   appID,
		Network: p.network.Identifier,
		Balances: []entity.PositionBalance{{
			Token:      entity.TokenRef{Symbol: p.network.NativeSymbol},
			BalanceUSD: valueUSD,
			Balance:    utils.ToDecimal(balance, decimals).String(),
		}},
	}}}, nil
}
