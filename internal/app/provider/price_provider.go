package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"clarity_engine/internal/app/port"
)

// DefaultNativePriceUSD is the placeholder ETH price used until a real oracle is wired in.
var DefaultNativePriceUSD = decimal.NewFromInt(2500)

type fixedPriceProvider struct {
	prices map[string]decimal.Decimal
	logger port.Logger
}

// NewFixedPriceProvider creates a PriceProvider that answers from a static symbol->USD table.
// Symbols are matched case-insensitively.
func NewFixedPriceProvider(prices map[string]decimal.Decimal, logger port.Logger) port.PriceProvider {
	normalized := make(map[string]decimal.Decimal, len(prices))
	for symbol, price := range prices {
		normalized[strings.ToUpper(symbol)] = price
	}
	return &fixedPriceProvider{prices: normalized, logger: logger}
}

// NativePriceUSD returns the configured price for symbol.
func (p *fixedPriceProvider) NativePriceUSD(_ context.Context, symbol string) (decimal.Decimal, error) {
	price, ok := p.prices[strings.ToUpper(symbol)]
	if !ok {
		p.logger.Warn("No fixed price configured", "symbol", symbol)
		return decimal.Zero, fmt.Errorf("no price configured for %s", symbol)
	}
	return price, nil
}
