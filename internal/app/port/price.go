package port

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceProvider looks up USD prices. Rule logic depends only on this interface so the
// placeholder implementation can be swapped for a real oracle.
type PriceProvider interface {
	NativePriceUSD(ctx context.Context, symbol string) (decimal.Decimal, error)
}
