package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a smallest-unit amount given as a decimal or 0x-prefixed hex string.
// Values must fit into 256 bits and must not be negative.
func ParseAmount(raw string) (*big.Int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	v, ok := math.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("amount %q is not a valid 256-bit integer", raw)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("amount %q is negative", raw)
	}
	return v, nil
}

// IsMaxUint256 reports whether v equals 2^256 - 1, the "unlimited" allowance sentinel.
func IsMaxUint256(v *big.Int) bool {
	return v != nil && v.Cmp(math.MaxBig256) == 0
}

// MaxDecimals is the largest decimals value an ERC20 token can declare.
const MaxDecimals = 255

// ValidateDecimals rejects decimals outside 0..MaxDecimals.
func ValidateDecimals(decimals int) error {
	if decimals < 0 || decimals > MaxDecimals {
		return fmt.Errorf("decimals %d out of range 0..%d", decimals, MaxDecimals)
	}
	return nil
}

// FormatUnits converts a smallest-unit integer into a decimal string.
// The fraction always keeps at least one digit and trailing zeros are trimmed:
// 10000000 with 6 decimals => "10.0", 1234500000000000000 with 18 decimals => "1.2345".
// decimals is clamped to 0..MaxDecimals; untrusted values go through ValidateDecimals first.
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0.0"
	}
	decimals = min(max(decimals, 0), MaxDecimals)

	negative := amount.Sign() < 0
	digits := new(big.Int).Abs(amount).String()
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}

	intPart := digits[:len(digits)-decimals]
	fracPart := strings.TrimRight(digits[len(digits)-decimals:], "0")
	if fracPart == "" {
		fracPart = "0"
	}

	formatted := intPart + "." + fracPart
	if negative {
		formatted = "-" + formatted
	}
	return formatted
}

// ToDecimal converts a smallest-unit integer into an exact decimal value.
func ToDecimal(amount *big.Int, decimals int) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, int32(-decimals))
}

// CalculateValueUSD returns amount (in smallest units) times a unit price.
func CalculateValueUSD(amount *big.Int, decimals int, priceUSD decimal.Decimal) decimal.Decimal {
	return ToDecimal(amount, decimals).Mul(priceUSD)
}
