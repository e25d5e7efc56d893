package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity_engine/internal/domain/entity"
	"clarity_engine/internal/pkg/logger"
	"clarity_engine/internal/pkg/metrics"
)

var fixedNow = time.Date(2025, 7, 14, 9, 30, 0, 123_000_000, time.UTC)

func newTestRiskScanService(p fakePortfolio) *RiskScanServiceImpl {
	svc := NewRiskScanService(p, logger.NewNop(), metrics.New(prometheus.NewRegistry()),
		WithClock(func() time.Time { return fixedNow }))
	return svc.(*RiskScanServiceImpl)
}

func TestRiskScanService_Scan(t *testing.T) {
	snapshot := entity.PortfolioSnapshot{Apps: []entity.AppBalances{{
		AppID: "ethereum",
		Balances: []entity.PositionBalance{{
			Token:      entity.TokenRef{Symbol: "ETH"},
			BalanceUSD: usd("40"),
			Balance:    "0.016",
		}},
	}}}
	svc := newTestRiskScanService(fakePortfolio{snapshot: snapshot})

	res, err := svc.Scan(context.Background(), " 0xWallet ")
	require.NoError(t, err)

	assert.Equal(t, "0xWallet", res.WalletAddress)
	assert.True(t, res.TotalPortfolioValue.Equal(usd("40")))
	assert.Equal(t, fixedNow, res.ScanTimestamp)
	require.Len(t, res.RisksFound, 1)
	assert.Equal(t, entity.CategoryPortfolioSize, res.RisksFound[0].Category)
	assert.Contains(t, res.RisksFound[0].Message, "Small portfolio")
}

func TestRiskScanService_MissingAddress(t *testing.T) {
	svc := newTestRiskScanService(fakePortfolio{})

	_, err := svc.Scan(context.Background(), "  ")

	require.ErrorIs(t, err, entity.ErrMissingAddress)
}

func TestRiskScanService_SnapshotFailureDegradesToEmpty(t *testing.T) {
	svc := newTestRiskScanService(fakePortfolio{err: errors.New("zapper 503")})

	res, err := svc.Scan(context.Background(), "0xWallet")
	require.NoError(t, err)

	assert.True(t, res.TotalPortfolioValue.IsZero())
	require.Len(t, res.RisksFound, 1)
	assert.Contains(t, res.RisksFound[0].Message, "Empty wallet detected")
}

func TestRiskScanService_PanickingProviderDegradesToEmpty(t *testing.T) {
	svc := newTestRiskScanService(fakePortfolio{panics: true})

	res, err := svc.Scan(context.Background(), "0xWallet")
	require.NoError(t, err)

	assert.Equal(t, "0xWallet", res.WalletAddress)
	assert.True(t, res.TotalPortfolioValue.IsZero())
	assert.Equal(t, fixedNow, res.ScanTimestamp)
	require.Len(t, res.RisksFound, 1)
	assert.Contains(t, res.RisksFound[0].Message, "Empty wallet detected")
}

func TestRiskScanService_RepeatedScansMatch(t *testing.T) {
	b := balance("USDC", "900")
	b.HealthRatio = floatPtr(1.3)
	snapshot := entity.PortfolioSnapshot{Apps: []entity.AppBalances{
		{AppID: "aave-v3", Balances: []entity.PositionBalance{b}},
		{AppID: "ethereum", Balances: []entity.PositionBalance{balance("ETH", "400")}},
	}}

	calls := 0
	svc := NewRiskScanService(fakePortfolio{snapshot: snapshot}, logger.NewNop(), nil,
		WithClock(func() time.Time {
			calls++
			return fixedNow.Add(time.Duration(calls) * time.Minute)
		}))

	encode := func() []byte {
		res, err := svc.Scan(context.Background(), "0xWallet")
		require.NoError(t, err)
		res.ScanTimestamp = time.Time{}
		raw, err := json.Marshal(res)
		require.NoError(t, err)
		return raw
	}

	first := encode()
	second := encode()

	assert.Equal(t, 2, calls)
	assert.Equal(t, string(first), string(second))
}

func TestRiskScanResult_JSON(t *testing.T) {
	svc := newTestRiskScanService(fakePortfolio{snapshot: entity.PortfolioSnapshot{Apps: []entity.AppBalances{{
		AppID:    "ethereum",
		Balances: []entity.PositionBalance{balance("ETH", "250.5")},
	}}}})

	res, err := svc.Scan(context.Background(), "0xWallet")
	require.NoError(t, err)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "0xWallet", decoded["walletAddress"])
	assert.Equal(t, 250.5, decoded["totalPortfolioValue"])
	assert.Equal(t, "2025-07-14T09:30:00.123Z", decoded["scanTimestamp"])
	assert.Equal(t, []any{
		map[string]any{
			"severity": "MEDIUM",
			"message":  "Low diversification: Only 0.0% in stablecoins. Consider adding stable assets to reduce volatility.",
			"category": "Diversification",
		},
	}, decoded["risksFound"])
}
