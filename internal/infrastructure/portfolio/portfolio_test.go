package portfolio

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"clarity_engine/internal/app/port"
	"clarity_engine/internal/app/provider"
	"clarity_engine/internal/domain/entity"
	"clarity_engine/internal/pkg/logger"
)

const wallet = "0x1111111111111111111111111111111111111111"

func TestZapperClient_GetPortfolio(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrapped", `{"data":[{"appId":"aave-v3","network":"ethereum","balances":[
			{"token":{"symbol":"USDC","address":"0xa0b8"},"balanceUSD":1500.25,"balance":"1500.25","healthRatio":1.1}]}]}`},
		{"bare array", `[{"appId":"aave-v3","network":"ethereum","balances":[
			{"token":{"symbol":"USDC","address":"0xa0b8"},"balanceUSD":"1500.25","balance":1500.25,"healthRatio":1.1}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v2/balances/apps", r.URL.Path)
				assert.Equal(t, wallet, r.URL.Query().Get("addresses[]"))
				user, pass, ok := r.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "zap-key", user)
				assert.Empty(t, pass)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewZapperClient(srv.URL, "zap-key", 2*time.Second, zap.NewNop(), nil)
			snapshot, err := c.GetPortfolio(context.Background(), wallet)
			require.NoError(t, err)

			require.Len(t, snapshot.Apps, 1)
			app := snapshot.Apps[0]
			assert.Equal(t, "aave-v3", app.AppID)
			require.Len(t, app.Balances, 1)
			assert.Equal(t, "USDC", app.Balances[0].Token.Symbol)
			assert.True(t, app.Balances[0].BalanceUSD.Equal(decimal.RequireFromString("1500.25")))
			assert.Equal(t, "1500.25", app.Balances[0].Balance)
			require.NotNil(t, app.Balances[0].HealthRatio)
			assert.InDelta(t, 1.1, *app.Balances[0].HealthRatio, 1e-9)
		})
	}
}

func TestZapperClient_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewZapperClient(srv.URL, "zap-key", time.Second, zap.NewNop(), nil).GetPortfolio(context.Background(), wallet)
	assert.Error(t, err)

	_, err = NewZapperClient(srv.URL, "", time.Second, zap.NewNop(), nil).GetPortfolio(context.Background(), wallet)
	assert.ErrorIs(t, err, entity.ErrMissingCredentials)
}

type stubChain struct {
	balance *big.Int
	err     error
}

func (s stubChain) GetNativeBalance(context.Context, string) (*big.Int, error) {
	return s.balance, s.err
}

func (s stubChain) EstimateGas(context.Context, entity.TransferRequest) (uint64, error) {
	return 21000, nil
}

func (s stubChain) Definition() entity.NetworkDefinition {
	return entity.NetworkDefinition{}
}

type stubClients struct {
	chain port.ChainClient
}

func (s stubClients) GetClient(entity.NetworkDefinition) (port.ChainClient, error) {
	return s.chain, nil
}

var sepolia = entity.NetworkDefinition{Identifier: "sepolia", NativeSymbol: "ETH", Decimals: 18, PortfolioAppID: "ethereum"}

func TestRPCSnapshotProvider(t *testing.T) {
	balance, _ := new(big.Int).SetString("16000000000000000", 10) // 0.016 ETH
	prices := provider.NewFixedPriceProvider(map[string]decimal.Decimal{"ETH": provider.DefaultNativePriceUSD}, logger.NewNop())
	p := NewRPCSnapshotProvider(sepolia, stubClients{chain: stubChain{balance: balance}}, prices, logger.NewNop())

	snapshot, err := p.GetPortfolio(context.Background(), wallet)
	require.NoError(t, err)

	require.Len(t, snapshot.Apps, 1)
	assert.Equal(t, "ethereum", snapshot.Apps[0].AppID)
	require.Len(t, snapshot.Apps[0].Balances, 1)
	b := snapshot.Apps[0].Balances[0]
	assert.Equal(t, "ETH", b.Token.Symbol)
	assert.Equal(t, "0.016", b.Balance)
	assert.True(t, b.BalanceUSD.Equal(decimal.NewFromInt(40)))
	assert.True(t, snapshot.TotalValueUSD().Equal(decimal.NewFromInt(40)))
}

func TestRPCSnapshotProvider_BalanceFailure(t *testing.T) {
	prices := provider.NewFixedPriceProvider(nil, logger.NewNop())
	p := NewRPCSnapshotProvider(sepolia, stubClients{chain: stubChain{err: errors.New("rpc down")}}, prices, logger.NewNop())

	_, err := p.GetPortfolio(context.Background(), wallet)
	assert.ErrorContains(t, err, "rpc down")
}
